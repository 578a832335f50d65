// Package yaml loads richtext configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/remarkablejames/richtext"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the configuration at path over richtext.DefaultConfig.
// Keys absent from the file keep their default values. A missing file
// yields the defaults; unknown keys and malformed YAML fail with EINVALID.
func LoadConfig(path string) (richtext.Config, error) {
	cfg := richtext.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}

	if err := decode(data, &cfg); err != nil {
		return richtext.DefaultConfig(), richtext.Errorf(richtext.EINVALID, "parse config %s: %s", path, err)
	}
	if err := validate(cfg); err != nil {
		return richtext.DefaultConfig(), err
	}
	return cfg, nil
}

func decode(data []byte, cfg *richtext.Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func validate(cfg richtext.Config) error {
	if cfg.RateLimit < 0 {
		return richtext.Errorf(richtext.EINVALID, "rateLimit must not be negative")
	}
	if cfg.FetchRate < 0 {
		return richtext.Errorf(richtext.EINVALID, "fetchRate must not be negative")
	}
	if cfg.Concurrency < 0 {
		return richtext.Errorf(richtext.EINVALID, "concurrency must not be negative")
	}
	switch cfg.Extractor {
	case richtext.ExtractorTrafilatura, richtext.ExtractorReadability:
	default:
		return richtext.Errorf(richtext.EINVALID, "extractor must be %q or %q, got %q",
			richtext.ExtractorTrafilatura, richtext.ExtractorReadability, cfg.Extractor)
	}
	return nil
}
