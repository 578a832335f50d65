package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/remarkablejames/richtext"
)

// processRequest is the body of POST /api/paywall/process. A body without
// a "document" field is treated as the document itself.
type processRequest struct {
	Document json.RawMessage           `json:"document"`
	Config   richtext.PaywallOverrides `json:"config"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	var req processRequest
	if err := json.Unmarshal(body, &req); err != nil {
		Error(w, r, s.log, richtext.Errorf(richtext.EINVALID, "invalid JSON body"))
		return
	}
	raw := []byte(req.Document)
	if len(raw) == 0 {
		raw = body
	}

	doc, err := richtext.ParseDocument(raw)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	processed, err := richtext.ProcessPaywall(doc, s.Paywall.Merge(req.Config))
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, processed)
}

// handleCheck never fails on bad input: anything that is not a document
// simply has no separator.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"hasPaywall": richtext.HasPaywallSeparatorJSON(body),
	})
}

func (s *Server) handleFree(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	doc, err := richtext.ParseDocument(body)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	content, err := richtext.FreeContent(doc)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]*richtext.Node{"content": content})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, richtext.Errorf(richtext.EINVALID, "request body exceeds %d bytes", maxErr.Limit)
		}
		return nil, err
	}
	return body, nil
}
