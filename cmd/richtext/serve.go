package main

import (
	"fmt"
	"log/slog"

	richtexthttp "github.com/remarkablejames/richtext/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := richtexthttp.NewServer(logger)
	server.ArticleService = deps.Articles
	server.Previewer = deps.Previewer
	server.Paywall = deps.Config.Paywall
	server.Limiter = deps.Limiter

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", addr)
	if err := server.ListenAndServe(deps.Ctx, addr); err != nil {
		return deps.fail(err)
	}
	return nil
}
