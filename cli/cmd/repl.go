package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/formula/cli/cmd/repl"
	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/pkg"
)

// Repl starts an interactive shell.
type Repl struct {
	Doc Document `embed:""`

	History string `default:"${historyFile}" help:"History file" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	dc, err := r.Doc.open(ctx)
	if err != nil {
		return err
	}

	s := repl.NewSession(dc, log.Default())

	if err := pkg.MkdirAll(); err != nil {
		log.WarnContext(ctx, "history disabled", slog.Any("error", err))
	}

	return repl.Run(ctx, s, r.History, log.Default())
}
