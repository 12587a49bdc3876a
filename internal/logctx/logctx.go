// Package logctx decorates slog records with connection-scoped attributes
// carried on the context, so every log line emitted during a connection
// attempt names the endpoint and attempt without threading loggers around.
package logctx

import (
	"context"
	"log/slog"
)

type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if cd, ok := ctx.Value(connDataKey{}).(*ConnData); ok {
		r.AddAttrs(slog.Group("conn",
			slog.String("endpoint", cd.Endpoint),
			slog.String("attempt_id", cd.AttemptID),
		))
	}

	return h.Handler.Handle(ctx, r)
}

type connDataKey struct{}

type ConnData struct {
	Endpoint  string
	AttemptID string
}

func WithConnData(ctx context.Context, data *ConnData) context.Context {
	return context.WithValue(ctx, connDataKey{}, data)
}
