package entity

import "context"

// Logger specifies a contextual, structured logger.
type Logger interface {
	Info(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, err error, kv ...any)
}

// Quiet is a Logger that drops everything.
// Handy when a component is used headless or under test.
type Quiet struct{}

func (Quiet) Info(ctx context.Context, msg string, kv ...any) {}

func (Quiet) Error(ctx context.Context, msg string, err error, kv ...any) {}
