package service

import "context"

// Provider is a single-turn completion backend. Implementations report a
// missing credential as a normal error so the caller can move down the chain.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}
