package ai

import "context"

// Answerer turns a correspondent's question into reply text. It knows
// nothing about the transport or the greeted store; failure containment
// (fallback replies) belongs to the dispatcher.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}
