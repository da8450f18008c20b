package textgen

import "context"

// Provider generates free text from a prompt. Implementations wrap a
// third-party completion API; retry and formatting concerns stay inside
// the implementation.
type Provider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
