package ai

import "context"

// Client is the multimodal inference port: one image plus one prompt in,
// free-text report out.
type Client interface {
	Analyze(ctx context.Context, imagePath, prompt string) (string, error)
}
