package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/eyeway/uxlens/internal/domain/ai"
	"github.com/eyeway/uxlens/internal/domain/analysis"
)

const maxTokens = 4096

type Client struct {
	*openai.Client
	Model  string
	Images analysis.ImageStore
}

// NewClient rejects construction without a credential so a misconfigured
// deployment dies at startup instead of on the first analysis.
func NewClient(apiKey, model string, images analysis.ImageStore) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domai.ErrMissingAPIKey
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, Images: images}, nil
}

// Analyze reads the stored screenshot, inlines it as a base64 data URI and
// submits a single multimodal chat completion. One attempt only; a remote
// failure is terminal for this analysis.
func (c *Client) Analyze(ctx context.Context, imagePath, prompt string) (string, error) {
	data, err := c.Images.Read(ctx, imagePath)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", imagePath, err)
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s",
		MimeFromPath(imagePath), base64.StdEncoding.EncodeToString(data))

	model := c.Model
	if model == "" {
		model = "gpt-4o"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", domai.ErrNoContent
	}

	return resp.Choices[0].Message.Content, nil
}

// MimeFromPath maps the file extension to an image MIME type. Unrecognized
// extensions fall back to image/png rather than failing; the provider is
// lenient enough that a wrong guess still usually decodes.
func MimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".png":
		return "image/png"
	default:
		return "image/png"
	}
}
