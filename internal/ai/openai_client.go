package ai

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

var _ Answerer = (*OpenAIClient)(nil)

func NewOpenAIClient(log *zap.Logger) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}, nil
}

// Answer asks for a single completion of the question, as-is. An empty
// choice list is not an error here; the caller decides what to say instead.
func (c *OpenAIClient) Answer(ctx context.Context, question string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		c.log.Warn("completion request failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("completion returned no choices")
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
