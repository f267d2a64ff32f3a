package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/metrics"
	"github.com/site-scout/backend/pkg/config"
	"github.com/site-scout/backend/pkg/logger"
)

// OpenAI talks to any OpenAI-compatible chat-completions endpoint; the
// default configuration points at the HuggingFace router.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAI(cfg config.LLMConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	logger.Info("LLM client initialized",
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("model", cfg.Model),
	)

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Answer(ctx context.Context, question, pageContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	systemPrompt := fmt.Sprintf(
		"You are a helpful assistant. Answer the user's question using only the website content provided below. "+
			"If the content does not contain the answer, say so.\n\nWEBSITE CONTEXT: %s",
		pageContext,
	)

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: question},
			},
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	metrics.LLMTokensUsed.WithLabelValues(o.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(o.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	logger.Debug("LLM completion generated",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: `Say "OK" if working.`},
			},
			MaxTokens: 5,
		},
	)
	if err != nil {
		return Status{
			Status:  StatusWarning,
			Details: fmt.Sprintf("inference API test failed: %v", err),
		}
	}

	return Status{
		Status:  StatusOK,
		Details: "inference API is accessible",
	}
}
