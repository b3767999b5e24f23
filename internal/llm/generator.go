// Package llm wraps the generative fallback: a chat-completion call against
// an OpenAI-compatible endpoint. The remote call is opaque (prompt in, answer
// out) and every failure mode is contained by the caller, never propagated to
// the user.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a customer support assistant. " +
	"Provide clear, complete, and helpful answers. " +
	"Include all relevant information from the FAQ or context. " +
	"Do NOT repeat or rephrase the user's question. Start directly with the answer. " +
	"Keep answers professional and easy to understand, concise but informative.\n" +
	"Rules you MUST follow:\n" +
	"- Be polite, respectful, and neutral.\n" +
	"- NEVER produce bullying, harassment, hate speech, threats, or offensive language.\n" +
	"- NEVER insult, mock, or judge the user.\n" +
	"- Answer ONLY using the provided FAQ data.\n" +
	"- If the question is inappropriate or unsafe, respond with a calm refusal.\n"

// Generator produces an answer for a query with recent conversation context.
type Generator interface {
	Generate(ctx context.Context, query string, contextLines []string) (string, error)
}

// Config holds client settings for the OpenAI-compatible endpoint.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAIGenerator calls a chat-completions endpoint with the full FAQ dump
// and the last two context lines inlined into the prompt.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	faqDump     string
}

// NewOpenAIGenerator creates a generator. faqDump is the serialized FAQ
// dataset included verbatim in every prompt.
func NewOpenAIGenerator(cfg Config, faqDump string) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		faqDump:     faqDump,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, query string, contextLines []string) (string, error) {
	if len(contextLines) > 2 {
		contextLines = contextLines[len(contextLines)-2:]
	}

	prompt := fmt.Sprintf("FAQ DATA:\n%s\n\nConversation context:\n%s\n\nUser question: %s",
		g.faqDump, strings.Join(contextLines, "\n"), query)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
