package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrInvalidChunks = errors.New("chunks must be a non-empty list of strings")
	ErrEmptyResponse = errors.New("no response from model")
)

const (
	summarizeSystemPrompt = "You are an expert assistant who summarizes content concisely and clearly for the targeted audience."
	narrativeSystemPrompt = "You are an expert assistant that transforms summaries into an engaging, human-friendly narrative for non-expert readers. Use clear language, logical transitions, and avoid unnecessary jargon."
)

// ChatCompleter is the part of the OpenAI client the agent needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// state is passed between the workflow steps
type state struct {
	Chunks          []string
	Summaries       []string
	NarrativeScript string
}

type step struct {
	name string
	run  func(ctx context.Context, s *state) error
}

// Agent summarizes document chunks and rewrites the summaries as a narrative
type Agent struct {
	client ChatCompleter
	model  string
	logger *slog.Logger
}

// NewAgent creates a summary agent using the given chat model
func NewAgent(client ChatCompleter, model string, logger *slog.Logger) *Agent {
	if model == "" {
		model = openai.GPT4o
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{client: client, model: model, logger: logger}
}

// Run executes summarize -> narrate over the chunks and returns the narrative script
func (a *Agent) Run(ctx context.Context, chunks []string) (string, error) {
	if len(chunks) == 0 {
		a.logger.Error("invalid or empty chunks provided")
		return "", ErrInvalidChunks
	}
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			a.logger.Error("invalid or empty chunks provided")
			return "", ErrInvalidChunks
		}
	}

	steps := []step{
		{name: "summarize_chunks", run: a.summarizeChunks},
		{name: "generate_narrative", run: a.generateNarrative},
	}

	s := &state{Chunks: chunks}
	for _, st := range steps {
		if err := st.run(ctx, s); err != nil {
			a.logger.Error("summary step failed", "step", st.name, "error", err)
			return "", fmt.Errorf("failed to execute summary agent: %w", err)
		}
	}
	a.logger.Info("summary workflow completed", "chunks", len(chunks), "narrative_chars", len(s.NarrativeScript))
	return s.NarrativeScript, nil
}

func (a *Agent) summarizeChunks(ctx context.Context, s *state) error {
	summaries := make([]string, 0, len(s.Chunks))
	for _, chunk := range s.Chunks {
		text, err := a.complete(ctx, summarizeSystemPrompt, "Summarize this content:\n\n"+chunk, 150, 0.7)
		if err != nil {
			return fmt.Errorf("summarizing chunks: %w", err)
		}
		summaries = append(summaries, text)
	}
	a.logger.Info("summarized chunks", "count", len(summaries))
	s.Summaries = summaries
	return nil
}

func (a *Agent) generateNarrative(ctx context.Context, s *state) error {
	fullText := strings.Join(s.Summaries, "\n")
	text, err := a.complete(ctx, narrativeSystemPrompt, "Create a cohesive narrative from these summaries:\n\n"+fullText, 500, 0.8)
	if err != nil {
		return fmt.Errorf("generating narrative: %w", err)
	}
	s.NarrativeScript = text
	return nil
}

func (a *Agent) complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
