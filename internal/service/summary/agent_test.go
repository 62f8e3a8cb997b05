package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func reply(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: text}}},
	}
}

func isSummarize(req openai.ChatCompletionRequest) bool {
	return strings.HasPrefix(req.Messages[1].Content, "Summarize this content:")
}

func TestAgent_Run_Success(t *testing.T) {
	client := new(MockChatCompleter)

	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return isSummarize(req) && strings.HasSuffix(req.Messages[1].Content, "first chunk")
	})).Return(reply("summary one"), nil).Once()

	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return isSummarize(req) && strings.HasSuffix(req.Messages[1].Content, "second chunk")
	})).Return(reply("summary two"), nil).Once()

	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return !isSummarize(req)
	})).Return(reply("Once upon a time..."), nil).Once()

	agent := NewAgent(client, "", nil)
	narrative, err := agent.Run(context.Background(), []string{"first chunk", "second chunk"})

	require.NoError(t, err)
	assert.Equal(t, "Once upon a time...", narrative)
	client.AssertExpectations(t)

	// the narrative step sees all summaries, newline separated
	last := client.Calls[2].Arguments.Get(1).(openai.ChatCompletionRequest)
	assert.Equal(t, "Create a cohesive narrative from these summaries:\n\nsummary one\nsummary two", last.Messages[1].Content)
	assert.Equal(t, 500, last.MaxTokens)
	assert.Equal(t, float32(0.8), last.Temperature)
	assert.Equal(t, openai.GPT4o, last.Model)

	first := client.Calls[0].Arguments.Get(1).(openai.ChatCompletionRequest)
	assert.Equal(t, 150, first.MaxTokens)
	assert.Equal(t, float32(0.7), first.Temperature)
	assert.Equal(t, openai.ChatMessageRoleSystem, first.Messages[0].Role)
}

func TestAgent_Run_InvalidChunks(t *testing.T) {
	client := new(MockChatCompleter)
	agent := NewAgent(client, "gpt-4o", nil)

	_, err := agent.Run(context.Background(), nil)
	assert.Equal(t, ErrInvalidChunks, err)

	_, err = agent.Run(context.Background(), []string{"ok", "   "})
	assert.Equal(t, ErrInvalidChunks, err)

	client.AssertNotCalled(t, "CreateChatCompletion")
}

func TestAgent_Run_StepErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *MockChatCompleter)
	}{
		{
			name: "summarize fails",
			setup: func(c *MockChatCompleter) {
				c.On("CreateChatCompletion", mock.Anything, mock.Anything).
					Return(openai.ChatCompletionResponse{}, errors.New("rate limited"))
			},
		},
		{
			name: "narrative returns no choices",
			setup: func(c *MockChatCompleter) {
				c.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(isSummarize)).
					Return(reply("summary"), nil)
				c.On("CreateChatCompletion", mock.Anything, mock.Anything).
					Return(openai.ChatCompletionResponse{}, nil)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := new(MockChatCompleter)
			tc.setup(client)

			_, err := NewAgent(client, "", nil).Run(context.Background(), []string{"chunk"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to execute summary agent")
		})
	}
}
