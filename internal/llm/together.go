package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// defaultTogetherBaseURL is Together's OpenAI-compatible endpoint.
const defaultTogetherBaseURL = "https://api.together.xyz/v1"

// Together is an LLM client for Together's OpenAI-compatible chat API.
type Together struct {
	client *openai.Client
	model  string
}

// NewTogether creates a new Together client. baseURL may be empty, in which
// case the public Together endpoint is used.
func NewTogether(model, apiKey, baseURL string) (*Together, error) {
	if model == "" {
		return nil, fmt.Errorf("no model configured for together provider")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultTogetherBaseURL
	}
	cfg.BaseURL = baseURL
	return &Together{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Chat performs one chat completion round.
func (t *Together) Chat(ctx context.Context, req *ChatRequest) (Reply, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: &req.Temperature,
	}
	if len(req.Tools) > 0 {
		openaiReq.Tools = toOpenAITools(req.Tools)
	}

	resp, err := t.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, classify(err, apiErr.HTTPStatusCode)
		}
		return nil, classify(err, 0)
	}

	if len(resp.Choices) == 0 {
		return nil, malformed("completion response contains no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		first := msg.ToolCalls[0]
		return &ToolCallReply{
			CallID: first.ID,
			Name:   first.Function.Name,
			Text:   msg.Content,
		}, nil
	}
	return &TextReply{Text: msg.Content}, nil
}

// toOpenAIMessages converts internal messages to the OpenAI wire format.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		switch {
		case m.Role == RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				Name:       m.ToolName,
				ToolCallID: m.ToolCallID,
			})
		case m.Role == RoleAssistant && m.ToolCallID != "":
			// Echo of a prior tool invocation so the follow-up round is a
			// well-formed assistant/tool exchange.
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
				ToolCalls: []openai.ToolCall{{
					ID:   m.ToolCallID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      m.ToolName,
						Arguments: "{}",
					},
				}},
			})
		default:
			out = append(out, openai.ChatCompletionMessage{
				Role:    string(m.Role),
				Content: m.Content,
			})
		}
	}
	return out
}

// toOpenAITools converts tool declarations to the OpenAI function schema.
func toOpenAITools(tools []Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
			},
		})
	}
	return out
}

// compile-time check to ensure Together implements the LLM interface
var _ LLM = (*Together)(nil)
