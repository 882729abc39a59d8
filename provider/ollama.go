package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"aidbg/model"
	"aidbg/ollama"
)

// OllamaProvider wraps the ollama.Client to implement model.Provider. It
// converts between the normalized conversation form and Ollama's API types.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates an Ollama provider. Empty baseURL and model fall
// back to the client's defaults (localhost, llama3.1).
func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Chat implements model.Provider.Chat with a single non-streaming request.
func (p *OllamaProvider) Chat(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error) {
	ollamaMessages := convertToOllamaMessages(messages)
	if systemPrompt != "" {
		ollamaMessages = append(
			[]api.Message{{Role: "system", Content: systemPrompt}},
			ollamaMessages...,
		)
	}

	var ollamaTools []api.Tool
	if len(tools) > 0 {
		ollamaTools = convertToolsToOllama(tools)
	}

	result, err := p.client.ChatWithTools(ctx, ollamaMessages, ollamaTools)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}

	resp := &model.Response{
		Text: result.Content,
		Raw:  result,
	}
	for _, call := range result.ToolCalls {
		// Ollama supplies no call ids; the engine synthesizes them
		resp.FunctionCalls = append(resp.FunctionCalls, model.FunctionCall{
			Name: call.Function.Name,
			Args: call.Function.Arguments,
		})
	}

	return resp, nil
}

// Ping implements model.Provider.Ping (direct passthrough).
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// convertToOllamaMessages converts the normalized stream to Ollama's shape:
// the assistant message carries its tool calls, each result following as a
// role "tool" message.
func convertToOllamaMessages(messages []model.NormalizedMessage) []api.Message {
	turns := groupTurns(messages)
	out := make([]api.Message, 0, len(turns))

	for _, t := range turns {
		if t.role == model.RoleUser {
			out = append(out, api.Message{Role: "user", Content: t.content})
			continue
		}

		msg := api.Message{Role: "assistant", Content: t.content}
		for _, p := range t.pairs {
			msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      p.name,
					Arguments: p.args,
				},
			})
		}
		out = append(out, msg)

		for _, p := range t.pairs {
			out = append(out, api.Message{
				Role:    "tool",
				Content: marshalJSON(pairResult(p)),
			})
		}
	}

	return out
}
