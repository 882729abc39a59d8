package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"aidbg/model"
)

// AnthropicProvider implements model.Provider using the official Anthropic
// Go SDK.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	apiKey  string
}

// NewAnthropicProvider creates an Anthropic provider. baseURL and model fall
// back to sensible defaults; the API key is required.
func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var anthropicModel anthropic.Model
	if modelName == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Chat implements model.Provider.Chat with a single non-streaming request.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  convertToAnthropicMessages(messages),
		MaxTokens: 4096, // required by the Anthropic API
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	if len(tools) > 0 {
		params.Tools = convertToolsToAnthropicFormat(tools)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic request failed: %w", err)
	}

	resp := &model.Response{Raw: msg}
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			if resp.Text != "" {
				resp.Text += "\n"
			}
			resp.Text += variant.Text
		case anthropic.ToolUseBlock:
			var args map[string]any
			if err := json.Unmarshal(variant.Input, &args); err != nil {
				args = make(map[string]any)
			}
			resp.FunctionCalls = append(resp.FunctionCalls, model.FunctionCall{
				ID:   variant.ID,
				Name: variant.Name,
				Args: args,
			})
		}
	}

	return resp, nil
}

// Ping implements model.Provider.Ping with a minimal one-token request;
// Anthropic has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

// convertToAnthropicMessages converts the normalized stream to Anthropic's
// shape: an assistant message carries its tool_use blocks, followed by one
// user message carrying the matching tool_result blocks.
func convertToAnthropicMessages(messages []model.NormalizedMessage) []anthropic.MessageParam {
	turns := groupTurns(messages)
	out := make([]anthropic.MessageParam, 0, len(turns))

	for _, t := range turns {
		if t.role == model.RoleUser {
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.content)))
			continue
		}

		var blocks []anthropic.ContentBlockParamUnion
		if t.content != "" {
			blocks = append(blocks, anthropic.NewTextBlock(t.content))
		}
		for _, p := range t.pairs {
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{
					ID:    p.id,
					Name:  p.name,
					Input: p.args,
				},
			})
		}
		if len(blocks) == 0 {
			continue
		}
		out = append(out, anthropic.NewAssistantMessage(blocks...))

		if len(t.pairs) == 0 {
			continue
		}
		results := make([]anthropic.ContentBlockParamUnion, 0, len(t.pairs))
		for _, p := range t.pairs {
			results = append(results, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: p.id,
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: marshalJSON(pairResult(p))}},
					},
				},
			})
		}
		out = append(out, anthropic.NewUserMessage(results...))
	}

	return out
}
