package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aidbg/model"
)

// OpenAIProvider implements model.Provider using the official OpenAI Go SDK.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates an OpenAI provider. baseURL and model fall back
// to sensible defaults; the API key is required.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Chat implements model.Provider.Chat with a single non-streaming request.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.NormalizedMessage, systemPrompt string, tools []mcptypes.Tool) (*model.Response, error) {
	openaiMessages := convertToOpenAIMessages(messages)
	if systemPrompt != "" {
		openaiMessages = append(
			[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
			openaiMessages...,
		)
	}

	params := openai.ChatCompletionNewParams{
		Messages: openaiMessages,
		Model:    openai.ChatModel(p.model),
	}
	if len(tools) > 0 {
		params.Tools = convertToolsToOpenAIFormat(tools)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	choice := completion.Choices[0].Message
	resp := &model.Response{
		Text: choice.Content,
		Raw:  completion,
	}
	for _, tc := range choice.ToolCalls {
		resp.FunctionCalls = append(resp.FunctionCalls, model.FunctionCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: ParseToolArguments(tc.Function.Arguments),
		})
	}

	return resp, nil
}

// Ping implements model.Provider.Ping by listing models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

// convertToOpenAIMessages converts the normalized stream to OpenAI's shape:
// the assistant message carries its tool_calls, each followed by a tool
// message with the matching call id.
func convertToOpenAIMessages(messages []model.NormalizedMessage) []openai.ChatCompletionMessageParamUnion {
	turns := groupTurns(messages)
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))

	for _, t := range turns {
		if t.role == model.RoleUser {
			out = append(out, openai.UserMessage(t.content))
			continue
		}

		if len(t.pairs) == 0 {
			out = append(out, openai.AssistantMessage(t.content))
			continue
		}

		assistant := openai.ChatCompletionAssistantMessageParam{}
		if t.content != "" {
			assistant.Content.OfString = openai.String(t.content)
		}
		for _, p := range t.pairs {
			assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
				OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
					ID: p.id,
					Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
						Name:      p.name,
						Arguments: marshalJSON(p.args),
					},
				},
			})
		}
		out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		for _, p := range t.pairs {
			out = append(out, openai.ToolMessage(marshalJSON(pairResult(p)), p.id))
		}
	}

	return out
}
