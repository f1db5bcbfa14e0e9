package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fappie/backend/pkg/logger"
)

var errEmptyContent = errors.New("anthropic returned no text content")

// AnthropicOptions configures the Anthropic chat model.
type AnthropicOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature *float64
	// MaxRetries overrides the SDK default when set.
	MaxRetries *int
	HTTPClient *http.Client
}

// AnthropicChatModel adapts the Anthropic Messages API to eino's ChatModel.
type AnthropicChatModel struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature *float64
}

var _ model.ChatModel = (*AnthropicChatModel)(nil)

// NewAnthropicChatModel creates the adapter; it does not contact the API.
func NewAnthropicChatModel(opts AnthropicOptions) (*AnthropicChatModel, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("anthropic model not configured")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.MaxRetries != nil {
		clientOpts = append(clientOpts, option.WithMaxRetries(*opts.MaxRetries))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &AnthropicChatModel{
		client:      anthropic.NewClient(clientOpts...),
		model:       opts.Model,
		maxTokens:   maxTokens,
		temperature: opts.Temperature,
	}, nil
}

// Generate sends the conversation in one Messages request.
func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	params, err := m.buildParams(input, opts...)
	if err != nil {
		return nil, err
	}

	logger.Debugf("[ai] anthropic request model=%s messages=%d", params.Model, len(params.Messages))
	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, errEmptyContent
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: content.String(),
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(message.StopReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(message.Usage.InputTokens),
				CompletionTokens: int(message.Usage.OutputTokens),
				TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
			},
		},
	}, nil
}

// Stream returns the complete answer as a single chunk.
func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools is not supported; the tool never asks the model to call tools.
func (m *AnthropicChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) == 0 {
		return nil
	}
	return fmt.Errorf("anthropic chat model: tool calling not supported")
}

func (m *AnthropicChatModel) buildParams(input []*schema.Message, opts ...model.Option) (anthropic.MessageNewParams, error) {
	modelName := m.model
	maxTokens := m.maxTokens
	common := model.GetCommonOptions(&model.Options{Model: &modelName, MaxTokens: &maxTokens}, opts...)

	messages, system := convertMessages(input)
	if len(messages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("anthropic chat model: no user or assistant messages")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(*common.Model),
		MaxTokens: int64(*common.MaxTokens),
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	switch {
	case common.Temperature != nil:
		params.Temperature = anthropic.Float(float64(*common.Temperature))
	case m.temperature != nil:
		params.Temperature = anthropic.Float(*m.temperature)
	}
	if common.TopP != nil {
		params.TopP = anthropic.Float(float64(*common.TopP))
	}
	if len(common.Stop) > 0 {
		params.StopSequences = common.Stop
	}

	return params, nil
}

// convertMessages splits system instructions from the turn list.
func convertMessages(input []*schema.Message) ([]anthropic.MessageParam, string) {
	messages := make([]anthropic.MessageParam, 0, len(input))
	var system []string

	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.User:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case schema.Assistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return messages, strings.Join(system, "\n\n")
}
