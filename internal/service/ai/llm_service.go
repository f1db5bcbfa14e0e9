package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/fappie/backend/internal/analysis/response"
	"github.com/fappie/backend/internal/config"
	"github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/pkg/logger"
)

var (
	ErrNoMessages   = errors.New("messages are required")
	ErrNoTranscript = errors.New("transcript is required")
	ErrInvalidRole  = errors.New("message role must be user or assistant")
)

// Service turns a conversation or a transcript into a reply.
type Service struct {
	structured bool
	chain      compose.Runnable[map[string]any, *schema.Message]
}

// NewChatModel creates the chat model of the configured provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		return cfg.NewArkChatModel(ctx)
	default:
		return NewAnthropicChatModel(AnthropicOptions{
			APIKey:      cfg.Anthropic.APIKey,
			Model:       cfg.Anthropic.Model,
			BaseURL:     cfg.Anthropic.BaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	}
}

// NewService compiles the generation chain around chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel, output config.OutputFormat) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", false),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{
		structured: output != config.OutputPlain,
		chain:      runnable,
	}, nil
}

// Structured reports whether replies carry title/body/chat.
func (s *Service) Structured() bool {
	return s.structured
}

// Generate runs one generation call. Structured deployments always return a
// structured reply: text the parser cannot read becomes the body.
func (s *Service) Generate(ctx context.Context, req conversation.GenerateRequest) (conversation.Reply, error) {
	history, err := buildHistory(req)
	if err != nil {
		return conversation.Reply{}, err
	}

	input := map[string]any{
		"system":  SystemPrompt(req.Mode, s.structured),
		"history": history,
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return conversation.Reply{}, fmt.Errorf("failed to run generation chain: %w", err)
	}
	if msg == nil {
		return conversation.Reply{}, fmt.Errorf("generation chain returned no message")
	}

	logger.Infof("[ai] generated reply mode=%s turns=%d length=%d", req.Mode, len(history), len(msg.Content))

	if !s.structured {
		return conversation.Reply{Text: msg.Content}, nil
	}

	parsed := response.Parse(msg.Content)
	return conversation.Reply{
		Title:      parsed.Title,
		Body:       parsed.Body,
		Chat:       parsed.Chat,
		Structured: true,
	}, nil
}

func buildHistory(req conversation.GenerateRequest) ([]*schema.Message, error) {
	if req.IsTranscript() {
		if strings.TrimSpace(req.Transcript) == "" {
			return nil, ErrNoTranscript
		}
		return []*schema.Message{schema.UserMessage(conversation.TranscriptMessage(req.Transcript, req.Notes))}, nil
	}

	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	history := make([]*schema.Message, 0, len(req.Messages))
	for _, turn := range req.Messages {
		switch turn.Role {
		case conversation.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case conversation.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, turn.Role)
		}
	}
	return history, nil
}
