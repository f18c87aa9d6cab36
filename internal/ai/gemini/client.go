package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	Provider     = "gemini"
	DefaultModel = "gemini-1.5-flash"

	// maxQuotaDelay is the longest server-requested delay still worth retrying.
	maxQuotaDelay = 30 * time.Second
	logPreview    = 200
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return c.chats.Create(ctx, model, config, history)
}

// Generator sends chat requests to Gemini. It performs a single attempt per
// call; retries are layered on top with ai.WithRetry.
type Generator struct {
	chats  chatCreator
	model  string
	config *genai.GenerateContentConfig
	logger *zap.Logger
}

// Options tunes generation.
type Options struct {
	Model       string
	Temperature float32
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	var cfg *genai.GenerateContentConfig
	if opts.Temperature > 0 {
		cfg = &genai.GenerateContentConfig{Temperature: genai.Ptr(opts.Temperature)}
	}

	return &Generator{
		chats:  genaiChats{chats: client.Chats},
		model:  model,
		config: cfg,
		logger: logger.WithCommonFields(log, Provider, model),
	}, nil
}

// Complete replays the request history into a chat and sends the prompt.
func (g *Generator) Complete(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", fmt.Errorf("gemini generator is not initialized: %w", ai.ErrPermanent)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt must not be empty: %w", ai.ErrPermanent)
	}

	log := g.log()
	log.Debug("sending gemini request",
		zap.Int("history_turns", len(req.History)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, logPreview)),
	)

	chat, err := g.chats.Create(ctx, g.model, g.config, toContents(req.History))
	if err != nil {
		return "", fmt.Errorf("create chat: %w", classify(err))
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("send message: %w", classify(err))
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	log.Debug("received gemini response",
		zap.String("response_preview", logger.TruncateForLog(output, logPreview)),
	)

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) log() *zap.Logger {
	if g.logger == nil {
		return zap.NewNop()
	}
	return g.logger
}

func toContents(history []ai.Turn) []*genai.Content {
	if len(history) == 0 {
		return nil
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := string(genai.RoleUser)
		if turn.Role == ai.RoleModel {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// classify marks client errors and long quota waits as permanent.
func classify(err error) error {
	code, message, ok := apiError(err)
	if !ok {
		return err
	}

	switch {
	case code == http.StatusTooManyRequests:
		if delay, found := retryAfter(message); found && delay > maxQuotaDelay {
			return fmt.Errorf("%w: quota delay %s: %w", ai.ErrPermanent, delay, err)
		}
		return err
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: %w", ai.ErrPermanent, err)
	default:
		return err
	}
}

func apiError(err error) (int, string, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value.Code, value.Message, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Message, true
	}
	return 0, "", false
}

func retryAfter(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
