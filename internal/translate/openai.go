package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const translationPrompt = "You translate %s sentences into %s for language-learning flashcards. " +
	"Reply with the translation only, on a single line, without quotes, notes, or transliteration."

// OpenAIConfig configures an OpenAI-compatible chat completion backend.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// OpenAIEngine translates via chat completions.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine builds an engine from cfg. Extra request options (such as a
// test HTTP client) are appended after the defaults.
func NewOpenAIEngine(cfg OpenAIConfig, extra ...option.RequestOption) *OpenAIEngine {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	opts = append(opts, extra...)
	client := openai.NewClient(opts...)
	return &OpenAIEngine{client: &client, model: strings.TrimSpace(cfg.Model)}
}

// Name implements Engine.
func (o *OpenAIEngine) Name() string { return "openai:" + o.model }

// Setup is a no-op; the remote model handles any language pair.
func (o *OpenAIEngine) Setup(context.Context, string, string) error { return nil }

// Translate implements Engine.
func (o *OpenAIEngine) Translate(ctx context.Context, text, from, to string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(translationPrompt, languageName(from), languageName(to))),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyTranslation
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Engine.
func (o *OpenAIEngine) Close() error { return nil }

func classifyAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("openai chat: %w", err)
		default:
			return Permanent(fmt.Errorf("openai chat: %w", err))
		}
	}
	return fmt.Errorf("openai chat: %w", err)
}

// languageName renders a code like "es" as "Spanish" for the prompt.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
