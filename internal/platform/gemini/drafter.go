package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"google.golang.org/genai"
)

//go:embed prompts/description.tmpl
var descriptionPrompt string

// contentGenerator is the part of the genai client the drafter calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// promptData is the data passed to the prompt template.
type promptData struct {
	Name          string
	Category      string
	CategoryNotes string
	Rarity        string
	Attunement    bool
	Restrictions  string
	Source        string
	Notes         string
}

// Drafter writes item descriptions with a Gemini model.
type Drafter struct {
	logger         *slog.Logger
	models         contentGenerator
	model          string
	promptTemplate *template.Template
	maxRetries     int
	baseDelay      time.Duration
	rng            *rand.Rand
}

// NewGeminiDrafter creates a Drafter backed by the Gemini API.
func NewGeminiDrafter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Drafter, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newDrafter(logger, client.Models, cfg)
}

func newDrafter(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*Drafter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	tmpl, err := template.New("description").Parse(descriptionPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Drafter{
		logger:         logger.With(slog.String("component", "gemini_drafter")),
		models:         models,
		model:          cfg.ModelName,
		promptTemplate: tmpl,
		maxRetries:     maxRetries,
		baseDelay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
		rng:            rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}, nil
}

// DraftDescription returns a Markdown description for the item. Any
// description already present is passed to the model as notes to build on.
func (d *Drafter) DraftDescription(ctx context.Context, fields domain.ItemFields) (string, error) {
	prompt, err := d.createPrompt(fields)
	if err != nil {
		return "", err
	}

	d.logger.DebugContext(ctx, "drafting item description",
		slog.String("item_name", fields.Name),
		slog.Int("prompt_length", len(prompt)))

	text, err := d.callWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (d *Drafter) createPrompt(fields domain.ItemFields) (string, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return "", ErrEmptyItem
	}

	rarity := string(fields.Rarity)
	if fields.Rarity.IsValid() {
		rarity = fields.Rarity.Label()
	}

	var buf bytes.Buffer
	err := d.promptTemplate.Execute(&buf, promptData{
		Name:          fields.Name,
		Category:      fields.Category,
		CategoryNotes: fields.CategoryNotes,
		Rarity:        rarity,
		Attunement:    fields.Attunement,
		Restrictions:  fields.Restrictions,
		Source:        fields.Source,
		Notes:         strings.TrimSpace(fields.Description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry sends the prompt, retrying transient failures with
// exponential backoff and jitter. Blocked and empty replies are permanent.
func (d *Drafter) callWithRetry(ctx context.Context, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := d.generate(ctx, prompt)
		if err == nil {
			d.logger.InfoContext(ctx, "description drafted",
				slog.Int("attempt", attempt+1),
				slog.Int("length", len(text)))
			return text, nil
		}

		if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) {
			d.logger.WarnContext(ctx, "permanent drafting error, not retrying",
				slog.String("error", err.Error()))
			return "", err
		}

		d.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt >= d.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, d.maxRetries, err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		backoff := float64(d.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + d.rng.Float64()*0.5))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}

func (d *Drafter) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := d.models.GenerateContent(ctx, d.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrInvalidResponse)
	}
	return text, nil
}
