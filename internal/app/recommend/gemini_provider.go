package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/jamroom/internal/infra/gemini"
)

// GenerativeClient defines the interface for text generation operations.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiProviderConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	Model  string `yaml:"model" mapstructure:"model"`
}

// GeminiProvider produces search queries by asking a generative model
// for tracks that fit the room's listening context.
type GeminiProvider struct {
	client GenerativeClient
	config *GeminiProviderConfig
}

// NewGeminiProvider creates a new GeminiProvider.
func NewGeminiProvider(settings map[string]any) (*GeminiProvider, error) {
	if len(settings) == 0 {
		return nil, errors.New("settings are required")
	}

	var config GeminiProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := gemini.New(gemini.Config{APIKey: config.APIKey, Model: config.Model})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &GeminiProvider{
		client: client,
		config: &config,
	}, nil
}

// Queries asks the model for track suggestions and turns each suggestion
// into a search query.
func (p *GeminiProvider) Queries(ctx context.Context, rctx Context, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	text, err := p.client.Generate(ctx, buildPrompt(rctx, count))
	if err != nil {
		return nil, errors.Wrap(err, "generation failed")
	}

	queries := parseSuggestions(text, count)
	if len(queries) == 0 {
		return nil, errors.New("no usable suggestions in response")
	}

	return queries, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// buildPrompt assembles the suggestion prompt from the room context.
func buildPrompt(rctx Context, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest %d songs that would fit the current listening session.\n", count)

	if rctx.Current != nil {
		fmt.Fprintf(&b, "Currently playing: %s", rctx.Current.Title)
		if rctx.Current.Artist != "" {
			fmt.Fprintf(&b, " by %s", rctx.Current.Artist)
		}
		b.WriteString("\n")
	}

	if len(rctx.Recent) > 0 {
		b.WriteString("Recently played:\n")
		for _, s := range rctx.Recent {
			fmt.Fprintf(&b, "- %s", s.Title)
			if s.Artist != "" {
				fmt.Fprintf(&b, " by %s", s.Artist)
			}
			b.WriteString("\n")
		}
	}

	if len(rctx.Genres) > 0 {
		fmt.Fprintf(&b, "Preferred styles: %s\n", strings.Join(rctx.Genres, ", "))
	}

	b.WriteString("Respond with one song per line in the exact format: Title - Artist\n")
	b.WriteString("No numbering, no commentary, no markdown.")

	return b.String()
}

// parseSuggestions extracts "Title - Artist" lines and converts each to
// a search query. Lines that do not match the format are skipped.
func parseSuggestions(text string, limit int) []string {
	var queries []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		if line == "" {
			continue
		}

		title, artist, ok := strings.Cut(line, " - ")
		if !ok {
			continue
		}
		title = strings.TrimSpace(title)
		artist = strings.TrimSpace(artist)
		if title == "" {
			continue
		}

		query := title
		if artist != "" {
			query = title + " " + artist
		}
		queries = append(queries, query)

		if len(queries) >= limit {
			break
		}
	}
	return queries
}
