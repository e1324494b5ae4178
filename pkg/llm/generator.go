// Package llm derives a short title and topic tags for an article with an OpenAI-compatible chat model.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/umputun/newstag/pkg/config"
	"github.com/umputun/newstag/pkg/domain"
)

// placeholders returned in place of a generated field when the generation call fails
const (
	TitlePlaceholder = "An error occurred while generating title."
	TagsPlaceholder  = "An error occurred while generating tags."
)

const (
	titlePrompt = "Generate the best short title less than 7 words from this news:\n %s"
	tagsPrompt  = "Generate five tags, less than 3 words, and give numbers for the tags from this news:\n\n%s"
)

// GenerationError reports a failed call to the generation service
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generate %s: %v", e.Op, e.Err) }

// Unwrap returns the underlying error
func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces article metadata with a chat completion model
type Generator struct {
	client  *openai.Client
	config  config.LLMConfig
	limiter *rate.Limiter
}

// NewGenerator creates a generator for the configured endpoint and model
func NewGenerator(cfg config.LLMConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Generator{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  cfg,
		limiter: limiter,
	}
}

// Generate derives title and tags for the article text. Both are requested concurrently and
// fail independently: a failed field is degraded to its placeholder, the other one is unaffected.
func (g *Generator) Generate(ctx context.Context, text string) domain.GeneratedMetadata {
	var res domain.GeneratedMetadata
	var eg errgroup.Group
	eg.Go(func() error {
		res.Title = g.GenerateTitle(ctx, text)
		return nil
	})
	eg.Go(func() error {
		res.Tags, res.TagList = g.GenerateTags(ctx, text)
		return nil
	})
	_ = eg.Wait() // both functions always return nil
	return res
}

// GenerateTitle asks for the shortest title under 7 words
func (g *Generator) GenerateTitle(ctx context.Context, text string) domain.Generated {
	prompt := fmt.Sprintf(titlePrompt, Truncate(text, g.config.TitleMaxWords))
	content, err := g.complete(ctx, "title", prompt)
	if err != nil {
		lgr.Printf("[WARN] %v", err)
		return domain.Generated{Text: TitlePlaceholder, Degraded: true, Err: err}
	}
	return domain.Generated{Text: cleanTitle(content)}
}

// GenerateTags asks for five numbered tags and returns the raw response with the parsed tags
func (g *Generator) GenerateTags(ctx context.Context, text string) (domain.Generated, []string) {
	prompt := fmt.Sprintf(tagsPrompt, Truncate(text, g.config.TagsMaxWords))
	content, err := g.complete(ctx, "tags", prompt)
	if err != nil {
		lgr.Printf("[WARN] %v", err)
		return domain.Generated{Text: TagsPlaceholder, Degraded: true, Err: err}, []string{}
	}
	tags := ParseTags(content)
	lgr.Printf("[DEBUG] parsed %d tags from %q", len(tags), content)
	return domain.Generated{Text: content}, tags
}

// complete sends a single user prompt and returns the text of the first choice
func (g *Generator) complete(ctx context.Context, op, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", &GenerationError{Op: op, Err: fmt.Errorf("rate limit: %w", err)}
	}

	req := openai.ChatCompletionRequest{
		Model:     g.config.Model,
		MaxTokens: g.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &GenerationError{Op: op, Err: fmt.Errorf("llm request failed: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Op: op, Err: fmt.Errorf("no response from llm")}
	}
	return resp.Choices[0].Message.Content, nil
}
