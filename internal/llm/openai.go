package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"roomclimate/internal/logger"
	"roomclimate/internal/models"
	"roomclimate/internal/ranges"
)

// ErrEmptyResponse is returned when the model replies without any choices
var ErrEmptyResponse = errors.New("no response from OpenAI")

const (
	defaultModel   = openai.GPT4oMini
	requestTimeout = 60 * time.Second
	maxTokens      = 1200
)

const systemPrompt = "You are an indoor plant care assistant. Given current room readings and the optimal " +
	"ranges for the plants in each room, write short practical care notes in markdown. " +
	"Use one level-3 heading per room, at most three bullet points each, and no introduction."

// RegionSummary is the per-room input the narrator sees
type RegionSummary struct {
	Name     string
	Category string
	Label    string
	Current  models.Reading
	Ranges   ranges.Ranges
	Check    ranges.Check
	Fallback bool
}

// OpenAIClient writes care notes through the chat completions API
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

// Option customizes an OpenAIClient
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at a compatible endpoint
func WithBaseURL(url string) Option {
	return func(c *openai.ClientConfig) {
		c.BaseURL = url
	}
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, model string, options ...Option) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range options {
		opt(&cfg)
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    logger.WithComponent("llm"),
	}
}

// Narrate returns markdown care notes for the given rooms
func (c *OpenAIClient) Narrate(ctx context.Context, rooms []RegionSummary) (string, error) {
	if len(rooms) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(rooms)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	notes := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Info("Generated care notes", map[string]interface{}{
		"model":  c.model,
		"rooms":  len(rooms),
		"chars":  len(notes),
		"tokens": resp.Usage.TotalTokens,
	})
	return notes, nil
}

// BuildPrompt renders the user message listing each room's readings
func BuildPrompt(rooms []RegionSummary) string {
	var b strings.Builder
	b.WriteString("Current room conditions:\n\n")
	for _, r := range rooms {
		fmt.Fprintf(&b, "Room: %s (%s, plants: %s)\n", r.Name, r.Label, r.Ranges.Label)
		if r.Fallback {
			b.WriteString("  note: sensor data unavailable, values are simulated\n")
		}
		fmt.Fprintf(&b, "  temperature: %.1f °C (optimal %.0f-%.0f, %s)\n",
			r.Current.Temperature, r.Ranges.Temperature.Min, r.Ranges.Temperature.Max, r.Check.Temperature)
		fmt.Fprintf(&b, "  humidity: %.1f %%RH (optimal %.0f-%.0f, %s)\n",
			r.Current.Humidity, r.Ranges.Humidity.Min, r.Ranges.Humidity.Max, r.Check.Humidity)
		fmt.Fprintf(&b, "  light: %.0f lux (optimal %.0f-%.0f, %s)\n\n",
			r.Current.Light, r.Ranges.Light.Min, r.Ranges.Light.Max, r.Check.Light)
	}
	b.WriteString("Write the care notes now.")
	return b.String()
}
