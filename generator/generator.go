// Package generator asks a hosted language model to write blog post drafts.
//
// A Client turns a topic and a tone into a Request, hands it to a Backend and
// parses the structured answer into a Draft. Backends are pluggable so tests
// can run without network access; the production backend talks to Gemini.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Tone is advisory text describing the voice of the generated post.
type Tone string

const (
	ToneInformative  Tone = "Informative"
	ToneProfessional Tone = "Professional"
	ToneHumorous     Tone = "Humorous"
	ToneCasual       Tone = "Casual"
	TonePersuasive   Tone = "Persuasive"
)

// Tones is the recommended set offered by the create form. Other values are
// passed through unchanged.
var Tones = []Tone{ToneInformative, ToneProfessional, ToneHumorous, ToneCasual, TonePersuasive}

// Draft holds the four generated fields of a post.
type Draft struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Request is what a Backend receives for a single generation.
type Request struct {
	Topic  string
	Tone   Tone
	Prompt string
}

// Backend performs one generation round trip and returns the raw JSON body.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f(ctx, req).
func (f BackendFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Result is the outcome of an asynchronous generation.
type Result struct {
	Draft Draft
	Err   error
}

// Observer is notified once per Generate call with the outcome kind and the
// time spent.
type Observer func(kind string, elapsed time.Duration)

// Config holds the credential and model for the default Gemini backend.
type Config struct {
	APIKey string
	Model  string
}

// Client generates drafts. It is safe for concurrent use and does not
// deduplicate concurrent calls.
type Client struct {
	cfg      Config
	backend  Backend
	observer Observer

	initOnce sync.Once
	initErr  error
}

// Option configures a Client.
type Option func(*Client)

// WithBackend replaces the default Gemini backend.
func WithBackend(b Backend) Option {
	return func(c *Client) {
		c.backend = b
	}
}

// WithObserver registers a callback invoked after every Generate call.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a Client. A missing API key is not an error here: every
// Generate call will fail with a ConfigurationError instead.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate asks the backend for a post about topic written in tone.
func (c *Client) Generate(ctx context.Context, topic, tone string) (Draft, error) {
	start := time.Now()
	d, err := c.generate(ctx, topic, tone)
	if c.observer != nil {
		c.observer(Kind(err), time.Since(start))
	}
	return d, err
}

func (c *Client) generate(ctx context.Context, topic, tone string) (Draft, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Draft{}, ErrEmptyTopic
	}
	if !c.Configured() {
		return Draft{}, &ConfigurationError{Reason: "API key is missing"}
	}
	backend, err := c.resolveBackend(ctx)
	if err != nil {
		return Draft{}, err
	}

	req := NewRequest(topic, tone)
	body, err := backend.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Draft{}, err
		}
		return Draft{}, &BackendError{Err: err}
	}
	if strings.TrimSpace(body) == "" {
		return Draft{}, &BackendError{Err: ErrEmptyResponse}
	}
	return ParseDraft(body)
}

// GenerateAsync runs Generate in its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func (c *Client) GenerateAsync(ctx context.Context, topic, tone string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		d, err := c.Generate(ctx, topic, tone)
		out <- Result{Draft: d, Err: err}
	}()
	return out
}

func (c *Client) resolveBackend(ctx context.Context) (Backend, error) {
	if c.backend != nil {
		return c.backend, nil
	}
	c.initOnce.Do(func() {
		b, err := NewGeminiBackend(ctx, c.cfg.APIKey, c.cfg.Model)
		if err != nil {
			c.initErr = &ConfigurationError{Reason: fmt.Sprintf("create gemini client: %v", err)}
			return
		}
		c.backend = b
	})
	if c.initErr != nil {
		return nil, c.initErr
	}
	return c.backend, nil
}

// NewRequest builds the request for topic and tone. An empty tone becomes
// ToneInformative.
func NewRequest(topic, tone string) Request {
	t := Tone(strings.TrimSpace(tone))
	if t == "" {
		t = ToneInformative
	}
	return Request{
		Topic:  topic,
		Tone:   t,
		Prompt: buildPrompt(topic, t),
	}
}

func buildPrompt(topic string, tone Tone) string {
	return fmt.Sprintf("Write a blog post about %q. The tone should be %s.\n"+
		"Return a JSON object with a catchy title, a short excerpt (summary), "+
		"the main content (formatted with paragraphs), and a suggested category.", topic, tone)
}
