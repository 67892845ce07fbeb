package googleai

import (
	"net/http"
	"os"
	"time"

	"github.com/effective-security/x/values"
	"google.golang.org/genai"
)

// Options is a set of options for GoogleAI client.
type Options struct {
	DefaultModel          string
	DefaultCandidateCount int
	DefaultMaxTokens      int
	DefaultTemperature    float64
	HarmThreshold         genai.HarmBlockThreshold
	APIKey                string
	BaseURL               string
	Timeout               time.Duration
	HTTPClient            *http.Client
}

// DefaultModel is the model used when none is configured
const DefaultModel = "gemini-2.0-flash-lite"

// DefaultTimeout bounds each model call when no timeout is configured
const DefaultTimeout = 60 * time.Second

func DefaultOptions() Options {
	return Options{
		DefaultModel:          DefaultModel,
		DefaultCandidateCount: 1,
		HarmThreshold:         genai.HarmBlockThresholdBlockOnlyHigh,
		Timeout:               DefaultTimeout,
	}
}

// EnsureAuthPresent attempts to ensure that the client has authentication information.
// If it does not, it will attempt to use the GOOGLE_API_KEY or GEMINI_API_KEY environment variables.
func (o *Options) EnsureAuthPresent() {
	o.APIKey = values.StringsCoalesce(o.APIKey, os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY"))
}

type Option func(*Options)

// WithAPIKey passes the API KEY (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient append a ClientOption that uses the provided HTTP client to
// make requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

// WithTimeout bounds each model call.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		if timeout > 0 {
			opts.Timeout = timeout
		}
	}
}

// WithDefaultModel passes a default content model name to the client.
func WithDefaultModel(defaultModel string) Option {
	return func(opts *Options) {
		if defaultModel != "" {
			opts.DefaultModel = defaultModel
		}
	}
}

// WithDefaultCandidateCount sets the candidate count for the model.
func WithDefaultCandidateCount(defaultCandidateCount int) Option {
	return func(opts *Options) {
		opts.DefaultCandidateCount = defaultCandidateCount
	}
}

// WithDefaultMaxTokens sets the maximum token count for the model.
func WithDefaultMaxTokens(maxTokens int) Option {
	return func(opts *Options) {
		opts.DefaultMaxTokens = maxTokens
	}
}

// WithDefaultTemperature sets the temperature for the model.
func WithDefaultTemperature(defaultTemperature float64) Option {
	return func(opts *Options) {
		opts.DefaultTemperature = defaultTemperature
	}
}

// WithHarmThreshold sets the safety/harm setting for the model, potentially
// limiting any harmful content it may generate.
func WithHarmThreshold(ht genai.HarmBlockThreshold) Option {
	return func(opts *Options) {
		opts.HarmThreshold = ht
	}
}
