package config

const (
	defaultBaseURL = "http://localhost:8000"
	defaultModel   = "default"

	defaultParallel       = 4
	defaultRequests       = 8
	defaultTimeoutSeconds = 120

	defaultMaxTokens   = 64
	defaultTemperature = 0.7
	defaultPromptSize  = "small"
	defaultStream      = true
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	stream := defaultStream

	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			BaseURL: defaultBaseURL,
			Model:   defaultModel,
		},
		Load: LoadConfig{
			Parallel:       defaultParallel,
			Requests:       defaultRequests,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Generation: GenerationConfig{
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
			PromptSize:  defaultPromptSize,
			Stream:      &stream,
		},
	}
}
