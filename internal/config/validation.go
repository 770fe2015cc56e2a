package config

import "fmt"

// Validate checks all configuration values, failing fast with a sentinel
// error per field. Values are never silently clamped.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("%w: %g not in [0, 1]", ErrInvalidTemperature, c.Temperature)
	}
	if c.ContextTokens <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidContextTokens, c.ContextTokens)
	}
	if c.RetrievalLimit <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidRetrievalLimit, c.RetrievalLimit)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d not in [1, 65535]", ErrInvalidPostgresPort, c.PostgresPort)
	}
	return nil
}
