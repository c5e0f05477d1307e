package operations

import "fmt"

// ConfigurationError marks missing or contradictory user input.
type ConfigurationError struct {
	Message string
}

func (it *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", it.Message)
}

func configurationError(form string, details ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(form, details...)}
}
