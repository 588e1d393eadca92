package config

import "fmt"

// ConfigError reports a missing or malformed setting. It is returned before
// any remote call is attempted.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing requried env var: %s", e.Key)
	}
	return fmt.Sprintf("invalid env var %s: %s", e.Key, e.Reason)
}
