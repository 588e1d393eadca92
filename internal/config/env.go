package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func requriedString(key string) (string, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || strings.TrimSpace(variable) == "" {
		return "", &ConfigError{Key: key}
	}
	return strings.TrimSpace(variable), nil
}

func stringWithDefault(key, def string) string {
	variable, isOk := os.LookupEnv(key)
	if !isOk || strings.TrimSpace(variable) == "" {
		return def
	}
	return strings.TrimSpace(variable)
}

func intWithDefault(key string, def int) (int, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	number, err := strconv.Atoi(strings.TrimSpace(variable))
	if err != nil {
		return 0, &ConfigError{Key: key, Reason: fmt.Sprintf("invalid int %q", variable)}
	}
	return number, nil
}

func boolWithDefault(key string, def bool) (bool, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(variable))
	if err != nil {
		return false, &ConfigError{Key: key, Reason: fmt.Sprintf("invalid bool %q", variable)}
	}
	return value, nil
}

func durationWithDefault(key string, def time.Duration) (time.Duration, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(variable))
	if err != nil {
		return 0, &ConfigError{Key: key, Reason: fmt.Sprintf("invalid duration %q", variable)}
	}
	if value < 0 {
		return 0, &ConfigError{Key: key, Reason: "duration must be non-negative"}
	}
	return value, nil
}

func oneOf(key, def string, allowed ...string) (string, error) {
	value := strings.ToLower(stringWithDefault(key, def))
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", &ConfigError{Key: key, Reason: fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value)}
}
