package config

import "fmt"

func RequireNonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func RequireOneOf(value, envName string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("env %s must be one of %v, got %q", envName, allowed, value)
}
