package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d config errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogModes lists accepted log_mode values.
func ValidLogModes() []string {
	return []string{"dev", "development", "prod", "production"}
}

// Validate reports every invalid setting.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	if !slices.Contains(ValidLogModes(), strings.ToLower(c.LogMode)) {
		errs = append(errs, ValidationError{
			Field:   "log_mode",
			Value:   c.LogMode,
			Message: "must be one of " + strings.Join(ValidLogModes(), ", "),
		})
	}
	if c.PassScore < 1 || c.PassScore > 100 {
		errs = append(errs, ValidationError{
			Field:   "pass_score",
			Value:   c.PassScore,
			Message: "must be between 1 and 100",
		})
	}
	if c.DashboardLimit < 1 {
		errs = append(errs, ValidationError{
			Field:   "dashboard_limit",
			Value:   c.DashboardLimit,
			Message: "must be at least 1",
		})
	}
	return errs
}
