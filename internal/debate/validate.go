package debate

import (
	"strings"

	"github.com/lorenzotomasdiez/crossfire/internal/script"
)

// ValidateConfig checks a config before Start: the topic is set and both
// sides name a model that checker accepts. A nil checker skips the model check.
func ValidateConfig(cfg Config, checker ModelChecker) error {
	if err := validateShape(cfg); err != nil {
		return err
	}
	if checker == nil {
		return nil
	}
	for _, side := range []script.Side{script.Pro, script.Con} {
		model := cfg.ModelFor(side)
		if err := checker.CheckUsable(model); err != nil {
			return &ConfigurationError{Side: side.String(), Model: model, Reason: err.Error(), Err: err}
		}
	}
	return nil
}

func validateShape(cfg Config) error {
	if strings.TrimSpace(cfg.Topic) == "" {
		return &ConfigurationError{Reason: "a debate topic is required"}
	}
	for _, side := range []script.Side{script.Pro, script.Con} {
		if strings.TrimSpace(cfg.ModelFor(side)) == "" {
			return &ConfigurationError{Side: side.String(), Reason: "no model selected"}
		}
	}
	return nil
}
