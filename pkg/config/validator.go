package config

import "fmt"

// Validator validates a fully-resolved Config. Checks run in order and stop
// at the first failure, mirroring the teacher's fail-fast ValidateAll.
type Validator struct {
	cfg *Config
}

// NewValidator returns a validator for cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs every check.
func (v *Validator) ValidateAll() error {
	if err := v.validateOrchestrator(); err != nil {
		return fmt.Errorf("orchestrator validation failed: %w", err)
	}
	if err := v.validateDatabase(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := v.validateHTTP(); err != nil {
		return fmt.Errorf("http validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateOrchestrator() error {
	o := v.cfg.Orchestrator
	if o.MaxTasksPerTurn <= 0 {
		return &ValidationError{Section: "orchestrator", Field: "max_tasks_per_turn", Err: ErrInvalidValue}
	}
	if o.DefaultMaxRetries < 0 {
		return &ValidationError{Section: "orchestrator", Field: "default_max_retries", Err: ErrInvalidValue}
	}
	return nil
}

func (v *Validator) validateDatabase() error {
	d := v.cfg.Database
	if d.Host == "" {
		// Unset host means "use memstore" — a deliberate, valid configuration.
		return nil
	}
	if d.Port <= 0 {
		return &ValidationError{Section: "database", Field: "port", Err: ErrInvalidValue}
	}
	if d.Database == "" {
		return &ValidationError{Section: "database", Field: "database", Err: ErrMissingField}
	}
	return nil
}

func (v *Validator) validateHTTP() error {
	if v.cfg.HTTP.Enabled && v.cfg.HTTP.Addr == "" {
		return &ValidationError{Section: "http", Field: "addr", Err: ErrMissingField}
	}
	return nil
}

func validate(cfg *Config) error {
	return NewValidator(cfg).ValidateAll()
}
