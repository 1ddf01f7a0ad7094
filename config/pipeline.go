package config

import (
	"path/filepath"
	"time"

	"github.com/kbukum/taskflow/logger"
	"github.com/kbukum/taskflow/storage"
	"github.com/kbukum/taskflow/validation"
)

// Config is the root configuration for a pipeline. Projects embed it in
// their own config structs when they carry extra sections.
type Config struct {
	// Name identifies the pipeline in logs and traces.
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging  logger.Config  `yaml:"logging" mapstructure:"logging"`
	Pipeline Pipeline       `yaml:"pipeline" mapstructure:"pipeline"`
	Process  Process        `yaml:"process" mapstructure:"process"`
	Storage  storage.Config `yaml:"storage" mapstructure:"storage"`
}

// Pipeline configures the workspace layout and execution engine.
type Pipeline struct {
	// Base is the root directory for all targets.
	Base string `yaml:"base" mapstructure:"base" validate:"required"`
	// Tag namespaces this pipeline's targets under Base.
	Tag string `yaml:"tag" mapstructure:"tag"`
	// Workers bounds concurrently running task bodies.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"min=0,max=256"`
}

// Process configures external command execution.
type Process struct {
	// Timeout bounds each shellout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// TempDir overrides where shellout staging files are created.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ApplyDefaults fills unset fields with working defaults.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Pipeline.Tag == "" {
		c.Pipeline.Tag = "default"
	}
	if c.Process.GracePeriod == 0 {
		c.Process.GracePeriod = 5 * time.Second
	}
	c.Logging.ApplyDefaults()
	c.Storage.ApplyDefaults()
}

// Validate checks the configuration. Call after ApplyDefaults. Struct tags
// cover the per-field constraints; the manual chain covers what tags cannot
// express and folds in the section validators.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	v.Custom(c.Pipeline.Base == "" || filepath.IsAbs(c.Pipeline.Base),
		"pipeline.base", "must be an absolute path")
	if err := c.Logging.Validate(); err != nil {
		v.AddError("logging", err.Error())
	}
	if err := c.Storage.Validate(); err != nil {
		v.AddError("storage", err.Error())
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
