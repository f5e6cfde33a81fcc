package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the switchboard binaries.
type Config struct {
	// CounterTable is the key-value table holding the connected-clients counter.
	// When empty, no counter store is configured and the switch guard is skipped.
	CounterTable string `yaml:"counter_table"`
	// CounterKeyColumn is the primary key column of the counter table.
	CounterKeyColumn string `yaml:"counter_key_column"`
	// JoinedAlarmName identifies the alarm that fires when players join.
	JoinedAlarmName string `yaml:"joined_alarm_name"`
	// LeftAlarmName identifies the alarm that fires when players leave.
	LeftAlarmName string `yaml:"left_alarm_name"`
	// MetricNamespace is the namespace of the connected-count metric series.
	MetricNamespace string `yaml:"metric_namespace"`
	// MetricName is the name of the connected-count metric series.
	MetricName string `yaml:"metric_name"`
	// StackName is the infrastructure stack toggled by the switch endpoints.
	StackName string `yaml:"stack_name"`
	// SwitchedParameter is the stack parameter flipped between "true" and "false".
	SwitchedParameter string `yaml:"switched_parameter"`
	// TaskCountParameter is the stack parameter carrying the desired task count.
	TaskCountParameter string `yaml:"task_count_parameter"`
	// Capabilities lists IAM capabilities required by stack updates.
	Capabilities []string `yaml:"capabilities"`
	// ListenAddress is the HTTP listen address of the switchboard server.
	ListenAddress string `yaml:"listen_address"`
	// LogLevel is the minimum level for emitted log lines.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for switchboard settings.
	DefaultConfigFilename = "switchboard-settings.yaml"

	// DefaultCounterKeyColumn is the primary key column used when none is configured.
	DefaultCounterKeyColumn = "id"

	// DefaultListenAddress is the HTTP listen address used when none is configured.
	DefaultListenAddress = ":8080"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errStackNameRequired is returned when the stack name is missing.
	errStackNameRequired = errors.New("stack name must be provided")
	// errSwitchedParameterRequired is returned when the switched parameter name is missing.
	errSwitchedParameterRequired = errors.New("switched parameter name must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.StackName == "" {
		return errStackNameRequired
	}

	if cfg.SwitchedParameter == "" {
		return errSwitchedParameterRequired
	}

	if cfg.CounterKeyColumn == "" {
		cfg.CounterKeyColumn = DefaultCounterKeyColumn
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	return nil
}
