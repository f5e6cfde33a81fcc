package counter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/oshokin/minecraft-switchboard/internal/config"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	"github.com/oshokin/minecraft-switchboard/internal/logger"
	repo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	"github.com/oshokin/minecraft-switchboard/internal/repository/metrics"
)

// Mode selects which counting command variant runs.
type Mode string

const (
	// ModeLogs counts join/leave log lines into the counter store.
	ModeLogs Mode = "logs"
	// ModeAlarm counts alarm notifications into the counter store.
	ModeAlarm Mode = "alarm"
	// ModeSeries derives a snapshot tally from the metric series.
	ModeSeries Mode = "series"
)

var (
	// errUnknownMode is returned for a mode outside the fixed set.
	errUnknownMode = errors.New("unknown counting mode")
	// errCounterTableRequired is returned when a store-backed mode runs
	// without a configured counter table.
	errCounterTableRequired = errors.New("counter table must be configured")
	// errMetricRequired is returned when the series mode runs without a
	// configured metric.
	errMetricRequired = errors.New("metric namespace and name must be configured")
)

// ParseMode validates the mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLogs, ModeAlarm, ModeSeries:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownMode, s)
	}
}

// Options controls one clients-counter invocation.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Mode selects the counting command variant.
	Mode string
	// EventPath is the event JSON document to process; empty or "-"
	// reads standard input.
	EventPath string
}

// Run processes one inbound event document with the selected command.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "clients-counter")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return err
	}

	raw, err := readEvent(opts.EventPath)
	if err != nil {
		return err
	}

	env, err := event.Parse(raw)
	if err != nil {
		return err
	}

	command, err := buildCommand(ctx, mode, cfg)
	if err != nil {
		return err
	}

	_, err = New(command).Process(ctx, env)

	return err
}

// buildCommand wires the selected variant to its external stores.
func buildCommand(ctx context.Context, mode Mode, cfg *config.Config) (Command, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load client configuration: %w", err)
	}

	switch mode {
	case ModeLogs, ModeAlarm:
		if cfg.CounterTable == "" {
			return nil, errCounterTableRequired
		}

		store := repo.NewDynamoDB(dynamodb.NewFromConfig(awsConfig), cfg.CounterTable, cfg.CounterKeyColumn)
		if mode == ModeLogs {
			return NewLogsToStore(store), nil
		}

		return NewAlarmToStore(store, cfg.JoinedAlarmName, cfg.LeftAlarmName), nil
	case ModeSeries:
		if cfg.MetricNamespace == "" || cfg.MetricName == "" {
			return nil, errMetricRequired
		}

		series := metrics.NewCloudWatch(cloudwatch.NewFromConfig(awsConfig), cfg.MetricNamespace, cfg.MetricName)

		return NewAlarmToSeries(series, cfg.JoinedAlarmName, cfg.LeftAlarmName), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMode, mode)
	}
}

// readEvent loads the event document from a file or standard input.
func readEvent(path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read event from stdin: %w", err)
		}

		return raw, nil
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}

	return raw, nil
}
