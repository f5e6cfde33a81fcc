package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/oshokin/minecraft-switchboard/internal/api/rest"
	"github.com/oshokin/minecraft-switchboard/internal/config"
	"github.com/oshokin/minecraft-switchboard/internal/logger"
	counterrepo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	stackrepo "github.com/oshokin/minecraft-switchboard/internal/repository/stack"
	counterservice "github.com/oshokin/minecraft-switchboard/internal/service/counter"
	"github.com/oshokin/minecraft-switchboard/internal/service/switcher"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// stop signal.
const shutdownTimeout = 10 * time.Second

// Options controls the switchboard-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
}

// Run starts the HTTP server and blocks until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "switchboard-server")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load client configuration: %w", err)
	}

	// The counter store is optional: deployments without a counter table
	// skip the switch guard and serve no ingestion endpoints.
	var counterStore counterrepo.Store
	if cfg.CounterTable != "" {
		counterStore = counterrepo.NewDynamoDB(
			dynamodb.NewFromConfig(awsConfig), cfg.CounterTable, cfg.CounterKeyColumn)
	}

	stacks := stackrepo.NewCloudFormation(
		cloudformation.NewFromConfig(awsConfig), cfg.StackName, cfg.Capabilities)

	sw := switcher.New(stacks, counterStore, cfg.SwitchedParameter, cfg.TaskCountParameter)

	var logsCounter, alarmCounter *counterservice.Counter
	if counterStore != nil {
		logsCounter = counterservice.New(counterservice.NewLogsToStore(counterStore))
		alarmCounter = counterservice.New(
			counterservice.NewAlarmToStore(counterStore, cfg.JoinedAlarmName, cfg.LeftAlarmName))
	}

	router := rest.NewRouter(rest.NewHandler(sw, logsCounter, alarmCounter, cfg.StackName))

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "Switchboard server listening",
		"listen_address", listenAddress, "stack_name", cfg.StackName)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests drain before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "Failed to shut down cleanly: %v", err)
		}

		close(done)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}
