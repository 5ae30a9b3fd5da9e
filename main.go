package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/backend"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/config"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/handler"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/logging"
	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/smoke"
)

var Version = "dev"

func main() {
	if err := config.ParseArgs(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if config.CliArgs.Help {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		config.CliArgs.Flags.PrintDefaults()
		return
	}
	if config.CliArgs.Version {
		fmt.Println(Version)
		return
	}

	if config.CliArgs.Debug {
		logging.InitLogger(logrus.DebugLevel)
	} else {
		logging.InitLogger(logrus.InfoLevel)
	}
	log := logging.GetLogger()

	cfg, err := config.LoadConfig(config.CliArgs.ConfigFile, config.CliArgs.Flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.CliArgs.ServeStub {
		if err := serveStub(ctx, cfg.Stub.ListenAddress); err != nil {
			log.Fatalf("Stub server failed: %v", err)
		}
		return
	}

	log.Debugf("Mode %s, endpoint %s, timeout %s", cfg.Mode, cfg.Endpoint, cfg.RequestTimeout())
	client := backend.NewBackendClient(cfg.Endpoint, cfg.RequestTimeout())
	runner := smoke.NewRunner(client, afero.NewOsFs(), os.Stdout, cfg.OutputDir)
	outcome := runner.Run(ctx, cfg)

	stop()
	os.Exit(outcome.ExitCode())
}

// serveStub runs the stub generate service until ctx is cancelled.
func serveStub(ctx context.Context, addr string) error {
	log := logging.GetLogger()

	// Define the server
	server := &http.Server{
		Addr:    addr,
		Handler: handler.NewStubHandler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("Starting stub generate service on %s", addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		log.Infoln("Shutting down stub generate service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
