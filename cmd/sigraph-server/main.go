package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/voltaic-labs/sigraph/pkg/api"
	"github.com/voltaic-labs/sigraph/pkg/config"
	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "Override the configured listen port")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))

	apiServer, err := api.NewServer(cfg, logger)
	if err != nil {
		logger.Error("server setup failed", logging.Error(err))
		os.Exit(1)
	}
	defer apiServer.Close()

	gs := server.NewGracefulServer(server.Options{
		Addr:            cfg.Server.Addr(),
		Handler:         apiServer.Handler(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger.With(logging.Component("http")),
	})

	if err := gs.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
