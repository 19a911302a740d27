package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/history"
	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/server"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Host    string
	Port    int
	History bool
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host:    "localhost",
		Port:    8080,
		History: true,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evaluation HTTP API",
	Long: `Serve starts a local HTTP server exposing the evaluation pipeline:

  POST /api/evaluate  evaluate a skill directory on the server host
  GET  /api/history   list stored evaluations
  GET  /healthz       liveness probe

Evaluations are stored in the local history database unless --no-history
is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getServeConfigFromFlags(cmd)
		runServeCommand(ctx, config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the server to")
	serveCmd.Flags().String("addr", "", "Bind address as host:port (overrides --host/--port)")
	serveCmd.Flags().Bool("no-history", false, "Do not store evaluations in the history database")
}

// getServeConfigFromFlags extracts serve configuration from command flags
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if host, err := cmd.Flags().GetString("host"); err == nil && host != "" {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
		config.Port = port
	}
	if addr, err := cmd.Flags().GetString("addr"); err == nil && addr != "" {
		if host, port, splitErr := net.SplitHostPort(addr); splitErr == nil {
			if host != "" {
				config.Host = host
			}
			fmt.Sscanf(port, "%d", &config.Port)
		}
	}
	if noHistory, err := cmd.Flags().GetBool("no-history"); err == nil && noHistory {
		config.History = false
	}

	return config
}

func runServeCommand(ctx context.Context, config *ServeConfig) {
	if strings.Contains(config.Host, " ") {
		presenter.Error(fmt.Errorf("invalid host: %s", config.Host), "invalid server configuration")
		os.Exit(1)
	}

	serverConfig := &server.Config{
		Host: config.Host,
		Port: config.Port,
	}
	if config.History {
		dbPath, err := history.DefaultPath()
		if err != nil {
			presenter.Error(err, "failed to locate history database")
			os.Exit(1)
		}
		serverConfig.HistoryPath = dbPath
	}

	srv, err := server.New(ctx, serverConfig)
	if err != nil {
		presenter.Error(err, "failed to create server")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Evaluation API starting on http://%s:%d", config.Host, config.Port))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := srv.Start(ctx); err != nil {
		logger.G(ctx).WithError(err).Error("server error")
		presenter.Error(err, "server failed")
		os.Exit(1)
	}

	presenter.Info("Server stopped")
}
