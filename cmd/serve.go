package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening conversation api over http",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (default is :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-screener",
		zap.String("version", version),
		zap.String("environment", config.Environment),
	)

	screener, err := build(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the screener", zap.Error(err))
	}
	defer screener.Close()

	handler := server.New(screener.service, screener.metrics, logger, server.Options{
		Version:          version,
		Environment:      config.Environment,
		DefaultJobID:     config.JobID,
		DefaultCompanyID: config.CompanyID,
	})

	if err := server.Run(ctx, config.Server.Addr, handler, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}

	logger.Info("exiting", zap.String("reason", "shutdown requested"))
}
