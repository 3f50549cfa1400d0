package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/store"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete ended conversations from the sqlite session store",
	Run: func(cmd *cobra.Command, _ []string) {
		prune(cmd)
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete ended sessions not updated for this long")
}

func prune(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.Store.Driver != driverSQLite {
		logger.Info("exiting", zap.String("reason", "nothing to prune in the memory store"))
		return
	}

	olderThan, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		logger.Fatal("reading older-than flag", zap.Error(err))
	}

	sessions, err := store.NewSQLite(config.Store.Path)
	if err != nil {
		logger.Fatal("opening the session store", zap.Error(err))
	}
	defer sessions.Close()

	cutoff := time.Now().Add(-olderThan)
	removed, err := sessions.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		logger.Fatal("pruning sessions", zap.Error(err))
	}

	logger.Info("pruned ended sessions",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff),
		zap.String("path", config.Store.Path),
	)
}
