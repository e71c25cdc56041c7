package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/thinktank/internal/profile"
	"github.com/hrygo/thinktank/plugin/cache"
	"github.com/hrygo/thinktank/plugin/llm"
	"github.com/hrygo/thinktank/server"
	"github.com/hrygo/thinktank/server/service/chat"
	"github.com/hrygo/thinktank/server/service/docs"
	"github.com/hrygo/thinktank/store"
	"github.com/hrygo/thinktank/store/db"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "thinktank",
	Short: "Multi-model group chat server",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		return run(instanceProfile)
	},
}

func run(p *profile.Profile) error {
	logLevel := slog.LevelInfo
	if p.IsDev() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDriver(p)
	if err != nil {
		return fmt.Errorf("failed to create store driver: %w", err)
	}
	threadStore := store.New(driver, store.Config{
		DefaultParticipants: chat.DefaultThreadParticipants,
	})

	gateway, err := llm.NewOpenRouter(&llm.Config{
		BaseURL: p.OpenRouterBaseURL,
		APIKey:  p.OpenRouterAPIKey,
		AppURL:  p.AppURL,
		AppName: p.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	responseCache := cache.NewService(cache.ServiceConfig{
		Capacity:        p.CacheCapacity,
		CleanupInterval: p.CacheCleanupInterval,
	})
	defer responseCache.Close()

	docService := docs.NewService(threadStore, logger)
	coordinator := chat.NewCoordinator(threadStore, docService, gateway, responseCache, chat.DefaultHeuristicScorer(), logger, chat.Config{
		CallTimeout: p.CallTimeout,
	})

	return server.NewServer(p, threadStore, coordinator, docService, gateway, logger).Start(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8081, "binding port for the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "", `store driver: "memory", "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	viper.SetEnvPrefix("thinktank")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
