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
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "regexflow",
		Short: "Maker-checker governed SMS template matching",
		Long: `regexflow manages regex templates that extract structured fields from bank SMS.

Makers author templates, checkers approve them, and inbound messages are
matched against the verified templates of their sender.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: flushMetrics,
		SilenceUsage:       true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/regexflow/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: $HOME/.local/share/regexflow/regexflow.db)")
	rootCmd.PersistentFlags().Int64("user", 0, "ID of the user performing the operation")
	rootCmd.PersistentFlags().String("role", "", "role to act with (MAKER, CHECKER, ADMIN, USER)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("actor.user", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("actor.role", rootCmd.PersistentFlags().Lookup("role"))

	viper.SetDefault("matcher.parallel", false)
	viper.SetDefault("notifications.redis.stream", "regexflow:notifications")
	viper.SetDefault("notifications.retry.max_attempts", 3)

	// Add commands
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(smsCmd())
	rootCmd.AddCommand(notificationsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// REGEXFLOW_DATABASE_PATH and friends
	viper.SetEnvPrefix("REGEXFLOW")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "regexflow %s\n", version)
		},
	}
}
