package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunara/internal/cli"
	"github.com/terraincognita07/lunara/internal/config"
	"github.com/terraincognita07/lunara/internal/db"
	"github.com/terraincognita07/lunara/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "lunara",
		Short:         "Daily hormonal health check-ins with cycle phase insights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file (env LUNARA_CONFIG)")

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}

	serve := newServeCommand(loadConfig)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newClassifyCommand(loadConfig),
		newHistoryCommand(loadConfig),
		newProfilesCommand(loadConfig),
		newMigrateCommand(loadConfig),
	)
	return root
}

type configLoader func() (config.Config, error)

func defaultConfigPath() string {
	if path := strings.TrimSpace(os.Getenv("LUNARA_CONFIG")); path != "" {
		return path
	}
	return "lunara.yaml"
}

func newServeCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func newClassifyCommand(loadConfig configLoader) *cobra.Command {
	input := services.CheckInInput{}
	command := &cobra.Command{
		Use:   "classify",
		Short: "Print the insight for a check-in without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			location, _ := cfg.Location()
			return cli.RunClassifyCommand(cmd.OutOrStdout(), input, time.Now(), location)
		},
	}
	command.Flags().IntVar(&input.Mood, "mood", 5, "mood score from 1 to 10")
	command.Flags().IntVar(&input.Energy, "energy", 5, "energy score from 1 to 10")
	command.Flags().StringVar(&input.Sleep, "sleep", "okay", "sleep quality: poor, okay or good")
	command.Flags().StringVar(&input.Date, "date", "", "check-in date as YYYY-MM-DD (defaults to today)")
	return command
}

func newHistoryCommand(loadConfig configLoader) *cobra.Command {
	var profileID string
	command := &cobra.Command{
		Use:   "history",
		Short: "Print stored check-ins for a session profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			blobs, closeBlobs, err := openBlobStore(cmd.Context(), cfg, nopLogger())
			if err != nil {
				return err
			}
			defer closeBlobs()
			return cli.RunHistoryCommand(cmd.Context(), cmd.OutOrStdout(), blobs, profileID)
		},
	}
	command.Flags().StringVar(&profileID, "session", "", "session profile id")
	_ = command.MarkFlagRequired("session")
	return command
}

func newProfilesCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List session profiles with stored history (sql backend only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageBackend != config.BackendSQL {
				return fmt.Errorf("profiles requires the %s storage backend", config.BackendSQL)
			}
			database, err := openDatabase(cfg, nopLogger(), false)
			if err != nil {
				return err
			}
			defer db.Close(database)
			return cli.RunProfilesCommand(cmd.Context(), cmd.OutOrStdout(), db.NewRepositories(database).Blobs)
		},
	}
}

func newMigrateCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := openDatabase(cfg, nopLogger(), true)
			if err != nil {
				return err
			}
			defer db.Close(database)
			return cli.RunMigrateCommand(cmd.OutOrStdout(), database)
		},
	}
}
