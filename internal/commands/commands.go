// Package commands is the mindjourney command line: a thin shell over the
// client SDK that works anonymously on local storage or against a server.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AnshRaj112/mindjourney-backend/internal/client"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
)

const (
	defaultServer  = "http://localhost:8080"
	defaultDataDir = "~/.mindjourney"
)

var (
	oo = &OutputOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mindjourney",
		Short: "Private journaling and mood tracking on the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("server", defaultServer, "MindJourney server URL.")
	cmd.PersistentFlags().String("data-dir", defaultDataDir, "Directory for local data and the saved session.")
	cmd.PersistentFlags().String("log-level", "warn", "Log level.")
	AddOutputArg(cmd, oo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addLogin(topLevel)
	addRegister(topLevel)
	addAnon(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addSettings(topLevel)
	addWrite(topLevel)
	addEntries(topLevel)
	addRetry(topLevel)
	addDraft(topLevel)
	addTemplates(topLevel)
	addMood(topLevel)
	addMoods(topLevel)
	addStats(topLevel)
	addInsights(topLevel)
	addExport(topLevel)
	addBackup(topLevel)
	addRestore(topLevel)
	addRecs(topLevel)
	addDaily(topLevel)
}

// loadConfig reads ~/.mindjourney.yaml and MINDJOURNEY_* variables. Flags win.
func loadConfig(cmd *cobra.Command) error {
	viper.SetDefault("server", defaultServer)
	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("log_level", "warn")
	viper.SetConfigName(".mindjourney") // .yaml is implicit
	viper.SetEnvPrefix("MINDJOURNEY")
	viper.AutomaticEnv()

	if override := os.Getenv("MINDJOURNEY_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	flags := cmd.Flags()
	_ = viper.BindPFlag("server", flags.Lookup("server"))
	_ = viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))

	logging.Init(logging.Config{Level: viper.GetString("log_level"), Format: "console"})
	return nil
}

// newClient opens the SDK on the configured data directory and restores the
// saved session, if any.
func newClient(ctx context.Context) (*client.Client, error) {
	dir, err := homedir.Expand(viper.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	c, err := client.New(client.Options{
		BaseURL:  viper.GetString("server"),
		DataDir:  dir,
		Location: time.Local,
	})
	if err != nil {
		return nil, err
	}
	c.Restore(ctx)
	return c, nil
}

// signedIn is newClient for commands that need a session.
func signedIn(ctx context.Context) (*client.Client, error) {
	c, err := newClient(ctx)
	if err != nil {
		return nil, err
	}
	if c.CurrentSession() == nil {
		return nil, fmt.Errorf("not signed in: run `mindjourney login`, `register` or `anon` first")
	}
	return c, nil
}
