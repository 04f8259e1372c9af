package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stoik/spf-harvester/internal/logger"
	"github.com/stoik/spf-harvester/services/harvester/internal/archive"
	"github.com/stoik/spf-harvester/services/harvester/internal/auth"
	"github.com/stoik/spf-harvester/services/harvester/internal/config"
	"github.com/stoik/spf-harvester/services/harvester/internal/harvest"
	"github.com/stoik/spf-harvester/services/harvester/internal/provider"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "harvester",
	Short:         "SPF/DMARC header harvester",
	Long:          "Reads a mailbox folder through Microsoft Graph and exports SPF and DMARC verdicts to CSV",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest the configured mailbox folder",
	Long:  "Authenticates, fetches the first page of messages, extracts the authentication headers and writes the CSV report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return err
		}
		defer log.Sync()

		client := provider.NewHTTPClient(cfg.HTTP.Timeout)
		opts := []harvest.Option{
			harvest.WithOutput(cmd.OutOrStdout()),
			harvest.WithLogger(log),
		}

		if cfg.Archive.Enabled {
			store, err := archive.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, harvest.WithArchiver(store))
		}

		service := harvest.NewService(cfg,
			auth.NewClientCredentials(cfg, client),
			provider.NewMicrosoftProvider(cfg.Graph.APIURL, client, log),
			opts...,
		)

		summary, err := service.Run(ctx)
		if err != nil {
			return err
		}
		log.Infow("harvest complete", "run_id", summary.RunID, "records", summary.Records, "archived", summary.Archived)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml)")
	flags.String("tenant_id", "", "Azure AD tenant ID")
	flags.String("client_id", "", "App registration client ID")
	flags.String("client_secret", "", "App registration client secret")
	flags.String("mailbox", "", "Mailbox to read, e.g. SPF_review@yourdomain.com")
	flags.String("folder", config.DefaultFolder, "Mail folder to read")
	flags.String("output", config.DefaultOutput, "CSV report path")
	flags.String("auth.login_url", config.DefaultLoginURL, "Identity platform base URL")
	flags.String("graph.api_url", config.DefaultGraphURL, "Microsoft Graph API base URL")
	flags.Duration("http.timeout", config.DefaultTimeout, "Timeout of each HTTP request (0 disables)")
	flags.String("log.level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.Bool("log.development", false, "Human-readable console logs")
	flags.Bool("archive.enabled", false, "Also copy each run to the Postgres archive")
	flags.String("database.url", "", "Archive database connection URL")

	// Bind flags to viper
	for _, key := range []string{
		"tenant_id", "client_id", "client_secret", "mailbox", "folder", "output",
		"auth.login_url", "graph.api_url", "http.timeout",
		"log.level", "log.development", "archive.enabled", "database.url",
	} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./services/harvester")
	}
	viper.SetEnvPrefix("HARVESTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
