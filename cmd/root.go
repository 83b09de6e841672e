// file: cmd/root.go
// version: 1.0.0
// guid: 7d8e1f4a-0b6c-4d9e-2f3a-5b6c7d8e9f0a

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/notekeeper/internal/config"
	"github.com/jdfalk/notekeeper/internal/database"
	"github.com/jdfalk/notekeeper/internal/server"
	"github.com/jdfalk/notekeeper/internal/storage"
)

var cfgFile string
var hostFlag string
var portFlag string
var modeFlag string
var dataDirFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notekeeper",
	Short: "Self-hosted note-taking server",
	Long: `Notekeeper serves a note and collection API behind a hardened
request pipeline: rate limiting, payload-size guarding, schema
validation, CORS and security headers, and uniform error envelopes.`,
}

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the notekeeper API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig

		if err := database.InitializeStore(cfg.DatabaseType, cfg.DatabasePath, cfg.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		blobs, err := storage.NewDiskBlobStore(cfg.BlobDir, cfg.BaseURL+"/files")
		if err != nil {
			return fmt.Errorf("failed to initialize blob storage: %w", err)
		}

		fmt.Printf("Using database: %s (%s)\n", cfg.DatabasePath, cfg.DatabaseType)

		srv := server.NewServer(cfg, database.GlobalStore, blobs)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			srv.Close()
			return err
		case sig := <-quit:
			log.Printf("Received %s, shutting down...", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		}
	},
}

// configCmd prints the effective configuration as YAML
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(config.AppConfig)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.notekeeper.yaml)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "bind address")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "listen port")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "execution mode (development|production)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "base directory for database and blobs")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(".notekeeper")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("NOTEKEEPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		viper.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("Config file changed: %s, reloading", e.Name)
			config.InitConfig()
		})
		viper.WatchConfig()
	}

	config.InitConfig()
	applyDataDirDefaults()
}

// applyDataDirDefaults derives database and blob paths from data_dir
// when they are not set explicitly.
func applyDataDirDefaults() {
	dataDir := viper.GetString("data_dir")
	if dataDir == "" {
		dataDir = "."
	}
	if config.AppConfig.DatabasePath == "" {
		config.AppConfig.DatabasePath = filepath.Join(dataDir, "notekeeper.db")
	}
	if config.AppConfig.BlobDir == "" {
		config.AppConfig.BlobDir = filepath.Join(dataDir, "blobs")
	}
}
