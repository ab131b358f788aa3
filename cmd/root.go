package cmd

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gnsys"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sitecat "github.com/swpdata/sitecat/pkg"
	"github.com/swpdata/sitecat/pkg/config"
)

//go:embed sitecat.yaml
var configText string

var (
	opts []config.Option
)

// cfgData mirrors the configuration file for viper unmarshalling.
type cfgData struct {
	DataDir         string
	CatalogFile     string
	OutputDir       string
	JobsNum         int
	FetchTimeoutSec int
	WithPG          bool
	PgHost          string
	PgUser          string
	PgPass          string
	PgDB            string
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitecat",
	Short: "Assembles the freshwater temperature site layer",
	Long: `sitecat rebuilds the provincial freshwater temperature site catalog
from scratch: it reads every registered source, normalizes site records
into a common shape on WGS84, joins the dataset catalog metadata and
exports one point-feature collection for the map layer.`,
	Run: func(cmd *cobra.Command, _ []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", sitecat.Version, sitecat.Build)
			os.Exit(0)
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLog, initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
}

// initLog installs the tinted slog handler for all commands.
func initLog() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.DateTime,
	})
	slog.SetDefault(slog.New(handler))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "sitecat"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	// Search config in home directory with name "sitecat" (without extension).
	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file sitecat.yaml not found", "error", err)
		os.Exit(1)
	}

	// Database credentials may live in a .env next to the binary instead of
	// the config file.
	_ = godotenv.Load()

	getOpts()
}

// getOpts imports data from the configuration file. Some of the settings can
// be overriden by environment variables.
func getOpts() []config.Option {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	if cfg.DataDir != "" {
		opts = append(opts, config.OptDataDir(cfg.DataDir))
	}
	if cfg.CatalogFile != "" {
		opts = append(opts, config.OptCatalogFile(cfg.CatalogFile))
	}
	if cfg.OutputDir != "" {
		opts = append(opts, config.OptOutputDir(cfg.OutputDir))
	}
	if cfg.JobsNum != 0 {
		opts = append(opts, config.OptJobsNum(cfg.JobsNum))
	}
	if cfg.FetchTimeoutSec != 0 {
		opts = append(opts,
			config.OptFetchTimeout(time.Duration(cfg.FetchTimeoutSec)*time.Second))
	}
	if cfg.WithPG {
		opts = append(opts, config.OptWithPG(true))
	}
	if cfg.PgHost != "" {
		opts = append(opts, config.OptPgHost(cfg.PgHost))
	}
	if cfg.PgUser != "" {
		opts = append(opts, config.OptPgUser(cfg.PgUser))
	}
	if cfg.PgPass != "" {
		opts = append(opts, config.OptPgPass(cfg.PgPass))
	}
	if pass := os.Getenv("SWP_PG_PASS"); pass != "" {
		opts = append(opts, config.OptPgPass(pass))
	}
	if cfg.PgDB != "" {
		opts = append(opts, config.OptPgDB(cfg.PgDB))
	}
	return opts
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
