package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ktbridge/internal/bridge"
	"ktbridge/internal/config"
	"ktbridge/internal/crawler"
	"ktbridge/internal/pipeline"
	"ktbridge/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ktbridge",
		Short:         "Convert Kotlin compiler IR dumps into a generic program model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	workers    int
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the conversion cache database (SQLite)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Number of files converted in parallel")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(printCmd)
}

// env is what every command needs: configuration, logger and, unless
// disabled, the result store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.SQLiteStore
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	_ = e.logger.Sync()
}

func loadEnv(cmd *cobra.Command, withStore bool) (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Storage.DBPath = dbPath
	}
	if cmd.Flags().Changed("workers") && workers > 0 {
		cfg.Convert.Workers = workers
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger}
	if withStore {
		e.store, err = storage.NewSQLiteStore(cfg.Storage.DBPath)
		if err != nil {
			logger.Sync()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	return e, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// resolveRoot makes root absolute so that stored paths do not depend on the
// working directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (e *env) pipelineOptions(root string) pipeline.Options {
	return pipeline.Options{
		Workers: e.cfg.Convert.Workers,
		Bridge: bridge.Options{
			DetectImplicitTypes: e.cfg.Convert.DetectImplicitTypes,
			DetectInfix:         e.cfg.Convert.DetectInfix,
		},
		Root:     root,
		OutDir:   e.cfg.Convert.OutDir,
		Validate: e.cfg.Convert.Validate,
	}
}

func (e *env) newPipeline(root string) *pipeline.Pipeline {
	var store storage.UnitStore
	if e.store != nil {
		store = e.store
	}
	return pipeline.New(e.logger, store, e.pipelineOptions(root))
}

func (e *env) crawler() *crawler.Crawler {
	return crawler.NewCrawler(e.cfg.Project.Ignore...)
}

func failIfAny(report *pipeline.Report) error {
	if n := len(report.Failures()); n > 0 {
		return fmt.Errorf("%d files failed to convert", n)
	}
	return nil
}
