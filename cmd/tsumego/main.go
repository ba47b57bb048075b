package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tsumego/internal/bootstrap"
	"tsumego/internal/repository"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg    *bootstrap.Config
	logger *zap.SugaredLogger
	store  *repository.RecordStorage
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsumego",
	Short: "Go problem trainer and record editor",
	Long: `tsumego plays, solves and edits Go game records stored as SGF files.

Interactive commands are read from standard input one per line; type
help for the list.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "config file")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pdfCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = bootstrap.Setup(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err = NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	store = repository.NewRecordStorage(cfg, logger)
	return nil
}

func NewLogger(level string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
