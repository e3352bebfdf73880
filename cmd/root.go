package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/codegen/jasmin"
	"github.com/c0depwn/jmmc/config"
	"github.com/c0depwn/jmmc/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
)

var (
	rootFlagConfig     string
	rootFlagLogLevel   string
	rootFlagLogFormat  string
	rootFlagNoOptimize bool
)

var rootCmd = &cobra.Command{
	Use:   "jmmc",
	Short: "Code generation back end for Java--",
}

func Exec() {
	rootCmd.PersistentFlags().StringVar(&rootFlagConfig, "config", config.FileName, "path of the settings file")
	rootCmd.PersistentFlags().StringVar(&rootFlagLogLevel, "log-level", "", "log level, one of [debug, info, warn, error]")
	rootCmd.PersistentFlags().StringVar(&rootFlagLogFormat, "log-format", "", "log format, one of [console, json]")
	rootCmd.PersistentFlags().BoolVar(&rootFlagNoOptimize, "no-optimize", false, "disable all bytecode optimizations")

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(newSymbolsCommand())
	rootCmd.AddCommand(newOllirCommand())
	rootCmd.AddCommand(newJasminCommand())
	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newVerifyCommand())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// settings loads the settings file and applies the flags on top.
func settings() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(rootFlagConfig)
	if err != nil {
		return nil, nil, err
	}
	if rootFlagLogLevel != "" {
		cfg.Log.Level = rootFlagLogLevel
	}
	if rootFlagLogFormat != "" {
		cfg.Log.Format = rootFlagLogFormat
	}
	if rootFlagNoOptimize {
		cfg.Jasmin = config.Jasmin{}
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func optimizations(cfg *config.Config) jasmin.Optimizations {
	return jasmin.Optimizations{
		FoldConstants:     cfg.Jasmin.FoldConstants,
		StrengthReduction: cfg.Jasmin.StrengthReduction,
		Increments:        cfg.Jasmin.Increments,
	}
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("'%s' is a directory, please provide a file", path)
	}
	return f, nil
}
