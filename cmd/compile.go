package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/compiler"
	"github.com/c0depwn/jmmc/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
	"path/filepath"
)

var (
	compileFlagOutDir   string
	compileFlagNoChecks bool
)

func newCompileCommand() *cobra.Command {
	compileCmd := &cobra.Command{
		Use:   "compile [input_file]",
		Short: "Generate IR and Jasmin from a front end document",
		Long: "Generate IR and Jasmin from a front end document. Without --out-dir the\n" +
			"Jasmin assembly is written to stdout, otherwise <Class>.ollir and <Class>.j\n" +
			"are written to the directory.",
		Args: cobra.ExactArgs(1),
		RunE: runCompiler,
	}
	compileCmd.PersistentFlags().StringVarP(&compileFlagOutDir, "out-dir", "o", "", "directory receiving the generated files")
	compileCmd.PersistentFlags().BoolVar(&compileFlagNoChecks, "no-checks", false, "skip the input contract checks")
	return compileCmd
}

func runCompiler(cmd *cobra.Command, args []string) error {
	cfg, log, err := settings()
	if err != nil {
		return err
	}
	defer log.Sync()

	in, err := readInput(args[0])
	if err != nil {
		return err
	}

	opts := []compiler.Option{
		compiler.WithLogger(log),
		compiler.WithIndent(cfg.Ollir.Indent),
		compiler.WithOptimizations(optimizations(cfg)),
	}
	if compileFlagNoChecks {
		opts = append(opts, compiler.WithoutChecks())
	}

	result, err := compiler.Compile(in, opts...)
	logReports(log, result.Reports)
	if err != nil {
		return err
	}

	if compileFlagOutDir == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), result.Jasmin)
		return err
	}

	if err := os.MkdirAll(compileFlagOutDir, 0o755); err != nil {
		return err
	}
	files := map[string]string{
		result.Class.Name + ".ollir": result.Ollir,
		result.Class.Name + ".j":     result.Jasmin,
	}
	for name, content := range files {
		path := filepath.Join(compileFlagOutDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		log.Info("wrote file", zap.String("path", path))
	}
	return nil
}

func logReports(log *zap.Logger, reports []report.Report) {
	for _, r := range reports {
		fields := []zap.Field{zap.Stringer("stage", r.Stage)}
		if r.Line >= 0 {
			fields = append(fields, zap.Int("line", r.Line), zap.Int("column", r.Column))
		}
		switch r.Type {
		case report.Error:
			log.Error(r.Message, fields...)
		case report.Warning:
			log.Warn(r.Message, fields...)
		case report.Log:
			log.Info(r.Message, fields...)
		default:
			log.Debug(r.Message, fields...)
		}
	}
}
