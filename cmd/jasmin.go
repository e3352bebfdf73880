package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/codegen/jasmin"
	"github.com/c0depwn/jmmc/parser"
	"github.com/spf13/cobra"
	"os"
)

var jasminFlagTrace bool

func newJasminCommand() *cobra.Command {
	jasminCmd := &cobra.Command{
		Use:   "jasmin [ollir_file]",
		Short: "Translate an IR file into Jasmin assembly",
		Args:  cobra.ExactArgs(1),
		RunE:  runJasmin,
	}

	jasminCmd.PersistentFlags().BoolVar(&jasminFlagTrace, "trace", false, "enable trace of called parse functions")

	return jasminCmd
}

func runJasmin(cmd *cobra.Command, args []string) error {
	cfg, log, err := settings()
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var parserOptions []parser.Option
	if jasminFlagTrace {
		parserOptions = append(parserOptions, parser.EnableTrace(os.Stderr))
	}

	class, err := parser.Parse(f, parserOptions...)
	if err != nil {
		return err
	}

	out, err := jasmin.Translate(class,
		jasmin.WithOptimizations(optimizations(cfg)),
		jasmin.WithLogger(log),
	)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
