package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/codegen/ollir"
	"github.com/c0depwn/jmmc/ir"
	"github.com/c0depwn/jmmc/report"
	"github.com/spf13/cobra"
)

func newOllirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ollir [input_file]",
		Short: "Show the IR generated for a front end document",
		Args:  cobra.ExactArgs(1),
		RunE:  runOllir,
	}
}

func runOllir(cmd *cobra.Command, args []string) error {
	cfg, log, err := settings()
	if err != nil {
		return err
	}
	defer log.Sync()

	in, err := readInput(args[0])
	if err != nil {
		return err
	}
	if err := report.Err(in.Reports); err != nil {
		return err
	}

	program, err := ast.Build(in.Root)
	if err != nil {
		return err
	}

	class, err := ollir.Generate(program, in.SymbolTable, ollir.WithLogger(log))
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), ir.Printer{Indent: cfg.Ollir.Indent}.Print(class))
	return err
}
