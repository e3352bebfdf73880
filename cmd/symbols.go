package cmd

import (
	"github.com/c0depwn/jmmc/ast"
	"github.com/c0depwn/jmmc/compiler"
	"github.com/c0depwn/jmmc/symbols"
	"github.com/spf13/cobra"
)

func newSymbolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [input_file]",
		Short: "Show the symbol table of a front end document",
		Args:  cobra.ExactArgs(1),
		RunE:  runSymbols,
	}
}

func runSymbols(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0])
	if err != nil {
		return err
	}

	table := in.SymbolTable
	if table == nil {
		program, err := ast.Build(in.Root)
		if err != nil {
			return err
		}
		if table, err = symbols.Collect(program); err != nil {
			return err
		}
	}

	table.Print(cmd.OutOrStdout())
	return nil
}

func readInput(path string) (*compiler.Input, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return compiler.ReadInput(f)
}
