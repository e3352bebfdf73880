package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/lexer"
	"github.com/c0depwn/jmmc/token"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [ollir_file]",
	Short: "Show the tokens of an IR file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLexer,
}

func runLexer(cmd *cobra.Command, args []string) error {
	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	l := lexer.New(f)

	for {
		t := l.Next()

		if t.Type == token.EOF {
			break
		}
		if t.Type == token.Illegal {
			return fmt.Errorf("%s: illegal input: %s", t.Position, t.Literal)
		}

		fmt.Fprintln(cmd.OutOrStdout(), t)
	}

	return nil
}
