package cmd

import (
	"fmt"
	"github.com/c0depwn/jmmc/codegen/jasmin"
	"github.com/spf13/cobra"
	"os"
	"strings"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [jasmin_file]",
		Short: "Check the operand stack of every method in a Jasmin file",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	reports, err := jasmin.Verify(string(text))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[2]s + %[2]s +\n", strings.Repeat("-", 16), strings.Repeat("-", 8))
	fmt.Fprintf(out, "| %16s | %8s | %8s | %8s |\n", "method", "max", "stack", "locals")
	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[2]s + %[2]s +\n", strings.Repeat("-", 16), strings.Repeat("-", 8))
	for _, r := range reports {
		fmt.Fprintf(out, "| %16s | %8d | %8d | %8d |\n", r.Name, r.MaxStack, r.LimitStack, r.LimitLocals)
	}
	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[2]s + %[2]s +\n", strings.Repeat("-", 16), strings.Repeat("-", 8))

	return nil
}
