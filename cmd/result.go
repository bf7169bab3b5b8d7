package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoResult = errors.New("no assessment result recorded yet")

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Inspect or clear the recorded assessment result",
}

var resultShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the latest assessment result",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, runtimeOptions{withStore: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		doc, err := rt.recorder.Latest(cmd.Context())
		if err != nil {
			return err
		}
		if doc == nil {
			return errNoResult
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"assessmentResults": doc})
		}
		printDocument(cmd.OutOrStdout(), rt.cat, *doc)
		return nil
	},
}

var resultClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the recorded result; history is kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, runtimeOptions{withStore: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.recorder.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Assessment result cleared.")
		return nil
	},
}

func init() {
	resultShowCmd.Flags().Bool("json", false, "Print the stored document as JSON")
	resultCmd.AddCommand(resultShowCmd)
	resultCmd.AddCommand(resultClearCmd)
}
