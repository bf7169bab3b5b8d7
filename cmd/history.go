package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past assessment results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := loadRuntime(cmd, runtimeOptions{withStore: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		records, err := rt.store.ResultRepo().List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No assessments recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-16s  %-30s  %-5s  %s\n",
			"#", "Completed", "Path", "Best match", "Score", "Discount")
		fmt.Fprintln(out, strings.Repeat("\u2500", 90))
		for _, r := range records {
			fmt.Fprintf(out, "%-5d  %-19s  %-16s  %-30s  %4d%%  %d%%\n",
				r.Sequence,
				r.CompletedAt.Local().Format(time.DateTime),
				r.PathID,
				rt.cat.CourseTitle(r.Document.BestMatch),
				r.Document.BestMatchScore,
				r.Document.DiscountEligibility,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of results to show (0 for all)")
}
