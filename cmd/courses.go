package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the course catalog and question paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, map[string]any{
				"courses": rt.cat.Courses,
				"paths":   rt.cat.Paths,
			})
		}

		fmt.Fprintf(out, "%-18s  %-32s  %s\n", "Course", "Title", "Skills")
		fmt.Fprintln(out, strings.Repeat("\u2500", 90))
		for _, c := range rt.cat.Courses {
			fmt.Fprintf(out, "%-18s  %-32s  %s\n", c.ID, c.Title, strings.Join(c.RelevantSkills, ", "))
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-18s  %-32s  %s\n", "Path", "Title", "Questions")
		fmt.Fprintln(out, strings.Repeat("\u2500", 90))
		for _, p := range rt.cat.Paths {
			fmt.Fprintf(out, "%-18s  %-32s  %d\n", p.ID, p.Title, len(p.Questions))
		}
		return nil
	},
}

func init() {
	coursesCmd.Flags().Bool("json", false, "Print as JSON")
}
