package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/catalog"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score recorded answers without the terminal UI",
	Long: "Reads an answers file (YAML or JSON) with a path, one option index per " +
		"question and the selected skills, then prints the result and records it " +
		"unless --no-save is given.",
	Example: "  coursefit score --answers answers.yaml\n  cat answers.json | coursefit score --answers - --json",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, _ := cmd.Flags().GetString("answers")
		noSave, _ := cmd.Flags().GetBool("no-save")
		asJSON, _ := cmd.Flags().GetBool("json")

		answers, err := readAnswers(cmd.InOrStdin(), src)
		if err != nil {
			return err
		}

		rt, err := loadRuntime(cmd, runtimeOptions{withStore: !noSave})
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := assessment.Replay(rt.cat, answers)
		if err != nil {
			return err
		}

		var warning string
		if !noSave {
			if err := rt.recorder.Record(cmd.Context(), res); err != nil {
				warning = fmt.Sprintf("result could not be saved: %v", err)
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, map[string]any{
				"assessmentResults": res.Document(),
				"persisted":         !noSave && warning == "",
			})
		}
		printDocument(out, rt.cat, res.Document())
		if warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("answers", "", "Answers file, or - for stdin")
	scoreCmd.Flags().Bool("json", false, "Print the result document as JSON")
	scoreCmd.Flags().Bool("no-save", false, "Do not record the result")
	_ = scoreCmd.MarkFlagRequired("answers")
}

// readAnswers decodes a YAML or JSON answers document from a file or stdin.
func readAnswers(stdin io.Reader, src string) (assessment.Answers, error) {
	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return assessment.Answers{}, fmt.Errorf("read answers: %w", err)
	}

	var a assessment.Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return assessment.Answers{}, fmt.Errorf("decode answers: %w", err)
	}
	return a, nil
}

func printDocument(w io.Writer, cat *catalog.Catalog, doc assessment.Document) {
	fmt.Fprintf(w, "Best match: %s (%d%%)\n", cat.CourseTitle(doc.BestMatch), doc.BestMatchScore)
	fmt.Fprintf(w, "Discount eligibility: %d%%\n\n", doc.DiscountEligibility)
	for _, m := range doc.Ranked() {
		fmt.Fprintf(w, "  %-32s %3d%%\n", cat.CourseTitle(m.CourseID), m.Score)
	}
	if len(doc.Skills) > 0 {
		fmt.Fprintf(w, "\nSkills: %s\n", strings.Join(doc.Skills, ", "))
	}
}
