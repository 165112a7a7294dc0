package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/driftless-hq/driftless-sub001/internal/task"
	"github.com/driftless-hq/driftless-sub001/pkg/strings"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	var configDir, applyConfigPath string
	var dryRun, quiet bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate and run the configured task list once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(configDir, applyConfigPath, dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			var s *spinner.Spinner
			if !quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = " Applying tasks..."
				s.Start()
			}

			results, err := a.ApplyOnce(cmd.Context())

			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			printApplyResults(results)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "", "directory holding config.yaml and facts.yaml")
	cmd.Flags().StringVar(&applyConfigPath, "apply-config", "apply.yaml", "apply task list file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended changes without applying them")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	return cmd
}

func outcomeColor(o task.Outcome) text.Colors {
	switch o {
	case task.OutcomeChanged:
		return text.Colors{text.FgHiYellow, text.Bold}
	case task.OutcomeFailed:
		return text.Colors{text.FgHiRed, text.Bold}
	case task.OutcomeIgnoredFailure:
		return text.Colors{text.FgRed}
	case task.OutcomeSkipped:
		return text.Colors{text.FgHiBlack}
	default:
		return text.Colors{text.FgHiGreen}
	}
}

func printApplyResults(results []task.StepResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("#"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("KIND"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("DESCRIPTION"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("OUTCOME"),
	})

	changed := 0
	for _, r := range results {
		if r.Outcome == task.OutcomeChanged {
			changed++
		}
		t.AppendRow(table.Row{
			r.Index,
			r.Kind,
			strings.TruncateDescription(r.Description, strings.DefaultDescriptionMaxLen),
			outcomeColor(r.Outcome).Sprint(r.Outcome),
		})
	}
	t.Render()
	fmt.Printf("\n%s %d tasks, %s %d changed\n",
		text.FgHiBlue.Sprint("Total:"), len(results),
		text.FgHiYellow.Sprint("Changed:"), changed)
}
