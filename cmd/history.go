package cmd

import (
	"fmt"
	"time"

	"github.com/danielolaszy/jiralens/internal/history"
	"github.com/danielolaszy/jiralens/internal/prompt"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the extractions recorded on a day",
	Long: `Show the extractions recorded on a day, today by default.

Example:
  jiralens history
  jiralens history --day 2024-05-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		day := time.Now()
		if raw, _ := cmd.Flags().GetString("day"); raw != "" {
			day, err = time.Parse("2006-01-02", raw)
			if err != nil {
				return fmt.Errorf("invalid --day %q, expected YYYY-MM-DD", raw)
			}
		}
		return printHistoryFor(a.prompter, a.cfg.OutputDir, day)
	},
}

func init() {
	historyCmd.Flags().String("day", "", "day to show (YYYY-MM-DD)")
}

func printHistory(p *prompt.Prompter, outputDir string) error {
	return printHistoryFor(p, outputDir, time.Now())
}

func printHistoryFor(p *prompt.Prompter, outputDir string, day time.Time) error {
	entries, err := history.NewRecorder(outputDir).Read(day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		p.Linef("No extractions recorded on %s.", day.Format("2006-01-02"))
		return nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s  %d/%d tickets  %s",
			e.RecordedAt.Local().Format("15:04:05"), e.TicketCount, e.TotalTickets, e.Query))
		if e.Question != "" {
			lines = append(lines, "          "+e.Question)
		}
	}
	p.Panel(fmt.Sprintf("Extractions on %s", day.Format("2006-01-02")), lines)
	return nil
}
