package cmd

import (
	"fmt"
	"strings"

	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/internal/prompt"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the field presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		printPresets(a.prompter, a.registry)
		return nil
	},
}

func printPresets(p *prompt.Prompter, reg *mapping.Registry) {
	lines := make([]string, 0, len(mapping.PresetNames()))
	for _, name := range mapping.PresetNames() {
		line := fmt.Sprintf("%s: %s", name, strings.Join(reg.PresetFields(name), ", "))
		if name == mapping.DefaultPreset {
			line += " (default)"
		}
		lines = append(lines, line)
	}
	p.Panel("Field presets", lines)
}
