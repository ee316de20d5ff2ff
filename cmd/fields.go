package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/internal/prompt"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the mapped fields",
	Long: `List the semantic fields that can be extracted, as defined by the field
mappings file.

Example:
  jiralens fields
  jiralens fields --type number
  jiralens fields --enums
  jiralens fields --render`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		enums, _ := cmd.Flags().GetBool("enums")
		if enums {
			printEnumerated(a.prompter, a.registry)
			return nil
		}

		fieldType, _ := cmd.Flags().GetString("type")
		render, _ := cmd.Flags().GetBool("render")
		return printFields(a.prompter, a.registry, mapping.FieldType(fieldType), render)
	},
}

func init() {
	fieldsCmd.Flags().String("type", "", "only list fields of this type (number, string, date, object, array, boolean)")
	fieldsCmd.Flags().Bool("enums", false, "list fields with a fixed set of values")
	fieldsCmd.Flags().Bool("render", false, "render the schema as formatted markdown")
}

// printFields lists the mapped fields, optionally restricted to one type. With
// render the schema document is rendered for the terminal.
func printFields(p *prompt.Prompter, reg *mapping.Registry, fieldType mapping.FieldType, render bool) error {
	keys := reg.Keys()
	if fieldType != "" {
		keys = reg.ListByType(fieldType)
	}
	if len(keys) == 0 {
		p.Warn("No fields found.")
		return nil
	}

	if render {
		out, err := renderMarkdown(reg.SchemaMarkdown(keys))
		if err != nil {
			return err
		}
		p.Linef("%s", out)
		return nil
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, reg.Describe(k))
	}
	p.Panel(fmt.Sprintf("Available fields (%d)", len(keys)), lines)
	p.Linef("Always included: %s", strings.Join(mapping.BaseKeys, ", "))
	return nil
}

func printEnumerated(p *prompt.Prompter, reg *mapping.Registry) {
	enumerated := reg.ListEnumerated()
	if len(enumerated) == 0 {
		p.Warn("No enumerated fields defined.")
		return
	}
	lines := make([]string, 0, len(enumerated))
	for _, e := range enumerated {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Key, strings.Join(e.Values, ", ")))
	}
	p.Panel("Enumerated fields", lines)
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
