// Package prompt collects operator input on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EmptyInputError is returned when a required answer is blank. The caller is
// expected to ask again.
type EmptyInputError struct {
	Field string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s cannot be empty", e.Field)
}

// InvalidChoiceError is returned when a menu answer is not one of the options.
type InvalidChoiceError struct {
	Answer string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q", e.Answer)
}

// IsRecoverable reports whether err only requires asking again.
func IsRecoverable(err error) bool {
	var emptyErr *EmptyInputError
	var choiceErr *InvalidChoiceError
	return errors.As(err, &emptyErr) || errors.As(err, &choiceErr)
}

type styles struct {
	label   lipgloss.Style
	hint    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
	title   lipgloss.Style
	panel   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		hint:    r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
		title:   r.NewStyle().Bold(true).Underline(true),
		panel:   r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2196F3")).
			Padding(0, 1),
	}
}

// Prompter reads answers from in and writes prompts to out.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles styles
}

// New creates a prompter. Colors are only used when out is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

func (p *Prompter) readLine() (string, error) {
	text, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Ask prints label and returns the trimmed answer. A blank answer is an
// *EmptyInputError naming field.
func (p *Prompter) Ask(field, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", p.styles.label.Render(label))
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", &EmptyInputError{Field: field}
	}
	return answer, nil
}

// AskDefault returns def when the answer is blank.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", p.styles.label.Render(label), p.styles.hint.Render(def))
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose shows a numbered menu and returns the zero-based index picked.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	fmt.Fprintf(p.out, "\n%s\n", p.styles.title.Render(title))
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}

	answer, err := p.Ask("choice", "Choice")
	if err != nil {
		return -1, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 || n > len(options) {
		return -1, &InvalidChoiceError{Answer: answer}
	}
	return n - 1, nil
}

// AskJQL asks for the query to run.
func (p *Prompter) AskJQL() (string, error) {
	p.hints("Enter your JQL query", []string{
		"assignee = currentUser()",
		`project = "MYPROJECT" AND status = "In Progress"`,
		"created >= -30d AND priority = High",
	})
	return p.Ask("JQL query", "JQL Query")
}

// AskFields asks for a preset name or a comma separated field list. A blank
// answer selects def.
func (p *Prompter) AskFields(presets []string, def string) (string, error) {
	p.hints("Choose the fields to extract", []string{
		"a preset: " + strings.Join(presets, ", "),
		"a comma separated list: priority, storyPoints, sprint",
	})
	return p.AskDefault("Fields", def)
}

// AskQuestion asks for the analysis the prompt document should request.
func (p *Prompter) AskQuestion() (string, error) {
	p.hints("What analysis do you want to perform?", []string{
		"Analyze sprint performance and identify bottlenecks",
		"Review bug patterns and suggest improvements",
		"Evaluate team workload distribution",
	})
	return p.Ask("analysis question", "Analysis Question")
}

func (p *Prompter) hints(title string, examples []string) {
	fmt.Fprintf(p.out, "\n%s\n", p.styles.title.Render(title))
	fmt.Fprintln(p.out, p.styles.hint.Render("Examples:"))
	for _, ex := range examples {
		fmt.Fprintln(p.out, p.styles.hint.Render("  - "+ex))
	}
}

// Success prints a confirmation line.
func (p *Prompter) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a recoverable problem.
func (p *Prompter) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.warn.Render(fmt.Sprintf(format, args...)))
}

// Failure prints an error line.
func (p *Prompter) Failure(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.failure.Render(fmt.Sprintf(format, args...)))
}

// Linef prints an unstyled line.
func (p *Prompter) Linef(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Panel prints lines inside a bordered box headed by title.
func (p *Prompter) Panel(title string, lines []string) {
	body := p.styles.title.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(p.out, p.styles.panel.Render(body))
}
