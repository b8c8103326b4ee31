package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// UI prints human-facing CLI output. Logs go through logrus separately.
type UI struct {
	Verbose bool
	DryRun  bool
	Out     io.Writer
	ErrOut  io.Writer
}

func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
	bold          = color.New(color.Bold).SprintFunc()
)

func Cyan(s string) string { return cyan(s) }

func Green(s string) string { return green(s) }

func Yellow(s string) string { return yellow(s) }

func Red(s string) string { return red(s) }

func Bold(s string) string { return bold(s) }

// StateColor colors a run state by outcome.
func StateColor(state models.RunState) string {
	s := string(state)
	switch state {
	case models.StateDone:
		return green(s)
	case models.StateRejected:
		return yellow(s)
	case models.StateFailed:
		return red(s)
	default:
		return s
	}
}

// CheckMark renders a pass/fail flag.
func CheckMark(ok bool) string {
	if ok {
		return green("✓")
	}
	return red("✗")
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

func (u *UI) DryRunMsg(format string, a ...any) {
	if u.DryRun {
		u.Warning("[DRY-RUN] "+format, a...)
	}
}

// Draft prints the post text framed the way it will appear on LinkedIn.
func (u *UI) Draft(d models.Draft) {
	fmt.Fprintf(u.Out, "%s %s\n\n%s\n\n", infoPrefix, Bold("Draft ("+string(d.ContentType)+")"), d.Text())
}

// Review prints the per-check result table.
func (u *UI) Review(r models.ReviewResult) error {
	table := u.Table([]string{"Check", "Result"})
	for _, name := range []string{models.CheckLength, models.CheckHashtags, models.CheckBannedTerms, models.CheckReadability} {
		passed, ok := r.Metrics[name]
		if !ok {
			continue
		}
		if err := table.Append([]string{name, CheckMark(passed)}); err != nil {
			return err
		}
	}
	return table.Render()
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
