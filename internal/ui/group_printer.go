package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	githubActionsEnvironmentVariableConstant = "GITHUB_ACTIONS"
	githubActionsEnabledValueConstant        = "true"
	githubGroupStartTemplateConstant         = "::group::%s\n"
	githubGroupEndLineConstant               = "::endgroup::\n"
	plainGroupStartTemplateConstant          = "==> %s\n"
	terminalGroupStartTemplateConstant       = "%s\n"
	groupHeaderPrefixConstant                = "▶ "
	groupEndLineConstant                     = "\n"
	groupHeaderColorConstant                 = "12"
)

// GroupStyle selects how output groups are rendered.
type GroupStyle int

// Supported group styles.
const (
	GroupStylePlain GroupStyle = iota
	GroupStyleTerminal
	GroupStyleGitHubActions
)

// EnvironmentLookup resolves environment variables.
type EnvironmentLookup func(key string) (string, bool)

// GroupPrinter brackets the output of a tool invocation with a titled group.
type GroupPrinter struct {
	writer      io.Writer
	style       GroupStyle
	headerStyle lipgloss.Style
	groupOpen   bool
}

// NewGroupPrinter detects the appropriate style for the writer and environment.
func NewGroupPrinter(writer io.Writer, environmentLookup EnvironmentLookup) *GroupPrinter {
	return NewGroupPrinterWithStyle(writer, DetectGroupStyle(writer, environmentLookup))
}

// NewGroupPrinterWithStyle constructs a GroupPrinter with an explicit style.
func NewGroupPrinterWithStyle(writer io.Writer, style GroupStyle) *GroupPrinter {
	if writer == nil {
		writer = io.Discard
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(groupHeaderColorConstant))
	return &GroupPrinter{writer: writer, style: style, headerStyle: headerStyle}
}

// DetectGroupStyle prefers GitHub Actions workflow commands, then terminal styling, then plain text.
func DetectGroupStyle(writer io.Writer, environmentLookup EnvironmentLookup) GroupStyle {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if value, present := environmentLookup(githubActionsEnvironmentVariableConstant); present && strings.EqualFold(strings.TrimSpace(value), githubActionsEnabledValueConstant) {
		return GroupStyleGitHubActions
	}
	if file, isFile := writer.(*os.File); isFile && term.IsTerminal(int(file.Fd())) {
		return GroupStyleTerminal
	}
	return GroupStylePlain
}

// Begin opens a new group, closing any group that is still open.
func (printer *GroupPrinter) Begin(title string) {
	if printer == nil {
		return
	}
	if printer.groupOpen {
		printer.End()
	}

	switch printer.style {
	case GroupStyleGitHubActions:
		fmt.Fprintf(printer.writer, githubGroupStartTemplateConstant, title)
	case GroupStyleTerminal:
		fmt.Fprintf(printer.writer, terminalGroupStartTemplateConstant, printer.headerStyle.Render(groupHeaderPrefixConstant+title))
	default:
		fmt.Fprintf(printer.writer, plainGroupStartTemplateConstant, title)
	}
	printer.groupOpen = true
}

// End closes the current group. It is a no-op when no group is open.
func (printer *GroupPrinter) End() {
	if printer == nil || !printer.groupOpen {
		return
	}

	switch printer.style {
	case GroupStyleGitHubActions:
		fmt.Fprint(printer.writer, githubGroupEndLineConstant)
	default:
		fmt.Fprint(printer.writer, groupEndLineConstant)
	}
	printer.groupOpen = false
}
