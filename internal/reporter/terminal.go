package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/depman-cli/depman/internal/models"
)

// TerminalReporter outputs human-readable tables styled with lipgloss.
type TerminalReporter struct {
	header  lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	pkgName lipgloss.Style
}

// NewTerminalReporter creates the terminal formatter with its color scheme.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		pkgName: lipgloss.NewStyle().Bold(true),
	}
}

func (r *TerminalReporter) statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusUpToDate:
		return r.ok
	case StatusOutdated:
		return r.warn
	case StatusNotInstalled:
		return r.bad
	default:
		return r.dim
	}
}

// Packages renders the dependency listing as an aligned table.
func (r *TerminalReporter) Packages(rows []PackageRow) ([]byte, error) {
	if len(rows) == 0 {
		return []byte("No dependencies found.\n"), nil
	}

	cols := []string{"PACKAGE", "SPECIFIER", "INSTALLED", "LATEST", "STATUS", "SOURCES"}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cell := []string{
			row.Name,
			orDash(row.Specifier),
			orDash(row.Installed),
			orDash(row.Latest),
			row.Status,
			orDash(strings.Join(row.Sources, ", ")),
		}
		for i, v := range cell {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		cells = append(cells, cell)
	}

	var sb strings.Builder
	for i, c := range cols {
		sb.WriteString(r.header.Render(pad(c, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	for ci, cell := range cells {
		sb.WriteString(r.pkgName.Render(pad(cell[0], widths[0])))
		sb.WriteString("  ")
		for i := 1; i < len(cell); i++ {
			v := pad(cell[i], widths[i])
			switch i {
			case 4:
				v = r.statusStyle(rows[ci].Status).Render(v)
			case 5:
				v = r.dim.Render(v)
			}
			sb.WriteString(v)
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(r.dim.Render(fmt.Sprintf("\n%d packages\n", len(rows))))
	return []byte(sb.String()), nil
}

// Search renders ranked search results.
func (r *TerminalReporter) Search(results []models.RegistryPackageInfo) ([]byte, error) {
	if len(results) == 0 {
		return []byte("No packages matched.\n"), nil
	}
	var sb strings.Builder
	for _, res := range results {
		sb.WriteString(r.pkgName.Render(res.Name))
		if res.LatestVersion != "" {
			sb.WriteString(" " + r.dim.Render(res.LatestVersion))
		}
		sb.WriteString("\n")
		if res.Description != "" {
			sb.WriteString("  " + truncate(res.Description, 100) + "\n")
		}
	}
	return []byte(sb.String()), nil
}

// Info renders the detail view as aligned key/value lines.
func (r *TerminalReporter) Info(fields []Field) ([]byte, error) {
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	var sb strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		sb.WriteString(r.header.Render(pad(f.Key, width)))
		sb.WriteString("  " + f.Value + "\n")
	}
	return []byte(sb.String()), nil
}

// Env renders environment diagnostics.
func (r *TerminalReporter) Env(info models.EnvInfo) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(r.header.Render(info.LanguageName) + " " + orDash(info.LanguageVersion) + "\n")
	sb.WriteString(info.ToolName + " " + orDash(info.ToolVersion) + "\n")
	state := r.bad.Render("missing")
	if info.EnvExists {
		state = r.ok.Render("present")
	}
	sb.WriteString(info.EnvLabel + ": " + state + "\n")
	return []byte(sb.String()), nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
