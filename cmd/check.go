package cmd

import (
	"fmt"
	"strings"

	"ngo-cms/pkg/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)
	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)
	styleError = lipgloss.NewStyle().
			Foreground(colorError)
	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report missing content files and registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report := services.CheckInstall(a.index, a.registry)
		cmd.Print(formatReport(report))
		if missing := report.Missing(); len(missing) > 0 {
			return fmt.Errorf("%d expected file(s) missing", len(missing))
		}
		return nil
	},
}

func formatReport(r services.InstallReport) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Content files"))
	b.WriteString("\n")
	for _, f := range r.Files {
		if f.Exists {
			b.WriteString(styleSuccess.Render("  ✓ ") + f.Path + "\n")
		} else {
			b.WriteString(styleError.Render("  ✗ ") + f.Path + styleMuted.Render(" (missing)") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleTitle.Render("Registered routes"))
	b.WriteString("\n")
	for _, route := range r.Routes {
		prefix := "/" + strings.Trim(route.Prefix, "/") + "/"
		if !route.Public {
			prefix = styleMuted.Render("(not public)")
		}
		line := fmt.Sprintf("  %-9s %-18s %s", route.Kind, route.Name, prefix)
		if n, ok := r.RecordCount[route.Name]; ok && route.Kind == "type" {
			line += styleMuted.Render(fmt.Sprintf("  %d record(s)", n))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if r.Flushed {
		b.WriteString(styleSuccess.Render("Routes are flushed.") + "\n")
	} else {
		b.WriteString(styleWarning.Render("Routes need a flush: run `ngo-cms flush`.") + "\n")
	}
	return b.String()
}
