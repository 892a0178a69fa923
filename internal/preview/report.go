package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b9d"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c084fc"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
)

// Write prints a readable summary of the run.
func (r *Report) Write(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("reveal preview: %s theme", r.Theme)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("viewport %.0fpx, page %.0fpx, %d steps", r.ViewportHeight, r.PageHeight, r.Steps)))
	sb.WriteString("\n\n")

	section := ""
	for _, rv := range r.Reveals {
		if rv.Section != section {
			section = rv.Section
			sb.WriteString(sectionStyle.Render(section))
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  %-48s step %3d  y=%.0f\n", rv.Element, rv.Step, rv.ScrollY)
	}

	if len(r.Bars) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("skill bars"))
		sb.WriteString("\n")
		for _, b := range r.Bars {
			if !b.Entered {
				fmt.Fprintf(&sb, "  %-40s %s\n", b.Name, warnStyle.Render("never revealed"))
				continue
			}
			fmt.Fprintf(&sb, "  %-40s %5.1f%%  delay %-6s done %s\n",
				b.Name, b.Value, b.Delay, b.Complete.Format("15:04:05.000"))
		}
	}

	if len(r.Nav) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("navigation"))
		sb.WriteString("\n")
		for _, n := range r.Nav {
			state := "top"
			if n.Scrolled {
				state = "scrolled"
			}
			fmt.Fprintf(&sb, "  %-10s y=%.0f\n", state, n.ScrollY)
		}
	}

	if len(r.Hidden) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d blocks never revealed:", len(r.Hidden))))
		sb.WriteString("\n")
		for _, id := range r.Hidden {
			fmt.Fprintf(&sb, "  %s\n", id)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
