package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/preview"
)

func newPreviewCmd() *cobra.Command {
	var (
		theme    string
		viewport float64
		step     float64
		pace     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Dry-runs the reveal sequence in the terminal",
		Long: `Lays the page out on a simulated viewport and scrolls through it,
printing when each block reveals, when every skill bar finishes filling
and when the navigation bar changes state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			t, err := themeFor(app, theme)
			if err != nil {
				return err
			}

			opts := preview.DefaultOptions()
			opts.ViewportHeight = viewport
			opts.Step = step
			opts.Pace = pace
			opts.Site = siteOptions(app.Config)

			report, err := preview.Run(cmd.Context(), app.Content.Current(), t, opts)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "theme to preview (default from config)")
	cmd.Flags().Float64Var(&viewport, "viewport", 900, "viewport height in pixels")
	cmd.Flags().Float64Var(&step, "step", 300, "pixels scrolled per step")
	cmd.Flags().DurationVar(&pace, "pace", 50*time.Millisecond, "wait between scroll steps")
	return cmd
}
