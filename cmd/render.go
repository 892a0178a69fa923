package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/site"
)

func newRenderCmd() *cobra.Command {
	var (
		theme  string
		static bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Writes the page as one self-contained HTML file",
		Long: `Renders the page with its stylesheet and script inlined. By default
sections start hidden and reveal in the browser like the served page; with
--static every section is written already revealed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			t, err := themeFor(app, theme)
			if err != nil {
				return err
			}
			renderer, err := site.NewRenderer(siteOptions(app.Config))
			if err != nil {
				return err
			}

			err = writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return renderer.Export(w, app.Content.Current(), t, static)
			})
			if err != nil {
				return err
			}
			app.Logger.Info("page rendered",
				zap.String("theme", t.Name),
				zap.Bool("static", static),
				zap.String("output", output))
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "theme to render (default from config)")
	cmd.Flags().BoolVar(&static, "static", false, "render every section already revealed")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

var createOutput = func(name string) (io.WriteCloser, error) { return os.Create(name) }

// writeOutput runs write against stdout, or against the file at path unless
// path is empty or "-". A file that fails to close is reported as an error.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
