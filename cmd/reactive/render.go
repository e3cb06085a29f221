package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/export"
)

func renderCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Upgrade a page and print the result",
		Long: `Parse an HTML page, upgrade its custom elements and print the
rendered document as HTML or Markdown. Without a file the demo page is
rendered; "-" reads standard input.

Examples:
  reactive render
  reactive render page.html --format markdown
  cat page.html | reactive render -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Export.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			rt, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := rt.load(cmd.Context(), path)
			if err != nil {
				return err
			}

			out, err := export.New(export.WithLogger(rt.logger)).Render(doc, f)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: html or markdown (default from config)")

	return cmd
}
