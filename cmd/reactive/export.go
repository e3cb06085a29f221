package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		name   string
		dir    string
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a page and write it to a directory or S3",
		Long: `Render a page like "reactive render" and store the result.

Output goes to S3 when a bucket is given on the command line or in the
config; otherwise to the export directory. Credentials for S3 are read from
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  reactive export page.html --dir dist
  reactive export page.html --format markdown --bucket docs --prefix pages/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if name == "" {
				name = "index"
				if path != "" && path != "-" {
					name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
			}

			rt, err := newApp(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			doc, err := rt.load(ctx, path)
			if err != nil {
				return err
			}

			var target export.Target
			s3cfg := cfg.Export.S3
			if bucket != "" {
				s3cfg.Bucket = bucket
			}
			if prefix != "" {
				s3cfg.Prefix = prefix
			}
			if s3cfg.Bucket != "" {
				client := export.NewS3Client(export.S3Config{
					Region:    s3cfg.Region,
					Endpoint:  s3cfg.Endpoint,
					PathStyle: s3cfg.PathStyle,
				})
				target = export.NewS3Target(client, s3cfg.Bucket, s3cfg.Prefix)
			} else {
				if dir == "" {
					dir = cfg.ExportDir()
				}
				target = export.DirTarget{Dir: dir}
			}

			location, err := export.New(export.WithLogger(rt.logger)).Export(ctx, doc, f, name, target)
			if err != nil {
				errorMsg("Export failed")
				return err
			}
			success("Exported %s", location)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: html or markdown (default from config)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Output name (default: input file name)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "S3 key prefix")

	return cmd
}
