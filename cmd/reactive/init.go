package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		yamlFormat bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Long: `Write a reactive.json (or reactive.yaml with --yaml) holding the
default configuration.

Examples:
  reactive init
  reactive init --yaml ./site`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.ConfigFileName
			if yamlFormat {
				name = config.YAMLFileName
			}
			path := filepath.Join(dir, name)

			if config.Exists(dir) && !force {
				errorMsg("A config file already exists in %s", dir)
				info("Use --force to overwrite it")
				return errors.Newf(errors.CategoryCLI, "config already exists in %s", dir)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfg := config.New()
			cfg.Name = filepath.Base(absOr(dir))
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success("Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yamlFormat, "yaml", false, "Write YAML instead of JSON")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}

func absOr(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
