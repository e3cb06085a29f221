package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐┌┬┐┬┬  ┬┌─┐
  ├┬┘├┤ ├─┤│   │ │└┐┌┘├┤
  ┴└─└─┘┴ ┴└─┘ ┴ ┴ └┘ └─┘
`

// configPath is the --config flag shared by all commands.
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Reactive custom elements rendered on the server",
		Long: `reactive upgrades custom elements in an HTML document into
reactive components whose properties mirror their attributes.

  • Typed properties reflected to kebab-case attributes
  • Re-render through a virtual DOM diff on every change
  • Live server pushing patches over WebSocket
  • Export to HTML or Markdown, locally or to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: reactive.json or reactive.yaml)")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		renderCmd(),
		exportCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file or searches from the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadFromWorkingDir()
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
