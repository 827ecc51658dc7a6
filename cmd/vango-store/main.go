package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	verrors "github.com/vango-dev/vango-store/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "vango-store",
		Short: "Inspect scoped selector stores",
		Long: `vango-store exercises scoped selector stores outside an application.

The demo command renders a provider with several consumers, changes the
store while a render pass is in progress and reports every commit in which
consumers disagreed about the value they read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored error output")

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		_ = verrors.Printer{Color: !noColor}.Fprint(os.Stderr, err)
		os.Exit(1)
	}
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
