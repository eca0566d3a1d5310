// Package cli provides the command-line interface for testzen-runner.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "appium-url",
		Usage:   "Appium server URL",
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to config.yaml (default: ./config.yaml if present)",
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Log file path",
		Value:   "testzen-runner.log",
		EnvVars: []string{"TESTZEN_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Echo log messages to stderr",
		EnvVars: []string{"TESTZEN_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "testzen-runner",
		Usage:   "Resilient element resolution for mobile test automation",
		Version: Version,
		Description: `TestZen Runner resolves UI element locators against a live device,
falling back to scroll search, webview context switching and locator
self-healing when the direct lookup fails.

Examples:
  testzen-runner resolve --type id --value "login_btn|login_button" --action tap
  testzen-runner --appium-url http://device-farm:4723 resolve --type xpath --value "//android.widget.Button[1]"
  testzen-runner heal-report`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			resolveCommand,
			healReportCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
