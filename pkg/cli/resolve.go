package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/testzen-dev/testzen-runner/pkg/config"
	"github.com/testzen-dev/testzen-runner/pkg/driver/appium"
	"github.com/testzen-dev/testzen-runner/pkg/learning"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
	"github.com/testzen-dev/testzen-runner/pkg/logger"
	"github.com/testzen-dev/testzen-runner/pkg/report"
	"github.com/testzen-dev/testzen-runner/pkg/resolver"
)

var resolveCommand = &cli.Command{
	Name:  "resolve",
	Usage: "Resolve one locator against a live device",
	Description: `Resolve a locator to a live element, healing it when the direct
lookup fails. The value may carry pipe-delimited fallbacks, tried in order.

Prints the resolution as JSON; the healing report artifact is written to the
configured report directory.

Examples:
  testzen-runner resolve --type id --value login_btn --action tap
  testzen-runner resolve --type id --value "login_btn|login_button" --description "login button"
  testzen-runner resolve --type xpath --value "//android.widget.EditText[1]" --action input --timeout 30s`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "type",
			Usage:    "Locator type (id, accessibility_id, xpath, class, name, predicate, image, css)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "value",
			Usage:    "Locator value, with optional pipe-delimited fallbacks",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Human-readable element description for logs and reports",
		},
		&cli.StringFlag{
			Name:  "action",
			Usage: "Intended action (tap, input, scroll); tightens the actionability check",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Overall resolution budget (default: from config)",
		},
		&cli.StringFlag{
			Name:  "caps",
			Usage: "Path to a JSON file with session capabilities",
		},
	},
	Action: runResolve,
}

func runResolve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := logger.Init(c.String("log-file"), c.Bool("verbose")); err != nil {
		return err
	}
	defer logger.Close()

	locType := locator.Type(c.String("type"))
	if !locType.Valid() {
		return fmt.Errorf("unsupported locator type %q", c.String("type"))
	}

	caps, err := loadCapabilities(c.String("caps"))
	if err != nil {
		return err
	}

	appiumURL := c.String("appium-url")
	if appiumURL == "" {
		appiumURL = cfg.Appium.URL
	}

	logger.Info("connecting to appium at %s", appiumURL)
	driver, err := appium.NewDriver(appiumURL, caps)
	if err != nil {
		return fmt.Errorf("connect to appium: %w", err)
	}
	defer driver.Close()

	store := learning.NewStore(cfg.Learning.BatchSize)
	if cfg.Learning.DBPath != "" {
		if err := store.Persist(cfg.Learning.DBPath); err != nil {
			// Persistence is best-effort; resolution works without it.
			logger.Warn("learning persistence disabled: %v", err)
		}
		defer store.Close()
	}

	engine := resolver.New(driver, cfg.ResolverOptions(), store)
	res, resolveErr := engine.Resolve(
		locType,
		c.String("value"),
		c.String("description"),
		resolver.Action(c.String("action")),
		c.Duration("timeout"),
	)

	if rep := engine.HealingReport(); rep.TotalHealings > 0 {
		w := report.NewWriter(cfg.Report.Dir, appiumURL)
		if path, err := w.Write(rep); err != nil {
			logger.Warn("could not write healing report: %v", err)
		} else {
			fmt.Fprintf(os.Stderr, "Healing report: %s\n", path)
		}
	}

	if resolveErr != nil {
		return cli.Exit(fmt.Sprintf("resolution failed: %v", resolveErr), 1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// loadConfig reads the --config file, or config.yaml from the working
// directory, falling back to defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadFromDir(".")
}

// defaultCapabilities target a generic Android session.
func defaultCapabilities() map[string]interface{} {
	return map[string]interface{}{
		"platformName":             "Android",
		"appium:automationName":    "UiAutomator2",
		"appium:newCommandTimeout": 120,
	}
}

// loadCapabilities reads capabilities from a JSON file, or defaults.
func loadCapabilities(path string) (map[string]interface{}, error) {
	if path == "" {
		return defaultCapabilities(), nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- user-provided caps file
	if err != nil {
		return nil, fmt.Errorf("read capabilities: %w", err)
	}
	var caps map[string]interface{}
	if err := json.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("parse capabilities: %w", err)
	}
	return caps, nil
}
