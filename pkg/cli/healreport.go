package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"
)

var healReportCommand = &cli.Command{
	Name:  "heal-report",
	Usage: "Print the most recent healing report",
	Description: `Print the healing report from the latest run as JSON.

Reports are written by the resolve command into the configured report
directory (report.dir in config.yaml).`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Report directory (default: from config)",
		},
	},
	Action: runHealReport,
}

func runHealReport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Report.Dir
	}

	path, err := latestArtifact(dir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the report dir listing
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// latestArtifact returns the newest healing artifact in dir.
func latestArtifact(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "healing-*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no healing reports in %s", dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0], nil
}

// modTime returns the file's modification time; missing files sort last.
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
