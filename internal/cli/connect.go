package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/automator"
	"github.com/shubh-37/linkedin-autoposter/internal/output"
)

func (c *cli) newConnectCmd() *cobra.Command {
	var (
		settingsPath string
		targetsPath  string
		chromeURL    string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Send connection requests to a list of LinkedIn profiles",
		Long: `connect logs in to LinkedIn with a real browser, visits each profile in
the targets file in order and sends a connection request with the note from
the settings file ({name} becomes the first name). It stops for the day once
max_requests_per_day requests have succeeded, counting earlier runs recorded
in the history store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := config.LoadAutomatorSettings(settingsPath)
			if err != nil {
				return err
			}
			targets, err := config.LoadTargets(targetsPath)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				c.ui.Warning("No targets in %s", targetsPath)
				return nil
			}

			if c.dryRun {
				for _, target := range targets {
					c.ui.DryRunMsg("Would visit %s", target)
				}
				return nil
			}

			deps, err := c.deps(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			var browser *automator.ChromeBrowser
			if chromeURL != "" {
				browser, err = automator.NewRemoteChromeBrowser(chromeURL, settings.Selectors, automator.WithBrowserLogger(c.log))
			} else {
				browser, err = automator.NewChromeBrowser(settings.IsHeadless(), settings.Selectors, automator.WithBrowserLogger(c.log))
			}
			if err != nil {
				return err
			}
			defer browser.Close()

			opts := []automator.Option{
				automator.WithLogger(c.log),
				automator.WithMetrics(deps.Metrics),
			}
			if deps.Store != nil {
				opts = append(opts, automator.WithStore(deps.Store))
			}

			c.ui.Info("Processing %d target(s), %d per day, %ds apart", len(targets), settings.MaxRequestsPerDay, settings.DelaySeconds)
			summary, runErr := automator.New(browser, settings, opts...).Run(ctx, targets)
			if summary != nil {
				c.printSummary(summary)
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&settingsPath, "settings", "settings.yaml", "Automator settings file")
	flags.StringVar(&targetsPath, "targets", "targets.txt", "File with one profile URL per line")
	flags.StringVar(&chromeURL, "chrome-url", os.Getenv("CHROME_WS_URL"), "DevTools websocket URL of a running Chrome")
	return cmd
}

func (c *cli) printSummary(s *automator.Summary) {
	if len(s.Actions) > 0 {
		table := c.ui.Table([]string{"Profile", "Name", "Headline", "Sent", "Error"})
		for _, a := range s.Actions {
			_ = table.Append([]string{a.ProfileURL, a.Name, a.Headline, output.CheckMark(a.Success), a.Error})
		}
		_ = table.Render()
	}

	c.ui.Info("%s sent, %s failed, %s skipped",
		output.Green(strconv.Itoa(s.Succeeded)),
		output.Red(strconv.Itoa(s.Failed)),
		output.Yellow(strconv.Itoa(s.Skipped)))
	if s.CapReached {
		c.ui.Warning("Daily limit reached (%d already sent today before this run)", s.SentBefore)
	}
}
