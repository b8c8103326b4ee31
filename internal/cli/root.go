package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/app"
	"github.com/shubh-37/linkedin-autoposter/internal/linear"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/output"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

// linearLookbackDays is how far back --topic-from-linear looks for issues.
const linearLookbackDays = 7

// cli holds the state shared by all commands of one invocation.
type cli struct {
	ui  *output.UI
	log logging.Logger
	cfg *config.Config

	cfgFile         string
	verbose         bool
	dryRun          bool
	topic           string
	topicFromLinear bool
}

// NewRootCmd builds the autoposter command tree. Without a subcommand it
// runs one local generate, review, publish cycle.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "autoposter",
		Short: "Generate, review and publish LinkedIn posts",
		Long: `autoposter asks an LLM for a DevOps post, runs it through deterministic
quality checks and publishes it to LinkedIn only when every check passes.
It also ships the serverless generator/poster pair and a browser-driven
connection automator.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLocal(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "YAML config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVarP(&c.dryRun, "dry-run", "n", false, "Generate and review but never publish or send requests")
	flags.StringVarP(&c.topic, "topic", "t", "", "Topic hint for the generator")
	flags.BoolVar(&c.topicFromLinear, "topic-from-linear", false, "Use the latest completed Linear issue as the topic hint")

	root.AddCommand(
		c.newGenerateCmd(),
		c.newPostCmd(),
		c.newServeCmd(),
		c.newConnectCmd(),
		c.newHistoryCmd(),
		c.newWhoamiCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (c *cli) init(cmd *cobra.Command) error {
	c.ui = &output.UI{
		Verbose: c.verbose,
		DryRun:  c.dryRun,
		Out:     cmd.OutOrStdout(),
		ErrOut:  cmd.ErrOrStderr(),
	}

	cfg, err := config.LoadConfig(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	c.log = logging.NewLogger(level)
	c.log.SetOutput(cmd.ErrOrStderr())
	return nil
}

func (c *cli) deps(ctx context.Context) (*app.Deps, error) {
	return app.New(ctx, c.cfg, c.log)
}

// resolveTopic prefers --topic, then Linear when asked. A Linear failure only
// costs the hint.
func (c *cli) resolveTopic(ctx context.Context) string {
	if c.topic != "" || !c.topicFromLinear {
		return c.topic
	}

	client, err := linear.NewClient(c.cfg.LinearAPIKey, linear.WithLogger(c.log))
	if err != nil {
		c.ui.Warning("Linear topic skipped: %v", err)
		return ""
	}
	hint, err := client.TopicHint(ctx, linearLookbackDays)
	if err != nil {
		c.ui.Warning("Linear topic skipped: %v", err)
		return ""
	}
	c.ui.VerboseLog("Topic from Linear: %s", hint)
	return hint
}

func (c *cli) runLocal(ctx context.Context) error {
	deps, err := c.deps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	orch, err := deps.Orchestrator(pipeline.WithDryRun(c.dryRun))
	if err != nil {
		return err
	}

	out, err := orch.Run(ctx, c.resolveTopic(ctx))
	c.report(out)
	return err
}

// report prints the outcome of a local or remote run.
func (c *cli) report(out *pipeline.Outcome) {
	if out == nil {
		return
	}
	if out.Draft != nil {
		c.ui.Draft(*out.Draft)
	}
	if out.Review != nil {
		_ = c.ui.Review(*out.Review)
	}

	switch {
	case out.Post != nil:
		c.ui.Success("Published %s (run %s)", output.Cyan(out.Post.ExternalPostID), out.RunID)
	case out.Rejection != nil:
		c.ui.Warning("Rejected by review: %s (run %s)", out.Rejection.Reason, out.RunID)
	case out.Err != nil:
		c.ui.Error("Run %s failed in %s", out.RunID, output.StateColor(out.State))
	case out.DryRun:
		c.ui.DryRunMsg("Approved draft not published (run %s)", out.RunID)
	}
}
