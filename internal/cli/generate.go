package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

func (c *cli) newGenerateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and review a draft without publishing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.cfg.ValidateForGeneration(); err != nil {
				return err
			}

			deps, err := c.deps(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			fn, err := deps.GeneratorFunction()
			if err != nil {
				return err
			}

			resp, err := fn.Handle(ctx, pipeline.GenerateRequest{TopicHint: c.resolveTopic(ctx)})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.ui.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			c.ui.Draft(resp.Draft)
			if err := c.ui.Review(resp.Review); err != nil {
				return err
			}
			if resp.Review.Approved {
				c.ui.Success("Draft approved (run %s)", resp.RunID)
			} else {
				c.ui.Warning("Draft rejected: %s (run %s)", resp.Review.Reason, resp.RunID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the generator response as JSON")
	return cmd
}

func (c *cli) newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Fetch a reviewed draft from the remote generator and publish it",
		Long: `post is the poster half of the two-stage deployment: it calls the
generator at GENERATOR_URL, or the GENERATOR_FUNCTION Lambda, waits up to
GENERATOR_TIMEOUT for a reviewed draft and publishes it when approved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps, err := c.deps(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			poster, err := deps.Poster(ctx, pipeline.WithDryRun(c.dryRun))
			if err != nil {
				return err
			}

			out, err := poster.Run(ctx, c.resolveTopic(ctx))
			c.report(out)
			return err
		},
	}
}
