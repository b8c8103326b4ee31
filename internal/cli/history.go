package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/internal/output"
)

var errNoStore = errors.New("no history store configured; set DATABASE_URL or SQLITE_PATH")

func (c *cli) newHistoryCmd() *cobra.Command {
	var (
		limit   int
		actions bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs or connection actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps, err := c.deps(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()
			if deps.Store == nil {
				return errNoStore
			}

			if actions {
				list, err := deps.Store.ListActions(ctx, limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					c.ui.Info("No connection actions recorded yet")
					return nil
				}
				table := c.ui.Table([]string{"When", "Profile", "Name", "Sent", "Error"})
				for _, a := range list {
					_ = table.Append([]string{
						a.CreatedAt.Local().Format(time.DateTime),
						a.ProfileURL,
						a.Name,
						output.CheckMark(a.Success),
						a.Error,
					})
				}
				return table.Render()
			}

			runs, err := deps.Store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				c.ui.Info("No runs recorded yet")
				return nil
			}
			table := c.ui.Table([]string{"Started", "Run", "Mode", "State", "Type", "Post", "Detail"})
			for _, r := range runs {
				detail := r.Reason
				if r.Error != "" {
					detail = r.Error
				}
				_ = table.Append([]string{
					r.StartedAt.Local().Format(time.DateTime),
					r.ID,
					r.Mode,
					output.StateColor(r.State),
					string(r.ContentType),
					r.ExternalPostID,
					truncate(detail, 60),
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&actions, "actions", false, "Show connection actions instead of runs")
	return cmd
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
