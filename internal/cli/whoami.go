package cli

import (
	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/internal/linkedin"
)

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the LinkedIn access token and show who it belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := c.cfg.Credentials
			if creds.AccessToken == "" {
				return c.cfg.ValidateForPublishing()
			}

			client := linkedin.NewClient(linkedin.Config{
				APIURL:  c.cfg.LinkedIn.APIURL,
				Timeout: c.cfg.LinkedIn.Timeout,
				Logger:  c.log,
			})
			info, err := client.UserInfo(cmd.Context(), creds)
			if err != nil {
				return err
			}

			table := c.ui.Table([]string{"Field", "Value"})
			_ = table.Append([]string{"Name", info.Name})
			_ = table.Append([]string{"Email", info.Email})
			_ = table.Append([]string{"Sub", info.Sub})
			if err := table.Render(); err != nil {
				return err
			}

			switch {
			case creds.AuthorID == "":
				c.ui.Warning("author_sub is not set; use %s", info.Sub)
			case creds.AuthorID != info.Sub:
				c.ui.Warning("author_sub %s does not match the token's member %s", creds.AuthorID, info.Sub)
			default:
				c.ui.Success("Token is valid for author_sub")
			}
			return nil
		},
	}
}
