package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mak/internal/catalog"
	"mak/internal/daily"
)

func newDailyCmd() *cobra.Command {
	var date, deck string
	var offline bool

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the card of the day",
		Example: `  mak daily
  mak daily --date 2024-01-01 --deck ihavemyself
  mak daily --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().UTC().Format(time.DateOnly)
			} else if _, err := time.Parse(time.DateOnly, date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}

			var cat *catalog.Catalog
			if !offline {
				a, err := loadConfig()
				if err != nil {
					return err
				}
				holder := a.catalogHolder()
				if err := holder.Reload(cmd.Context()); err != nil {
					a.logger.Warn("catalog unavailable, using built-in cards", "err", err)
				} else {
					cat, _ = holder.Current()
				}
			}

			card := daily.CardOfDay(cat, date, deck)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s (%s)\n", date, card.Title, card.ID)
			fmt.Fprintln(out, card.Prompt)
			if card.Image != "" {
				fmt.Fprintln(out, card.Image)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().StringVar(&deck, "deck", daily.DefaultDeckID, "deck id")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the catalog and use the built-in cards")
	return cmd
}
