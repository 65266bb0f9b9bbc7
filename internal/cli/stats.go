package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statsItem string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tracked-time totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		stats := s.TimeStats(statsItem)

		fmt.Printf("today      %s\n", hhmmss(stats.Today))
		fmt.Printf("last 7d    %s  (avg %s/day)\n", hhmmss(stats.Last7Days), hhmmss(stats.AveragePerDay7))
		fmt.Printf("last 30d   %s  (avg %s/day)\n", hhmmss(stats.Last30Days), hhmmss(stats.AveragePerDay30))

		if statsItem != "" || len(stats.PerItem) == 0 {
			return nil
		}

		type row struct {
			id    string
			total int64
		}
		rows := make([]row, 0, len(stats.PerItem))
		for id, total := range stats.PerItem {
			rows = append(rows, row{id: id, total: total})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

		fmt.Println()
		for _, r := range rows {
			title := r.id
			if it, ok := s.GetItem(r.id); ok {
				title = it.Title
			}
			fmt.Printf("%-40s %s\n", title, hhmmss(r.total))
		}
		return nil
	},
}

func hhmmss(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func init() {
	statsCmd.Flags().StringVar(&statsItem, "item", "", "limit to one item id")
	rootCmd.AddCommand(statsCmd)
}
