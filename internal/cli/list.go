package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecemunal/planline/internal/model"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List planner items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		cats := model.Categories
		if listCategory != "" {
			cat := model.Category(listCategory)
			if !cat.Valid() {
				return fmt.Errorf("unknown category %q", listCategory)
			}
			cats = []model.Category{cat}
		}

		for _, cat := range cats {
			items := s.ItemsByCategory(cat)
			if len(items) == 0 {
				continue
			}
			fmt.Printf("%s\n", cat)
			for _, it := range items {
				mark := " "
				switch it.Status {
				case model.StatusCompleted:
					mark = "x"
				case model.StatusInProgress:
					mark = "*"
				}
				line := fmt.Sprintf("  [%s] %s  (%s)", mark, it.Title, it.Priority)
				if it.DueDate != nil {
					line += "  due " + it.DueDate.Local().Format("2006-01-02")
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "limit to one category")
	rootCmd.AddCommand(listCmd)
}
