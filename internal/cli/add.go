package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecemunal/planline/internal/model"
	"github.com/ecemunal/planline/internal/store"
)

var (
	addCategory    string
	addPriority    string
	addDescription string
	addTags        string
	addDue         string
	addScheduled   string
	addEstimate    int64
	addRecurrence  string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a planner item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		params := store.CreateParams{
			Title:            args[0],
			Description:      addDescription,
			Category:         model.Category(addCategory),
			Priority:         model.Priority(addPriority),
			EstimatedSeconds: addEstimate,
			Recurrence:       addRecurrence,
		}
		if addTags != "" {
			for _, tag := range strings.Split(addTags, ",") {
				if t := strings.TrimSpace(tag); t != "" {
					params.Tags = append(params.Tags, t)
				}
			}
		}
		if addDue != "" {
			due, err := time.ParseInLocation("2006-01-02", addDue, time.Local)
			if err != nil {
				return fmt.Errorf("parse --due: %w", err)
			}
			params.DueDate = &due
		}
		if addScheduled != "" {
			sched, err := time.ParseInLocation("2006-01-02", addScheduled, time.Local)
			if err != nil {
				return fmt.Errorf("parse --scheduled: %w", err)
			}
			params.ScheduledDate = &sched
		}

		item, err := s.CreateItem(params)
		if err != nil {
			return err
		}
		if err := s.Flush(); err != nil {
			return err
		}

		fmt.Printf("created %s (%s)\n", item.Title, item.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", string(model.CategoryToday), "today|upcoming|habits")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "low|medium|high|urgent")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "longer description")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "comma-separated tags")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addScheduled, "scheduled", "", "scheduled date (YYYY-MM-DD)")
	addCmd.Flags().Int64Var(&addEstimate, "estimate", 0, "estimated effort in seconds")
	addCmd.Flags().StringVar(&addRecurrence, "recurrence", "", "recurrence rule, e.g. daily")
	rootCmd.AddCommand(addCmd)
}
