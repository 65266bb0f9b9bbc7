package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecemunal/planline/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export items and time logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		items := s.Items()
		logs := s.Logs()

		path := exportOut
		if path == "" {
			path = fmt.Sprintf("planline-export-%s.%s", time.Now().Format("2006-01-02"), exportFormat)
		}

		switch exportFormat {
		case "csv":
			err = export.ToCSV(items, logs, path)
		case "json":
			err = export.ToJSON(items, logs, path)
		default:
			return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("exported %d items, %d logs to %s\n", len(items), len(logs), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv|json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path")
	rootCmd.AddCommand(exportCmd)
}
