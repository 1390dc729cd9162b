package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if history == nil {
		return errors.New("conversion history is unavailable")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := history.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No conversions recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tCHAPTERS\tENCODING\tCOVER\tTITLE")
	for _, rec := range records {
		cover := "no"
		if rec.HasCover {
			cover = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Status, rec.Chapters, rec.Encoding, cover, rec.Title)
	}
	return w.Flush()
}
