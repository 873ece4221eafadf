package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/edit"
)

// ListCmd returns the `reqdesk list` command.
func ListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the requests list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("not configured: %w", err)
			}
			items, err := NewClient(cfg).ListRequests(api.RequestsList)
			if err != nil {
				return fmt.Errorf("list requests: %w", err)
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, r := range items {
				if status != "" && !strings.EqualFold(r.Status, status) {
					continue
				}
				labels := make([]string, 0, len(r.Tags))
				for _, t := range r.Tags {
					labels = append(labels, t.Label)
				}
				due := edit.FormatDate(r.DueDate)
				if due == "" {
					due = "-"
				}
				fmt.Fprintf(out, "  #%-4d %-11s %-12s %s", r.ID, r.Status, due, r.Title)
				if len(labels) > 0 {
					fmt.Fprintf(out, "  [%s]", strings.Join(labels, ", "))
				}
				fmt.Fprintln(out)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "no requests found")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show requests with this status")
	return cmd
}
