package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelofallars/ticketprice/internal/domain"
	"github.com/angelofallars/ticketprice/internal/duration"
	"github.com/angelofallars/ticketprice/internal/service"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Price a duration at an hourly rate without contacting the tracker",
	RunE: func(cmd *cobra.Command, args []string) error {
		spent, _ := cmd.Flags().GetString("spent")
		rate, _ := cmd.Flags().GetFloat64("rate")

		quote, err := service.Calculate(spent, rate)
		if err != nil {
			return err
		}

		printQuote(cmd, quote)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <issue-key>",
	Short: "Compute an issue's price and write it back to the tracker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		svc, err := newPricingService()
		if err != nil {
			return err
		}

		run := svc.Apply
		if dryRun {
			run = svc.Quote
		}

		quote, err := run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printQuote(cmd, quote)
		return nil
	},
}

func printQuote(cmd *cobra.Command, q *domain.Quote) {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(q)
		return
	}

	if q.IssueKey != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Issue:   %s %s\n", q.IssueKey, q.Summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Spent:   %s (%d min)\n", duration.Format(q.Minutes), q.Minutes)
	fmt.Fprintf(cmd.OutOrStdout(), "Rate:    %g/h\n", q.HourlyRate)
	fmt.Fprintf(cmd.OutOrStdout(), "Price:   %.2f\n", q.Price)
	if q.IssueKey != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied: %t\n", q.Applied)
	}
}
