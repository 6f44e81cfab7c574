package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/aerocode/internal/app"
)

// EligibilityCmd returns the eligibility command
func EligibilityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility <aircraft-code>",
		Short: "Tell whether a compliance report can be issued for an aircraft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := app.ParseID("aircraft code", args[0])
			if err != nil {
				return err
			}
			return opts.withServices(cmd, func(ctx context.Context, svc *app.Services) error {
				v, err := svc.Reports.Eligibility(ctx, code)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if v.Eligible {
					fmt.Fprintf(out, "Aircraft %d: %s\n", code, color.New(color.FgGreen).Sprint("ELIGIBLE"))
					return nil
				}
				fmt.Fprintf(out, "Aircraft %d: %s (%s)\n", code, color.New(color.FgRed).Sprint("DENIED"), v.Reason)
				return nil
			})
		},
	}
}

// ReportCmd returns the report command
func ReportCmd(opts *options) *cobra.Command {
	var author, outPath string

	cmd := &cobra.Command{
		Use:   "report <aircraft-code>",
		Short: "Write the text compliance report of an aircraft",
		Long: `Generate the compliance report of an aircraft and write it as text.
Without --out the report is saved under its standard file name in the
current directory. Use --out - to print it instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := app.ParseID("aircraft code", args[0])
			if err != nil {
				return err
			}
			return opts.withServices(cmd, func(ctx context.Context, svc *app.Services) error {
				name, body, err := svc.Reports.Export(ctx, app.GenerateReportRequest{AircraftCode: code, Author: author})
				if err != nil {
					return fmt.Errorf("report for aircraft %d: %w", code, err)
				}

				switch outPath {
				case "-":
					fmt.Fprint(cmd.OutOrStdout(), body)
					return nil
				case "":
					outPath = name
				}
				if err := os.WriteFile(outPath, []byte(body), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s report written to %s\n", color.New(color.FgGreen).Sprint("OK"), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Name printed as the report author (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file, or - for stdout")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}
