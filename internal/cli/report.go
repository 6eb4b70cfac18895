package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/adapters/export"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/spf13/cobra"
)

func reportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage daily reports",
	}

	cmd.AddCommand(reportCreateCmd(e))
	cmd.AddCommand(reportUpdateCmd(e))
	cmd.AddCommand(reportDeleteCmd(e))
	cmd.AddCommand(reportGetCmd(e))
	cmd.AddCommand(reportListCmd(e))
	cmd.AddCommand(reportExportCmd(e))
	return cmd
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "report date (YYYY-MM-DD)")
	cmd.Flags().String("title", "", "report title")
	cmd.Flags().String("content", "", "report content")
}

func draftFromFlags(cmd *cobra.Command) (report.Draft, error) {
	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")
	raw, _ := cmd.Flags().GetString("date")

	draft := report.Draft{Title: title, Content: content}
	if raw == "" {
		return draft, nil
	}

	date, err := time.Parse(report.DateLayout, raw)
	if err != nil {
		return draft, fmt.Errorf("invalid --date %q: expected %s", raw, report.DateLayout)
	}
	draft.ReportDate = &date
	return draft, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid report id %q", raw)
	}
	return id, nil
}

func reportCreateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a report for the acting employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := e.actorCode()
			if err != nil {
				return err
			}
			draft, err := draftFromFlags(cmd)
			if err != nil {
				return err
			}

			actor, err := e.app.Employees.Resolve(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("failed to resolve employee %s: %w", code, err)
			}

			created, err := e.app.Reports.CreateReport(cmd.Context(), report.CreateReportInput{
				Actor: report.ActorOf(actor),
				Draft: draft,
			})
			if err != nil {
				return describeFailure(cmd.OutOrStdout(), "create report", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created report %d\n", okMark, created.ID)
			printReport(cmd.OutOrStdout(), created)
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func reportUpdateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update the date, title and content of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.actorCode(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			draft, err := draftFromFlags(cmd)
			if err != nil {
				return err
			}

			updated, err := e.app.Reports.UpdateReport(cmd.Context(), report.UpdateReportInput{ID: id, Draft: draft})
			if err != nil {
				return describeFailure(cmd.OutOrStdout(), "update report", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated report %d\n", okMark, updated.ID)
			printReport(cmd.OutOrStdout(), updated)
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func reportDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Soft-delete a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.actorCode(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := e.app.Reports.DeleteReport(cmd.Context(), report.DeleteReportInput{ID: id}); err != nil {
				return describeFailure(cmd.OutOrStdout(), "delete report", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted report %d\n", okMark, id)
			return nil
		},
	}
}

func reportGetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

			in := report.GetReportInput{ID: id}
			var found *report.Report
			if includeDeleted {
				found, err = e.app.Reports.GetReport(cmd.Context(), in)
			} else {
				found, err = e.app.Reports.FindActiveReport(cmd.Context(), in)
			}
			if err != nil {
				return describeFailure(cmd.OutOrStdout(), "get report", err)
			}

			printReport(cmd.OutOrStdout(), found)
			return nil
		},
	}
	cmd.Flags().Bool("include-deleted", false, "show the report even if it has been deleted")
	return cmd
}

func reportListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			pageSize, _ := cmd.Flags().GetInt("page-size")
			pageToken, _ := cmd.Flags().GetString("page-token")

			result, err := e.app.Reports.ListActiveReports(cmd.Context(), report.ListReportsInput{
				EmployeeCode: owner,
				PageSize:     pageSize,
				PageToken:    pageToken,
			})
			if err != nil {
				return describeFailure(cmd.OutOrStdout(), "list reports", err)
			}

			if len(result.Reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
				return nil
			}
			if err := printReportTable(cmd.OutOrStdout(), result.Reports); err != nil {
				return err
			}
			if result.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nNext page: --page-token %s\n", result.NextPageToken)
			}
			return nil
		},
	}
	cmd.Flags().String("owner", "", "only list reports of this employee")
	cmd.Flags().Int("page-size", 0, "maximum number of reports (0 lists all)")
	cmd.Flags().String("page-token", "", "token returned by a previous page")
	return cmd
}

func reportExportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export active reports to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			result, err := e.app.Reports.ListActiveReports(cmd.Context(), report.ListReportsInput{EmployeeCode: owner})
			if err != nil {
				return describeFailure(cmd.OutOrStdout(), "export reports", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := export.WriteReports(f, result.Reports); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d reports to %s\n", okMark, len(result.Reports), out)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "only export reports of this employee")
	cmd.Flags().String("out", "", "output file path")
	return cmd
}
