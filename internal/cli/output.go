package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/report"
	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func printReport(w io.Writer, rep *report.Report) {
	state := color.New(color.FgGreen).Sprint("active")
	if rep.DeleteFlg {
		state = color.New(color.FgYellow).Sprint("deleted")
	}
	fmt.Fprintf(w, "ID:       %d (%s)\n", rep.ID, state)
	fmt.Fprintf(w, "Date:     %s\n", rep.ReportDate.Format(report.DateLayout))
	if rep.Employee != nil {
		fmt.Fprintf(w, "Employee: %s %s (%s)\n", rep.EmployeeCode, rep.Employee.Name, rep.Employee.Role.DisplayName())
	} else {
		fmt.Fprintf(w, "Employee: %s\n", rep.EmployeeCode)
	}
	fmt.Fprintf(w, "Title:    %s\n", rep.Title)
	fmt.Fprintf(w, "Content:  %s\n", rep.Content)
	fmt.Fprintf(w, "Created:  %s\n", rep.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated:  %s\n", rep.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
}

func printReportTable(w io.Writer, reports []*report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tEMPLOYEE\tTITLE")
	for _, rep := range reports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", rep.ID, rep.ReportDate.Format(report.DateLayout), rep.EmployeeCode, rep.Title)
	}
	return tw.Flush()
}

func printEmployeeTable(w io.Writer, employees []*employee.Employee) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tROLE\tSTATUS")
	for _, e := range employees {
		state := "active"
		if e.DeleteFlg {
			state = "deleted"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Name, e.Role.DisplayName(), state)
	}
	return tw.Flush()
}

// describeFailure は業務エラーを結果種別付きで表示し、呼び出し元へ返すエラーを作ります。
func describeFailure(w io.Writer, action string, err error) error {
	if kind := report.KindOf(err); kind != report.KindUnknown {
		fmt.Fprintf(w, "%s %s: %s\n", failMark, action, color.New(color.FgRed, color.Bold).Sprint(kind))
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
