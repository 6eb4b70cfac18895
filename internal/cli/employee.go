package cli

import (
	"fmt"
	"strings"

	"github.com/GogoIMU/DailyReportSystemApplication/internal/core/employee"
	"github.com/spf13/cobra"
)

func employeeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}
	cmd.AddCommand(employeeAddCmd(e))
	cmd.AddCommand(employeeListCmd(e))
	return cmd
}

func employeeAddCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [code] [name]",
		Short: "Register an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")

			created, err := e.app.Employees.RegisterEmployee(cmd.Context(), employee.RegisterEmployeeInput{
				Code: args[0],
				Name: args[1],
				Role: employee.Role(strings.ToUpper(role)),
			})
			if err != nil {
				return fmt.Errorf("failed to register employee: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Registered employee %s: %s (%s)\n", okMark, created.Code, created.Name, created.Role.DisplayName())
			return nil
		},
	}
	cmd.Flags().String("role", string(employee.RoleGeneral), "role (GENERAL or ADMIN)")
	return cmd
}

func employeeListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := e.app.Employees.ListEmployees(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}
			if len(employees) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No employees found.")
				return nil
			}
			return printEmployeeTable(cmd.OutOrStdout(), employees)
		},
	}
}
