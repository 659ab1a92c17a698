package admin

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchkeeper/internal/validator"
)

// EmployeeOptions holds flags for the employee command.
type EmployeeOptions struct {
	*RootOptions
	TenantID string
	UserID   string
	Name     string
	HireDate string
}

// NewEmployeeCommand creates the employee command.
func NewEmployeeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmployeeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Create or update an employee record",
		Long: `Create or update an employee record.

The hire date decides annual leave eligibility.

Example:
  punchkeeper-admin employee --tenant acme --user u-42 --name "Dana K" --hire-date 2024-02-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upsertEmployee(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.HireDate, "hire-date", "", "hire date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func upsertEmployee(opts *EmployeeOptions, cmd *cobra.Command) error {
	if opts.HireDate != "" {
		if _, ok := validator.IsValidDate(opts.HireDate); !ok {
			return fmt.Errorf("invalid --hire-date %q: must be YYYY-MM-DD", opts.HireDate)
		}
	}

	e := &models.Employee{
		TenantID: opts.TenantID,
		UserID:   opts.UserID,
		Name:     opts.Name,
		HireDate: opts.HireDate,
	}

	err := withRepositories(cmd.Context(), opts.RootOptions, func(db *sql.DB, m repomanager.RepositoryManager) error {
		return m.Employees(db).Upsert(cmd.Context(), e)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "employee %s/%s saved\n", e.TenantID, e.UserID)
	return nil
}
