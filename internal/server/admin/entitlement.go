package admin

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/punchkeeper/internal/server/models"
	"github.com/dmitrijs2005/punchkeeper/internal/server/repositories/repomanager"
)

// EntitlementOptions holds flags for the entitlement command.
type EntitlementOptions struct {
	*RootOptions
	TenantID  string
	LeaveType string
	Days      int
}

// NewEntitlementCommand creates the entitlement command.
func NewEntitlementCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntitlementOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "entitlement",
		Short: "Set a tenant's yearly days for one leave type",
		Long: `Set a tenant's yearly days for one leave type.

Example:
  punchkeeper-admin entitlement --tenant acme --type ANNUAL --days 25`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setEntitlement(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&opts.LeaveType, "type", "", "leave type, e.g. ANNUAL")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "days per year")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func setEntitlement(opts *EntitlementOptions, cmd *cobra.Command) error {
	lt := models.LeaveType(strings.ToUpper(strings.TrimSpace(opts.LeaveType)))
	if !lt.Valid() {
		return fmt.Errorf("invalid leave type %q: must be one of %v", opts.LeaveType, models.LeaveTypes)
	}
	if opts.Days < 0 {
		return fmt.Errorf("days must not be negative")
	}

	e := models.Entitlement{TenantID: opts.TenantID, LeaveType: lt, Days: opts.Days}

	err := withRepositories(cmd.Context(), opts.RootOptions, func(db *sql.DB, m repomanager.RepositoryManager) error {
		return m.Leaves(db).SetEntitlement(cmd.Context(), e)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d days of %s\n", e.TenantID, e.Days, e.LeaveType)
	return nil
}
