package admin

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/punchkeeper/internal/server/auth"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	TenantID string
	UserID   string
	Role     string
	Validity time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a tenant user",
		Long: `Mint a bearer token for a tenant user.

Example:
  punchkeeper-admin token --tenant acme --user u-42 --role manager`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mintToken(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&opts.Role, "role", string(auth.RoleEmployee), "employee|manager")
	cmd.Flags().DurationVar(&opts.Validity, "validity", rootOpts.config.AccessTokenValidityDuration, "token lifetime")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func mintToken(opts *TokenOptions, cmd *cobra.Command) error {
	role := auth.Role(opts.Role)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q: must be employee or manager", opts.Role)
	}
	if opts.Validity <= 0 {
		return fmt.Errorf("validity must be positive")
	}
	if opts.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}

	p := auth.Principal{TenantID: opts.TenantID, UserID: opts.UserID, Role: role}
	token, err := auth.GenerateToken(p, []byte(opts.SecretKey), opts.Validity)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
