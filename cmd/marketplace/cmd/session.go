package cmd

import (
	"fmt"
	"time"

	"marketplace-web/internal/app"

	"github.com/spf13/cobra"
)

var (
	issueUserID string
	issueRole   string
	issueTTL    time.Duration
	revokeID    string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Issue and revoke sessions",
}

var sessionIssueCmd = &cobra.Command{
	Use:     "issue",
	Short:   "Mint a session token for a user",
	Example: `  marketplace session issue --user tech-42 --role TECHNICIAN --ttl 2h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		issued, err := svc.IssueSession(cmd.Context(), issueUserID, issueRole, issueTTL)
		if err != nil {
			return fmt.Errorf("issue session: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session_id: %s\n", issued.Session.ID)
		fmt.Fprintf(out, "expires_at: %s\n", issued.Session.ExpiresAt.Format(time.RFC3339))
		fmt.Fprintf(out, "token: %s\n", issued.Token)
		return nil
	},
}

var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a session by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.RevokeSession(cmd.Context(), revokeID); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", revokeID)
		return nil
	},
}

func newService() (*app.Service, error) {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	return app.InitializeService(cfg, logger)
}

func init() {
	sessionIssueCmd.Flags().StringVar(&issueUserID, "user", "", "user ID the session belongs to")
	sessionIssueCmd.Flags().StringVar(&issueRole, "role", "", "role carried by the session (ADMIN, TECHNICIAN, CUSTOMER)")
	sessionIssueCmd.Flags().DurationVar(&issueTTL, "ttl", 0, "session lifetime (defaults to SESSION_TTL)")
	_ = sessionIssueCmd.MarkFlagRequired("user")
	_ = sessionIssueCmd.MarkFlagRequired("role")

	sessionRevokeCmd.Flags().StringVar(&revokeID, "id", "", "session ID to revoke")
	_ = sessionRevokeCmd.MarkFlagRequired("id")

	sessionCmd.AddCommand(sessionIssueCmd)
	sessionCmd.AddCommand(sessionRevokeCmd)
}
