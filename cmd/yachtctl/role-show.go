package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
	gormstore "github.com/yachtexcel/yachtexcel/pkg/server/store/gorm"
)

// roleShowCmd represents the role show command
var roleShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's stored and effective role",
	Long: `Show the stored role of a user and the role the server would resolve
for them. Pass --email to include the superadmin e-mail list in resolution.
Token metadata roles are not known here.

Example:
  yachtctl role show 6c1f0c3e-0d54-4a43-9d3b-52a3a4b4e0a1 --email captain@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		if err := showRole(cmd.Context(), args[0], email); err != nil {
			fail("Failed to show role: %v", err)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleShowCmd)
	roleShowCmd.Flags().String("email", "", "e-mail address of the user")
}

func showRole(ctx context.Context, userID, email string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gdb, err := openDB(mustLoadEnv(), false)
	if err != nil {
		return err
	}
	roles := gormstore.NewRolesStore(gdb)

	a, err := roles.GetAssignment(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Println("Stored role: none")
	case err != nil:
		return err
	default:
		fmt.Printf("Stored role: %s (assigned by %s at %s)\n", a.Role, a.AssignedBy, a.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	resolver := role.NewResolver(roles,
		role.WithSuperadminEmails(cfg.SuperadminEmails),
		role.WithDefaultRole(cfg.Role()),
	)
	res := resolver.Resolve(ctx, role.Subject{UserID: userID, Email: email})
	fmt.Printf("Effective role: %s (%s)\n", res.Role, res.Source)
	return nil
}
