package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	gormstore "github.com/yachtexcel/yachtexcel/pkg/server/store/gorm"
)

// roleAssignCmd represents the role assign command
var roleAssignCmd = &cobra.Command{
	Use:   "assign <user-id> <email> <role>",
	Short: "Store a user's role",
	Long: `Store the role of a user, replacing any stored role.

The user id is the subject of the auth platform's access tokens. Stored
roles take part in role resolution together with token metadata roles,
the superadmin e-mail list and the default role; the highest one wins.

Roles: viewer, user, manager, admin, superadmin

Example:
  yachtctl role assign 6c1f0c3e-0d54-4a43-9d3b-52a3a4b4e0a1 captain@example.com admin`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		previous, err := assignRole(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			fail("Failed to assign role: %v", err)
		}
		if previous != "" {
			fmt.Printf("Changed role of %s from %s to %s\n", args[0], previous, strings.ToLower(args[2]))
			return
		}
		fmt.Printf("Assigned role %s to %s\n", strings.ToLower(args[2]), args[0])
	},
}

func init() {
	roleCmd.AddCommand(roleAssignCmd)
}

func assignRole(ctx context.Context, userID, email, roleName string) (string, error) {
	r, err := role.RoleString(strings.ToLower(strings.TrimSpace(roleName)))
	if err != nil {
		return "", fmt.Errorf("unknown role %q, expected one of %s", roleName, strings.Join(role.RoleStrings(), ", "))
	}
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("user id is required")
	}

	gdb, err := openDB(mustLoadEnv(), false)
	if err != nil {
		return "", err
	}

	previous, err := gormstore.NewRolesStore(gdb).AssignRole(ctx, &model.RoleAssignment{
		UserID:     userID,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Role:       r,
		AssignedBy: "yachtctl",
	})

	event := audit.RoleChangeEvent{
		UserID:       "yachtctl",
		TargetUserID: userID,
		NewRole:      r.String(),
		Operation:    "assign",
		Success:      err == nil,
	}
	if previous != nil {
		event.OldRole = previous.Role.String()
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(ctx, event)

	if err != nil {
		return "", err
	}
	return event.OldRole, nil
}
