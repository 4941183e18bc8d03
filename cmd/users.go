package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/postgres"
	"github.com/SAP-F-2025/educloud-dashboard/pkg"
)

var (
	usersTenantID string
	usersRole     string
	usersLimit    int
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List dashboard accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := repositories.UserFilters{
			TenantID: usersTenantID,
			Limit:    usersLimit,
		}
		if usersRole != "" {
			role, ok := models.ParseUserRole(usersRole)
			if !ok {
				return fmt.Errorf("unknown role %q", usersRole)
			}
			filters.Role = &role
		}

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		defer sqlDB.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
		users, total, err := repo.User().List(ctx, filters)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tROLE\tNAME\tSTATUS\tTENANT")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Email, u.Role, u.FullName(), u.Status, u.TenantID)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(users), total)
		return nil
	},
}

func init() {
	usersCmd.Flags().StringVar(&usersTenantID, "tenant-id", "", "only users of this tenant")
	usersCmd.Flags().StringVar(&usersRole, "role", "", "only users with this role")
	usersCmd.Flags().IntVar(&usersLimit, "limit", 50, "maximum rows")
	rootCmd.AddCommand(usersCmd)
}
