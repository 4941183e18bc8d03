package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/postgres"
	"github.com/SAP-F-2025/educloud-dashboard/pkg"
)

const demoPassword = "demo123"

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Create the demo tenants and one account per role",
	Long: `Creates the demo tenants and the demo accounts student@demo.com,
parent@demo.com, teacher@demo.com, principal@demo.com, admin@demo.com and
super@demo.com. Running it again resets them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		defer sqlDB.Close()

		repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})

		tenants, users, err := demoData(time.Now().UTC(), seedPassword)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if err := seed(ctx, repo, tenants, users); err != nil {
			return err
		}

		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", u.Role, u.Email)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", demoPassword, "password for every demo account")
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, repo repositories.Repository, tenants []*models.Tenant, users []*models.User) error {
	return repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, t := range tenants {
			if err := tx.Tenant().Upsert(ctx, t); err != nil {
				return fmt.Errorf("failed to seed tenant %s: %w", t.Subdomain, err)
			}
		}
		for _, u := range users {
			if err := tx.User().Upsert(ctx, u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
			}
		}
		return nil
	})
}

// demoID derives a stable id so reseeding updates rows in place.
func demoID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://educloud.demo/"+name)).String()
}

type demoTenant struct {
	name      string
	subdomain string
	plan      models.SubscriptionPlan
	students  int
	billing   models.BillingStatus
}

var demoTenants = []demoTenant{
	{name: "EduCloud Demo School", subdomain: "demo", plan: models.PlanProfessional, students: 342, billing: models.BillingStatusActive},
	{name: "Springfield Elementary", subdomain: "springfield", plan: models.PlanProfessional, students: 450, billing: models.BillingStatusActive},
	{name: "Oak Hill High School", subdomain: "oakhill", plan: models.PlanEnterprise, students: 1200, billing: models.BillingStatusActive},
	{name: "Riverside Academy", subdomain: "riverside", plan: models.PlanProfessional, students: 800, billing: models.BillingStatusTrial},
}

type demoAccount struct {
	email string
	role  models.UserRole
	first string
	last  string
}

var demoAccounts = []demoAccount{
	{email: "student@demo.com", role: models.RoleStudent, first: "Alex", last: "Johnson"},
	{email: "parent@demo.com", role: models.RoleParent, first: "Maria", last: "Johnson"},
	{email: "teacher@demo.com", role: models.RoleTeacher, first: "Sarah", last: "Wilson"},
	{email: "principal@demo.com", role: models.RolePrincipal, first: "Robert", last: "Brown"},
	{email: "admin@demo.com", role: models.RoleAdmin, first: "Emily", last: "Davis"},
	{email: "super@demo.com", role: models.RoleSuperAdmin, first: "Platform", last: "Owner"},
}

// demoData builds the seed rows. Every account belongs to the first tenant.
func demoData(now time.Time, password string) ([]*models.Tenant, []*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	next := datatypes.Date(time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC))

	tenants := make([]*models.Tenant, 0, len(demoTenants))
	for _, d := range demoTenants {
		t, ok := billing.Apply(models.Tenant{
			ID:            demoID("tenant/" + d.subdomain),
			Name:          d.name,
			Subdomain:     d.subdomain,
			Status:        models.TenantStatusActive,
			BillingStatus: d.billing,
			StudentsCount: d.students,
		}, d.plan)
		if !ok {
			return nil, nil, fmt.Errorf("unknown plan %q for %s", d.plan, d.subdomain)
		}
		t.NextBillingDate = &next
		t.CreatedAt = now
		t.UpdatedAt = now
		tenants = append(tenants, &t)
	}

	users := make([]*models.User, 0, len(demoAccounts))
	for _, a := range demoAccounts {
		users = append(users, &models.User{
			ID:           demoID("user/" + a.email),
			TenantID:     tenants[0].ID,
			Email:        a.email,
			Role:         a.role,
			FirstName:    a.first,
			LastName:     a.last,
			PasswordHash: string(hash),
			Status:       models.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return tenants, users, nil
}
