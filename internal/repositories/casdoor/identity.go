// Package casdoor turns Casdoor access tokens into dashboard users.
package casdoor

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/educloud-dashboard/internal/config"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

// Property keys read from the Casdoor user record.
const (
	PropertyTenantID = "tenant_id"
	PropertyRole     = "role"
)

// TokenParser is the part of casdoorsdk.Client used here.
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

type Identity struct {
	parser TokenParser
}

func NewIdentity(cfg config.CasdoorConfig) *Identity {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return &Identity{parser: client}
}

func NewIdentityWithParser(parser TokenParser) *Identity {
	return &Identity{parser: parser}
}

// Verify checks token and returns the claims it carries.
func (i *Identity) Verify(token string) (*casdoorsdk.Claims, error) {
	claims, err := i.parser.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.User.Id == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}
	return claims, nil
}

// UserFromClaims synthesises a user for a token whose subject has no local
// row. The role is left as reported; unknown roles are denied downstream.
func UserFromClaims(claims *casdoorsdk.Claims) *models.User {
	if claims == nil || claims.User.Id == "" {
		return nil
	}
	cu := claims.User

	first, last := cu.FirstName, cu.LastName
	if first == "" && last == "" {
		first, last = splitDisplayName(cu.DisplayName)
	}

	status := models.UserStatusActive
	if cu.IsForbidden || cu.IsDeleted {
		status = models.UserStatusInactive
	}

	user := &models.User{
		ID:        cu.Id,
		TenantID:  cu.Properties[PropertyTenantID],
		Email:     strings.ToLower(cu.Email),
		Role:      RoleOf(&cu),
		FirstName: first,
		LastName:  last,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if cu.Avatar != "" {
		avatar := cu.Avatar
		user.AvatarURL = &avatar
	}
	return user
}

// RoleOf picks the dashboard role for a Casdoor user: an explicit role
// property first, then assigned roles, then the user type.
func RoleOf(cu *casdoorsdk.User) models.UserRole {
	if cu.IsAdmin {
		return models.RoleAdmin
	}
	if r := cu.Properties[PropertyRole]; r != "" {
		return mapRole(r)
	}

	var roles []models.UserRole
	for _, r := range cu.Roles {
		if r == nil {
			continue
		}
		if mapped := mapRole(r.Name); !slices.Contains(roles, mapped) {
			roles = append(roles, mapped)
		}
	}
	for _, preferred := range []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin} {
		if slices.Contains(roles, preferred) {
			return preferred
		}
	}
	if len(roles) > 0 {
		return roles[0]
	}

	return mapRole(cu.Type)
}

func mapRole(name string) models.UserRole {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "administrator":
		return models.RoleAdmin
	case "super-admin", "super_admin", "platform-admin":
		return models.RoleSuperAdmin
	case "instructor", "educator":
		return models.RoleTeacher
	case "learner", "normal-user":
		return models.RoleStudent
	case "guardian":
		return models.RoleParent
	case "headteacher", "head":
		return models.RolePrincipal
	default:
		return models.UserRole(n)
	}
}

func splitDisplayName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}
