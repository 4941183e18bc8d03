// Package routing decides, for a resolved role and a requested path, whether
// the view renders or the caller is sent to the unauthorized page.
package routing

import (
	"strings"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

type View string

const (
	ViewStudentDashboard    View = "student_dashboard"
	ViewParentDashboard     View = "parent_dashboard"
	ViewTeacherDashboard    View = "teacher_dashboard"
	ViewPrincipalDashboard  View = "principal_dashboard"
	ViewAdminDashboard      View = "admin_dashboard"
	ViewSuperAdminDashboard View = "superadmin_dashboard"
	ViewSubscriptionManager View = "subscription_manager"
	ViewUnauthorized        View = "unauthorized"
)

const (
	RootPath         = "/"
	UnauthorizedPath = "/unauthorized"
)

// Route binds a path to the only role allowed to see its view.
type Route struct {
	Path     string          `json:"path"`
	Required models.UserRole `json:"required_role"`
	View     View            `json:"view"`
}

var routes = []Route{
	{Path: "/student", Required: models.RoleStudent, View: ViewStudentDashboard},
	{Path: "/parent", Required: models.RoleParent, View: ViewParentDashboard},
	{Path: "/teacher", Required: models.RoleTeacher, View: ViewTeacherDashboard},
	{Path: "/principal", Required: models.RolePrincipal, View: ViewPrincipalDashboard},
	{Path: "/admin", Required: models.RoleAdmin, View: ViewAdminDashboard},
	{Path: "/admin/subscriptions", Required: models.RoleAdmin, View: ViewSubscriptionManager},
	{Path: "/superadmin", Required: models.RoleSuperAdmin, View: ViewSuperAdminDashboard},
}

// Routes returns the guarded route table.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Lookup finds the guarded route for path. A trailing slash is ignored.
func Lookup(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// EffectiveRole resolves the role stored on a profile. A missing role means
// student; anything outside the closed set is rejected.
func EffectiveRole(raw string) (models.UserRole, bool) {
	if strings.TrimSpace(raw) == "" {
		return models.RoleStudent, true
	}
	return models.ParseUserRole(raw)
}

// DashboardView is the home view of role.
func DashboardView(role models.UserRole) (View, bool) {
	switch role {
	case models.RoleStudent:
		return ViewStudentDashboard, true
	case models.RoleParent:
		return ViewParentDashboard, true
	case models.RoleTeacher:
		return ViewTeacherDashboard, true
	case models.RolePrincipal:
		return ViewPrincipalDashboard, true
	case models.RoleAdmin:
		return ViewAdminDashboard, true
	case models.RoleSuperAdmin:
		return ViewSuperAdminDashboard, true
	}
	return "", false
}

// HomePath is where "/" sends role.
func HomePath(role models.UserRole) string {
	return RootPath + string(role)
}

type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
)

type Decision struct {
	Outcome  Outcome `json:"outcome"`
	View     View    `json:"view,omitempty"`
	Location string  `json:"location,omitempty"`
}

func render(v View) Decision { return Decision{Outcome: OutcomeRender, View: v} }

func redirect(to string) Decision { return Decision{Outcome: OutcomeRedirect, Location: to} }

// Guard renders route.View only when actual equals the route's required role.
// There is no role hierarchy: an admin is not a superadmin.
func Guard(route Route, actual models.UserRole) Decision {
	if _, ok := models.ParseUserRole(string(actual)); !ok || actual != route.Required {
		return redirect(UnauthorizedPath)
	}
	return render(route.View)
}

// Decide resolves a request for path by a user whose stored role is rawRole.
// found is false for paths outside the route surface.
func Decide(path string, rawRole string) (d Decision, found bool) {
	role, ok := EffectiveRole(rawRole)

	switch path {
	case RootPath:
		if !ok {
			return redirect(UnauthorizedPath), true
		}
		return redirect(HomePath(role)), true
	case UnauthorizedPath:
		return render(ViewUnauthorized), true
	}

	route, exists := Lookup(path)
	if !exists {
		return Decision{}, false
	}
	if !ok {
		return redirect(UnauthorizedPath), true
	}
	return Guard(route, role), true
}
