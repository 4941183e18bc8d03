// Package navigation maps a role to the menus shown in the dashboard chrome.
package navigation

import "github.com/SAP-F-2025/educloud-dashboard/internal/models"

type Icon string

const (
	IconHome       Icon = "home"
	IconBookOpen   Icon = "book-open"
	IconCalendar   Icon = "calendar"
	IconUsers      Icon = "users"
	IconDollarSign Icon = "dollar-sign"
	IconBell       Icon = "bell"
	IconSettings   Icon = "settings"
	IconTrendingUp Icon = "trending-up"
	IconBot        Icon = "bot"
)

type Item struct {
	Name  string `json:"name"`
	Href  string `json:"href"`
	Icon  Icon   `json:"icon"`
	Color string `json:"color,omitempty"`
}

// Menus is the pair of menus rendered for one role.
type Menus struct {
	Top     []Item `json:"top"`
	Sidebar []Item `json:"sidebar"`
}

// TopNav returns the header navigation for role. ok is false for roles
// outside the closed set; there is no fallback menu.
func TopNav(role models.UserRole) ([]Item, bool) {
	switch role {
	case models.RoleStudent:
		return []Item{
			{Name: "Dashboard", Href: "/student", Icon: IconHome},
			{Name: "Classes", Href: "/student/classes", Icon: IconBookOpen},
			{Name: "Schedule", Href: "/student/schedule", Icon: IconCalendar},
			{Name: "Grades", Href: "/student/grades", Icon: IconBell},
		}, true
	case models.RoleParent:
		return []Item{
			{Name: "Dashboard", Href: "/parent", Icon: IconHome},
			{Name: "Children", Href: "/parent/children", Icon: IconUsers},
			{Name: "Fees", Href: "/parent/fees", Icon: IconDollarSign},
			{Name: "Communication", Href: "/parent/messages", Icon: IconBell},
		}, true
	case models.RoleTeacher:
		return []Item{
			{Name: "Dashboard", Href: "/teacher", Icon: IconHome},
			{Name: "Classes", Href: "/teacher/classes", Icon: IconBookOpen},
			{Name: "Students", Href: "/teacher/students", Icon: IconUsers},
			{Name: "Schedule", Href: "/teacher/schedule", Icon: IconCalendar},
		}, true
	case models.RolePrincipal:
		return []Item{
			{Name: "Dashboard", Href: "/principal", Icon: IconHome},
			{Name: "Staff", Href: "/principal/staff", Icon: IconUsers},
			{Name: "Analytics", Href: "/principal/analytics", Icon: IconBookOpen},
			{Name: "Settings", Href: "/principal/settings", Icon: IconSettings},
		}, true
	case models.RoleAdmin:
		return []Item{
			{Name: "Dashboard", Href: "/admin", Icon: IconHome},
			{Name: "Schools", Href: "/admin/schools", Icon: IconBookOpen},
			{Name: "Users", Href: "/admin/users", Icon: IconUsers},
			{Name: "Billing", Href: "/admin/billing", Icon: IconDollarSign},
		}, true
	case models.RoleSuperAdmin:
		return []Item{
			{Name: "Dashboard", Href: "/superadmin", Icon: IconHome},
			{Name: "Tenants", Href: "/superadmin/tenants", Icon: IconBookOpen},
			{Name: "Analytics", Href: "/superadmin/analytics", Icon: IconUsers},
			{Name: "System", Href: "/superadmin/system", Icon: IconSettings},
		}, true
	}
	return nil, false
}

const (
	blue   = "text-blue-600"
	green  = "text-green-600"
	purple = "text-purple-600"
	orange = "text-orange-600"
	red    = "text-red-600"
	indigo = "text-indigo-600"
)

// Sidebar returns the side menu for role. Parents get the header menu
// mirrored, with a color per entry.
func Sidebar(role models.UserRole) ([]Item, bool) {
	switch role {
	case models.RoleStudent:
		return []Item{
			{Name: "Overview", Href: "/student", Icon: IconHome, Color: blue},
			{Name: "My Classes", Href: "/student/classes", Icon: IconBookOpen, Color: green},
			{Name: "Schedule", Href: "/student/schedule", Icon: IconCalendar, Color: purple},
			{Name: "Assignments", Href: "/student/assignments", Icon: IconBookOpen, Color: orange},
			{Name: "Grades", Href: "/student/grades", Icon: IconTrendingUp, Color: red},
			{Name: "AI Tutor", Href: "/student/ai-tutor", Icon: IconBot, Color: indigo},
		}, true
	case models.RoleParent:
		return []Item{
			{Name: "Overview", Href: "/parent", Icon: IconHome, Color: blue},
			{Name: "Children", Href: "/parent/children", Icon: IconUsers, Color: green},
			{Name: "Fees", Href: "/parent/fees", Icon: IconDollarSign, Color: purple},
			{Name: "Communication", Href: "/parent/messages", Icon: IconBell, Color: orange},
		}, true
	case models.RoleTeacher:
		return []Item{
			{Name: "Dashboard", Href: "/teacher", Icon: IconHome, Color: blue},
			{Name: "My Classes", Href: "/teacher/classes", Icon: IconBookOpen, Color: green},
			{Name: "Students", Href: "/teacher/students", Icon: IconUsers, Color: purple},
			{Name: "Schedule", Href: "/teacher/schedule", Icon: IconCalendar, Color: orange},
			{Name: "AI Assistant", Href: "/teacher/ai-assistant", Icon: IconBot, Color: indigo},
		}, true
	case models.RolePrincipal:
		return []Item{
			{Name: "Dashboard", Href: "/principal", Icon: IconHome, Color: blue},
			{Name: "Analytics", Href: "/principal/analytics", Icon: IconTrendingUp, Color: green},
			{Name: "Staff Management", Href: "/principal/staff", Icon: IconUsers, Color: purple},
			{Name: "School Settings", Href: "/principal/settings", Icon: IconSettings, Color: orange},
			{Name: "AI Insights", Href: "/principal/ai-insights", Icon: IconBot, Color: indigo},
		}, true
	case models.RoleAdmin:
		return []Item{
			{Name: "Dashboard", Href: "/admin", Icon: IconHome, Color: blue},
			{Name: "Schools", Href: "/admin/schools", Icon: IconBookOpen, Color: green},
			{Name: "Subscriptions", Href: "/admin/subscriptions", Icon: IconDollarSign, Color: purple},
			{Name: "Analytics", Href: "/admin/analytics", Icon: IconTrendingUp, Color: orange},
		}, true
	case models.RoleSuperAdmin:
		return []Item{
			{Name: "System Overview", Href: "/superadmin", Icon: IconHome, Color: blue},
			{Name: "Tenant Management", Href: "/superadmin/tenants", Icon: IconBookOpen, Color: green},
			{Name: "Revenue Analytics", Href: "/superadmin/revenue", Icon: IconDollarSign, Color: purple},
			{Name: "System Health", Href: "/superadmin/health", Icon: IconSettings, Color: orange},
		}, true
	}
	return nil, false
}

// For returns both menus for role.
func For(role models.UserRole) (Menus, bool) {
	top, ok := TopNav(role)
	if !ok {
		return Menus{}, false
	}
	side, ok := Sidebar(role)
	if !ok {
		return Menus{}, false
	}
	return Menus{Top: top, Sidebar: side}, true
}
