// Package nav holds the route table of the app and the guard deciding whether
// a navigation renders its view or redirects.
package nav

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/user"
)

// Paths
const (
	PathIndex                  = "/"
	PathLogin                  = "/login"
	PathRegister               = "/register"
	PathStudentProfile         = "/student/profile"
	PathStudentOpportunities   = "/student/opportunities"
	PathProfessorOpportunities = "/professor/opportunities"
	PathProfessorApplications  = "/professor/applications"
	PathAdminDashboard         = "/admin/dashboard"
	PathChat                   = "/chat"
)

var ErrUnknownRoute = errors.New("unknown route")

type Route struct {
	Path  string
	Title string
	// Roles allowed to render the route; empty for public routes.
	Roles []user.Role
}

func (r Route) Public() bool { return len(r.Roles) == 0 }

func (r Route) Allows(role user.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var Routes = []Route{
	{Path: PathLogin, Title: "Login"},
	{Path: PathRegister, Title: "Register"},
	{Path: PathStudentProfile, Title: "My Profile", Roles: []user.Role{user.RoleStudent}},
	{Path: PathStudentOpportunities, Title: "Find Opportunities", Roles: []user.Role{user.RoleStudent}},
	{Path: PathProfessorOpportunities, Title: "My Opportunities", Roles: []user.Role{user.RoleProfessor}},
	{Path: PathProfessorApplications, Title: "Applications", Roles: []user.Role{user.RoleProfessor}},
	{Path: PathAdminDashboard, Title: "Dashboard", Roles: []user.Role{user.RoleAdmin}},
	{Path: PathChat, Title: "Chat", Roles: user.Roles},
}

// Lookup finds the route of path, ignoring a trailing slash.
func Lookup(path string) (Route, bool) {
	if path != PathIndex {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// DefaultHome is the landing route of role.
func DefaultHome(role user.Role) string {
	switch role {
	case user.RoleStudent:
		return PathStudentOpportunities
	case user.RoleProfessor:
		return PathProfessorOpportunities
	case user.RoleAdmin:
		return PathAdminDashboard
	default:
		return PathAdminDashboard
	}
}

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decision is the guard verdict; Target is the path that ends up displayed.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard decides whether a session may render route.
// An authenticated session without a resolved user renders any protected route.
func Guard(authenticated bool, usr *user.User, route Route) Decision {
	if route.Public() {
		return Decision{Outcome: Render, Target: route.Path}
	}
	if !authenticated {
		return Decision{Outcome: RedirectLogin, Target: PathLogin}
	}
	if usr != nil && !route.Allows(usr.Role) {
		return Decision{Outcome: RedirectHome, Target: DefaultHome(usr.Role)}
	}
	return Decision{Outcome: Render, Target: route.Path}
}

// Navigate resolves path and guards it. The index redirects to the login route.
func Navigate(authenticated bool, usr *user.User, path string) (Decision, error) {
	if path == "" || path == PathIndex {
		return Decision{Outcome: RedirectLogin, Target: PathLogin}, nil
	}
	route, ok := Lookup(path)
	if !ok {
		return Decision{}, errors.Wrap(ErrUnknownRoute, path)
	}
	return Guard(authenticated, usr, route), nil
}

type MenuItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Menu lists the layout navigation items of role.
func Menu(role user.Role) []MenuItem {
	var paths []string
	switch role {
	case user.RoleStudent:
		paths = []string{PathStudentOpportunities, PathStudentProfile, PathChat}
	case user.RoleProfessor:
		paths = []string{PathProfessorOpportunities, PathProfessorApplications, PathChat}
	case user.RoleAdmin:
		paths = []string{PathAdminDashboard, PathChat}
	}
	items := make([]MenuItem, 0, len(paths))
	for _, p := range paths {
		r, _ := Lookup(p)
		items = append(items, MenuItem{Path: r.Path, Title: r.Title})
	}
	return items
}
