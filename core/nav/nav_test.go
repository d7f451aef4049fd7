package nav

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core/user"
)

func TestGuard_roles(t *testing.T) {
	for _, role := range user.Roles {
		usr := &user.User{ID: "1", Role: role}
		home, ok := Lookup(DefaultHome(role))
		require.True(t, ok)
		assert.True(t, home.Allows(role), "home of %s must allow it", role)

		for _, route := range Routes {
			got := Guard(true, usr, route)
			switch {
			case route.Public(), route.Allows(role):
				assert.Equal(t, Decision{Outcome: Render, Target: route.Path}, got, "%s -> %s", role, route.Path)
			default:
				assert.Equal(t, Decision{Outcome: RedirectHome, Target: home.Path}, got, "%s -> %s", role, route.Path)
			}
		}
	}
}

func TestGuard_unauthenticated(t *testing.T) {
	for _, route := range Routes {
		got := Guard(false, nil, route)
		if route.Public() {
			assert.Equal(t, Render, got.Outcome, route.Path)
			continue
		}
		assert.Equal(t, Decision{Outcome: RedirectLogin, Target: PathLogin}, got, route.Path)
	}
}

func TestGuard_restoredSession(t *testing.T) {
	// the user of a restored session is unknown until resolved
	for _, route := range Routes {
		assert.Equal(t, Decision{Outcome: Render, Target: route.Path}, Guard(true, nil, route), route.Path)
	}
}

func TestNavigate(t *testing.T) {
	prof := &user.User{ID: "2", Role: user.RoleProfessor}

	tests := []struct {
		name    string
		auth    bool
		usr     *user.User
		path    string
		want    Decision
		wantErr error
	}{
		{name: "index", path: "/", want: Decision{RedirectLogin, PathLogin}},
		{name: "empty", auth: true, usr: prof, path: "", want: Decision{RedirectLogin, PathLogin}},
		{name: "trailing slash", auth: true, usr: prof, path: "/professor/applications/", want: Decision{Render, PathProfessorApplications}},
		{name: "foreign route", auth: true, usr: prof, path: "/student/profile", want: Decision{RedirectHome, PathProfessorOpportunities}},
		{name: "chat", auth: true, usr: prof, path: "/chat", want: Decision{Render, PathChat}},
		{name: "unknown", auth: true, usr: prof, path: "/nope", wantErr: ErrUnknownRoute},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Navigate(tc.auth, tc.usr, tc.path)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultHome(t *testing.T) {
	assert.Equal(t, PathStudentOpportunities, DefaultHome(user.RoleStudent))
	assert.Equal(t, PathProfessorOpportunities, DefaultHome(user.RoleProfessor))
	assert.Equal(t, PathAdminDashboard, DefaultHome(user.RoleAdmin))
	assert.Equal(t, PathAdminDashboard, DefaultHome("guest"))
}

func TestMenu(t *testing.T) {
	assert.Equal(t, []MenuItem{
		{Path: PathStudentOpportunities, Title: "Find Opportunities"},
		{Path: PathStudentProfile, Title: "My Profile"},
		{Path: PathChat, Title: "Chat"},
	}, Menu(user.RoleStudent))
	assert.Equal(t, []MenuItem{
		{Path: PathAdminDashboard, Title: "Dashboard"},
		{Path: PathChat, Title: "Chat"},
	}, Menu(user.RoleAdmin))
	assert.Empty(t, Menu("guest"))

	// every menu item renders for its role
	for _, role := range user.Roles {
		for _, item := range Menu(role) {
			d, err := Navigate(true, &user.User{Role: role}, item.Path)
			require.NoError(t, err)
			assert.Equal(t, Render, d.Outcome, "%s -> %s", role, item.Path)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "render", Render.String())
	assert.Equal(t, "redirect-login", RedirectLogin.String())
	assert.Equal(t, "redirect-home", RedirectHome.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
