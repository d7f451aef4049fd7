package client

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/session"
	"github.com/trezcool/edumatch/core/user"
	"github.com/trezcool/edumatch/storage/database"
	testutil "github.com/trezcool/edumatch/tests"
)

func setup(t *testing.T) (*Client, *session.Manager, session.TokenStore) {
	ts := testutil.NewAPI(t)
	store := session.NewMemoryStore()
	c := New(ts.URL+"/", store, ts.Client())
	return c, session.NewManager(c, store), store
}

func TestClient_login(t *testing.T) {
	c, mgr, store := setup(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "nobody@edu.com", "x")
	assert.Equal(t, user.ErrInvalidCredentials, errors.Cause(err))
	assert.False(t, mgr.State().Authenticated)

	usr, err := mgr.Login(ctx, "student@edu.com", "whatever")
	require.NoError(t, err)
	assert.Equal(t, database.StudentID, usr.ID)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, mgr.State().Token, token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, usr.Email, me.Email)

	refreshed, err := c.RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed)
}

func TestClient_register(t *testing.T) {
	c, mgr, _ := setup(t)
	ctx := context.Background()

	_, err := mgr.Register(ctx, user.NewUser{Email: "x@edu.com", Password: "pwd", Role: "ghost", Name: "X"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "role must be one of student, professor or admin", apiErr.Fields["role"])

	usr, err := mgr.Register(ctx, user.NewUser{Email: "x@edu.com", Password: "pwd", Role: user.RoleProfessor, Name: "Dr. X"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleProfessor, mgr.State().User.Role)

	o, err := c.CreateOpportunity(ctx, opportunity.NewOpportunity{
		Title:       "Robotics",
		Description: "Build robots.",
		Deadline:    "2025-03-01",
		Category:    "Engineering",
	})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, o.ProfessorID)

	mine, err := c.MyOpportunities(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)

	require.NoError(t, c.DeleteOpportunity(ctx, o.ID))
	_, err = c.Opportunity(ctx, o.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, opportunity.ErrNotFound.Error(), apiErr.Message)
}

func TestClient_unauthorized(t *testing.T) {
	c, mgr, store := setup(t)
	ctx := context.Background()

	_, err := c.Opportunities(ctx, "")
	assert.Equal(t, session.ErrNotAuthenticated, errors.Cause(err))

	// a rejected token is cleared and ends the session
	require.NoError(t, store.Set(ctx, "mock-jwt-token-12345"))
	_, err = mgr.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, mgr.State().Authenticated)
	assert.Nil(t, mgr.State().User)

	_, err = mgr.Whoami(ctx)
	assert.Equal(t, session.ErrNotAuthenticated, errors.Cause(err))
	_, err = store.Get(ctx)
	assert.Equal(t, session.ErrNoToken, err)
	assert.False(t, mgr.State().Authenticated)
}

func TestClient_studentFlow(t *testing.T) {
	c, mgr, _ := setup(t)
	ctx := context.Background()
	_, err := mgr.Login(ctx, "student@edu.com", "")
	require.NoError(t, err)

	opps, err := c.Opportunities(ctx, "data")
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, database.OpportunityDV, opps[0].ID)

	for i := 0; i < 2; i++ {
		_, err = c.Apply(ctx, database.OpportunityDV)
		require.NoError(t, err)
	}
	apps, err := c.Applications(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 3)

	p, err := c.Profile(ctx, database.StudentID)
	require.NoError(t, err)
	p.Skills = append(p.Skills, "Go", " Go ")
	saved, err := c.SaveProfile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "Python", "AI", "Go"}, saved.Skills)

	_, err = c.MyOpportunities(ctx)
	assert.Equal(t, core.ErrForbidden, err)

	_, err = c.Stats(ctx)
	assert.Equal(t, core.ErrForbidden, err)

	rooms, err := c.ChatRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
	msg, err := c.SendChatMessage(ctx, chat.RoomResearchHelp, chat.NewMessage{Content: "hi"})
	require.NoError(t, err)
	history, err := c.ChatHistory(ctx, chat.RoomResearchHelp)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, msg.ID, history[0].ID)
}

func TestClient_professorFlow(t *testing.T) {
	c, mgr, _ := setup(t)
	ctx := context.Background()
	_, err := mgr.Login(ctx, "prof@edu.com", "")
	require.NoError(t, err)

	app, err := c.TriggerMatch(ctx, database.ApplicationID)
	require.NoError(t, err)
	require.NotNil(t, app.AIMatchScore)
	assert.GreaterOrEqual(t, *app.AIMatchScore, application.MinScore)

	_, err = c.TriggerMatch(ctx, "nope")
	assert.Equal(t, core.ErrServiceUnavailable, errors.Cause(err))

	app, err = c.SetApplicationStatus(ctx, database.ApplicationID, application.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, app.Status)
}

func TestClient_adminFlow(t *testing.T) {
	c, mgr, _ := setup(t)
	ctx := context.Background()
	_, err := mgr.Login(ctx, "admin@edu.com", "")
	require.NoError(t, err)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalUsers)
	assert.Equal(t, 2, st.TotalOpportunities)
	assert.Equal(t, 1, st.TotalApplications)

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	var buf bytes.Buffer
	require.NoError(t, c.ExportStats(ctx, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Stats", "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	roles, err := c.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(user.Roles))
}
