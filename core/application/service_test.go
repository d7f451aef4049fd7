package application_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
	emailsvc "github.com/trezcool/edumatch/services/email"
	"github.com/trezcool/edumatch/storage/database"
	testutil "github.com/trezcool/edumatch/tests"
)

type fixture struct {
	svc   application.Service
	repos *database.Repositories
	mail  *emailsvc.ConsoleService
	alice user.User
	smith user.User
}

func setup(t *testing.T) *fixture {
	ctx := context.Background()
	repos := testutil.SeededRepos(t)
	conf := testutil.Config()
	mail := emailsvc.NewConsoleServiceMock(conf)

	alice, err := repos.Users.GetUserByID(ctx, database.StudentID)
	require.NoError(t, err)
	smith, err := repos.Users.GetUserByID(ctx, database.ProfessorID)
	require.NoError(t, err)

	return &fixture{
		svc: application.NewService(application.Deps{
			Repo:          repos.Applications,
			Opportunities: repos.Opportunities,
			Users:         repos.Users,
			Scorer:        application.NewRandomScorer(42),
			Mail:          mail,
			Logger:        testutil.Logger(conf),
		}),
		repos: repos,
		mail:  mail,
		alice: alice,
		smith: smith,
	}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	first, err := fx.svc.Apply(ctx, fx.alice, database.OpportunityDV)
	require.NoError(t, err)
	second, err := fx.svc.Apply(ctx, fx.alice, database.OpportunityDV)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, application.StatusPending, second.Status)
	assert.Equal(t, fx.alice.Name, second.StudentName)

	mine, err := fx.svc.ByStudent(ctx, fx.alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	received, err := fx.svc.ByProfessor(ctx, fx.smith.ID)
	require.NoError(t, err)
	assert.Len(t, received, 3)

	none, err := fx.svc.ByProfessor(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	total, byStatus, err := fx.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, byStatus[application.StatusPending])
}

func TestService_noCascade(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)
	opps := opportunity.NewService(fx.repos.Opportunities, 0)

	require.NoError(t, opps.Delete(ctx, fx.smith.ID, database.OpportunityAI))

	app, err := fx.repos.Applications.GetApplicationByID(ctx, database.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, database.OpportunityAI, app.OpportunityID)

	mine, err := fx.svc.ByStudent(ctx, fx.alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1, "students still see dangling applications")

	received, err := fx.svc.ByProfessor(ctx, fx.smith.ID)
	require.NoError(t, err)
	assert.Empty(t, received)

	// a dangling application can no longer be decided on
	_, err = fx.svc.SetStatus(ctx, fx.smith, database.ApplicationID, application.StatusAccepted)
	assert.Equal(t, core.ErrForbidden, errors.Cause(err))
}

func TestService_TriggerMatch(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	app, err := fx.svc.TriggerMatch(ctx, database.ApplicationID)
	require.NoError(t, err)
	require.NotNil(t, app.AIMatchScore)
	assert.GreaterOrEqual(t, *app.AIMatchScore, application.MinScore)
	assert.Less(t, *app.AIMatchScore, application.MaxScore)

	stored, err := fx.repos.Applications.GetApplicationByID(ctx, database.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, *app.AIMatchScore, *stored.AIMatchScore)

	_, err = fx.svc.TriggerMatch(ctx, "nope")
	assert.Equal(t, core.ErrServiceUnavailable, errors.Cause(err))
}

func TestService_SetStatus(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)
	jones := user.User{ID: "4", Name: "Dr. Jones", Role: user.RoleProfessor}

	_, err := fx.svc.SetStatus(ctx, fx.smith, database.ApplicationID, "maybe")
	assert.True(t, core.IsValidationError(err))

	_, err = fx.svc.SetStatus(ctx, jones, database.ApplicationID, application.StatusAccepted)
	assert.Equal(t, core.ErrForbidden, errors.Cause(err))

	_, err = fx.svc.SetStatus(ctx, fx.smith, "nope", application.StatusAccepted)
	assert.Equal(t, application.ErrNotFound, errors.Cause(err))

	app, err := fx.svc.SetStatus(ctx, fx.smith, database.ApplicationID, application.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, app.Status)

	sent := fx.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, fx.alice.Email, sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, `Your application to "AI Research Assistant" has been rejected by Dr. Smith.`)

	// back to pending: no email
	_, err = fx.svc.SetStatus(ctx, fx.smith, database.ApplicationID, application.StatusPending)
	require.NoError(t, err)
	assert.Len(t, fx.mail.Sent(), 1)
}
