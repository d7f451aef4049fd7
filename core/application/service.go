package application

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		QueryAllApplications(ctx context.Context) ([]Application, error)
		GetApplicationByID(ctx context.Context, id string) (Application, error)
		UpdateApplication(ctx context.Context, app Application) (Application, error)
		CountApplications(ctx context.Context) (total int, byStatus map[Status]int, err error)
	}

	Service interface {
		// Apply records a new pending application. Duplicates and unknown opportunities are not rejected.
		Apply(ctx context.Context, student user.User, opportunityID string) (Application, error)
		// ByProfessor returns the applications to the opportunities owned by professorID.
		ByProfessor(ctx context.Context, professorID string) ([]Application, error)
		ByStudent(ctx context.Context, studentID string) ([]Application, error)
		// TriggerMatch scores the application and stores the score on it.
		TriggerMatch(ctx context.Context, id string) (Application, error)
		SetStatus(ctx context.Context, professor user.User, id string, status Status) (Application, error)
		Count(ctx context.Context) (int, map[Status]int, error)
	}

	Deps struct {
		Repo          Repository
		Opportunities opportunity.Repository
		Users         user.Repository
		Scorer        Scorer
		Mail          core.EmailService
		Logger        core.Logger
		Latency       core.Latency
		MatchLatency  core.Latency
	}

	service struct {
		Deps
	}
)

var _ Service = (*service)(nil)

func NewService(deps Deps) Service {
	return &service{Deps: deps}
}

func (svc *service) Apply(ctx context.Context, student user.User, opportunityID string) (Application, error) {
	if err := svc.Latency.Wait(ctx); err != nil {
		return Application{}, err
	}
	return svc.Repo.CreateApplication(ctx, Application{
		ID:            uuid.NewString(),
		OpportunityID: opportunityID,
		StudentID:     student.ID,
		StudentName:   student.Name,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	})
}

func (svc *service) ByProfessor(ctx context.Context, professorID string) ([]Application, error) {
	if err := svc.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	opps, err := svc.Opportunities.QueryAllOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool)
	for _, o := range opps {
		if o.ProfessorID == professorID {
			owned[o.ID] = true
		}
	}
	return svc.filter(ctx, func(app Application) bool { return owned[app.OpportunityID] })
}

func (svc *service) ByStudent(ctx context.Context, studentID string) ([]Application, error) {
	if err := svc.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return svc.filter(ctx, func(app Application) bool { return app.StudentID == studentID })
}

func (svc *service) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	all, err := svc.Repo.QueryAllApplications(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]Application, 0)
	for _, app := range all {
		if keep(app) {
			res = append(res, app)
		}
	}
	return res, nil
}

func (svc *service) TriggerMatch(ctx context.Context, id string) (Application, error) {
	if err := svc.MatchLatency.Wait(ctx); err != nil {
		return Application{}, err
	}
	app, err := svc.Repo.GetApplicationByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Application{}, errors.Wrapf(core.ErrServiceUnavailable, "matching application %s", id)
		}
		return Application{}, err
	}
	score, err := svc.Scorer.Score(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "scoring application")
	}
	app.AIMatchScore = &score
	return svc.Repo.UpdateApplication(ctx, app)
}

func (svc *service) SetStatus(ctx context.Context, professor user.User, id string, status Status) (Application, error) {
	if !status.Valid() {
		return Application{}, core.NewValidationError(
			errors.Errorf("invalid status %q", status),
			core.FieldError{Field: "status", Error: "status must be one of pending, accepted or rejected"},
		)
	}
	if err := svc.Latency.Wait(ctx); err != nil {
		return Application{}, err
	}
	app, err := svc.Repo.GetApplicationByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	opp, err := svc.Opportunities.GetOpportunityByID(ctx, app.OpportunityID)
	if err != nil {
		if errors.Cause(err) == opportunity.ErrNotFound {
			return Application{}, core.ErrForbidden
		}
		return Application{}, err
	}
	if opp.ProfessorID != professor.ID {
		return Application{}, core.ErrForbidden
	}

	changed := app.Status != status
	app.Status = status
	if app, err = svc.Repo.UpdateApplication(ctx, app); err != nil {
		return Application{}, err
	}
	if changed && status != StatusPending {
		svc.notifyStudent(ctx, app, opp, professor)
	}
	return app, nil
}

func (svc *service) notifyStudent(ctx context.Context, app Application, opp opportunity.Opportunity, professor user.User) {
	if svc.Mail == nil {
		return
	}
	student, err := svc.Users.GetUserByID(ctx, app.StudentID)
	if err != nil {
		if svc.Logger != nil {
			svc.Logger.Warn(fmt.Sprintf("application %s: student %s not notified: %v", app.ID, app.StudentID, err))
		}
		return
	}
	svc.Mail.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      fmt.Sprintf("Your application to %s", opp.Title),
		TemplateName: "application_status",
		TemplateData: map[string]interface{}{
			"StudentName":      student.Name,
			"OpportunityTitle": opp.Title,
			"Status":           string(app.Status),
			"ProfessorName":    professor.Name,
		},
	})
}

func (svc *service) Count(ctx context.Context) (int, map[Status]int, error) {
	return svc.Repo.CountApplications(ctx)
}
