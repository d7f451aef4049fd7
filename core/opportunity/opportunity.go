// Package opportunity manages the research opportunities posted by professors.
package opportunity

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/user"
)

var ErrNotFound = errors.New("opportunity not found")

type Opportunity struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Deadline      string `json:"deadline"` // YYYY-MM-DD
	Category      string `json:"category"`
	ProfessorID   string `json:"professorId"`
	ProfessorName string `json:"professorName"`
}

// NewOpportunity contains information needed to post an Opportunity.
type NewOpportunity struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Deadline    string `json:"deadline" validate:"required,datetime=2006-01-02"`
	Category    string `json:"category" validate:"required,notblank"`
}

func (no *NewOpportunity) Validate(validate *validator.Validate) error {
	no.Title = core.CleanString(no.Title)
	no.Description = core.CleanString(no.Description)
	no.Deadline = core.CleanString(no.Deadline)
	no.Category = core.CleanString(no.Category)
	return validate.Struct(no)
}

type Filter struct {
	Search string `query:"search"`
}

// Match does a case-insensitive match of the search term on the title or the category.
func (f Filter) Match(o Opportunity) bool {
	term := core.CleanString(f.Search, true /* lower */)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Title), term) || strings.Contains(strings.ToLower(o.Category), term)
}

type (
	Repository interface {
		CreateOpportunity(ctx context.Context, o Opportunity) (Opportunity, error)
		QueryAllOpportunities(ctx context.Context) ([]Opportunity, error)
		GetOpportunityByID(ctx context.Context, id string) (Opportunity, error)
		DeleteOpportunity(ctx context.Context, id string) error
		CountOpportunities(ctx context.Context) (int, error)
	}

	Service interface {
		QueryAll(ctx context.Context, filter Filter) ([]Opportunity, error)
		ByProfessor(ctx context.Context, professorID string) ([]Opportunity, error)
		GetByID(ctx context.Context, id string) (Opportunity, error)
		Create(ctx context.Context, professor user.User, no NewOpportunity) (Opportunity, error)
		// Delete removes an opportunity owned by professorID. Its applications are kept.
		Delete(ctx context.Context, professorID, id string) error
		Count(ctx context.Context) (int, error)
	}

	service struct {
		repo    Repository
		latency core.Latency
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, latency core.Latency) Service {
	return &service{repo: repo, latency: latency}
}

func (svc *service) QueryAll(ctx context.Context, filter Filter) ([]Opportunity, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return nil, err
	}
	all, err := svc.repo.QueryAllOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]Opportunity, 0, len(all))
	for _, o := range all {
		if filter.Match(o) {
			res = append(res, o)
		}
	}
	return res, nil
}

func (svc *service) ByProfessor(ctx context.Context, professorID string) ([]Opportunity, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return nil, err
	}
	all, err := svc.repo.QueryAllOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]Opportunity, 0)
	for _, o := range all {
		if o.ProfessorID == professorID {
			res = append(res, o)
		}
	}
	return res, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Opportunity, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return Opportunity{}, err
	}
	return svc.repo.GetOpportunityByID(ctx, id)
}

func (svc *service) Create(ctx context.Context, professor user.User, no NewOpportunity) (Opportunity, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return Opportunity{}, err
	}
	return svc.repo.CreateOpportunity(ctx, Opportunity{
		ID:            uuid.NewString(),
		Title:         no.Title,
		Description:   no.Description,
		Deadline:      no.Deadline,
		Category:      no.Category,
		ProfessorID:   professor.ID,
		ProfessorName: professor.Name,
	})
}

func (svc *service) Delete(ctx context.Context, professorID, id string) error {
	if err := svc.latency.Wait(ctx); err != nil {
		return err
	}
	o, err := svc.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return err
	}
	if o.ProfessorID != professorID {
		return ErrNotFound
	}
	return svc.repo.DeleteOpportunity(ctx, id)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountOpportunities(ctx)
}
