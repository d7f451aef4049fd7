// Package profile manages student profiles.
package profile

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core"
)

var ErrNotFound = errors.New("profile not found")

// GPA range
const (
	MinGPA = 0
	MaxGPA = 4
)

// StudentProfile is one-to-one with a student user.
type StudentProfile struct {
	UserID      string   `json:"userId" validate:"required"`
	FullName    string   `json:"fullName" validate:"required,notblank"`
	Major       string   `json:"major"`
	GPA         float64  `json:"gpa" validate:"gte=0,lte=4"`
	Skills      []string `json:"skills"`
	Preferences string   `json:"preferences"`
}

// Clean trims text fields and dedupes skills, keeping their order.
func (p *StudentProfile) Clean() {
	p.FullName = core.CleanString(p.FullName)
	p.Major = core.CleanString(p.Major)
	p.Preferences = core.CleanString(p.Preferences)
	p.Skills = core.UniqueStrings(p.Skills)
}

func (p *StudentProfile) Validate(validate *validator.Validate) error {
	p.Clean()
	return validate.Struct(p)
}

// check enforces the stored profile rules on a cleaned profile, without a validator.
func (p StudentProfile) check() error {
	var flds []core.FieldError
	if p.UserID == "" {
		flds = append(flds, core.FieldError{Field: "userId", Error: "this field is required"})
	}
	if p.FullName == "" {
		flds = append(flds, core.FieldError{Field: "fullName", Error: "this field is required"})
	}
	if p.GPA < MinGPA || p.GPA > MaxGPA {
		flds = append(flds, core.FieldError{Field: "gpa", Error: "gpa must be between 0 and 4"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("invalid profile"), flds...)
	}
	return nil
}

type (
	Repository interface {
		GetProfile(ctx context.Context, userID string) (StudentProfile, error)
		SaveProfile(ctx context.Context, p StudentProfile) (StudentProfile, error)
	}

	Service interface {
		Get(ctx context.Context, userID string) (StudentProfile, error)
		// Save creates the profile on first save and replaces it afterwards.
		Save(ctx context.Context, p StudentProfile) (StudentProfile, error)
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

func (svc *service) Get(ctx context.Context, userID string) (StudentProfile, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return StudentProfile{}, err
	}
	return svc.repo.GetProfile(ctx, userID)
}

func (svc *service) Save(ctx context.Context, p StudentProfile) (StudentProfile, error) {
	if err := svc.latency.Wait(ctx); err != nil {
		return StudentProfile{}, err
	}
	p.Clean()
	if err := p.check(); err != nil {
		return StudentProfile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return svc.repo.SaveProfile(ctx, p)
}
