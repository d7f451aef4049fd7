package profile_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(inmem.Open().Profiles(), 0)

	_, err := svc.Get(ctx, "1")
	assert.Equal(t, profile.ErrNotFound, err)

	p, err := svc.Save(ctx, profile.StudentProfile{UserID: "1", FullName: " Alice ", GPA: 3.5})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.FullName)
	assert.Equal(t, []string{}, p.Skills)

	p.Skills = []string{"Go", " Go", "Rust"}
	_, err = svc.Save(ctx, p)
	require.NoError(t, err)

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, got.Skills)

	// stored skills are not shared with callers
	got.Skills[0] = "Haskell"
	again, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Skills[0])
}

func TestService_Save_invalid(t *testing.T) {
	ctx := context.Background()
	repo := inmem.Open().Profiles()
	svc := profile.NewService(repo, 0)

	tests := []struct {
		name   string
		p      profile.StudentProfile
		fields map[string]string
	}{
		{"gpa too high", profile.StudentProfile{UserID: "1", FullName: "A", GPA: 5}, map[string]string{"gpa": "gpa must be between 0 and 4"}},
		{"negative gpa", profile.StudentProfile{UserID: "1", FullName: "A", GPA: -0.5}, map[string]string{"gpa": "gpa must be between 0 and 4"}},
		{"blank name", profile.StudentProfile{UserID: "1", FullName: " \t "}, map[string]string{"fullName": "this field is required"}},
		{"no user", profile.StudentProfile{FullName: "A", GPA: 2}, map[string]string{"userId": "this field is required"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, tt.p)
			require.True(t, core.IsValidationError(err), "err = %v", err)
			verr := errors.Cause(err).(*core.ValidationError)
			assert.Equal(t, tt.fields, verr.FieldMap())
		})
	}

	_, err := repo.GetProfile(ctx, "1")
	assert.Equal(t, profile.ErrNotFound, err, "nothing is stored")
}

func TestStudentProfile_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name    string
		p       profile.StudentProfile
		wantErr bool
	}{
		{"valid", profile.StudentProfile{UserID: "1", FullName: "A", GPA: 4}, false},
		{"gpa bounds", profile.StudentProfile{UserID: "1", FullName: "A", GPA: 0}, false},
		{"gpa too high", profile.StudentProfile{UserID: "1", FullName: "A", GPA: 4.01}, true},
		{"negative gpa", profile.StudentProfile{UserID: "1", FullName: "A", GPA: -1}, true},
		{"blank name", profile.StudentProfile{UserID: "1", FullName: "   "}, true},
		{"no user", profile.StudentProfile{FullName: "A"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}
