package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/profile"
)

func TestApplicationRow(t *testing.T) {
	score := 87
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		app       application.Application
		wantScore sql.NullInt64
	}{
		{
			name:      "not scored",
			app:       application.Application{ID: "a1", OpportunityID: "o1", StudentID: "s1", StudentName: "Ann", Status: application.StatusPending, CreatedAt: created},
			wantScore: sql.NullInt64{},
		},
		{
			name:      "scored",
			app:       application.Application{ID: "a2", OpportunityID: "o1", StudentID: "s2", StudentName: "Bob", Status: application.StatusAccepted, AIMatchScore: &score, CreatedAt: created},
			wantScore: sql.NullInt64{Int64: 87, Valid: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := newApplicationRow(tc.app)
			assert.Equal(t, tc.wantScore, row.AIMatchScore)
			assert.Equal(t, string(tc.app.Status), row.Status)
			assert.Equal(t, tc.app, row.toApplication())
		})
	}

	t.Run("created at is read as UTC", func(t *testing.T) {
		row := newApplicationRow(tests[0].app)
		row.CreatedAt = created.In(time.FixedZone("WAT", 3600))
		assert.Equal(t, created, row.toApplication().CreatedAt)
	})
	t.Run("score is not shared", func(t *testing.T) {
		app := newApplicationRow(tests[1].app).toApplication()
		*app.AIMatchScore = 1
		assert.Equal(t, 87, score)
	})
}

func TestProfileRow(t *testing.T) {
	tests := []struct {
		name       string
		skills     []string
		wantArray  pq.StringArray
		wantSkills []string
	}{
		{"no skills", nil, pq.StringArray{}, []string{}},
		{"empty skills", []string{}, pq.StringArray{}, []string{}},
		{"skills", []string{"Go", "SQL"}, pq.StringArray{"Go", "SQL"}, []string{"Go", "SQL"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := profile.StudentProfile{UserID: "1", FullName: "Ann", Major: "CS", GPA: 3.2, Skills: tc.skills, Preferences: "ml"}
			row := newProfileRow(p)
			assert.NotNil(t, row.Skills, "NULL is rejected by the skills column")
			assert.Equal(t, tc.wantArray, row.Skills)

			got := row.toProfile()
			assert.Equal(t, tc.wantSkills, got.Skills)
			got.Skills = tc.skills
			assert.Equal(t, p, got)
		})
	}

	t.Run("skills are not shared", func(t *testing.T) {
		row := profileRow{UserID: "1", Skills: pq.StringArray{"Go"}}
		p := row.toProfile()
		p.Skills[0] = "Rust"
		assert.Equal(t, "Go", row.Skills[0])
	})
}

func TestStringArray(t *testing.T) {
	v, err := stringArray(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "{}", v)

	v, err = stringArray([]string{"a", "b c"}).Value()
	assert.NoError(t, err)
	assert.Equal(t, `{"a","b c"}`, v)
}
