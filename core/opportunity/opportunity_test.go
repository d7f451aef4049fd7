package opportunity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
	"github.com/trezcool/edumatch/storage/database/inmem"
)

var (
	smith = user.User{ID: "2", Name: "Dr. Smith", Role: user.RoleProfessor}
	jones = user.User{ID: "4", Name: "Dr. Jones", Role: user.RoleProfessor}
)

func newOpportunity(title, category string) opportunity.NewOpportunity {
	return opportunity.NewOpportunity{Title: title, Description: "desc", Deadline: "2024-12-31", Category: category}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := opportunity.NewService(inmem.Open().Opportunities(), 0)

	ai, err := svc.Create(ctx, smith, newOpportunity("AI Research Assistant", "AI/ML"))
	require.NoError(t, err)
	assert.Equal(t, smith.ID, ai.ProfessorID)
	assert.Equal(t, smith.Name, ai.ProfessorName)
	dv, err := svc.Create(ctx, smith, newOpportunity("Data Visualization Intern", "Data Science"))
	require.NoError(t, err)
	bio, err := svc.Create(ctx, jones, newOpportunity("Protein Folding", "Biology"))
	require.NoError(t, err)

	all, err := svc.QueryAll(ctx, opportunity.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []opportunity.Opportunity{ai, dv, bio}, all)

	found, err := svc.QueryAll(ctx, opportunity.Filter{Search: " DATA "})
	require.NoError(t, err)
	assert.Equal(t, []opportunity.Opportunity{dv}, found)

	found, err = svc.QueryAll(ctx, opportunity.Filter{Search: "biology"})
	require.NoError(t, err)
	assert.Equal(t, []opportunity.Opportunity{bio}, found)

	mine, err := svc.ByProfessor(ctx, smith.ID)
	require.NoError(t, err)
	assert.Equal(t, []opportunity.Opportunity{ai, dv}, mine)

	assert.Equal(t, opportunity.ErrNotFound, svc.Delete(ctx, jones.ID, ai.ID), "not the owner")
	require.NoError(t, svc.Delete(ctx, smith.ID, ai.ID))
	_, err = svc.GetByID(ctx, ai.ID)
	assert.Equal(t, opportunity.ErrNotFound, err)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewOpportunity_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	no := opportunity.NewOpportunity{Title: " T ", Description: "D", Deadline: " 2025-02-28 ", Category: "C"}
	require.NoError(t, no.Validate(validate))
	assert.Equal(t, "T", no.Title)
	assert.Equal(t, "2025-02-28", no.Deadline)

	for _, deadline := range []string{"", "2025-02-30", "28/02/2025", "2025-2-28"} {
		no := opportunity.NewOpportunity{Title: "T", Description: "D", Deadline: deadline, Category: "C"}
		assert.Error(t, no.Validate(validate), deadline)
	}
}
