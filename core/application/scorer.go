package application

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
)

// Match scores are in [MinScore, MaxScore).
const (
	MinScore = 60
	MaxScore = 98
)

// Scorer computes the AI match score of an application.
type Scorer interface {
	Score(ctx context.Context, app Application) (int, error)
}

// NewScorer returns the scorer named by kind ("random" or "similarity").
func NewScorer(kind string, profiles profile.Repository, opportunities opportunity.Repository) Scorer {
	switch core.CleanString(kind, true /* lower */) {
	case "similarity":
		return NewSimilarityScorer(profiles, opportunities)
	default:
		return NewRandomScorer(time.Now().UnixNano())
	}
}

type RandomScorer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

var _ Scorer = (*RandomScorer)(nil)

func NewRandomScorer(seed int64) *RandomScorer {
	return &RandomScorer{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomScorer) Score(context.Context, Application) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinScore + s.rnd.Intn(MaxScore-MinScore), nil
}

// SimilarityScorer scores how close a student's profile is to the opportunity text.
type SimilarityScorer struct {
	profiles      profile.Repository
	opportunities opportunity.Repository
}

var _ Scorer = (*SimilarityScorer)(nil)

func NewSimilarityScorer(profiles profile.Repository, opportunities opportunity.Repository) *SimilarityScorer {
	return &SimilarityScorer{profiles: profiles, opportunities: opportunities}
}

func (s *SimilarityScorer) Score(ctx context.Context, app Application) (int, error) {
	opp, err := s.opportunities.GetOpportunityByID(ctx, app.OpportunityID)
	if err != nil {
		if errors.Cause(err) == opportunity.ErrNotFound {
			return MinScore, nil // dangling application
		}
		return 0, errors.Wrap(err, "getting opportunity")
	}
	prof, err := s.profiles.GetProfile(ctx, app.StudentID)
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return MinScore, nil // no profile yet
		}
		return 0, errors.Wrap(err, "getting profile")
	}
	ratio := Similarity(
		strings.Join(append([]string{prof.Major, prof.Preferences}, prof.Skills...), " "),
		strings.Join([]string{opp.Title, opp.Description, opp.Category}, " "),
	)
	score := MinScore + int(ratio*float64(MaxScore-MinScore))
	if score >= MaxScore {
		score = MaxScore - 1
	}
	return score, nil
}

// Similarity returns the difflib ratio of the lowered words of a and b, in [0, 1].
func Similarity(a, b string) float64 {
	wa, wb := strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b))
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	return difflib.NewMatcher(wa, wb).Ratio()
}
