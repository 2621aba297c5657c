package service

import (
	"sort"

	"github.com/hyemin/artmate/internal/domain"
)

// Ranker orders candidate sets by compatibility with a subject. Like the
// engine it wraps, it is stateless and safe for concurrent use.
type Ranker struct {
	engine *CompatibilityService
}

// NewRanker creates a new Ranker over the given engine.
// Parameters:
//   - engine: compatibility engine used for scoring and eligibility.
// Returns:
//   - *Ranker: initialized ranker.
func NewRanker(engine *CompatibilityService) *Ranker {
	return &Ranker{engine: engine}
}

// Rank scores and sorts candidates against the subject. Candidates at or
// below the confidence threshold, and candidates whose profile fails
// validation, are filtered silently; they are never an error and never pad
// the result. Sort order is score descending, then confidence descending,
// then original candidate order (stable). Limit and offset apply after the
// full sort so tie-break resolution is identical across pages.
// Parameters:
//   - subject: subject type vector.
//   - candidates: candidate set to rank.
//   - limit: maximum rows to return; <= 0 means no limit.
//   - offset: rows to skip after sorting.
// Returns:
//   - []domain.RankedCandidate: ranked page, possibly shorter than limit.
func (r *Ranker) Rank(subject domain.TypeVector, candidates []domain.Candidate, limit, offset int) []domain.RankedCandidate {
	ranked := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !r.engine.Eligible(c.Profile) {
			continue
		}
		score, err := r.engine.ScoreProfile(subject, c.Profile)
		if err != nil {
			continue
		}
		ranked = append(ranked, domain.RankedCandidate{
			CandidateID: c.ID,
			Kind:        c.Kind,
			Score:       score,
			Confidence:  c.Profile.Confidence,
			Profile:     c.Profile,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Confidence > ranked[j].Confidence
	})

	return page(ranked, limit, offset)
}

// page applies offset/limit to an already fully sorted slice.
func page(ranked []domain.RankedCandidate, limit, offset int) []domain.RankedCandidate {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranked) {
		return []domain.RankedCandidate{}
	}
	ranked = ranked[offset:]
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
