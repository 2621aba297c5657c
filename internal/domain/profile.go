package domain

// CandidateKind distinguishes what a ranked candidate refers to.
// Values include CandidateArtwork, CandidateArtist, and CandidateUser.
type CandidateKind string

const (
	CandidateArtwork CandidateKind = "artwork"
	CandidateArtist  CandidateKind = "artist"
	CandidateUser    CandidateKind = "user"
)

// TypeWeight is one entry of a weighted type blend.
type TypeWeight struct {
	Code   string  `json:"code"`
	Weight float64 `json:"weight"`
}

// WeightedProfile describes an artist or artwork that exhibits a blend of
// APT types rather than a single code. PrimaryTypes are ordered by
// descending weight; weights are in (0, 1] and sum to at most 1.
// Confidence is the labeling confidence in [0, 1]; only profiles above the
// configured eligibility threshold may appear in ranked output.
type WeightedProfile struct {
	PrimaryTypes []TypeWeight `json:"primary_types"`
	Confidence   float64      `json:"confidence"`
}

// Validate checks the WeightedProfile invariants.
// Parameters: none.
// Returns:
//   - error: *ValidationError describing the first violated invariant.
func (p WeightedProfile) Validate() error {
	if len(p.PrimaryTypes) == 0 {
		return NewValidationError("primary_types", "must contain at least one type")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return NewValidationError("confidence", "%g out of range [0, 1]", p.Confidence)
	}
	sum := 0.0
	prev := 1.0
	for i, tw := range p.PrimaryTypes {
		if err := ValidateTypeCode(tw.Code); err != nil {
			return err
		}
		if tw.Weight <= 0 || tw.Weight > 1 {
			return NewValidationError("primary_types", "weight %g at index %d out of range (0, 1]", tw.Weight, i)
		}
		if tw.Weight > prev {
			return NewValidationError("primary_types", "weights must be ordered descending")
		}
		prev = tw.Weight
		sum += tw.Weight
	}
	// Small epsilon for float accumulation.
	if sum > 1+1e-9 {
		return NewValidationError("primary_types", "weights sum %g exceeds 1", sum)
	}
	return nil
}

// PrimaryCode returns the highest-weighted type code, or "" for an empty
// profile.
func (p WeightedProfile) PrimaryCode() string {
	if len(p.PrimaryTypes) == 0 {
		return ""
	}
	return p.PrimaryTypes[0].Code
}

// Candidate is one entity offered to the ranker: an artwork, artist, or
// user together with its weighted APT profile.
type Candidate struct {
	ID      string          `json:"id"`
	Kind    CandidateKind   `json:"kind"`
	Profile WeightedProfile `json:"profile"`
}

// DimensionScore is the per-axis detail of a match.
type DimensionScore struct {
	SubjectScore  int    `json:"subject_score"`
	TargetScore   int    `json:"target_score"`
	Compatibility int    `json:"compatibility"`
	Tier          string `json:"tier"`
}

// MatchResult is the outcome of scoring a subject against a target. It is
// ephemeral: recomputable at any time from its two inputs, never persisted.
type MatchResult struct {
	Score      int                       `json:"score"`
	Dimensions map[string]DimensionScore `json:"dimensions,omitempty"`
}

// RankedCandidate pairs a candidate with its match result and position.
type RankedCandidate struct {
	CandidateID string          `json:"candidate_id"`
	Kind        CandidateKind   `json:"kind"`
	Score       int             `json:"score"`
	Confidence  float64         `json:"confidence"`
	Profile     WeightedProfile `json:"profile"`
}
