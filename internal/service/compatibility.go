package service

import (
	"math"

	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/domain"
)

// tierScores maps shared-prefix length to the tiered type-to-type score.
// Tiers are evaluated by prefix length alone; the first (most specific)
// satisfied tier wins, there is no summation.
var tierScores = [5]int{10, 30, 50, 70, 100}

// Per-axis compatibility policy. Affect and Construction reward sameness;
// Social and Abstraction reward complementary pairings.
const (
	similarSame       = 100
	similarDifferent  = 60
	complementDiffers = 90
	complementSame    = 70
)

// complementaryAxes marks the axes scored with the complementary-is-better
// policy.
var complementaryAxes = map[domain.Axis]bool{
	domain.AxisSocial:      true,
	domain.AxisAbstraction: true,
}

// MatchConfig holds the scoring knobs: ranking eligibility threshold and
// per-axis weights for the dimension-level overall score.
type MatchConfig struct {
	ConfidenceThreshold float64
	AxisWeights         map[domain.Axis]float64
}

// DefaultMatchConfig returns the built-in defaults: threshold 0.7,
// weights Social 0.2, Abstraction 0.3, Affect 0.3, Construction 0.2.
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		ConfidenceThreshold: 0.7,
		AxisWeights: map[domain.Axis]float64{
			domain.AxisSocial:       0.2,
			domain.AxisAbstraction:  0.3,
			domain.AxisAffect:       0.3,
			domain.AxisConstruction: 0.2,
		},
	}
}

// MatchConfigFrom builds a MatchConfig from the application configuration.
// Parameters:
//   - cfg: validated matching section of the app config.
// Returns:
//   - *MatchConfig: scoring configuration.
func MatchConfigFrom(cfg *config.MatchingConfig) *MatchConfig {
	return &MatchConfig{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		AxisWeights: map[domain.Axis]float64{
			domain.AxisSocial:       cfg.SocialWeight,
			domain.AxisAbstraction:  cfg.AbstractionWeight,
			domain.AxisAffect:       cfg.AffectWeight,
			domain.AxisConstruction: cfg.ConstructionWeight,
		},
	}
}

// CompatibilityService scores APT type pairs and weighted profiles. All
// methods are pure and deterministic: no I/O, no mutation of inputs, and
// safe to call from any number of goroutines.
type CompatibilityService struct {
	cfg *MatchConfig
}

// NewCompatibilityService creates a new compatibility service.
// Parameters:
//   - cfg: scoring configuration; nil uses DefaultMatchConfig.
// Returns:
//   - *CompatibilityService: initialized service.
func NewCompatibilityService(cfg *MatchConfig) *CompatibilityService {
	if cfg == nil {
		cfg = DefaultMatchConfig()
	}
	return &CompatibilityService{cfg: cfg}
}

// TieredScore computes the quick type-to-type pre-filter score from the
// shared code prefix: 100, 70, 50, 30, or 10.
// Parameters:
//   - subject: subject type vector.
//   - target: target type vector.
// Returns:
//   - int: tiered score.
func (s *CompatibilityService) TieredScore(subject, target domain.TypeVector) int {
	return tierScores[subject.SharedPrefixLen(target)]
}

// Score computes the dimension-level person-to-person match with a per-axis
// breakdown. Repeated calls with identical inputs always yield an identical
// result.
// Parameters:
//   - subject: subject type vector.
//   - target: target type vector.
// Returns:
//   - *domain.MatchResult: overall score and per-axis detail.
func (s *CompatibilityService) Score(subject, target domain.TypeVector) *domain.MatchResult {
	dimensions := make(map[string]domain.DimensionScore, 4)
	weighted := 0.0

	for _, axis := range domain.Axes() {
		same := subject.Letter(axis) == target.Letter(axis)

		var compat int
		if complementaryAxes[axis] {
			if same {
				compat = complementSame
			} else {
				compat = complementDiffers
			}
		} else {
			if same {
				compat = similarSame
			} else {
				compat = similarDifferent
			}
		}

		dimensions[axis.String()] = domain.DimensionScore{
			SubjectScore:  subject.AxisScore(axis),
			TargetScore:   target.AxisScore(axis),
			Compatibility: compat,
			Tier:          interpretationTier(compat),
		}
		weighted += s.cfg.AxisWeights[axis] * float64(compat)
	}

	return &domain.MatchResult{
		Score:      int(math.Round(weighted)),
		Dimensions: dimensions,
	}
}

// ScoreProfile blends the tiered score across a weighted multi-type
// profile, normalized by the weight sum.
// Parameters:
//   - subject: subject type vector.
//   - profile: target weighted profile.
// Returns:
//   - int: blended score 0-100.
//   - error: *domain.ValidationError if the profile is invalid.
func (s *CompatibilityService) ScoreProfile(subject domain.TypeVector, profile domain.WeightedProfile) (int, error) {
	if err := profile.Validate(); err != nil {
		return 0, err
	}

	weighted := 0.0
	weightSum := 0.0
	for _, tw := range profile.PrimaryTypes {
		target, err := domain.ParseTypeCode(tw.Code)
		if err != nil {
			return 0, err
		}
		weighted += tw.Weight * float64(s.TieredScore(subject, target))
		weightSum += tw.Weight
	}
	return int(math.Round(weighted / weightSum)), nil
}

// Eligible reports whether a profile's labeling confidence clears the
// ranking threshold. At-or-below threshold is excluded regardless of score.
func (s *CompatibilityService) Eligible(profile domain.WeightedProfile) bool {
	return profile.Confidence > s.cfg.ConfidenceThreshold
}

// interpretationTier names a per-axis compatibility value for display.
func interpretationTier(compat int) string {
	switch {
	case compat >= similarSame:
		return "aligned"
	case compat >= complementDiffers:
		return "complementary"
	case compat >= complementSame:
		return "steady"
	default:
		return "divergent"
	}
}
