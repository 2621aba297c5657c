package domain

import (
	"fmt"
	"strings"
)

// Axis identifies one of the four fixed APT personality axes.
// The order of the constants matches the letter positions of a type code.
type Axis int

const (
	AxisSocial Axis = iota
	AxisAbstraction
	AxisAffect
	AxisConstruction
)

// axisLetters maps each axis position to its two valid letters.
// Position order is fixed: Social, Abstraction, Affect, Construction.
var axisLetters = [4][2]byte{
	{'L', 'S'}, // Social: Lone | Social
	{'A', 'R'}, // Abstraction: Abstract | Representational
	{'E', 'M'}, // Affect: Emotional | Meaning-driven
	{'F', 'C'}, // Construction: Flow | Constructive
}

// axisNames maps each axis to its display name.
var axisNames = [4]string{"social", "abstraction", "affect", "construction"}

// Axes returns all four axes in code-position order.
// Parameters: none.
// Returns:
//   - [4]Axis: the axes in fixed order.
func Axes() [4]Axis {
	return [4]Axis{AxisSocial, AxisAbstraction, AxisAffect, AxisConstruction}
}

// String returns the display name of the axis.
func (a Axis) String() string {
	if a < AxisSocial || a > AxisConstruction {
		return "unknown"
	}
	return axisNames[a]
}

// Letters returns the two valid letters for the axis. The first letter is
// the one represented by a positive axis score.
func (a Axis) Letters() (byte, byte) {
	return axisLetters[a][0], axisLetters[a][1]
}

// ValidateTypeCode checks that code is one of the 16 valid APT codes.
// Parameters:
//   - code: 4-character candidate code.
// Returns:
//   - error: *ValidationError if the code is malformed, nil otherwise.
func ValidateTypeCode(code string) error {
	if len(code) != 4 {
		return &ValidationError{Field: "code", Reason: fmt.Sprintf("must be 4 characters, got %d", len(code))}
	}
	for i, axis := range Axes() {
		first, second := axis.Letters()
		if code[i] != first && code[i] != second {
			return &ValidationError{
				Field:  "code",
				Reason: fmt.Sprintf("position %d must be %c or %c, got %c", i+1, first, second, code[i]),
			}
		}
	}
	return nil
}

// AllTypeCodes returns all 16 valid APT codes in lexical generation order.
func AllTypeCodes() []string {
	codes := make([]string, 0, 16)
	var build func(prefix []byte, pos int)
	build = func(prefix []byte, pos int) {
		if pos == 4 {
			codes = append(codes, string(prefix))
			return
		}
		for _, letter := range axisLetters[pos] {
			build(append(prefix, letter), pos+1)
		}
	}
	build(make([]byte, 0, 4), 0)
	return codes
}

// TypeVector is an immutable APT personality vector: a 4-letter code plus
// per-axis signed strength scores. Values are constructed once from quiz or
// labeling output and never mutated; recomputation is a full replace.
type TypeVector struct {
	code   string
	scores [4]int
}

// NewTypeVector constructs a validated TypeVector.
// The sign of each axis score must agree with the code letter at that
// position: positive for the first letter of the pair, negative for the
// second. A zero score is neutral and agrees with either letter. Axes
// missing from scores default to 0.
// Parameters:
//   - code: 4-character APT code.
//   - scores: axis strength scores in −100..100, keyed by axis; may be nil.
// Returns:
//   - TypeVector: validated vector.
//   - error: *ValidationError on malformed code, out-of-range or
//     contradictory scores.
func NewTypeVector(code string, scores map[Axis]int) (TypeVector, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := ValidateTypeCode(code); err != nil {
		return TypeVector{}, err
	}
	tv := TypeVector{code: code}
	for i, axis := range Axes() {
		score, ok := scores[axis]
		if !ok {
			continue
		}
		if score < -100 || score > 100 {
			return TypeVector{}, &ValidationError{
				Field:  axis.String(),
				Reason: fmt.Sprintf("axis score %d out of range [-100, 100]", score),
			}
		}
		first, _ := axis.Letters()
		dominantFirst := code[i] == first
		if (score > 0 && !dominantFirst) || (score < 0 && dominantFirst) {
			return TypeVector{}, &ValidationError{
				Field:  axis.String(),
				Reason: fmt.Sprintf("axis score %d contradicts code letter %c", score, code[i]),
			}
		}
		tv.scores[i] = score
	}
	return tv, nil
}

// ParseTypeCode constructs a TypeVector from a bare code with neutral axis
// scores. Used when only the 4-letter code is known (e.g. query parameters).
func ParseTypeCode(code string) (TypeVector, error) {
	return NewTypeVector(code, nil)
}

// Code returns the 4-letter APT code.
func (t TypeVector) Code() string {
	return t.code
}

// AxisScore returns the signed strength score for the given axis.
// Axes that were never scored report 0, the axis midpoint.
func (t TypeVector) AxisScore(axis Axis) int {
	if axis < AxisSocial || axis > AxisConstruction {
		return 0
	}
	return t.scores[axis]
}

// Letter returns the code letter at the given axis position.
func (t TypeVector) Letter(axis Axis) byte {
	return t.code[axis]
}

// SharedPrefixLen returns how many leading axis letters t and other share.
// This drives the tiered type-to-type score.
func (t TypeVector) SharedPrefixLen(other TypeVector) int {
	for i := 0; i < 4; i++ {
		if t.code[i] != other.code[i] {
			return i
		}
	}
	return 4
}
