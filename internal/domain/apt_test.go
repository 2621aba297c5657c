package domain

import (
	"errors"
	"testing"
)

func TestValidateTypeCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid LAEF", code: "LAEF"},
		{name: "valid SRMC", code: "SRMC"},
		{name: "valid mixed", code: "SREF"},
		{name: "too short", code: "LAE", wantErr: true},
		{name: "too long", code: "LAEFX", wantErr: true},
		{name: "wrong letter position 1", code: "XAEF", wantErr: true},
		{name: "letters from wrong axis", code: "ELAF", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeCode(tt.code)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for code %q", tt.code)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for code %q: %v", tt.code, err)
			}
			if tt.wantErr {
				var verr *ValidationError
				if err != nil && !errors.As(err, &verr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestAllTypeCodes(t *testing.T) {
	codes := AllTypeCodes()
	if len(codes) != 16 {
		t.Fatalf("expected 16 codes, got %d", len(codes))
	}
	seen := make(map[string]bool)
	for _, code := range codes {
		if err := ValidateTypeCode(code); err != nil {
			t.Errorf("generated code %q failed validation: %v", code, err)
		}
		if seen[code] {
			t.Errorf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestNewTypeVector_ScoreSignAgreement(t *testing.T) {
	// LAEF means positive (or zero) scores on every axis: each letter is
	// the first of its pair.
	_, err := NewTypeVector("LAEF", map[Axis]int{
		AxisSocial: 80, AxisAbstraction: 40, AxisAffect: 0, AxisConstruction: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A negative social score contradicts the L letter.
	_, err = NewTypeVector("LAEF", map[Axis]int{AxisSocial: -10})
	if err == nil {
		t.Fatal("expected contradiction error")
	}

	// SRMC takes negative scores.
	tv, err := NewTypeVector("SRMC", map[Axis]int{AxisSocial: -60, AxisAffect: -30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tv.AxisScore(AxisSocial) != -60 {
		t.Errorf("expected social score -60, got %d", tv.AxisScore(AxisSocial))
	}
	// Missing axes default to the midpoint.
	if tv.AxisScore(AxisAbstraction) != 0 {
		t.Errorf("expected abstraction score 0, got %d", tv.AxisScore(AxisAbstraction))
	}
}

func TestNewTypeVector_RangeAndNormalization(t *testing.T) {
	if _, err := NewTypeVector("LAEF", map[Axis]int{AxisSocial: 101}); err == nil {
		t.Error("expected out-of-range error")
	}

	tv, err := NewTypeVector(" laef ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tv.Code() != "LAEF" {
		t.Errorf("expected normalized code LAEF, got %q", tv.Code())
	}
}

func TestSharedPrefixLen(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"LAEF", "LAEF", 4},
		{"LAEF", "LAEC", 3},
		{"LAEF", "LAMF", 2},
		{"LAEF", "LREF", 1},
		{"LAEF", "SRMC", 0},
	}
	for _, tt := range tests {
		a, _ := ParseTypeCode(tt.a)
		b, _ := ParseTypeCode(tt.b)
		if got := a.SharedPrefixLen(b); got != tt.want {
			t.Errorf("SharedPrefixLen(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWeightedProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile WeightedProfile
		wantErr bool
	}{
		{
			name:    "valid single type",
			profile: WeightedProfile{PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.9}}, Confidence: 0.85},
		},
		{
			name: "valid blend",
			profile: WeightedProfile{
				PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.6}, {Code: "SRMC", Weight: 0.3}},
				Confidence:   0.8,
			},
		},
		{
			name:    "empty types",
			profile: WeightedProfile{Confidence: 0.8},
			wantErr: true,
		},
		{
			name: "weights out of order",
			profile: WeightedProfile{
				PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.3}, {Code: "SRMC", Weight: 0.6}},
				Confidence:   0.8,
			},
			wantErr: true,
		},
		{
			name: "weights exceed one",
			profile: WeightedProfile{
				PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.7}, {Code: "SRMC", Weight: 0.6}},
				Confidence:   0.8,
			},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			profile: WeightedProfile{PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.9}}, Confidence: 1.2},
			wantErr: true,
		},
		{
			name:    "bad code",
			profile: WeightedProfile{PrimaryTypes: []TypeWeight{{Code: "XXXX", Weight: 0.9}}, Confidence: 0.8},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWeightedProfilePrimaryCode(t *testing.T) {
	profile := WeightedProfile{
		PrimaryTypes: []TypeWeight{{Code: "LAEF", Weight: 0.6}, {Code: "SRMC", Weight: 0.3}},
		Confidence:   0.8,
	}
	if got := profile.PrimaryCode(); got != "LAEF" {
		t.Errorf("PrimaryCode() = %q, want LAEF", got)
	}
	if got := (WeightedProfile{}).PrimaryCode(); got != "" {
		t.Errorf("empty profile PrimaryCode() = %q, want empty", got)
	}
}
