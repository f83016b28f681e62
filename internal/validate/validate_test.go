// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"reflect"
	"testing"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// passingMetrics satisfies all eight conditions.
func passingMetrics() types.ValidationMetrics {
	return types.ValidationMetrics{
		TotalPublications:      types.WindowCounts{Any: 100},
		Publications2y:         types.WindowCounts{Any: 2},
		Publications10y:        types.WindowCounts{Any: 20},
		RelevantPublications5y: types.WindowCounts{Any: 5},
		EnglishPublications:    80,
		RetractedPublications:  0,
		CoauthoredWithPool:     false,
		CountryMatch:           true,
		AffiliationDistinct:    true,
	}
}

func TestScoreAllConditionsPass(t *testing.T) {
	s := Score(passingMetrics())
	if s.ConditionsMet != 8 {
		t.Fatalf("conditions met = %d, want 8: %+v", s.ConditionsMet, s)
	}
	if s.ConditionsSatisfied != "8 of 8" {
		t.Errorf("label = %q, want %q", s.ConditionsSatisfied, "8 of 8")
	}
}

func TestScoreConditions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *types.ValidationMetrics)
		wantMet int
		check   func(t *testing.T, s types.ConditionScore)
	}{
		{
			name:    "ten year count below threshold",
			mutate:  func(m *types.ValidationMetrics) { m.Publications10y.Any = 7 },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.PubWindow10y != 0 {
					t.Error("10y condition should fail at 7")
				}
			},
		},
		{
			name:    "ten year count at threshold",
			mutate:  func(m *types.ValidationMetrics) { m.Publications10y.Any = 8 },
			wantMet: 8,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.PubWindow10y != 1 {
					t.Error("10y condition should pass at exactly 8")
				}
			},
		},
		{
			name:    "relevant five year below threshold",
			mutate:  func(m *types.ValidationMetrics) { m.RelevantPublications5y.Any = 2 },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.RelevantPubs5y != 0 {
					t.Error("relevant 5y condition should fail at 2")
				}
			},
		},
		{
			name:    "no recent publications",
			mutate:  func(m *types.ValidationMetrics) { m.Publications2y.Any = 0 },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.PubWindow2y != 0 {
					t.Error("2y condition should fail at 0")
				}
			},
		},
		{
			name: "english ratio exactly half fails",
			mutate: func(m *types.ValidationMetrics) {
				m.TotalPublications.Any = 100
				m.EnglishPublications = 50
			},
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.EnglishRatio != 0 {
					t.Error("ratio must be strictly above one half")
				}
			},
		},
		{
			name: "english ratio with zero total fails",
			mutate: func(m *types.ValidationMetrics) {
				m.TotalPublications.Any = 0
				m.EnglishPublications = 0
			},
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.EnglishRatio != 0 {
					t.Error("zero total must fail the english condition")
				}
			},
		},
		{
			name:    "coauthorship fails the condition",
			mutate:  func(m *types.ValidationMetrics) { m.CoauthoredWithPool = true },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.NoCoauthorship != 0 {
					t.Error("pool coauthorship must fail the condition")
				}
			},
		},
		{
			name:    "shared affiliation fails the condition",
			mutate:  func(m *types.ValidationMetrics) { m.AffiliationDistinct = false },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.AffiliationUnique != 0 {
					t.Error("shared affiliation must fail the condition")
				}
			},
		},
		{
			name:    "country mismatch fails the condition",
			mutate:  func(m *types.ValidationMetrics) { m.CountryMatch = false },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.CountryMajority != 0 {
					t.Error("country mismatch must fail the condition")
				}
			},
		},
		{
			name:    "one retraction tolerated",
			mutate:  func(m *types.ValidationMetrics) { m.RetractedPublications = 1 },
			wantMet: 8,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.RetractionFree != 1 {
					t.Error("a single retraction must still pass")
				}
			},
		},
		{
			name:    "two retractions fail",
			mutate:  func(m *types.ValidationMetrics) { m.RetractedPublications = 2 },
			wantMet: 7,
			check: func(t *testing.T, s types.ConditionScore) {
				if s.RetractionFree != 0 {
					t.Error("two retractions must fail the condition")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := passingMetrics()
			tt.mutate(&m)
			s := Score(m)
			if s.ConditionsMet != tt.wantMet {
				t.Errorf("conditions met = %d, want %d", s.ConditionsMet, tt.wantMet)
			}
			if s.ConditionsSatisfied != types.Label(tt.wantMet) {
				t.Errorf("label = %q, want %q", s.ConditionsSatisfied, types.Label(tt.wantMet))
			}
			tt.check(t, s)
		})
	}
}

func TestScoreZeroMetrics(t *testing.T) {
	s := Score(types.ValidationMetrics{})
	// Only the no-coauthorship and retraction conditions hold on an
	// all-zero record.
	if s.ConditionsMet != 2 {
		t.Errorf("conditions met = %d, want 2: %+v", s.ConditionsMet, s)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	m := passingMetrics()
	m.RetractedPublications = 2
	first := Score(m)
	second := Score(m)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scores differ: %+v vs %+v", first, second)
	}
}
