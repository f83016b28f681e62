// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate turns enriched metrics into condition scores. Scoring
// is a pure function of the metrics: no I/O, no configuration, so the
// same metrics always produce the same score.
package validate

import "github.com/pdiddy/reviewer-engine/pkg/types"

// Condition thresholds.
const (
	minPublications10y    = 8
	minRelevantPubs5y     = 3
	minPublications2y     = 1
	minEnglishRatio       = 0.5
	maxRetractedTolerated = 1
)

// Score evaluates the eight suitability conditions against the metrics.
func Score(m types.ValidationMetrics) types.ConditionScore {
	var s types.ConditionScore

	s.PubWindow10y = boolToInt(m.Publications10y.Any >= minPublications10y)
	s.RelevantPubs5y = boolToInt(m.RelevantPublications5y.Any >= minRelevantPubs5y)
	s.PubWindow2y = boolToInt(m.Publications2y.Any >= minPublications2y)
	s.EnglishRatio = boolToInt(englishRatioHolds(m))
	s.NoCoauthorship = boolToInt(!m.CoauthoredWithPool)
	s.AffiliationUnique = boolToInt(m.AffiliationDistinct)
	s.CountryMajority = boolToInt(m.CountryMatch)
	s.RetractionFree = boolToInt(m.RetractedPublications <= maxRetractedTolerated)

	s.ConditionsMet = s.PubWindow10y + s.RelevantPubs5y + s.PubWindow2y +
		s.EnglishRatio + s.NoCoauthorship + s.AffiliationUnique +
		s.CountryMajority + s.RetractionFree
	s.ConditionsSatisfied = types.Label(s.ConditionsMet)
	return s
}

// englishRatioHolds requires a nonzero total publication count and more
// than half of it in English. A zero total fails the condition rather
// than dividing by zero.
func englishRatioHolds(m types.ValidationMetrics) bool {
	total := m.TotalPublications.Any
	if total <= 0 {
		return false
	}
	return float64(m.EnglishPublications)/float64(total) > minEnglishRatio
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
