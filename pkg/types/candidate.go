// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SourceRecord is one article row returned by a bibliographic source.
// Records whose email or affiliation map is empty carry no usable contact
// information and are discarded before merging.
type SourceRecord struct {
	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the article authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// AuthorEmails maps author name to email address.
	AuthorEmails map[string]string `json:"author_email_map" yaml:"author_email_map"`

	// AuthorAffiliations maps author name to affiliation text.
	AuthorAffiliations map[string]string `json:"author_aff_map" yaml:"author_aff_map"`

	// Source identifies the bibliographic source that returned the record
	// (e.g. "pubmed", "tandfonline"). Set by the aggregator.
	Source string `json:"source" yaml:"source"`
}

// HasContacts reports whether the record carries both an email map and an
// affiliation map.
func (r SourceRecord) HasContacts() bool {
	return len(r.AuthorEmails) > 0 && len(r.AuthorAffiliations) > 0
}

// CandidateAuthor is one normalized entry in the candidate pool. Name is
// the deduplication key: degree suffixes stripped, commas removed,
// whitespace collapsed.
type CandidateAuthor struct {
	Name        string `json:"reviewer" yaml:"reviewer"`
	Email       string `json:"email" yaml:"email"`
	Affiliation string `json:"aff" yaml:"aff"`
	City        string `json:"city" yaml:"city"`
	Country     string `json:"country" yaml:"country"`
}

// WindowCounts holds publication counts for one trailing year window,
// split by authorship role.
type WindowCounts struct {
	Any   int `json:"any" yaml:"any"`
	First int `json:"first" yaml:"first"`
	Last  int `json:"last" yaml:"last"`
}

// ValidationMetrics holds the per-candidate bibliographic statistics the
// scoring conditions are derived from. Every count is best-effort: a
// failed collaborator query leaves the count at zero.
type ValidationMetrics struct {
	// TotalPublications is the candidate's all-time publication count,
	// with first/last authorship splits.
	TotalPublications WindowCounts `json:"total_publications" yaml:"total_publications"`

	// Publications1y/2y/5y/10y are trailing-window counts.
	Publications1y  WindowCounts `json:"publications_1y" yaml:"publications_1y"`
	Publications2y  WindowCounts `json:"publications_2y" yaml:"publications_2y"`
	Publications5y  WindowCounts `json:"publications_5y" yaml:"publications_5y"`
	Publications10y WindowCounts `json:"publications_10y" yaml:"publications_10y"`

	// RelevantPublications5y counts trailing-5-year publications matching
	// the job's keyword query.
	RelevantPublications5y WindowCounts `json:"relevant_publications_5y" yaml:"relevant_publications_5y"`

	// ClinicalTrials2y counts clinical-trial publications in the trailing
	// 2-year window.
	ClinicalTrials2y int `json:"clinical_trials_2y" yaml:"clinical_trials_2y"`

	// RetractedPublications counts retracted publications, all time.
	RetractedPublications int `json:"retracted_publications" yaml:"retracted_publications"`

	// ClinicalStudies2y and CaseReports2y count those publication types
	// in the trailing 2-year window.
	ClinicalStudies2y int `json:"clinical_studies_2y" yaml:"clinical_studies_2y"`
	CaseReports2y     int `json:"case_reports_2y" yaml:"case_reports_2y"`

	// VenuePublicationsRecent counts publications at the configured venue
	// within the fixed recent year range.
	VenuePublicationsRecent int `json:"venue_publications_recent" yaml:"venue_publications_recent"`

	// EnglishPublications counts English-language publications, all time.
	EnglishPublications int `json:"english_publications" yaml:"english_publications"`

	// CoauthoredWithPool is true when the candidate coauthored with any
	// member of the candidate pool.
	CoauthoredWithPool bool `json:"coauthored_with_pool" yaml:"coauthored_with_pool"`

	// CountryMatch is true when the candidate's country appears in the
	// set of countries derived from the pool's affiliations.
	CountryMatch bool `json:"country_match" yaml:"country_match"`

	// AffiliationDistinct is true when no other pool member shares the
	// candidate's raw affiliation string.
	AffiliationDistinct bool `json:"affiliation_distinct" yaml:"affiliation_distinct"`
}

// ConditionScore holds the eight binary suitability indicators and their
// sum. It is a deterministic function of ValidationMetrics.
type ConditionScore struct {
	PubWindow10y      int `json:"no_of_pub_condition_10_years" yaml:"no_of_pub_condition_10_years"`
	RelevantPubs5y    int `json:"no_of_pub_condition_5_years" yaml:"no_of_pub_condition_5_years"`
	PubWindow2y       int `json:"no_of_pub_condition_2_years" yaml:"no_of_pub_condition_2_years"`
	EnglishRatio      int `json:"english_condition" yaml:"english_condition"`
	NoCoauthorship    int `json:"coauthor_condition" yaml:"coauthor_condition"`
	AffiliationUnique int `json:"aff_condition" yaml:"aff_condition"`
	CountryMajority   int `json:"country_match_condition" yaml:"country_match_condition"`
	RetractionFree    int `json:"retracted_condition" yaml:"retracted_condition"`

	// ConditionsMet is the integer sum of the eight indicators (0-8).
	ConditionsMet int `json:"conditions_met" yaml:"conditions_met"`

	// ConditionsSatisfied is the display label, e.g. "6 of 8".
	ConditionsSatisfied string `json:"conditions_satisfied" yaml:"conditions_satisfied"`
}

// Label renders the "<n> of 8" display string for a conditions-met count.
func Label(conditionsMet int) string {
	return fmt.Sprintf("%d of 8", conditionsMet)
}

// RankedReviewer is one fully evaluated candidate: identity, metrics, and
// condition score. The reviewer list is sorted by ConditionsMet descending
// with ties keeping their prior relative order.
type RankedReviewer struct {
	CandidateAuthor `yaml:",inline"`

	Metrics ValidationMetrics `json:"metrics" yaml:"metrics"`
	Score   ConditionScore    `json:"score" yaml:"score"`
}
