// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ManuscriptMetadata holds the structured output of the upstream
// metadata-extraction service for one manuscript. The enhancement stage
// appends the MeSH and focus-keyword fields in place; fields are never
// removed once written.
type ManuscriptMetadata struct {
	// Title is the manuscript heading.
	Title string `json:"heading" yaml:"heading"`

	// Authors lists the manuscript authors in byline order.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations lists the affiliation strings in manuscript order.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// Keywords are the author-supplied manuscript keywords.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Abstract is the manuscript abstract text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// AuthorAffiliations maps each author name to its affiliation string.
	AuthorAffiliations map[string]string `json:"author_aff_map" yaml:"author_aff_map"`

	// Fields below are appended by the keyword-enhancement stage.

	// MeshTerms are MeSH vocabulary terms matched to the title.
	MeshTerms []string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`

	// BroaderTerms are parent MeSH terms of the matched terms.
	BroaderTerms []string `json:"broader_terms,omitempty" yaml:"broader_terms,omitempty"`

	// PrimaryKeywords is the combined primary focus keyword group.
	PrimaryKeywords []string `json:"all_primary_focus_list,omitempty" yaml:"all_primary_focus_list,omitempty"`

	// SecondaryKeywords is the combined secondary focus keyword group.
	SecondaryKeywords []string `json:"all_secondary_focus_list,omitempty" yaml:"all_secondary_focus_list,omitempty"`
}

// KeywordQuery is the structured search query derived from the keyword
// groups. QueryString joins terms with OR inside a group and joins the
// groups with AND: "(asthma OR COPD) AND (pediatric)".
type KeywordQuery struct {
	// Primary is the primary keyword group.
	Primary []string `json:"input_primary_keywords" yaml:"input_primary_keywords"`

	// Secondary is the secondary keyword group.
	Secondary []string `json:"input_secondary_keywords" yaml:"input_secondary_keywords"`

	// QueryString is the rendered boolean query.
	QueryString string `json:"keyword_string" yaml:"keyword_string"`
}
