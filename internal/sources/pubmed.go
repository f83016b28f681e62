// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/reviewer-engine/internal/httputil"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	pubmedESearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedEFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// emailPattern matches email addresses embedded in affiliation text.
// PubMed carries contact emails inside "Electronic address:" clauses.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// PubMedBackend queries PubMed through the NCBI E-utilities API: esearch
// for matching article ids, then efetch for the full author records.
type PubMedBackend struct {
	Client *http.Client
	// APIKey raises the E-utilities rate limit when set.
	APIKey string
	// Email is sent as the tool contact per NCBI usage policy.
	Email     string
	UserAgent string
}

// Name returns the source identifier.
func (b *PubMedBackend) Name() string { return "pubmed" }

// Search returns up to limit SourceRecords for the boolean query string.
func (b *PubMedBackend) Search(ctx context.Context, query string, limit int) ([]types.SourceRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}
	if limit <= 0 {
		limit = 2
	}

	ids, err := b.searchIDs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return b.fetchArticles(ctx, ids)
}

func (b *PubMedBackend) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", limit)},
		"retmode": {"json"},
	}
	b.signParams(params)

	var esr esearchResponse
	if err := b.getJSON(ctx, pubmedESearchBase+"?"+params.Encode(), &esr); err != nil {
		return nil, err
	}
	return esr.ESearchResult.IDList, nil
}

func (b *PubMedBackend) fetchArticles(ctx context.Context, ids []string) ([]types.SourceRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	b.signParams(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedEFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}

	var records []types.SourceRecord
	for _, art := range set.Articles {
		records = append(records, articleToRecord(art))
	}
	return records, nil
}

// articleToRecord flattens one PubMed article into a SourceRecord. An
// author contributes to the email map only when an address can be
// recovered from its affiliation text.
func articleToRecord(art pubmedArticle) types.SourceRecord {
	rec := types.SourceRecord{
		Title:              art.Citation.Article.Title,
		AuthorEmails:       map[string]string{},
		AuthorAffiliations: map[string]string{},
	}

	for _, a := range art.Citation.Article.AuthorList.Authors {
		name := authorName(a)
		if name == "" {
			continue
		}
		rec.Authors = append(rec.Authors, name)

		for _, info := range a.Affiliations {
			aff := strings.TrimSpace(info.Affiliation)
			if aff == "" {
				continue
			}
			if _, ok := rec.AuthorAffiliations[name]; !ok {
				rec.AuthorAffiliations[name] = aff
			}
			if _, ok := rec.AuthorEmails[name]; !ok {
				if email := extractEmail(aff); email != "" {
					rec.AuthorEmails[name] = email
				}
			}
		}
	}
	return rec
}

func authorName(a pubmedAuthor) string {
	name := strings.TrimSpace(a.ForeName + " " + a.LastName)
	if name == "" {
		name = strings.TrimSpace(a.CollectiveName)
	}
	return name
}

// extractEmail pulls the first email address out of affiliation text,
// dropping a trailing sentence period.
func extractEmail(affiliation string) string {
	email := emailPattern.FindString(affiliation)
	return strings.TrimRight(email, ".")
}

// LookupAuthor finds a recent article by the named author and returns the
// email and affiliation recovered for them. Both are empty when PubMed
// has no usable contact record.
func (b *PubMedBackend) LookupAuthor(ctx context.Context, name string) (email, affiliation string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("empty author name")
	}

	term := fmt.Sprintf("%s[au]", name)
	ids, err := b.searchIDs(ctx, term, 5)
	if err != nil {
		return "", "", err
	}
	if len(ids) == 0 {
		return "", "", nil
	}

	records, err := b.fetchArticles(ctx, ids)
	if err != nil {
		return "", "", err
	}

	// Prefer the first article where the author appears with an email.
	for _, rec := range records {
		for author, em := range rec.AuthorEmails {
			if strings.EqualFold(author, name) {
				return em, rec.AuthorAffiliations[author], nil
			}
		}
	}
	for _, rec := range records {
		for author, aff := range rec.AuthorAffiliations {
			if strings.EqualFold(author, name) {
				return "", aff, nil
			}
		}
	}
	return "", "", nil
}

func (b *PubMedBackend) signParams(params url.Values) {
	if b.APIKey != "" {
		params.Set("api_key", b.APIKey)
	}
	if b.Email != "" {
		params.Set("email", b.Email)
	}
	params.Set("tool", "reviewer-engine")
}

func (b *PubMedBackend) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return fmt.Errorf("PubMed esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PubMed esearch returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing PubMed esearch response: %w", err)
	}
	return nil
}

// esearch JSON structures.
type esearchResponse struct {
	ESearchResult esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// efetch XML structures.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation pubmedCitation `xml:"MedlineCitation"`
}

type pubmedCitation struct {
	PMID    string           `xml:"PMID"`
	Article pubmedArticleXML `xml:"Article"`
}

type pubmedArticleXML struct {
	Title      string           `xml:"ArticleTitle"`
	AuthorList pubmedAuthorList `xml:"AuthorList"`
}

type pubmedAuthorList struct {
	Authors []pubmedAuthor `xml:"Author"`
}

type pubmedAuthor struct {
	LastName       string                  `xml:"LastName"`
	ForeName       string                  `xml:"ForeName"`
	CollectiveName string                  `xml:"CollectiveName"`
	Affiliations   []pubmedAffiliationInfo `xml:"AffiliationInfo"`
}

type pubmedAffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}
