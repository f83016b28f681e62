// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/reviewer-engine/internal/httputil"
)

// pubmedCountBase is the esearch endpoint used for count queries.
// Declared as a var so tests can substitute an httptest server.
var pubmedCountBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"

// PubMedCounter answers count and coauthorship queries through the NCBI
// esearch endpoint with retmax=0, reading only the result count.
type PubMedCounter struct {
	Client *http.Client
	// APIKey raises the E-utilities rate limit when set.
	APIKey string
	// Email is sent as the tool contact per NCBI usage policy.
	Email     string
	UserAgent string

	// Now supplies the clock for date-window terms; nil means time.Now.
	Now func() time.Time
}

// Count runs one esearch count query.
func (c *PubMedCounter) Count(ctx context.Context, q CountQuery) (int, error) {
	if q.Author == "" {
		return 0, fmt.Errorf("empty author name")
	}
	return c.count(ctx, c.buildTerm(q))
}

// Coauthored reports whether any publication lists both authors.
func (c *PubMedCounter) Coauthored(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" {
		return false, fmt.Errorf("empty author name")
	}
	term := fmt.Sprintf("%q[au] AND %q[au]", a, b)
	n, err := c.count(ctx, term)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// buildTerm assembles the esearch boolean term for a count query.
func (c *PubMedCounter) buildTerm(q CountQuery) string {
	var tag string
	switch q.Role {
	case RoleFirst:
		tag = "1au"
	case RoleLast:
		tag = "lastau"
	default:
		tag = "au"
	}
	term := fmt.Sprintf("%q[%s]", q.Author, tag)

	if q.LastNYears > 0 {
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		from := now().AddDate(-q.LastNYears, 0, 0)
		term += fmt.Sprintf(` AND ("%s"[dp] : "3000"[dp])`, from.Format("2006/01/02"))
	}
	if q.Keywords != "" {
		term += fmt.Sprintf(" AND (%s)", q.Keywords)
	}
	if q.Filter != "" {
		term += fmt.Sprintf(" AND %s[pt]", q.Filter)
	}
	if q.EnglishOnly {
		term += " AND English[la]"
	}
	return term
}

func (c *PubMedCounter) count(ctx context.Context, term string) (int, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {"0"},
		"retmode": {"json"},
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	params.Set("tool", "reviewer-engine")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedCountBase+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return 0, fmt.Errorf("PubMed count request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("PubMed count returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		ESearchResult struct {
			Count string `json:"count"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("parsing PubMed count response: %w", err)
	}

	n, err := strconv.Atoi(body.ESearchResult.Count)
	if err != nil {
		return 0, fmt.Errorf("PubMed count %q is not a number", body.ESearchResult.Count)
	}
	return n, nil
}
