// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
}

func TestBuildTerm(t *testing.T) {
	c := &PubMedCounter{Now: fixedNow}

	tests := []struct {
		name string
		q    CountQuery
		want string
	}{
		{
			name: "author only",
			q:    CountQuery{Author: "Jane Doe"},
			want: `"Jane Doe"[au]`,
		},
		{
			name: "first author",
			q:    CountQuery{Author: "Jane Doe", Role: RoleFirst},
			want: `"Jane Doe"[1au]`,
		},
		{
			name: "last author",
			q:    CountQuery{Author: "Jane Doe", Role: RoleLast},
			want: `"Jane Doe"[lastau]`,
		},
		{
			name: "ten year window",
			q:    CountQuery{Author: "Jane Doe", LastNYears: 10},
			want: `"Jane Doe"[au] AND ("2016/08/27"[dp] : "3000"[dp])`,
		},
		{
			name: "relevant five year",
			q:    CountQuery{Author: "Jane Doe", LastNYears: 5, Keywords: "(asthma OR COPD) AND (pediatric)"},
			want: `"Jane Doe"[au] AND ("2021/08/27"[dp] : "3000"[dp]) AND ((asthma OR COPD) AND (pediatric))`,
		},
		{
			name: "retracted filter",
			q:    CountQuery{Author: "Jane Doe", Filter: "Retracted Publication"},
			want: `"Jane Doe"[au] AND Retracted Publication[pt]`,
		},
		{
			name: "english only",
			q:    CountQuery{Author: "Jane Doe", EnglishOnly: true},
			want: `"Jane Doe"[au] AND English[la]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.buildTerm(tt.q); got != tt.want {
				t.Errorf("buildTerm = %q, want %q", got, tt.want)
			}
		})
	}
}

// newCountServer points pubmedCountBase at a fake esearch endpoint for
// the duration of the test.
func newCountServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	orig := pubmedCountBase
	pubmedCountBase = srv.URL
	t.Cleanup(func() {
		pubmedCountBase = orig
		srv.Close()
	})
	return srv
}

func TestCount(t *testing.T) {
	var gotTerm, gotKey string
	newCountServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		gotKey = r.URL.Query().Get("api_key")
		if r.URL.Query().Get("retmax") != "0" {
			t.Errorf("retmax = %q, want 0", r.URL.Query().Get("retmax"))
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"17"}}`)
	})

	c := &PubMedCounter{Client: http.DefaultClient, APIKey: "k1", Now: fixedNow}
	n, err := c.Count(context.Background(), CountQuery{Author: "Jane Doe", LastNYears: 2})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 17 {
		t.Errorf("count = %d, want 17", n)
	}
	if want := `"Jane Doe"[au] AND ("2024/08/27"[dp] : "3000"[dp])`; gotTerm != want {
		t.Errorf("term = %q, want %q", gotTerm, want)
	}
	if gotKey != "k1" {
		t.Errorf("api_key = %q, want k1", gotKey)
	}
}

func TestCountEmptyAuthor(t *testing.T) {
	c := &PubMedCounter{Client: http.DefaultClient}
	if _, err := c.Count(context.Background(), CountQuery{}); err == nil {
		t.Fatal("expected error for empty author")
	}
}

func TestCountServerError(t *testing.T) {
	newCountServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	c := &PubMedCounter{Client: http.DefaultClient}
	if _, err := c.Count(context.Background(), CountQuery{Author: "Jane Doe"}); err == nil {
		t.Fatal("expected error on HTTP 502")
	}
}

func TestCountBadPayload(t *testing.T) {
	newCountServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"many"}}`)
	})

	c := &PubMedCounter{Client: http.DefaultClient}
	if _, err := c.Count(context.Background(), CountQuery{Author: "Jane Doe"}); err == nil {
		t.Fatal("expected error for non-numeric count")
	}
}

func TestCoauthored(t *testing.T) {
	var gotTerm string
	newCountServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		fmt.Fprint(w, `{"esearchresult":{"count":"3"}}`)
	})

	c := &PubMedCounter{Client: http.DefaultClient}
	ok, err := c.Coauthored(context.Background(), "Jane Doe", "John Roe")
	if err != nil {
		t.Fatalf("Coauthored: %v", err)
	}
	if !ok {
		t.Error("count 3 should report coauthorship")
	}
	if want := `"Jane Doe"[au] AND "John Roe"[au]`; gotTerm != want {
		t.Errorf("term = %q, want %q", gotTerm, want)
	}
}

func TestCoauthoredZero(t *testing.T) {
	newCountServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"0"}}`)
	})

	c := &PubMedCounter{Client: http.DefaultClient}
	ok, err := c.Coauthored(context.Background(), "Jane Doe", "John Roe")
	if err != nil {
		t.Fatalf("Coauthored: %v", err)
	}
	if ok {
		t.Error("count 0 must report no coauthorship")
	}
}
