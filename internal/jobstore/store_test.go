// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateJob(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time {
		return time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	}

	job, err := s.CreateJob(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, `^job_20260827_1430_[0-9a-f]{6}$`, job.ID)
	assert.Equal(t, types.StageCreated, job.Status)

	got, err := s.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetJob(context.Background(), "job_nope")
	var notFound *JobNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "job_nope", notFound.JobID)
}

func TestListJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateJob(ctx)
	require.NoError(t, err)
	b, err := s.CreateJob(ctx)
	require.NoError(t, err)

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	ids := []string{jobs[0].ID, jobs[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestAdvance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Advance(ctx, job.ID, types.StageMetadataExtracted))
	require.NoError(t, s.Advance(ctx, job.ID, types.StageKeywordsEnhanced))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageKeywordsEnhanced, got.Status)
}

func TestAdvanceSkipRefused(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	err = s.Advance(ctx, job.ID, types.StageSearched)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, types.StageCreated, te.From)
	assert.Equal(t, types.StageSearched, te.To)
}

func TestAdvanceRerunKeepsFurthestStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Advance(ctx, job.ID, types.StageMetadataExtracted))
	require.NoError(t, s.Advance(ctx, job.ID, types.StageKeywordsEnhanced))
	// Re-running an earlier stage must not regress the status.
	require.NoError(t, s.Advance(ctx, job.ID, types.StageMetadataExtracted))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageKeywordsEnhanced, got.Status)
}

func TestArtifactRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	meta := types.ManuscriptMetadata{
		Title:    "Pediatric asthma outcomes",
		Authors:  []string{"Jane Doe", "John Roe"},
		Keywords: []string{"asthma", "pediatric"},
		AuthorAffiliations: map[string]string{
			"Jane Doe": "University of Somewhere",
		},
	}
	require.NoError(t, s.PutArtifact(ctx, job.ID, types.ArtifactMetadata, meta))

	var got types.ManuscriptMetadata
	require.NoError(t, s.GetArtifact(ctx, job.ID, types.ArtifactMetadata, &got))
	assert.Equal(t, meta, got)
}

func TestArtifactOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	require.NoError(t, s.PutArtifact(ctx, job.ID, types.ArtifactKeywords,
		types.KeywordQuery{QueryString: "(asthma)"}))
	require.NoError(t, s.PutArtifact(ctx, job.ID, types.ArtifactKeywords,
		types.KeywordQuery{QueryString: "(asthma) AND (pediatric)"}))

	var got types.KeywordQuery
	require.NoError(t, s.GetArtifact(ctx, job.ID, types.ArtifactKeywords, &got))
	assert.Equal(t, "(asthma) AND (pediatric)", got.QueryString)
}

func TestGetArtifactMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	var out types.KeywordQuery
	err = s.GetArtifact(ctx, job.ID, types.ArtifactKeywords, &out)

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, job.ID, missing.JobID)
	assert.Equal(t, types.ArtifactKeywords, missing.Kind)
	assert.Contains(t, missing.Error(), "keywords")
}

func TestGetArtifactUnknownJob(t *testing.T) {
	s := newTestStore(t)

	var out types.KeywordQuery
	err := s.GetArtifact(context.Background(), "job_nope", types.ArtifactKeywords, &out)

	var notFound *JobNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestHasArtifact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx)
	require.NoError(t, err)

	ok, err := s.HasArtifact(ctx, job.ID, types.ArtifactCandidates)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutArtifact(ctx, job.ID, types.ArtifactCandidates, []types.CandidateAuthor{}))

	ok, err = s.HasArtifact(ctx, job.ID, types.ArtifactCandidates)
	require.NoError(t, err)
	assert.True(t, ok)
}
