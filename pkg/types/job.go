// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the reviewer-engine pipeline.
package types

import "time"

// StageStatus is the typed pipeline position of a job. Transitions are
// strictly ordered; a stage command refuses to run until the job has
// reached the preceding status.
type StageStatus string

const (
	StageCreated           StageStatus = "created"
	StageMetadataExtracted StageStatus = "metadata_extracted"
	StageKeywordsEnhanced  StageStatus = "keywords_enhanced"
	StageSearched          StageStatus = "searched"
	StageValidated         StageStatus = "validated"
)

// stageOrder maps each status to its pipeline position.
var stageOrder = map[StageStatus]int{
	StageCreated:           0,
	StageMetadataExtracted: 1,
	StageKeywordsEnhanced:  2,
	StageSearched:          3,
	StageValidated:         4,
}

// AtLeast reports whether s has reached (or passed) the given stage.
func (s StageStatus) AtLeast(other StageStatus) bool {
	return stageOrder[s] >= stageOrder[other]
}

// Valid reports whether s is one of the defined statuses.
func (s StageStatus) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Job identifies one manuscript-review pipeline run. Status is the
// explicit stage record for the job; artifacts for completed stages live
// in the job store keyed by artifact kind.
type Job struct {
	// ID is the opaque, globally unique job identifier
	// (e.g. "job_20260827_1430_a3f9c1").
	ID string `json:"job_id" yaml:"job_id"`

	// CreatedAt is the job creation timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Status is the last completed pipeline stage.
	Status StageStatus `json:"status" yaml:"status"`
}

// ArtifactKind names a stage-owned artifact within a job's store area.
type ArtifactKind string

const (
	ArtifactMetadata      ArtifactKind = "metadata"
	ArtifactKeywords      ArtifactKind = "keywords"
	ArtifactSourceRecords ArtifactKind = "source_records"
	ArtifactCandidates    ArtifactKind = "candidates"
	ArtifactReviewers     ArtifactKind = "reviewers"
)
