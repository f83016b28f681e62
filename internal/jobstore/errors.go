// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobstore

import (
	"fmt"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// producers maps each artifact kind to the command that writes it, so
// precondition failures can tell the user what to run.
var producers = map[types.ArtifactKind]string{
	types.ArtifactMetadata:      "metadata import",
	types.ArtifactKeywords:      "keywords",
	types.ArtifactSourceRecords: "search",
	types.ArtifactCandidates:    "search",
	types.ArtifactReviewers:     "validate",
}

// JobNotFoundError is returned when a job id does not exist in the store.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %q not found: create it with 'job create'", e.JobID)
}

// MissingArtifactError is returned when a stage's required upstream
// artifact is absent. It is not retryable until the producing stage runs.
type MissingArtifactError struct {
	JobID string
	Kind  types.ArtifactKind
}

func (e *MissingArtifactError) Error() string {
	if cmd, ok := producers[e.Kind]; ok {
		return fmt.Sprintf("job %s: no %s artifact: run %q first", e.JobID, e.Kind, cmd)
	}
	return fmt.Sprintf("job %s: no %s artifact", e.JobID, e.Kind)
}

// TransitionError is returned when a status update would skip a pipeline
// stage.
type TransitionError struct {
	JobID string
	From  types.StageStatus
	To    types.StageStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("job %s: cannot advance from %s to %s", e.JobID, e.From, e.To)
}
