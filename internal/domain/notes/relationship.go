package notes

import (
	"context"

	"github.com/google/uuid"
)

// RelationshipChecker backs identity.PatientAccessPolicy with note
// authorship: a clinician who has written for a patient has a care
// relationship with them.
type RelationshipChecker struct {
	notes NoteRepository
}

func NewRelationshipChecker(notes NoteRepository) *RelationshipChecker {
	return &RelationshipChecker{notes: notes}
}

func (c *RelationshipChecker) HasCareRelationship(ctx context.Context, clinicianID, patientID uuid.UUID) (bool, error) {
	return c.notes.AuthorHasNotesForPatient(ctx, clinicianID, patientID)
}
