package notes

import (
	"time"

	"github.com/google/uuid"

	"github.com/medinote/medinote/internal/domain/identity"
	"github.com/medinote/medinote/internal/domain/scheduling"
)

// ClinicalNote maps to the clinical_note table. One note per author per
// appointment, enforced by a unique constraint.
type ClinicalNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	AuthorID      uuid.UUID `db:"author_id" json:"author_id"`
	Subjective    string    `db:"subjective" json:"subjective"`
	Objective     string    `db:"objective" json:"objective"`
	Assessment    string    `db:"assessment" json:"assessment"`
	Plan          string    `db:"plan" json:"plan"`
	Draft         bool      `db:"draft" json:"draft"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Resolved relations, populated on single-note reads.
	Patient     *identity.Summary       `db:"-" json:"patient,omitempty"`
	Author      *identity.Summary       `db:"-" json:"author,omitempty"`
	Appointment *scheduling.Appointment `db:"-" json:"appointment,omitempty"`
}

// CreateNoteInput is the request body for creating a note. Draft defaults
// to false.
type CreateNoteInput struct {
	PatientID     uuid.UUID `json:"patient_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Subjective    string    `json:"subjective"`
	Objective     string    `json:"objective"`
	Assessment    string    `json:"assessment"`
	Plan          string    `json:"plan"`
	Draft         bool      `json:"draft"`
}

// NotePatch is a partial update. Nil means "leave unchanged"; a pointer to
// the zero value is an explicit set, so clearing a section and omitting it
// are different requests.
type NotePatch struct {
	Subjective *string `json:"subjective,omitempty"`
	Objective  *string `json:"objective,omitempty"`
	Assessment *string `json:"assessment,omitempty"`
	Plan       *string `json:"plan,omitempty"`
	Draft      *bool   `json:"draft,omitempty"`
}

// IsEmpty reports whether the patch touches nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Subjective == nil && p.Objective == nil && p.Assessment == nil && p.Plan == nil && p.Draft == nil
}
