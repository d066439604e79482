package notes

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoteNotFound    = errors.New("clinical note not found")
	ErrForbidden       = errors.New("operation not permitted for this actor")
	ErrInvalidInput    = errors.New("invalid note input")
	ErrPatientMismatch = errors.New("patient does not match the appointment")
	ErrDuplicateNote   = errors.New("a note by this author already exists for the appointment")
)

// ListScope narrows a note listing. Zero values mean "no filter"; the
// service sets exactly one of PatientID/AuthorID for non-admin actors.
type ListScope struct {
	PatientID     uuid.UUID
	AuthorID      uuid.UUID
	AppointmentID uuid.UUID
}

type NoteRepository interface {
	Create(ctx context.Context, n *ClinicalNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error)
	Update(ctx context.Context, n *ClinicalNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope ListScope, limit, offset int) ([]*ClinicalNote, int, error)
	ExistsForAppointmentAuthor(ctx context.Context, appointmentID, authorID uuid.UUID) (bool, error)
	AuthorHasNotesForPatient(ctx context.Context, authorID, patientID uuid.UUID) (bool, error)
}
