package notes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medinote/medinote/internal/domain/audit"
	"github.com/medinote/medinote/internal/domain/identity"
	"github.com/medinote/medinote/internal/domain/scheduling"
	"github.com/medinote/medinote/internal/platform/db"
)

const entityType = "clinical_note"

// AppointmentFinder is the slice of scheduling the note service needs.
type AppointmentFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
}

// UserFinder resolves user summaries embedded on note reads.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// AuditRecorder appends to the audit trail. Satisfied by audit.Service.
type AuditRecorder interface {
	Record(ctx context.Context, actor identity.Actor, action, entityType string, entityID uuid.UUID, label string, changes map[string]interface{}) error
}

// AccessPolicy gates patient-scoped reads. Satisfied by identity.PatientAccessPolicy.
type AccessPolicy interface {
	CanAccessPatientData(ctx context.Context, actor identity.Actor, patientID uuid.UUID) (bool, error)
}

type Service struct {
	notes        NoteRepository
	appointments AppointmentFinder
	users        UserFinder
	auditor      AuditRecorder
	access       AccessPolicy
	tx           db.TxRunner
}

func NewService(notes NoteRepository, appointments AppointmentFinder, users UserFinder, auditor AuditRecorder, access AccessPolicy, tx db.TxRunner) *Service {
	return &Service{
		notes:        notes,
		appointments: appointments,
		users:        users,
		auditor:      auditor,
		access:       access,
		tx:           tx,
	}
}

// Create writes a new note for an appointment. Only the appointment's own
// clinician may write one, the note's patient must match the appointment's,
// and a second note by the same author for the same appointment is refused.
// The insert and its audit entry commit together.
func (s *Service) Create(ctx context.Context, actor identity.Actor, input CreateNoteInput) (*ClinicalNote, error) {
	if !actor.IsClinician() {
		return nil, fmt.Errorf("%w: only clinicians create notes", ErrForbidden)
	}
	if input.AppointmentID == uuid.Nil {
		return nil, fmt.Errorf("%w: appointment_id is required", ErrInvalidInput)
	}
	if input.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}

	appt, err := s.appointments.GetByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ClinicianID != actor.ID {
		return nil, fmt.Errorf("%w: appointment belongs to another clinician", ErrForbidden)
	}
	if appt.PatientID != input.PatientID {
		return nil, ErrPatientMismatch
	}

	// Fast path; the unique constraint on (appointment_id, author_id) is
	// what actually guarantees it under concurrency.
	exists, err := s.notes.ExistsForAppointmentAuthor(ctx, input.AppointmentID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateNote
	}

	n := &ClinicalNote{
		PatientID:     input.PatientID,
		AppointmentID: input.AppointmentID,
		AuthorID:      actor.ID,
		Subjective:    input.Subjective,
		Objective:     input.Objective,
		Assessment:    input.Assessment,
		Plan:          input.Plan,
		Draft:         input.Draft,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.notes.Create(ctx, n); err != nil {
			return err
		}
		return s.auditor.Record(ctx, actor, audit.ActionCreate, entityType, n.ID, s.label(ctx, n), map[string]interface{}{
			"patient_id":     n.PatientID,
			"appointment_id": n.AppointmentID,
			"subjective":     n.Subjective,
			"objective":      n.Objective,
			"assessment":     n.Assessment,
			"plan":           n.Plan,
			"draft":          n.Draft,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, n), nil
}

// List returns notes visible to the actor, newest first. Patients see notes
// about themselves, clinicians the ones they authored, admins everything.
func (s *Service) List(ctx context.Context, actor identity.Actor, limit, offset int) ([]*ClinicalNote, int, error) {
	var scope ListScope
	switch {
	case actor.IsPatient():
		scope.PatientID = actor.ID
	case actor.IsClinician():
		scope.AuthorID = actor.ID
	case actor.IsAdmin():
		// unscoped
	default:
		return nil, 0, ErrForbidden
	}
	return s.notes.List(ctx, scope, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ClinicalNote, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != n.PatientID && actor.ID != n.AuthorID {
		return nil, ErrForbidden
	}
	return s.resolve(ctx, n), nil
}

func (s *Service) ListByPatient(ctx context.Context, actor identity.Actor, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	ok, err := s.access.CanAccessPatientData(ctx, actor, patientID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrForbidden
	}
	return s.notes.List(ctx, ListScope{PatientID: patientID}, limit, offset)
}

func (s *Service) ListByAppointment(ctx context.Context, actor identity.Actor, appointmentID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() && actor.ID != appt.PatientID && actor.ID != appt.ClinicianID {
		return nil, 0, ErrForbidden
	}
	return s.notes.List(ctx, ListScope{AppointmentID: appointmentID}, limit, offset)
}

// Update applies a partial edit. Only the author or an admin may edit, and
// the audit entry carries a before/after pair for exactly the fields the
// patch set. The write and the entry commit together.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, patch NotePatch) (*ClinicalNote, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != n.AuthorID {
		return nil, fmt.Errorf("%w: only the author or an admin may edit a note", ErrForbidden)
	}

	changes := applyPatch(n, patch)

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.notes.Update(ctx, n); err != nil {
			return err
		}
		return s.auditor.Record(ctx, actor, audit.ActionUpdate, entityType, n.ID, s.label(ctx, n), changes)
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, n), nil
}

// Remove deletes a note. The audit entry marking the deletion is written
// first, in the same transaction, so the trail survives the row.
func (s *Service) Remove(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != n.AuthorID {
		return fmt.Errorf("%w: only the author or an admin may delete a note", ErrForbidden)
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.auditor.Record(ctx, actor, audit.ActionDelete, entityType, n.ID, s.label(ctx, n), map[string]interface{}{
			"deleted": true,
		}); err != nil {
			return err
		}
		return s.notes.Delete(ctx, n.ID)
	})
}

// applyPatch mutates n in place and returns the audit change set, keyed by
// field with from/to pairs, covering only the fields the patch set.
func applyPatch(n *ClinicalNote, patch NotePatch) map[string]interface{} {
	changes := map[string]interface{}{}
	if patch.Subjective != nil {
		changes["subjective"] = audit.FieldChange{From: n.Subjective, To: *patch.Subjective}
		n.Subjective = *patch.Subjective
	}
	if patch.Objective != nil {
		changes["objective"] = audit.FieldChange{From: n.Objective, To: *patch.Objective}
		n.Objective = *patch.Objective
	}
	if patch.Assessment != nil {
		changes["assessment"] = audit.FieldChange{From: n.Assessment, To: *patch.Assessment}
		n.Assessment = *patch.Assessment
	}
	if patch.Plan != nil {
		changes["plan"] = audit.FieldChange{From: n.Plan, To: *patch.Plan}
		n.Plan = *patch.Plan
	}
	if patch.Draft != nil {
		changes["draft"] = audit.FieldChange{From: n.Draft, To: *patch.Draft}
		n.Draft = *patch.Draft
	}
	return changes
}

// resolve fills the embedded patient/author/appointment representations.
// Resolution is best-effort; a missing reference leaves the field nil
// rather than failing the read.
func (s *Service) resolve(ctx context.Context, n *ClinicalNote) *ClinicalNote {
	if u, err := s.users.GetByID(ctx, n.PatientID); err == nil {
		sum := u.Summary()
		n.Patient = &sum
	}
	if u, err := s.users.GetByID(ctx, n.AuthorID); err == nil {
		sum := u.Summary()
		n.Author = &sum
	}
	if a, err := s.appointments.GetByID(ctx, n.AppointmentID); err == nil {
		n.Appointment = a
	}
	return n
}

func (s *Service) label(ctx context.Context, n *ClinicalNote) string {
	if u, err := s.users.GetByID(ctx, n.PatientID); err == nil {
		return "Clinical note for " + u.FullName
	}
	return "Clinical note"
}
