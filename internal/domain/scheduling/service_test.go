package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return ErrAppointmentNotFound
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockAppointmentRepo) ListByClinician(_ context.Context, clinicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.ClinicianID == clinicianID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func TestCreateAppointment(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	a := &Appointment{
		PatientID:   uuid.New(),
		ClinicianID: uuid.New(),
		StartTime:   time.Now().Add(24 * time.Hour),
	}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != StatusBooked {
		t.Errorf("status = %q, want %q", a.Status, StatusBooked)
	}
	if a.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	start := time.Now().Add(time.Hour)
	before := start.Add(-30 * time.Minute)

	cases := []struct {
		name string
		a    Appointment
	}{
		{"missing patient", Appointment{ClinicianID: uuid.New(), StartTime: start}},
		{"missing clinician", Appointment{PatientID: uuid.New(), StartTime: start}},
		{"missing start", Appointment{PatientID: uuid.New(), ClinicianID: uuid.New()}},
		{"end before start", Appointment{PatientID: uuid.New(), ClinicianID: uuid.New(), StartTime: start, EndTime: &before}},
		{"bad status", Appointment{PatientID: uuid.New(), ClinicianID: uuid.New(), StartTime: start, Status: "teleported"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateAppointment(context.Background(), &tc.a); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)

	a := &Appointment{PatientID: uuid.New(), ClinicianID: uuid.New(), StartTime: time.Now()}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), a.ID, StatusFulfilled)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusFulfilled {
		t.Errorf("status = %q, want %q", updated.Status, StatusFulfilled)
	}

	if _, err := svc.UpdateStatus(context.Background(), a.ID, "nonsense"); err == nil {
		t.Error("expected error for invalid status")
	}
	_, err = svc.UpdateStatus(context.Background(), uuid.New(), StatusCancelled)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}
