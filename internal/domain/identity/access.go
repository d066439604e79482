package identity

import (
	"context"

	"github.com/google/uuid"
)

// RelationshipChecker answers whether a clinician has a care relationship
// with a patient. The concrete implementation lives with whatever data
// establishes the relationship and is wired in at startup.
type RelationshipChecker interface {
	HasCareRelationship(ctx context.Context, clinicianID, patientID uuid.UUID) (bool, error)
}

// PatientAccessPolicy decides whether an actor may read a patient's records.
// Admins may, patients may read their own, clinicians need an established
// care relationship.
type PatientAccessPolicy struct {
	relationships RelationshipChecker
}

func NewPatientAccessPolicy(rc RelationshipChecker) *PatientAccessPolicy {
	return &PatientAccessPolicy{relationships: rc}
}

func (p *PatientAccessPolicy) CanAccessPatientData(ctx context.Context, actor Actor, patientID uuid.UUID) (bool, error) {
	switch actor.Role {
	case RoleAdmin:
		return true, nil
	case RolePatient:
		return actor.ID == patientID, nil
	case RoleClinician:
		if p.relationships == nil {
			return false, nil
		}
		return p.relationships.HasCareRelationship(ctx, actor.ID, patientID)
	}
	return false, nil
}
