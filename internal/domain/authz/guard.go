// Package authz decides which actors may move or edit a candidate.
//
// Stage-transition rights and field-edit rights are separate: department roles
// advance candidates out of the stages they own, hiring officers edit the
// commercial and personal fields of their own candidates, and admins may do
// both anywhere.
package authz

import (
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// Field is an editable group of candidate attributes
type Field string

const (
	FieldDocuments     Field = "documents"
	FieldMedicalStatus Field = "medicalStatus"
	FieldPayment       Field = "payment"
	FieldGuardian      Field = "guardian"
	FieldBankAccount   Field = "bankAccount"
	FieldVideos        Field = "videos"
	FieldFlightTicket  Field = "flightTicket"
	FieldHiringOfficer Field = "hiringOfficer"
)

var stageOwners = map[entity.Role][]workflow.Stage{
	entity.RoleEntry:     {workflow.StageEntry},
	entity.RoleDataflow:  {workflow.StageAwaitingDataflow, workflow.StageDataflowApplied},
	entity.RoleMumaris:   {workflow.StageAwaitingMumaris, workflow.StageMumarisApplied},
	entity.RoleQVP:       {workflow.StageAwaitingQVP, workflow.StageQVPApplied},
	entity.RoleEmbassy:   {workflow.StageAwaitingEmbassy},
	entity.RoleBureau:    {workflow.StageAwaitingBureau},
	entity.RoleProtector: {workflow.StageAwaitingProtector},
}

var hiringFields = map[Field]bool{
	FieldDocuments:     true,
	FieldMedicalStatus: true,
	FieldPayment:       true,
	FieldGuardian:      true,
	FieldBankAccount:   true,
	FieldVideos:        true,
	FieldFlightTicket:  true,
}

// Guard is the role authorization table
type Guard struct {
	owned map[entity.Role]map[workflow.Stage]bool
}

// NewGuard builds the guard from the static department table
func NewGuard() *Guard {
	owned := make(map[entity.Role]map[workflow.Stage]bool, len(stageOwners))
	for role, stages := range stageOwners {
		set := make(map[workflow.Stage]bool, len(stages))
		for _, s := range stages {
			set[s] = true
		}
		owned[role] = set
	}
	return &Guard{owned: owned}
}

// Authorize reports whether the actor may request a transition of the candidate
// to the requested stage. Legality of the hop is not checked here.
func (g *Guard) Authorize(actor entity.Actor, c *entity.Candidate, requested workflow.Stage) bool {
	if c == nil || !requested.IsValid() || !actor.Role.IsValid() {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return g.owns(actor.Role, c.Stage)
}

// CanEdit reports whether the actor may change the given field group outside a transition
func (g *Guard) CanEdit(actor entity.Actor, c *entity.Candidate, field Field) bool {
	if c == nil || !actor.Role.IsValid() {
		return false
	}
	switch {
	case actor.IsAdmin():
		return true
	case field == FieldHiringOfficer:
		return false
	case actor.Role == entity.RoleHiring:
		return c.HiringOfficerID == actor.ID && hiringFields[field]
	default:
		return field == FieldDocuments && g.owns(actor.Role, c.Stage)
	}
}

// CanCreate reports whether the actor may register new candidates
func (g *Guard) CanCreate(actor entity.Actor) bool {
	switch actor.Role {
	case entity.RoleAdmin, entity.RoleEntry, entity.RoleHiring:
		return true
	}
	return false
}

// CanView reports whether the actor may read the candidate. Hiring officers see
// their own candidates only; every other staff role sees the whole pipeline.
func (g *Guard) CanView(actor entity.Actor, c *entity.Candidate) bool {
	if c == nil || !actor.Role.IsValid() {
		return false
	}
	if actor.Role == entity.RoleHiring {
		return c.HiringOfficerID == actor.ID
	}
	return true
}

// OwnedStages returns the stages a department role acts on, in pipeline order
func (g *Guard) OwnedStages(role entity.Role) []workflow.Stage {
	if role == entity.RoleAdmin {
		return workflow.Stages()
	}
	return append([]workflow.Stage(nil), stageOwners[role]...)
}

// OwnerOf returns the department role that acts on stage
func (g *Guard) OwnerOf(stage workflow.Stage) (entity.Role, bool) {
	for role, stages := range g.owned {
		if stages[stage] {
			return role, true
		}
	}
	return "", false
}

func (g *Guard) owns(role entity.Role, stage workflow.Stage) bool {
	return g.owned[role][stage]
}
