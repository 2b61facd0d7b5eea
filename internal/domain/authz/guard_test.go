package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func actor(id string, role entity.Role) entity.Actor {
	return entity.Actor{ID: id, Role: role}
}

func TestAuthorize_DepartmentOwnsItsStages(t *testing.T) {
	g := NewGuard()

	tests := []struct {
		role  entity.Role
		stage workflow.Stage
		want  bool
	}{
		{entity.RoleEntry, workflow.StageEntry, true},
		{entity.RoleEntry, workflow.StageAwaitingDataflow, false},
		{entity.RoleDataflow, workflow.StageAwaitingDataflow, true},
		{entity.RoleDataflow, workflow.StageDataflowApplied, true},
		{entity.RoleDataflow, workflow.StageAwaitingMumaris, false},
		{entity.RoleMumaris, workflow.StageAwaitingMumaris, true},
		{entity.RoleMumaris, workflow.StageMumarisApplied, true},
		{entity.RoleQVP, workflow.StageAwaitingQVP, true},
		{entity.RoleQVP, workflow.StageQVPApplied, true},
		{entity.RoleQVP, workflow.StageAwaitingEmbassy, false},
		{entity.RoleEmbassy, workflow.StageAwaitingEmbassy, true},
		{entity.RoleBureau, workflow.StageAwaitingBureau, true},
		{entity.RoleBureau, workflow.StageAwaitingProtector, false},
		{entity.RoleProtector, workflow.StageAwaitingProtector, true},
		{entity.RoleProtector, workflow.StageProtectorDone, false},
		{entity.RoleHiring, workflow.StageEntry, false},
		{entity.RoleHiring, workflow.StageAwaitingProtector, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"@"+string(tt.stage), func(t *testing.T) {
			c := &entity.Candidate{Stage: tt.stage, HiringOfficerID: "emp_h1"}
			got := g.Authorize(actor("emp_h1", tt.role), c, workflow.StageProtectorDone)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize_AdminBypassesStageOwnership(t *testing.T) {
	g := NewGuard()
	for _, s := range workflow.Stages() {
		c := &entity.Candidate{Stage: s}
		assert.True(t, g.Authorize(actor("emp_admin_001", entity.RoleAdmin), c, workflow.StageProtectorDone), s)
	}
}

func TestAuthorize_RejectsMalformedInput(t *testing.T) {
	g := NewGuard()
	c := &entity.Candidate{Stage: workflow.StageEntry}

	assert.False(t, g.Authorize(actor("x", entity.Role("janitor")), c, workflow.StageAwaitingDataflow))
	assert.False(t, g.Authorize(actor("x", entity.RoleEntry), c, workflow.Stage("NOWHERE")))
	assert.False(t, g.Authorize(actor("x", entity.RoleAdmin), nil, workflow.StageAwaitingDataflow))
}

func TestCanEdit(t *testing.T) {
	g := NewGuard()
	own := &entity.Candidate{Stage: workflow.StageAwaitingBureau, HiringOfficerID: "emp_h1"}

	tests := []struct {
		name  string
		actor entity.Actor
		field Field
		want  bool
	}{
		{"hiring edits payment on own candidate", actor("emp_h1", entity.RoleHiring), FieldPayment, true},
		{"hiring edits guardian on own candidate", actor("emp_h1", entity.RoleHiring), FieldGuardian, true},
		{"hiring uploads documents on own candidate", actor("emp_h1", entity.RoleHiring), FieldDocuments, true},
		{"hiring cannot touch another officer's candidate", actor("emp_h2", entity.RoleHiring), FieldPayment, false},
		{"hiring cannot reassign", actor("emp_h1", entity.RoleHiring), FieldHiringOfficer, false},
		{"bureau uploads documents in its stage", actor("emp_b", entity.RoleBureau), FieldDocuments, true},
		{"bureau cannot edit payment", actor("emp_b", entity.RoleBureau), FieldPayment, false},
		{"embassy cannot upload outside its stage", actor("emp_e", entity.RoleEmbassy), FieldDocuments, false},
		{"admin reassigns", actor("emp_admin_001", entity.RoleAdmin), FieldHiringOfficer, true},
		{"admin edits anything", actor("emp_admin_001", entity.RoleAdmin), FieldFlightTicket, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CanEdit(tt.actor, own, tt.field))
		})
	}
}

func TestCanCreateAndView(t *testing.T) {
	g := NewGuard()
	c := &entity.Candidate{HiringOfficerID: "emp_h1"}

	assert.True(t, g.CanCreate(actor("a", entity.RoleAdmin)))
	assert.True(t, g.CanCreate(actor("e", entity.RoleEntry)))
	assert.True(t, g.CanCreate(actor("h", entity.RoleHiring)))
	assert.False(t, g.CanCreate(actor("p", entity.RoleProtector)))

	assert.True(t, g.CanView(actor("emp_h1", entity.RoleHiring), c))
	assert.False(t, g.CanView(actor("emp_h2", entity.RoleHiring), c))
	assert.True(t, g.CanView(actor("q", entity.RoleQVP), c))
}

func TestOwnedStages(t *testing.T) {
	g := NewGuard()
	assert.Equal(t, []workflow.Stage{workflow.StageAwaitingDataflow, workflow.StageDataflowApplied}, g.OwnedStages(entity.RoleDataflow))
	assert.Empty(t, g.OwnedStages(entity.RoleHiring))
	assert.Len(t, g.OwnedStages(entity.RoleAdmin), 14)
}

func TestOwnerOf(t *testing.T) {
	g := NewGuard()

	role, ok := g.OwnerOf(workflow.StageAwaitingBureau)
	assert.True(t, ok)
	assert.Equal(t, entity.RoleBureau, role)

	_, ok = g.OwnerOf(workflow.StageProtectorDone)
	assert.False(t, ok)
	_, ok = g.OwnerOf(workflow.StageVisaIssued)
	assert.False(t, ok)
}
