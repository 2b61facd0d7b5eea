package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func doc(name string, status entity.DocumentStatus) entity.Document {
	return entity.Document{Name: name, Status: status, CollectionMethod: entity.CollectionDirect}
}

func candidateAt(stage workflow.Stage, docs ...entity.Document) *entity.Candidate {
	return &entity.Candidate{
		ID:            "cand_test",
		Stage:         stage,
		MedicalStatus: entity.MedicalNoSlip,
		Guardian:      entity.Guardian{Relation: entity.RelationFather},
		Documents:     entity.NewDocumentSet(docs...),
	}
}

func TestCanAdvance_EntryToAwaitingDataflow(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name    string
		docs    []entity.Document
		ok      bool
		missing []string
	}{
		{
			name:    "placeholders only",
			docs:    []entity.Document{doc(entity.DocPassport, entity.DocumentStatusPending), doc(entity.DocDiploma, entity.DocumentStatusPending)},
			missing: []string{entity.DocPassport, entity.DocDiploma},
		},
		{
			name:    "passport received",
			docs:    []entity.Document{doc(entity.DocPassport, entity.DocumentStatusReceived), doc(entity.DocDiploma, entity.DocumentStatusPending)},
			missing: []string{entity.DocDiploma},
		},
		{
			name:    "diploma sent is not received",
			docs:    []entity.Document{doc(entity.DocPassport, entity.DocumentStatusReceived), doc(entity.DocDiploma, entity.DocumentStatusSent)},
			missing: []string{entity.DocDiploma},
		},
		{
			name: "both received",
			docs: []entity.Document{doc(entity.DocPassport, entity.DocumentStatusReceived), doc(entity.DocDiploma, entity.DocumentStatusReceived)},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.CanAdvance(candidateAt(workflow.StageEntry, tt.docs...), workflow.StageAwaitingDataflow)
			assert.Equal(t, tt.ok, res.OK)
			if !tt.ok {
				assert.Equal(t, tt.missing, res.MissingNames())
			} else {
				assert.Empty(t, res.Missing)
			}
		})
	}
}

func TestCanAdvance_UngatedStagesPass(t *testing.T) {
	e := NewEvaluator()
	for _, target := range []workflow.Stage{
		workflow.StageDataflowApplied,
		workflow.StageAwaitingQVP,
		workflow.StageAwaitingEmbassy,
	} {
		assert.True(t, e.CanAdvance(candidateAt(workflow.StageEntry), target).OK, target)
	}
}

func TestCanAdvance_DataflowReportMustBeOnHand(t *testing.T) {
	e := NewEvaluator()

	res := e.CanAdvance(candidateAt(workflow.StageDataflowApplied, doc(entity.DocDataflowReport, entity.DocumentStatusReceived)), workflow.StageDataflowCompleted)
	assert.False(t, res.OK)
	assert.Equal(t, []string{entity.DocDataflowReport}, res.MissingNames())

	res = e.CanAdvance(candidateAt(workflow.StageDataflowApplied, doc(entity.DocDataflowReport, entity.DocumentStatusOnHand)), workflow.StageDataflowCompleted)
	assert.True(t, res.OK)
}

func TestCanAdvance_QVPApplied(t *testing.T) {
	e := NewEvaluator()
	c := candidateAt(workflow.StageAwaitingQVP)

	res := e.CanAdvance(c, workflow.StageQVPApplied)
	assert.Equal(t, []string{"Medical Status", entity.DocProfilePicture}, res.MissingNames())

	c.MedicalStatus = entity.MedicalFit
	c.UpsertDocument(doc(entity.DocProfilePicture, entity.DocumentStatusReceived))
	assert.True(t, e.CanAdvance(c, workflow.StageQVPApplied).OK)

	c.Stage = workflow.StageQVPApplied
	res = e.CanAdvance(c, workflow.StageQVPApplied)
	require.False(t, res.OK)
	assert.Equal(t, KindStage, res.Missing[0].Kind)
}

func TestCanAdvance_HusbandNeedsMarriageCertificate(t *testing.T) {
	e := NewEvaluator()
	c := candidateAt(workflow.StageAwaitingEmbassy,
		doc(entity.DocVisaForm, entity.DocumentStatusReceived),
		doc(entity.DocCNIC, entity.DocumentStatusReceived),
		doc(entity.DocPassport, entity.DocumentStatusOnHand),
		doc(entity.DocDiploma, entity.DocumentStatusAttested),
		doc(entity.DocDiplomaBack, entity.DocumentStatusReceived),
		doc(entity.DocWakala, entity.DocumentStatusReceived),
	)
	c.MedicalStatus = entity.MedicalFit
	c.Guardian.Relation = entity.RelationHusband

	res := e.CanAdvance(c, workflow.StageAwaitingBureau)
	assert.False(t, res.OK)
	assert.Equal(t, []string{entity.DocMarriageCertificate}, res.MissingNames())

	c.Guardian.Relation = entity.RelationBrother
	assert.True(t, e.CanAdvance(c, workflow.StageAwaitingBureau).OK)

	c.Guardian.Relation = entity.RelationHusband
	c.UpsertDocument(doc(entity.DocMarriageCertificate, entity.DocumentStatusReceived))
	assert.True(t, e.CanAdvance(c, workflow.StageAwaitingBureau).OK)
}

func TestCanAdvance_ProtectorDoneNeedsSevenDocuments(t *testing.T) {
	e := NewEvaluator()
	names := []string{
		entity.DocNOC, entity.DocBriefingPaper, entity.DocAffidavit, entity.DocDataflowReport,
		entity.DocDiploma, entity.DocDiplomaBack, entity.DocPNC,
	}

	c := candidateAt(workflow.StageAwaitingProtector)
	res := e.CanAdvance(c, workflow.StageProtectorDone)
	assert.Equal(t, names, res.MissingNames())

	for _, n := range names {
		c.UpsertDocument(doc(n, entity.DocumentStatusReceived))
	}
	c.UpsertDocument(doc(entity.DocPNC, entity.DocumentStatusPending))
	assert.Equal(t, []string{entity.DocPNC}, e.CanAdvance(c, workflow.StageProtectorDone).MissingNames())

	c.UpsertDocument(doc(entity.DocPNC, entity.DocumentStatusOnHand))
	assert.True(t, e.CanAdvance(c, workflow.StageProtectorDone).OK)
}

func TestCanAdvance_IsPure(t *testing.T) {
	e := NewEvaluator()
	c := candidateAt(workflow.StageAwaitingEmbassy, doc(entity.DocPassport, entity.DocumentStatusReceived))
	snapshot := c.Clone()

	first := e.CanAdvance(c, workflow.StageAwaitingBureau)
	second := e.CanAdvance(c, workflow.StageAwaitingBureau)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, c)
}

func TestEvaluateTransition_NOCMustBeSentFirst(t *testing.T) {
	e := NewEvaluator()
	before := candidateAt(workflow.StageAwaitingBureau, doc(entity.DocNOC, entity.DocumentStatusPending))
	after := before.Clone()
	after.UpsertDocument(doc(entity.DocNOC, entity.DocumentStatusReceived))

	res := e.EvaluateTransition(before, after, workflow.StageAwaitingProtector)
	require.False(t, res.OK)
	assert.Equal(t, []string{entity.DocNOC}, res.MissingNames())
	assert.Contains(t, res.Missing[0].Want, "Sent before Received")

	before.UpsertDocument(doc(entity.DocNOC, entity.DocumentStatusSent))
	assert.True(t, e.EvaluateTransition(before, after, workflow.StageAwaitingProtector).OK)
}

func TestEvaluateTransition_AbsentNOCReportedOnce(t *testing.T) {
	e := NewEvaluator()
	c := candidateAt(workflow.StageAwaitingBureau)

	res := e.EvaluateTransition(c, c.Clone(), workflow.StageAwaitingProtector)
	require.False(t, res.OK)
	assert.Equal(t, []string{entity.DocNOC}, res.MissingNames())
	assert.Equal(t, string(entity.DocumentStatusReceived), res.Missing[0].Want)
}

func TestEvaluateTransition_NOCOrderingAppliesToAnyTarget(t *testing.T) {
	e := NewEvaluator()
	before := candidateAt(workflow.StageEntry,
		doc(entity.DocPassport, entity.DocumentStatusReceived),
		doc(entity.DocDiploma, entity.DocumentStatusReceived))
	after := before.Clone()
	after.UpsertDocument(doc(entity.DocNOC, entity.DocumentStatusReceived))

	res := e.EvaluateTransition(before, after, workflow.StageAwaitingDataflow)
	require.False(t, res.OK)
	assert.Equal(t, []string{entity.DocNOC}, res.MissingNames())
}

func TestRequirements(t *testing.T) {
	e := NewEvaluator()
	assert.Len(t, e.Requirements(workflow.StageProtectorDone), 7)
	assert.Empty(t, e.Requirements(workflow.StageDataflowApplied))
}
