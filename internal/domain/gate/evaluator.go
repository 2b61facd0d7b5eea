package gate

import (
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

const (
	wantNonPending = "present and not Pending"
	wantFit        = string(entity.MedicalFit)
)

// check is a single row of the gate table
type check struct {
	req Requirement
	// applies gates conditional requirements; nil means always
	applies func(c *entity.Candidate) bool
	ok      func(c *entity.Candidate) bool
}

// Evaluator decides whether a candidate satisfies the preconditions of a requested stage.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	table map[workflow.Stage][]check
}

// NewEvaluator returns an evaluator loaded with the pipeline gate table
func NewEvaluator() *Evaluator {
	return &Evaluator{table: defaultTable()}
}

func defaultTable() map[workflow.Stage][]check {
	return map[workflow.Stage][]check{
		workflow.StageAwaitingDataflow: {
			docWithStatus(entity.DocPassport, entity.DocumentStatusReceived),
			docWithStatus(entity.DocDiploma, entity.DocumentStatusReceived),
		},
		workflow.StageDataflowCompleted: {
			docWithStatus(entity.DocDataflowReport, entity.DocumentStatusOnHand),
		},
		workflow.StageMumarisApplied: {
			docPresent(entity.DocProfilePicture),
			docPresent(entity.DocMumarisApplication),
		},
		workflow.StageQVPApplied: {
			medicalFit(),
			docPresent(entity.DocProfilePicture),
			{
				req: Requirement{Kind: KindStage, Name: "QVP application", Want: "not already applied"},
				ok: func(c *entity.Candidate) bool {
					return c.Stage != workflow.StageQVPApplied
				},
			},
		},
		workflow.StageAwaitingBureau: {
			medicalFit(),
			docPresent(entity.DocVisaForm),
			docPresent(entity.DocCNIC),
			docPresent(entity.DocPassport),
			docPresent(entity.DocDiploma),
			docPresent(entity.DocDiplomaBack),
			docPresent(entity.DocWakala),
			{
				req: Requirement{Kind: KindDocument, Name: entity.DocMarriageCertificate, Want: wantNonPending},
				applies: func(c *entity.Candidate) bool {
					return c.Guardian.Relation == entity.RelationHusband
				},
				ok: func(c *entity.Candidate) bool {
					return c.Documents.Has(entity.DocMarriageCertificate, entity.NotPending)
				},
			},
		},
		workflow.StageAwaitingProtector: {
			docWithStatus(entity.DocNOC, entity.DocumentStatusReceived),
		},
		workflow.StageProtectorDone: {
			docPresent(entity.DocNOC),
			docPresent(entity.DocBriefingPaper),
			docPresent(entity.DocAffidavit),
			docPresent(entity.DocDataflowReport),
			docPresent(entity.DocDiploma),
			docPresent(entity.DocDiplomaBack),
			docPresent(entity.DocPNC),
		},
	}
}

func docWithStatus(name string, status entity.DocumentStatus) check {
	return check{
		req: Requirement{Kind: KindDocument, Name: name, Want: string(status)},
		ok: func(c *entity.Candidate) bool {
			return c.Documents.Has(name, entity.StatusIs(status))
		},
	}
}

func docPresent(name string) check {
	return check{
		req: Requirement{Kind: KindDocument, Name: name, Want: wantNonPending},
		ok: func(c *entity.Candidate) bool {
			return c.Documents.Has(name, entity.NotPending)
		},
	}
}

func medicalFit() check {
	return check{
		req: Requirement{Kind: KindMedical, Name: "Medical Status", Want: wantFit},
		ok: func(c *entity.Candidate) bool {
			return c.MedicalStatus == entity.MedicalFit
		},
	}
}

// CanAdvance evaluates the gate of the requested stage against the candidate.
// Stages without a gate always pass.
func (e *Evaluator) CanAdvance(c *entity.Candidate, target workflow.Stage) Result {
	var missing []Requirement
	for _, ch := range e.table[target] {
		if ch.applies != nil && !ch.applies(c) {
			continue
		}
		if !ch.ok(c) {
			missing = append(missing, ch.req)
		}
	}
	return resultOf(missing)
}

// Requirements lists the unconditional and conditional requirements of a stage
func (e *Evaluator) Requirements(target workflow.Stage) []Requirement {
	checks := e.table[target]
	reqs := make([]Requirement, 0, len(checks))
	for _, ch := range checks {
		reqs = append(reqs, ch.req)
	}
	return reqs
}

// EvaluateTransition checks the gate on the merged candidate and the document-flow
// rules that compare the merged candidate with the persisted one. A document the
// gate already reports missing is not reported twice.
func (e *Evaluator) EvaluateTransition(before, after *entity.Candidate, target workflow.Stage) Result {
	res := e.CanAdvance(after, target)
	missing := res.Missing
	for _, req := range CheckDocumentFlow(before, after) {
		if !containsRequirement(missing, req.Name) {
			missing = append(missing, req)
		}
	}
	return resultOf(missing)
}

func containsRequirement(reqs []Requirement, name string) bool {
	for _, r := range reqs {
		if r.Name == name {
			return true
		}
	}
	return false
}
