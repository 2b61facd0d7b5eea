package entity

import (
	"time"

	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// StageHistory is the audit record of one successful stage transition
type StageHistory struct {
	ID             string         `json:"id"`
	CandidateID    string         `json:"candidateId"`
	ActorID        string         `json:"actorId"`
	ActorRole      Role           `json:"actorRole"`
	FromStage      workflow.Stage `json:"fromStage"`
	RequestedStage workflow.Stage `json:"requestedStage"`
	ToStage        workflow.Stage `json:"toStage"`
	Label          string         `json:"label,omitempty"`
	ProgressBefore int            `json:"progressBefore"`
	ProgressAfter  int            `json:"progressAfter"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PipelineStats summarises the pipeline for the admin dashboard
type PipelineStats struct {
	Total         int                    `json:"total"`
	Active        int                    `json:"active"`
	Completed     int                    `json:"completed"`
	ByStage       map[workflow.Stage]int `json:"byStage"`
	PriorityCases []CandidateSummary     `json:"priorityCases"`
}

// CandidateSummary is a compact candidate projection for lists and reports
type CandidateSummary struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Stage           workflow.Stage `json:"stage"`
	Progress        int            `json:"progress"`
	HiringOfficerID string         `json:"hiringOfficerId"`
}

// Summary projects the candidate
func (c *Candidate) Summary() CandidateSummary {
	return CandidateSummary{
		ID:              c.ID,
		Name:            c.Name,
		Stage:           c.Stage,
		Progress:        c.Progress,
		HiringOfficerID: c.HiringOfficerID,
	}
}
