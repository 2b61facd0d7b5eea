package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func TestPipelineReport_Write(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	candidates := []*entity.Candidate{
		{
			ID: "cand_1", Name: "Ali Raza", Stage: workflow.StageAwaitingProtector, Progress: 90,
			HiringOfficerID: "emp_hiring_1", MedicalStatus: entity.MedicalFit,
			Payment: entity.Payment{Agreed: 250000, Additional: 10000, Received: 200000},
			Documents: entity.NewDocumentSet(
				entity.Document{Name: entity.DocPassport, Status: entity.DocumentStatusOnHand},
				entity.Document{Name: entity.DocPNC, Status: entity.DocumentStatusPending},
			),
			CreatedAt: created,
		},
		{ID: "cand_2", Name: "Sana", Stage: workflow.StageEntry, Progress: 5, CreatedAt: created},
	}
	stats := &entity.PipelineStats{
		Total: 2, Active: 2,
		ByStage: map[workflow.Stage]int{workflow.StageAwaitingProtector: 1, workflow.StageEntry: 1},
		PriorityCases: []entity.CandidateSummary{candidates[0].Summary()},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPipelineReport(zap.NewNop()).Write(&buf, candidates, stats))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetCandidates, sheetSummary, sheetPriority}, f.GetSheetList())

	rows, err := f.GetRows(sheetCandidates)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Outstanding", rows[0][9])
	assert.Equal(t, "cand_1", rows[1][0])
	assert.Equal(t, "AWAITING_PROTECTOR", rows[1][2])
	assert.Equal(t, "60000", rows[1][9])
	assert.Equal(t, "1", rows[1][10])
	assert.Equal(t, "2026-03-14", rows[1][11])

	total, err := f.GetCellValue(sheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	summary, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	assert.Len(t, summary, 6+len(workflow.Stages()))

	priority, err := f.GetRows(sheetPriority)
	require.NoError(t, err)
	require.Len(t, priority, 2)
	assert.Equal(t, "Ali Raza", priority[1][1])
}
