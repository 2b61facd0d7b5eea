// Package report renders the pipeline as an Excel workbook for the admin office.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

const (
	sheetCandidates = "Candidates"
	sheetSummary    = "Summary"
	sheetPriority   = "Priority"
)

var candidateHeader = []string{
	"ID", "Name", "Stage", "Progress", "Hiring Officer", "Medical",
	"Agreed", "Additional", "Received", "Outstanding", "Pending Documents", "Created",
}

// PipelineReport writes the candidate pipeline workbook
type PipelineReport struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPipelineReport creates a report writer
func NewPipelineReport(logger *zap.Logger) *PipelineReport {
	return &PipelineReport{logger: logger, now: time.Now}
}

// Write renders candidates and stats into an xlsx stream
func (r *PipelineReport) Write(w io.Writer, candidates []*entity.Candidate, stats *entity.PipelineStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCandidates); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetSummary, sheetPriority} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := r.fillCandidates(f, header, candidates); err != nil {
		return err
	}
	if err := r.fillSummary(f, header, stats); err != nil {
		return err
	}
	if err := r.fillPriority(f, header, stats.PriorityCases); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	r.logger.Info("Pipeline report written",
		zap.Int("candidates", len(candidates)),
		zap.Int("priority_cases", len(stats.PriorityCases)))
	return nil
}

func (r *PipelineReport) fillCandidates(f *excelize.File, header int, candidates []*entity.Candidate) error {
	if err := writeRow(f, sheetCandidates, 1, toCells(candidateHeader)); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetCandidates, 1, 1, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range candidates {
		row := []interface{}{
			c.ID,
			c.Name,
			c.Stage.String(),
			c.Progress,
			c.HiringOfficerID,
			string(c.MedicalStatus),
			c.Payment.Agreed,
			c.Payment.Additional,
			c.Payment.Received,
			c.Payment.Outstanding(),
			pendingDocuments(c),
			c.CreatedAt.Format("2006-01-02"),
		}
		if err := writeRow(f, sheetCandidates, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetCandidates, "A", "A", 42); err != nil {
		r.logger.Warn("Failed to set column width", zap.Error(err))
	}
	if err := f.SetColWidth(sheetCandidates, "B", "C", 22); err != nil {
		r.logger.Warn("Failed to set column width", zap.Error(err))
	}
	return nil
}

func (r *PipelineReport) fillSummary(f *excelize.File, header int, stats *entity.PipelineStats) error {
	rows := [][]interface{}{
		{"Generated", r.now().Format(time.RFC3339)},
		{"Total", stats.Total},
		{"Active", stats.Active},
		{"Completed", stats.Completed},
		{},
		{"Stage", "Candidates"},
	}
	for _, s := range workflow.Stages() {
		rows = append(rows, []interface{}{s.String(), stats.ByStage[s]})
	}

	for i, row := range rows {
		if err := writeRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheetSummary, 6, 6, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

func (r *PipelineReport) fillPriority(f *excelize.File, header int, cases []entity.CandidateSummary) error {
	if err := writeRow(f, sheetPriority, 1, []interface{}{"ID", "Name", "Stage", "Progress", "Hiring Officer"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetPriority, 1, 1, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, c := range cases {
		row := []interface{}{c.ID, c.Name, c.Stage.String(), c.Progress, c.HiringOfficerID}
		if err := writeRow(f, sheetPriority, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func pendingDocuments(c *entity.Candidate) int {
	n := 0
	for _, d := range c.Documents.List() {
		if d.Status == entity.DocumentStatusPending {
			n++
		}
	}
	return n
}
