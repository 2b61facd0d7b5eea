package port

import (
	"sort"
	"strings"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// Matches reports whether the candidate passes the filter
func (f CandidateFilter) Matches(c *entity.Candidate) bool {
	if f.HiringOfficerID != "" && c.HiringOfficerID != f.HiringOfficerID {
		return false
	}
	if f.Stage != "" && c.Stage != f.Stage {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply filters, orders by creation time then id, and pages a candidate slice.
// Stores without query support use it on their full scan.
func (f CandidateFilter) Apply(all []*entity.Candidate) []*entity.Candidate {
	out := make([]*entity.Candidate, 0, len(all))
	for _, c := range all {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.Candidate{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
