package gate

import (
	"fmt"
	"time"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
)

// ApplyDiplomaRule derives a Diploma's status from its verification sub-status.
// Documents that are not a Diploma, or that leave verification untouched or at
// None, are returned as given.
func ApplyDiplomaRule(d entity.Document) entity.Document {
	if d.Name != entity.DocDiploma {
		return d
	}
	switch d.VerificationStatus {
	case "", entity.VerificationNone:
		return d
	case entity.VerificationReceivedFromEmbassy:
		d.Status = entity.DocumentStatusAttested
	default:
		d.Status = entity.DocumentStatusSent
	}
	return d
}

// MergeDocuments upserts updates into the candidate's document set by name and
// stamps each merged document with at. Fields an update leaves empty keep their
// persisted value.
func MergeDocuments(c *entity.Candidate, updates []entity.Document, at time.Time) error {
	for _, u := range updates {
		if u.Status == "" {
			if prev, ok := c.Documents.Get(u.Name); ok {
				u.Status = prev.Status
			} else {
				u.Status = entity.DocumentStatusPending
			}
		}
		if err := u.Validate(); err != nil {
			return err
		}

		touchedVerification := u.VerificationStatus != ""
		if prev, ok := c.Documents.Get(u.Name); ok {
			if u.CollectionMethod == "" {
				u.CollectionMethod = prev.CollectionMethod
			}
			if !touchedVerification {
				u.VerificationStatus = prev.VerificationStatus
			}
			if u.URL == "" {
				u.URL = prev.URL
			}
		}
		if u.CollectionMethod == "" {
			u.CollectionMethod = entity.CollectionNotCollected
		}
		if touchedVerification {
			u = ApplyDiplomaRule(u)
		}
		u.UpdatedAt = at
		c.UpsertDocument(u)
	}
	return nil
}

// ReturnAll marks every Received or Attested document as OnHand and returns
// the names it changed
func ReturnAll(c *entity.Candidate, at time.Time) []string {
	var changed []string
	for _, d := range c.Documents.List() {
		if d.Status == entity.DocumentStatusReceived || d.Status == entity.DocumentStatusAttested {
			d.Status = entity.DocumentStatusOnHand
			d.UpdatedAt = at
			c.UpsertDocument(d)
			changed = append(changed, d.Name)
		}
	}
	return changed
}

// CheckDocumentFlow compares a persisted candidate with its merged working copy.
// A NOC may only become Received once the persisted record has it Sent.
func CheckDocumentFlow(before, after *entity.Candidate) []Requirement {
	if before == nil || after == nil {
		return nil
	}
	if !after.Documents.Has(entity.DocNOC, entity.StatusIs(entity.DocumentStatusReceived)) {
		return nil
	}
	if before.Documents.Has(entity.DocNOC, func(s entity.DocumentStatus) bool {
		return s == entity.DocumentStatusSent || s == entity.DocumentStatusReceived
	}) {
		return nil
	}
	return []Requirement{{
		Kind: KindDocument,
		Name: entity.DocNOC,
		Want: fmt.Sprintf("%s before %s", entity.DocumentStatusSent, entity.DocumentStatusReceived),
	}}
}
