package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Document is a single piece of candidate evidence
type Document struct {
	Name               string              `json:"name"`
	Status             DocumentStatus      `json:"status"`
	CollectionMethod   CollectionMethod    `json:"collectionMethod"`
	VerificationStatus DiplomaVerification `json:"verificationStatus,omitempty"`
	URL                string              `json:"url,omitempty"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Validate checks the document against the vocabulary and enums.
// An empty collection method or verification status means "not provided".
func (d Document) Validate() error {
	if !IsKnownDocument(d.Name) {
		return fmt.Errorf("unknown document name %q", d.Name)
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("document %q: invalid status %q", d.Name, d.Status)
	}
	if d.CollectionMethod != "" && !d.CollectionMethod.IsValid() {
		return fmt.Errorf("document %q: invalid collection method %q", d.Name, d.CollectionMethod)
	}
	if d.VerificationStatus != "" && !d.VerificationStatus.IsValid() {
		return fmt.Errorf("document %q: invalid verification status %q", d.Name, d.VerificationStatus)
	}
	return nil
}

// DocumentSet is a candidate's documents keyed by name. A name appears at most once.
type DocumentSet map[string]Document

// NewDocumentSet builds a set; later documents with the same name replace earlier ones
func NewDocumentSet(docs ...Document) DocumentSet {
	s := make(DocumentSet, len(docs))
	for _, d := range docs {
		s[d.Name] = d
	}
	return s
}

// Get returns the document with the given name
func (s DocumentSet) Get(name string) (Document, bool) {
	d, ok := s[name]
	return d, ok
}

// Has reports whether the named document exists with a status accepted by pred
func (s DocumentSet) Has(name string, pred func(DocumentStatus) bool) bool {
	d, ok := s[name]
	if !ok {
		return false
	}
	return pred == nil || pred(d.Status)
}

// Clone returns an independent copy of the set
func (s DocumentSet) Clone() DocumentSet {
	out := make(DocumentSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// List returns the documents in vocabulary order
func (s DocumentSet) List() []Document {
	docs := make([]Document, 0, len(s))
	for _, d := range s {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		ri, rj := rankOf(docs[i].Name), rankOf(docs[j].Name)
		if ri != rj {
			return ri < rj
		}
		return docs[i].Name < docs[j].Name
	})
	return docs
}

// MarshalJSON encodes the set as an ordered array
func (s DocumentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON decodes an array of documents into the set
func (s *DocumentSet) UnmarshalJSON(data []byte) error {
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}
	*s = NewDocumentSet(docs...)
	return nil
}

func rankOf(name string) int {
	if r, ok := documentRank[name]; ok {
		return r
	}
	return len(documentRank)
}

// NotPending accepts any status other than Pending
func NotPending(s DocumentStatus) bool {
	return s != DocumentStatusPending
}

// StatusIs accepts exactly the given status
func StatusIs(want DocumentStatus) func(DocumentStatus) bool {
	return func(s DocumentStatus) bool {
		return s == want
	}
}
