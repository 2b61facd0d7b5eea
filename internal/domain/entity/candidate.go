package entity

import (
	"time"

	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// Candidate is a worker moving through the recruitment pipeline
type Candidate struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Contact         string         `json:"contact"`
	AvatarURL       string         `json:"avatarUrl,omitempty"`
	Guardian        Guardian       `json:"guardian"`
	BankAccount     string         `json:"bankAccount"`
	Payment         Payment        `json:"payment"`
	MedicalStatus   MedicalStatus  `json:"medicalStatus"`
	HiringOfficerID string         `json:"hiringOfficerId"`
	CustomerType    CustomerType   `json:"customerType"`
	Documents       DocumentSet    `json:"documents"`
	Stage           workflow.Stage `json:"stage"`
	Progress        int            `json:"progress"`
	FlightTicket    *FlightTicket  `json:"flightTicket,omitempty"`
	Videos          []string       `json:"videos"`
	Version         int64          `json:"version"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Guardian is the candidate's next of kin
type Guardian struct {
	Relation   GuardianRelation `json:"relation"`
	NationalID string           `json:"nationalId"`
	Phone      string           `json:"phone"`
}

// Payment tracks the agreed fee and what has been collected
type Payment struct {
	Agreed     float64 `json:"agreed"`
	Additional float64 `json:"additional"`
	Received   float64 `json:"received"`
}

// Outstanding returns the amount still owed
func (p Payment) Outstanding() float64 {
	return p.Agreed + p.Additional - p.Received
}

// FlightTicket is the booked travel for a cleared candidate
type FlightTicket struct {
	URL        string    `json:"url"`
	TravelDate string    `json:"travelDate,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Clone returns a deep copy so working copies never alias persisted state
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	out := *c
	out.Documents = c.Documents.Clone()
	if c.Videos != nil {
		out.Videos = append([]string(nil), c.Videos...)
	}
	if c.FlightTicket != nil {
		ft := *c.FlightTicket
		out.FlightTicket = &ft
	}
	return &out
}

// UpsertDocument replaces any document with the same name
func (c *Candidate) UpsertDocument(d Document) {
	if c.Documents == nil {
		c.Documents = make(DocumentSet)
	}
	c.Documents[d.Name] = d
}

// IsActive reports whether the candidate is still moving through the pipeline
func (c *Candidate) IsActive() bool {
	return !c.Stage.IsTerminal()
}
