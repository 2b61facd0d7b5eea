package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Honey822438/RecuirtSys/internal/application/dispatcher"
	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/domain/authz"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/event"
	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
	"github.com/Honey822438/RecuirtSys/internal/domain/progress"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DefaultMaxUpdateRetries bounds reload-and-reapply attempts of field updates
const DefaultMaxUpdateRetries = 3

// CandidateService manages candidate records outside stage transitions
type CandidateService interface {
	CreateCandidate(ctx context.Context, actor entity.Actor, in CreateCandidateInput) (*entity.Candidate, error)
	GetCandidate(ctx context.Context, actor entity.Actor, id string) (*entity.Candidate, error)
	ListCandidates(ctx context.Context, actor entity.Actor, filter port.CandidateFilter) ([]*entity.Candidate, error)
	GetHistory(ctx context.Context, actor entity.Actor, id string) ([]*entity.StageHistory, error)
	UpdateDocuments(ctx context.Context, actor entity.Actor, id string, in DocumentUpdate) (*entity.Candidate, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, id string, in ProfileUpdate) (*entity.Candidate, error)
	Stats(ctx context.Context) (*entity.PipelineStats, error)
}

// CreateCandidateInput is the intake form
type CreateCandidateInput struct {
	Name            string              `json:"name"`
	Contact         string              `json:"contact"`
	AvatarURL       string              `json:"avatarUrl"`
	Guardian        entity.Guardian     `json:"guardian"`
	BankAccount     string              `json:"bankAccount"`
	AgreedPayment   float64             `json:"agreedPayment"`
	CustomerType    entity.CustomerType `json:"customerType"`
	HiringOfficerID string              `json:"hiringOfficerId"`
}

// DocumentUpdate upserts documents; ReturnAll hands every collected original back
type DocumentUpdate struct {
	Documents []entity.Document `json:"documents"`
	ReturnAll bool              `json:"returnAll"`
}

// ProfileUpdate changes candidate fields. Nil members are left untouched.
type ProfileUpdate struct {
	Contact         *string               `json:"contact,omitempty"`
	Guardian        *entity.Guardian      `json:"guardian,omitempty"`
	BankAccount     *string               `json:"bankAccount,omitempty"`
	Payment         *entity.Payment       `json:"payment,omitempty"`
	MedicalStatus   *entity.MedicalStatus `json:"medicalStatus,omitempty"`
	Videos          []string              `json:"videos,omitempty"`
	FlightTicket    *entity.FlightTicket  `json:"flightTicket,omitempty"`
	HiringOfficerID *string               `json:"hiringOfficerId,omitempty"`
}

type candidateServiceImpl struct {
	candidates port.CandidateRepository
	history    port.HistoryRepository
	dispatcher dispatcher.Dispatcher
	guard      *authz.Guard
	logger     Logger
	maxRetries int
	now        func() time.Time
}

// NewCandidateService creates a new CandidateService. The dispatcher may be nil.
func NewCandidateService(
	candidates port.CandidateRepository,
	history port.HistoryRepository,
	d dispatcher.Dispatcher,
	logger Logger,
	maxRetries int,
) CandidateService {
	if maxRetries < 1 {
		maxRetries = DefaultMaxUpdateRetries
	}
	return &candidateServiceImpl{
		candidates: candidates,
		history:    history,
		dispatcher: d,
		guard:      authz.NewGuard(),
		logger:     logger,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// CreateCandidate registers a candidate at Entry with placeholder documents
func (s *candidateServiceImpl) CreateCandidate(ctx context.Context, actor entity.Actor, in CreateCandidateInput) (*entity.Candidate, error) {
	if !s.guard.CanCreate(actor) {
		return nil, workflow.NewError(workflow.KindAuthorizationDenied, "",
			fmt.Errorf("role %q may not register candidates", actor.Role))
	}

	if err := validateIntake(&in); err != nil {
		return nil, workflow.NewError(workflow.KindValidation, "", err)
	}

	officer := in.HiringOfficerID
	if actor.Role == entity.RoleHiring {
		officer = actor.ID
	}

	now := s.now()
	c := &entity.Candidate{
		ID:              "cand_" + uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Contact:         in.Contact,
		AvatarURL:       in.AvatarURL,
		Guardian:        in.Guardian,
		BankAccount:     in.BankAccount,
		Payment:         entity.Payment{Agreed: in.AgreedPayment},
		MedicalStatus:   entity.MedicalNoSlip,
		HiringOfficerID: officer,
		CustomerType:    in.CustomerType,
		Documents:       intakeDocuments(now),
		Stage:           domainwf.StageEntry,
		Progress:        progress.FloorFor(domainwf.StageEntry),
		Videos:          []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.candidates.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create candidate", "error", err, "name", c.Name)
		if errors.Is(err, port.ErrDuplicate) {
			return nil, workflow.NewError(workflow.KindValidation, c.ID, err)
		}
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, c.ID, err)
	}

	s.logger.Info("Candidate created", "candidate_id", c.ID, "actor_id", actor.ID, "hiring_officer_id", officer)
	s.dispatch(ctx, event.TypeCandidateCreated, c.ID, actor.ID, map[string]interface{}{
		"name":              c.Name,
		"hiring_officer_id": officer,
	})
	return c, nil
}

// GetCandidate returns one candidate the actor may view
func (s *candidateServiceImpl) GetCandidate(ctx context.Context, actor entity.Actor, id string) (*entity.Candidate, error) {
	c, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanView(actor, c) {
		return nil, workflow.NewError(workflow.KindAuthorizationDenied, id, errors.New("candidate not visible to actor"))
	}
	return c, nil
}

// ListCandidates lists candidates; hiring officers only see their own
func (s *candidateServiceImpl) ListCandidates(ctx context.Context, actor entity.Actor, filter port.CandidateFilter) ([]*entity.Candidate, error) {
	if !actor.Role.IsValid() {
		return nil, workflow.NewError(workflow.KindAuthorizationDenied, "", fmt.Errorf("unknown role %q", actor.Role))
	}
	if filter.Stage != "" && !filter.Stage.IsValid() {
		return nil, workflow.NewError(workflow.KindValidation, "", fmt.Errorf("%w: %q", domainwf.ErrInvalidStage, filter.Stage))
	}
	if actor.Role == entity.RoleHiring {
		filter.HiringOfficerID = actor.ID
	}

	list, err := s.candidates.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list candidates", "error", err)
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}
	return list, nil
}

// GetHistory returns the stage history of a candidate, oldest first
func (s *candidateServiceImpl) GetHistory(ctx context.Context, actor entity.Actor, id string) ([]*entity.StageHistory, error) {
	if _, err := s.GetCandidate(ctx, actor, id); err != nil {
		return nil, err
	}
	records, err := s.history.GetByCandidateID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get history", "error", err, "candidate_id", id)
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, id, err)
	}
	return records, nil
}

// UpdateDocuments upserts documents without changing the stage
func (s *candidateServiceImpl) UpdateDocuments(ctx context.Context, actor entity.Actor, id string, in DocumentUpdate) (*entity.Candidate, error) {
	if len(in.Documents) == 0 && !in.ReturnAll {
		return nil, workflow.NewError(workflow.KindValidation, id, errors.New("no documents given"))
	}

	var returned []string
	c, err := s.mutate(ctx, id, func(c *entity.Candidate) error {
		if !s.guard.CanEdit(actor, c, authz.FieldDocuments) {
			return workflow.NewError(workflow.KindAuthorizationDenied, id,
				fmt.Errorf("role %q may not edit documents at %s", actor.Role, c.Stage))
		}
		before := c.Clone()
		now := s.now()
		if err := gate.MergeDocuments(c, in.Documents, now); err != nil {
			return workflow.NewError(workflow.KindValidation, id, err)
		}
		if flow := gate.CheckDocumentFlow(before, c); len(flow) > 0 {
			return &workflow.TransitionError{
				Kind:        workflow.KindValidation,
				CandidateID: id,
				Missing:     flow,
				Err:         fmt.Errorf("%s must be %s", flow[0].Name, flow[0].Want),
			}
		}
		returned = nil
		if in.ReturnAll {
			returned = gate.ReturnAll(c, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(in.Documents))
	for _, d := range in.Documents {
		names = append(names, d.Name)
	}
	s.logger.Info("Candidate documents updated", "candidate_id", id, "actor_id", actor.ID, "documents", names, "returned", len(returned))
	s.dispatch(ctx, event.TypeDocumentsUpdated, id, actor.ID, map[string]interface{}{
		"documents": names,
		"returned":  returned,
	})
	return c, nil
}

// UpdateProfile edits personal and commercial fields
func (s *candidateServiceImpl) UpdateProfile(ctx context.Context, actor entity.Actor, id string, in ProfileUpdate) (*entity.Candidate, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, workflow.NewError(workflow.KindValidation, id, errors.New("no fields given"))
	}
	if err := in.validate(); err != nil {
		return nil, workflow.NewError(workflow.KindValidation, id, err)
	}

	c, err := s.mutate(ctx, id, func(c *entity.Candidate) error {
		for _, f := range fields {
			if !s.guard.CanEdit(actor, c, f) {
				return workflow.NewError(workflow.KindAuthorizationDenied, id,
					fmt.Errorf("role %q may not edit %s", actor.Role, f))
			}
		}
		return s.applyProfile(c, in)
	})
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, len(fields))
	for _, f := range fields {
		changed = append(changed, string(f))
	}
	s.logger.Info("Candidate profile updated", "candidate_id", id, "actor_id", actor.ID, "fields", changed)
	s.dispatch(ctx, event.TypeProfileUpdated, id, actor.ID, map[string]interface{}{
		"fields":   changed,
		"progress": c.Progress,
	})
	return c, nil
}

// Stats aggregates the whole pipeline
func (s *candidateServiceImpl) Stats(ctx context.Context) (*entity.PipelineStats, error) {
	all, err := s.candidates.List(ctx, port.CandidateFilter{})
	if err != nil {
		s.logger.Error("Failed to list candidates for stats", "error", err)
		return nil, workflow.NewError(workflow.KindRepositoryUnavailable, "", err)
	}
	return BuildStats(all), nil
}

// BuildStats computes dashboard counters over a candidate list
func BuildStats(all []*entity.Candidate) *entity.PipelineStats {
	stats := &entity.PipelineStats{
		Total:         len(all),
		ByStage:       make(map[domainwf.Stage]int),
		PriorityCases: []entity.CandidateSummary{},
	}
	for _, c := range all {
		stats.ByStage[c.Stage]++
		if c.IsActive() {
			stats.Active++
		} else {
			stats.Completed++
		}
		if c.Stage == domainwf.StageAwaitingProtector || c.Stage == domainwf.StageVisaIssued {
			stats.PriorityCases = append(stats.PriorityCases, c.Summary())
		}
	}
	return stats
}

// mutate loads the candidate, applies fn to a working copy and saves it,
// reloading and reapplying on version conflicts up to maxRetries attempts
func (s *candidateServiceImpl) mutate(ctx context.Context, id string, fn func(c *entity.Candidate) error) (*entity.Candidate, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		current, version, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}

		working := current.Clone()
		if err := fn(working); err != nil {
			return nil, err
		}
		working.UpdatedAt = s.now()

		err = s.candidates.Save(ctx, working, version)
		if err == nil {
			return working, nil
		}
		if !errors.Is(err, port.ErrVersionConflict) {
			s.logger.Error("Failed to save candidate", "error", err, "candidate_id", id)
			return nil, workflow.NewError(workflow.KindRepositoryUnavailable, id, err)
		}

		lastErr = err
		s.logger.Info("Version conflict, retrying update", "candidate_id", id, "attempt", attempt)
	}
	return nil, workflow.NewError(workflow.KindStaleState, id, lastErr)
}

func (s *candidateServiceImpl) load(ctx context.Context, id string) (*entity.Candidate, int64, error) {
	c, version, err := s.candidates.Load(ctx, id)
	if err != nil {
		if errors.Is(err, port.ErrCandidateNotFound) {
			return nil, 0, workflow.NewError(workflow.KindNotFound, id, err)
		}
		s.logger.Error("Failed to load candidate", "error", err, "candidate_id", id)
		return nil, 0, workflow.NewError(workflow.KindRepositoryUnavailable, id, err)
	}
	return c, version, nil
}

func (s *candidateServiceImpl) applyProfile(c *entity.Candidate, in ProfileUpdate) error {
	if in.Contact != nil {
		c.Contact = *in.Contact
	}
	if in.Guardian != nil {
		c.Guardian = *in.Guardian
	}
	if in.BankAccount != nil {
		c.BankAccount = *in.BankAccount
	}
	if in.Payment != nil {
		c.Payment = *in.Payment
	}
	if in.MedicalStatus != nil {
		c.MedicalStatus = *in.MedicalStatus
	}
	if in.Videos != nil {
		c.Videos = append([]string(nil), in.Videos...)
	}
	if in.HiringOfficerID != nil {
		c.HiringOfficerID = *in.HiringOfficerID
	}
	if in.FlightTicket != nil {
		if c.Stage.Before(domainwf.StageAwaitingProtector) {
			return workflow.NewError(workflow.KindValidation, c.ID,
				fmt.Errorf("flight ticket not accepted before %s, candidate is at %s", domainwf.StageAwaitingProtector, c.Stage))
		}
		ticket := *in.FlightTicket
		ticket.UploadedAt = s.now()
		c.FlightTicket = &ticket
		c.Progress = progress.Raise(c.Progress, progress.FlightTicketFloor)
	}
	return nil
}

func (s *candidateServiceImpl) dispatch(ctx context.Context, t event.Type, candidateID, actorID string, payload map[string]interface{}) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.DispatchAsync(ctx, event.NewEvent(t, candidateID, actorID, payload))
}

func (in ProfileUpdate) fields() []authz.Field {
	var out []authz.Field
	if in.Contact != nil || in.Guardian != nil {
		out = append(out, authz.FieldGuardian)
	}
	if in.BankAccount != nil {
		out = append(out, authz.FieldBankAccount)
	}
	if in.Payment != nil {
		out = append(out, authz.FieldPayment)
	}
	if in.MedicalStatus != nil {
		out = append(out, authz.FieldMedicalStatus)
	}
	if in.Videos != nil {
		out = append(out, authz.FieldVideos)
	}
	if in.FlightTicket != nil {
		out = append(out, authz.FieldFlightTicket)
	}
	if in.HiringOfficerID != nil {
		out = append(out, authz.FieldHiringOfficer)
	}
	return out
}

func (in ProfileUpdate) validate() error {
	if in.Guardian != nil && in.Guardian.Relation != "" && !in.Guardian.Relation.IsValid() {
		return fmt.Errorf("invalid guardian relation %q", in.Guardian.Relation)
	}
	if in.Payment != nil {
		if err := workflow.ValidatePayment(*in.Payment); err != nil {
			return err
		}
	}
	if in.MedicalStatus != nil && !in.MedicalStatus.IsValid() {
		return fmt.Errorf("invalid medical status %q", *in.MedicalStatus)
	}
	if in.FlightTicket != nil && strings.TrimSpace(in.FlightTicket.URL) == "" {
		return errors.New("flight ticket url is required")
	}
	if in.HiringOfficerID != nil && strings.TrimSpace(*in.HiringOfficerID) == "" {
		return errors.New("hiring officer id must not be empty")
	}
	return nil
}

func validateIntake(in *CreateCandidateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	if in.AgreedPayment < 0 {
		return errors.New("agreed payment must not be negative")
	}
	if in.CustomerType == "" {
		in.CustomerType = entity.CustomerFresh
	}
	if !in.CustomerType.IsValid() {
		return fmt.Errorf("invalid customer type %q", in.CustomerType)
	}
	if in.Guardian.Relation != "" && !in.Guardian.Relation.IsValid() {
		return fmt.Errorf("invalid guardian relation %q", in.Guardian.Relation)
	}
	return nil
}

func intakeDocuments(at time.Time) entity.DocumentSet {
	pending := func(name string) entity.Document {
		return entity.Document{Name: name, Status: entity.DocumentStatusPending, CollectionMethod: entity.CollectionNotCollected, UpdatedAt: at}
	}
	diploma := pending(entity.DocDiploma)
	diploma.VerificationStatus = entity.VerificationNone
	return entity.NewDocumentSet(
		pending(entity.DocPassport),
		diploma,
		pending(entity.DocPNC),
		pending(entity.DocExperienceCertificate),
	)
}
