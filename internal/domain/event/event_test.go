package event

import (
	"testing"
	"time"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"candidate created", TypeCandidateCreated, true},
		{"stage changed", TypeStageChanged, true},
		{"documents updated", TypeDocumentsUpdated, true},
		{"profile updated", TypeProfileUpdated, true},
		{"transition blocked", TypeTransitionBlocked, true},
		{"unknown", Type("candidate.deleted"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	evt := NewEvent(TypeStageChanged, "cand_1", "emp_1", map[string]interface{}{"to": "AWAITING_QVP"})

	if evt.ID == "" {
		t.Fatal("NewEvent() should generate an ID")
	}
	if evt.CorrelationID != evt.ID {
		t.Errorf("CorrelationID = %v, want %v", evt.CorrelationID, evt.ID)
	}
	if evt.CandidateID != "cand_1" || evt.ActorID != "emp_1" {
		t.Errorf("unexpected identity fields: %+v", evt)
	}
	if evt.Timestamp.Before(before) {
		t.Errorf("Timestamp %v is before %v", evt.Timestamp, before)
	}

	other := NewEvent(TypeStageChanged, "cand_1", "emp_1", nil)
	if other.ID == evt.ID {
		t.Error("NewEvent() should generate unique IDs")
	}
}

func TestNewEventWithCorrelation(t *testing.T) {
	evt := NewEventWithCorrelation(TypeDocumentsUpdated, "cand_1", "emp_1", nil, "corr-123")
	if evt.CorrelationID != "corr-123" {
		t.Errorf("CorrelationID = %v, want corr-123", evt.CorrelationID)
	}

	evt = NewEventWithCorrelation(TypeDocumentsUpdated, "cand_1", "emp_1", nil, "")
	if evt.CorrelationID != evt.ID {
		t.Error("empty correlation should fall back to the event ID")
	}
}

func TestEvent_WithPayloadIsImmutable(t *testing.T) {
	orig := NewEvent(TypeStageChanged, "cand_1", "emp_1", map[string]interface{}{"from": "ENTRY"})
	updated := orig.WithPayload("to", "AWAITING_DATAFLOW")

	if _, ok := orig.Payload["to"]; ok {
		t.Error("WithPayload() mutated the original event")
	}
	if updated.GetPayloadString("from") != "ENTRY" || updated.GetPayloadString("to") != "AWAITING_DATAFLOW" {
		t.Errorf("unexpected payload: %v", updated.Payload)
	}
	if updated.ID != orig.ID {
		t.Error("WithPayload() should keep the event ID")
	}
}

func TestEvent_PayloadAccessors(t *testing.T) {
	evt := NewEvent(TypeTransitionBlocked, "cand_1", "emp_1", map[string]interface{}{
		"progress":  float64(65),
		"attempt":   2,
		"missing":   []interface{}{"Wakala", 7, "CNIC"},
		"changed":   []string{"Passport"},
		"not_a_str": 12,
	})

	if got := evt.GetPayloadInt("progress"); got != 65 {
		t.Errorf("GetPayloadInt(progress) = %d", got)
	}
	if got := evt.GetPayloadInt("attempt"); got != 2 {
		t.Errorf("GetPayloadInt(attempt) = %d", got)
	}
	if got := evt.GetPayloadStrings("missing"); len(got) != 2 || got[0] != "Wakala" || got[1] != "CNIC" {
		t.Errorf("GetPayloadStrings(missing) = %v", got)
	}
	if got := evt.GetPayloadStrings("changed"); len(got) != 1 {
		t.Errorf("GetPayloadStrings(changed) = %v", got)
	}
	if got := evt.GetPayloadString("not_a_str"); got != "" {
		t.Errorf("GetPayloadString(not_a_str) = %q", got)
	}
	if got := evt.GetPayloadInt("absent"); got != 0 {
		t.Errorf("GetPayloadInt(absent) = %d", got)
	}
}
