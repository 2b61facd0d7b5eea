package notification

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/dispatcher"
	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/authz"
	"github.com/Honey822438/RecuirtSys/internal/domain/event"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// RoleRecipient addresses every employee of a department role
func RoleRecipient(role string) string {
	return "role:" + role
}

// StageNotifier turns candidate events into staff notifications.
// The hiring officer hears about every move of their candidate and the
// department owning the landing stage hears that work has arrived.
type StageNotifier struct {
	notifier port.Notifier
	guard    *authz.Guard
	logger   *zap.Logger
}

// NewStageNotifier creates the subscriber
func NewStageNotifier(notifier port.Notifier, logger *zap.Logger) *StageNotifier {
	return &StageNotifier{
		notifier: notifier,
		guard:    authz.NewGuard(),
		logger:   logger,
	}
}

// Register subscribes the notifier to the dispatcher
func (n *StageNotifier) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStageChanged, "stage-notifier", "notify hiring officer and next department", n.HandleStageChanged)
	d.SubscribeNamed(event.TypeTransitionBlocked, "blocked-notifier", "notify actor of missing evidence", n.HandleTransitionBlocked)
}

// HandleStageChanged notifies about a completed transition
func (n *StageNotifier) HandleStageChanged(ctx context.Context, evt *event.Event) error {
	to := workflow.Stage(evt.GetPayloadString("to"))
	subject := fmt.Sprintf("Candidate %s moved to %s", evt.CandidateID, to)
	body := fmt.Sprintf("Progress %d%%, requested %s by %s", evt.GetPayloadInt("progress"), evt.GetPayloadString("requested"), evt.ActorID)

	var errs []string
	if officer := evt.GetPayloadString("hiring_officer_id"); officer != "" {
		if err := n.notifier.Notify(ctx, officer, subject, body); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if role, ok := n.guard.OwnerOf(to); ok {
		if err := n.notifier.Notify(ctx, RoleRecipient(string(role)), subject, "Ready for your department. "+body); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		n.logger.Warn("Stage notification incomplete", zap.String("candidate_id", evt.CandidateID), zap.Strings("errors", errs))
		return fmt.Errorf("notify stage change: %s", strings.Join(errs, "; "))
	}
	return nil
}

// HandleTransitionBlocked tells the actor which evidence is missing
func (n *StageNotifier) HandleTransitionBlocked(ctx context.Context, evt *event.Event) error {
	missing := evt.GetPayloadStrings("missing")
	if len(missing) == 0 || evt.ActorID == "" {
		return nil
	}
	subject := fmt.Sprintf("Candidate %s cannot reach %s", evt.CandidateID, evt.GetPayloadString("requested"))
	return n.notifier.Notify(ctx, evt.ActorID, subject, "Missing: "+strings.Join(missing, ", "))
}
