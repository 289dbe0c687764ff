package pipeline

import (
	"fmt"

	"leadtracker/internal/domain"
)

// transitions[from][to] lists every allowed stage move. Open stages may move
// to any other stage; Closed-Won and Closed-Lost are sinks.
var transitions = map[domain.Stage]map[domain.Stage]bool{
	domain.StageNewLead: {
		domain.StageQualified:    true,
		domain.StageProposalSent: true,
		domain.StageNegotiation:  true,
		domain.StageClosedWon:    true,
		domain.StageClosedLost:   true,
	},
	domain.StageQualified: {
		domain.StageNewLead:      true,
		domain.StageProposalSent: true,
		domain.StageNegotiation:  true,
		domain.StageClosedWon:    true,
		domain.StageClosedLost:   true,
	},
	domain.StageProposalSent: {
		domain.StageNewLead:     true,
		domain.StageQualified:   true,
		domain.StageNegotiation: true,
		domain.StageClosedWon:   true,
		domain.StageClosedLost:  true,
	},
	domain.StageNegotiation: {
		domain.StageNewLead:      true,
		domain.StageQualified:    true,
		domain.StageProposalSent: true,
		domain.StageClosedWon:    true,
		domain.StageClosedLost:   true,
	},
	domain.StageClosedWon:  {},
	domain.StageClosedLost: {},
}

// CanTransition reports whether a lead may move from one stage to another.
func CanTransition(from, to domain.Stage) bool {
	return transitions[from][to]
}

// ChangeStage moves l to the target stage. Moving to the stage the lead is
// already in returns it unchanged.
func (e *Engine) ChangeStage(l domain.Lead, to domain.Stage) (domain.Lead, error) {
	if !to.IsValid() {
		return l, domain.NewValidationError("stage", fmt.Sprintf("unknown stage %q", to))
	}
	if l.ConvertedToCustomer() {
		return l, &domain.InvalidStateError{Op: "change stage", Reason: "customer records stay Closed-Won"}
	}
	if l.Stage == to {
		return l, nil
	}
	if !CanTransition(l.Stage, to) {
		return l, &domain.InvalidStateError{
			Op:     "change stage",
			Reason: fmt.Sprintf("cannot move from %s to %s", l.Stage, to),
		}
	}

	l.Stage = to
	l.UpdatedAt = e.now()
	return l, nil
}
