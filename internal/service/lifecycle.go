package service

import "surat-portal/internal/model"

// TransitionPolicy decides whether a submission may move from one status to
// another. Role checks happen before the policy is consulted.
type TransitionPolicy interface {
	Allow(from, to model.SubmissionStatus) bool
}

// PermissiveTransitions allows every move between known statuses.
type PermissiveTransitions struct{}

// Allow always returns true.
func (PermissiveTransitions) Allow(_, _ model.SubmissionStatus) bool { return true }

// TableTransitions allows only the listed moves. Staying in the same status
// is always allowed so a notes-only update never trips the table.
type TableTransitions map[model.SubmissionStatus][]model.SubmissionStatus

// Allow reports whether to is listed for from.
func (t TableTransitions) Allow(from, to model.SubmissionStatus) bool {
	if from == to {
		return true
	}
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DefaultTransitionTable is the stricter workflow enabled by
// feature.strict_transitions.
func DefaultTransitionTable() TableTransitions {
	return TableTransitions{
		model.StatusDraft:     {model.StatusInReview, model.StatusCancelled},
		model.StatusInReview:  {model.StatusApproved, model.StatusRejected, model.StatusDraft, model.StatusCancelled},
		model.StatusApproved:  {model.StatusSent, model.StatusRejected, model.StatusCancelled},
		model.StatusRejected:  {model.StatusInReview, model.StatusCancelled},
		model.StatusSent:      {},
		model.StatusCancelled: {},
	}
}
