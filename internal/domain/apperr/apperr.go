// Package apperr holds the rejection taxonomy shared by every contract
// sub-system. Kinds are stable strings; clients branch on them.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	RoleMismatch          Kind = "role_mismatch"
	InvalidState          Kind = "invalid_state"
	AlreadySet            Kind = "already_set"
	AlreadyApproved       Kind = "already_approved"
	MissingReason         Kind = "missing_reason"
	NoPendingRequest      Kind = "no_pending_request"
	RequestAlreadyPending Kind = "request_already_pending"
	SelfResponseForbidden Kind = "self_response_forbidden"
	ListNotApproved       Kind = "list_not_approved"
	ListFrozen            Kind = "list_frozen"
	WorkflowIncomplete    Kind = "workflow_incomplete"
	InvalidInput          Kind = "invalid_input"
	EmptyMessage          Kind = "empty_message"
	NotFound              Kind = "not_found"
	NotParty              Kind = "not_party"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Msg
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, apperr.ErrListFrozen) works for every ListFrozen rejection.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Kind == e.Kind && t.Msg == ""
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the rejection kind of err, or "" for anything else
// (persistence failures, context cancellation, ...).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrRoleMismatch          = &Error{Kind: RoleMismatch}
	ErrInvalidState          = &Error{Kind: InvalidState}
	ErrAlreadySet            = &Error{Kind: AlreadySet}
	ErrAlreadyApproved       = &Error{Kind: AlreadyApproved}
	ErrMissingReason         = &Error{Kind: MissingReason}
	ErrNoPendingRequest      = &Error{Kind: NoPendingRequest}
	ErrRequestAlreadyPending = &Error{Kind: RequestAlreadyPending}
	ErrSelfResponseForbidden = &Error{Kind: SelfResponseForbidden}
	ErrListNotApproved       = &Error{Kind: ListNotApproved}
	ErrListFrozen            = &Error{Kind: ListFrozen}
	ErrWorkflowIncomplete    = &Error{Kind: WorkflowIncomplete}
	ErrInvalidInput          = &Error{Kind: InvalidInput}
	ErrEmptyMessage          = &Error{Kind: EmptyMessage}
	ErrNotFound              = &Error{Kind: NotFound}
	ErrNotParty              = &Error{Kind: NotParty}
)
