// Package domain contains core business types and interfaces.
//
// This file defines the actions the entitlement resolver can authorize
// and the decision it returns.
package domain

// Action is a quota-guarded operation a caller wants to perform.
type Action string

const (
	ActionSendMessage Action = "send_message"
	ActionUploadFile  Action = "upload_file"
)

// ParseAction validates a caller-supplied action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSendMessage, ActionUploadFile:
		return Action(s), nil
	}
	return "", Invalid("entitlement.parse_action", "action must be \"send_message\" or \"upload_file\"")
}

// Kind returns the usage counter an action consumes.
func (a Action) Kind() QuotaKind {
	if a == ActionUploadFile {
		return QuotaKindFiles
	}
	return QuotaKindMessages
}

// DenialReason distinguishes why a check was denied so the caller can
// present the right remediation (upgrade plan vs. reduce file size).
type DenialReason string

const (
	DenialQuotaExceeded DenialReason = "quota_exceeded"
	DenialFileTooLarge  DenialReason = "file_too_large"
)

// Decision is the outcome of an entitlement check. The check performs
// no mutation; an authorized caller commits by incrementing usage after
// the guarded action succeeds.
type Decision struct {
	Authorized bool
	Remaining  int64        // budget left after the requested amount; Unlimited when uncapped
	Reason     DenialReason // set only when denied
}

// Authorize builds an authorized decision with the remaining budget.
func Authorize(remaining int64) Decision {
	return Decision{Authorized: true, Remaining: remaining}
}

// Deny builds a denied decision with the given reason.
func Deny(reason DenialReason) Decision {
	return Decision{Reason: reason}
}
