package domain

type ActionType string

const (
	ActionHide      ActionType = "hide"
	ActionUnhide    ActionType = "unhide"
	ActionDelete    ActionType = "delete"
	ActionUndelete  ActionType = "undelete"
	ActionSuspend   ActionType = "suspend"
	ActionUnsuspend ActionType = "unsuspend"
)

// Metadata keys written onto moderation actions.
const (
	MetadataKeyPriorState      = "prior_state"
	MetadataKeySpamScore       = "spam_score"
	MetadataKeySpamReason      = "spam_reason"
	MetadataKeyReputationDebit = "reputation_debit"
)

var actionInverse = map[ActionType]ActionType{
	ActionHide:      ActionUnhide,
	ActionUnhide:    ActionHide,
	ActionDelete:    ActionUndelete,
	ActionUndelete:  ActionDelete,
	ActionSuspend:   ActionUnsuspend,
	ActionUnsuspend: ActionSuspend,
}

// Inverse returns the action type that undoes t.
func (t ActionType) Inverse() (ActionType, bool) {
	inv, ok := actionInverse[t]
	return inv, ok
}

// TargetsUser reports whether t acts on an account rather than content.
func (t ActionType) TargetsUser() bool {
	return t == ActionSuspend || t == ActionUnsuspend
}

// ContentStateAfter returns the content visibility a forward content action
// leaves behind.
func (t ActionType) ContentStateAfter() (ContentState, bool) {
	switch t {
	case ActionHide:
		return ContentStateHidden, true
	case ActionDelete:
		return ContentStateDeleted, true
	case ActionUnhide, ActionUndelete:
		return ContentStateVisible, true
	}
	return "", false
}

// SuspendsUser returns the account suspension state after a user action.
func (t ActionType) SuspendsUser() (bool, bool) {
	switch t {
	case ActionSuspend:
		return true, true
	case ActionUnsuspend:
		return false, true
	}
	return false, false
}

func ValidActionType(t ActionType) bool {
	_, ok := actionInverse[t]
	return ok
}
