package domain

const (
	EventReputationChanged = "trust.reputation_changed"
	EventBadgeAwarded      = "trust.badge_awarded"
	EventFlagCreated       = "trust.flag_created"
	EventActionCreated     = "trust.action_created"
	EventAppealResolved    = "trust.appeal_resolved"
)
