package domain

type PrivilegeTier string

const (
	TierCreatePost      PrivilegeTier = "create_post"
	TierUpvote          PrivilegeTier = "upvote"
	TierComment         PrivilegeTier = "comment"
	TierFlagContent     PrivilegeTier = "flag_content"
	TierDownvote        PrivilegeTier = "downvote"
	TierEditOthers      PrivilegeTier = "edit_others"
	TierModerationTools PrivilegeTier = "moderation_tools"
	TierTrustedUser     PrivilegeTier = "trusted_user"
)

type tierThreshold struct {
	Tier      PrivilegeTier
	Threshold int
}

// Ordered by threshold ascending; privilege sets are prefix-closed over this
// order (holding a tier implies holding every cheaper one).
var tierTable = []tierThreshold{
	{TierCreatePost, 1},
	{TierUpvote, 15},
	{TierComment, 50},
	{TierFlagContent, 50},
	{TierDownvote, 125},
	{TierEditOthers, 1000},
	{TierModerationTools, 2000},
	{TierTrustedUser, 5000},
}

// PrivilegesOf returns every tier unlocked at the given reputation, in
// threshold order. Pure function of the reputation value.
func PrivilegesOf(reputation int) []PrivilegeTier {
	tiers := make([]PrivilegeTier, 0, len(tierTable))
	for _, entry := range tierTable {
		if reputation >= entry.Threshold {
			tiers = append(tiers, entry.Tier)
		}
	}
	return tiers
}

// HasTier reports whether the reputation value unlocks a tier. Must agree
// with PrivilegesOf exactly; there is no separate grant path.
func HasTier(reputation int, tier PrivilegeTier) bool {
	threshold, ok := ThresholdOf(tier)
	return ok && reputation >= threshold
}

// ActorTierFor returns the tier the acting principal must hold to submit a
// reputation change with the given reason. Only vote reasons are actor-gated
// here; acceptance and review credits are validated by the content layer that
// observed the triggering event.
func ActorTierFor(reason ReputationReason) (PrivilegeTier, bool) {
	switch reason {
	case ReasonQuestionUpvote, ReasonAnswerUpvote:
		return TierUpvote, true
	case ReasonQuestionDownvote, ReasonAnswerDownvote:
		return TierDownvote, true
	}
	return "", false
}

func ThresholdOf(tier PrivilegeTier) (int, bool) {
	for _, entry := range tierTable {
		if entry.Tier == tier {
			return entry.Threshold, true
		}
	}
	return 0, false
}
