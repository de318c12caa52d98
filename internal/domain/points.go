package domain

// Fixed point values for reputation-affecting events. These are business
// constants, not configuration.
const (
	PointsQuestionUpvote = 5
	PointsAnswerUpvote   = 10
	PointsDownvote       = -2
	PointsAnswerAccepted = 15
	PointsAcceptAnswer   = 2
	PointsToolReview     = 3
)

var pointTable = map[ReputationReason]int{
	ReasonQuestionUpvote:   PointsQuestionUpvote,
	ReasonAnswerUpvote:     PointsAnswerUpvote,
	ReasonQuestionDownvote: PointsDownvote,
	ReasonAnswerDownvote:   PointsDownvote,
	ReasonAnswerAccepted:   PointsAnswerAccepted,
	ReasonAcceptAnswer:     PointsAcceptAnswer,
	ReasonToolReview:       PointsToolReview,
}

// DeltaFor returns the fixed point delta for a reason. Reasons without a
// fixed delta (admin adjustments, moderation debits, appeal credits) return
// ok=false and require an explicit amount from the caller.
func DeltaFor(reason ReputationReason) (delta int, ok bool) {
	delta, ok = pointTable[reason]
	return delta, ok
}

// UpvotePointsFor returns the per-upvote value for a content kind. Reviews
// accrue no vote reputation; only the review itself credits its author.
func UpvotePointsFor(kind ContentKind) int {
	switch kind {
	case ContentKindQuestion:
		return PointsQuestionUpvote
	case ContentKindAnswer:
		return PointsAnswerUpvote
	default:
		return 0
	}
}

func ValidReason(r ReputationReason) bool {
	switch r {
	case ReasonQuestionUpvote, ReasonAnswerUpvote, ReasonQuestionDownvote,
		ReasonAnswerDownvote, ReasonAnswerAccepted, ReasonAcceptAnswer,
		ReasonToolReview, ReasonAdminAdjustment, ReasonContentRemoved,
		ReasonVoteReversal, ReasonAppealApproved:
		return true
	}
	return false
}
