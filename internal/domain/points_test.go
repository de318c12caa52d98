package domain

import "testing"

func TestDeltaForFixedReasons(t *testing.T) {
	cases := []struct {
		reason ReputationReason
		want   int
	}{
		{ReasonQuestionUpvote, 5},
		{ReasonAnswerUpvote, 10},
		{ReasonQuestionDownvote, -2},
		{ReasonAnswerDownvote, -2},
		{ReasonAnswerAccepted, 15},
		{ReasonAcceptAnswer, 2},
		{ReasonToolReview, 3},
	}
	for _, tc := range cases {
		got, ok := DeltaFor(tc.reason)
		if !ok {
			t.Fatalf("expected fixed delta for %s", tc.reason)
		}
		if got != tc.want {
			t.Fatalf("DeltaFor(%s) = %d, want %d", tc.reason, got, tc.want)
		}
	}
}

func TestDeltaForFreeReasons(t *testing.T) {
	for _, reason := range []ReputationReason{
		ReasonAdminAdjustment, ReasonContentRemoved, ReasonVoteReversal, ReasonAppealApproved,
	} {
		if _, ok := DeltaFor(reason); ok {
			t.Fatalf("reason %s must not carry a fixed delta", reason)
		}
		if !ValidReason(reason) {
			t.Fatalf("reason %s must be valid", reason)
		}
	}
}

func TestUpvotePointsFor(t *testing.T) {
	if got := UpvotePointsFor(ContentKindQuestion); got != PointsQuestionUpvote {
		t.Fatalf("question upvote = %d, want %d", got, PointsQuestionUpvote)
	}
	if got := UpvotePointsFor(ContentKindAnswer); got != PointsAnswerUpvote {
		t.Fatalf("answer upvote = %d, want %d", got, PointsAnswerUpvote)
	}
	if got := UpvotePointsFor(ContentKindReview); got != 0 {
		t.Fatalf("review upvotes must accrue no reputation, got %d", got)
	}
}

func TestValidReasonRejectsUnknown(t *testing.T) {
	if ValidReason(ReputationReason("bribe")) {
		t.Fatalf("unknown reason must be invalid")
	}
}
