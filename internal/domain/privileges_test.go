package domain

import "testing"

func TestPrivilegesOfThresholds(t *testing.T) {
	cases := []struct {
		reputation int
		want       []PrivilegeTier
	}{
		{0, nil},
		{1, []PrivilegeTier{TierCreatePost}},
		{10, []PrivilegeTier{TierCreatePost}},
		{15, []PrivilegeTier{TierCreatePost, TierUpvote}},
		{50, []PrivilegeTier{TierCreatePost, TierUpvote, TierComment, TierFlagContent}},
		{124, []PrivilegeTier{TierCreatePost, TierUpvote, TierComment, TierFlagContent}},
		{125, []PrivilegeTier{TierCreatePost, TierUpvote, TierComment, TierFlagContent, TierDownvote}},
		{5000, []PrivilegeTier{TierCreatePost, TierUpvote, TierComment, TierFlagContent, TierDownvote, TierEditOthers, TierModerationTools, TierTrustedUser}},
	}
	for _, tc := range cases {
		got := PrivilegesOf(tc.reputation)
		if len(got) != len(tc.want) {
			t.Fatalf("PrivilegesOf(%d) = %v, want %v", tc.reputation, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("PrivilegesOf(%d)[%d] = %s, want %s", tc.reputation, i, got[i], tc.want[i])
			}
		}
	}
}

func TestPrivilegesMonotonic(t *testing.T) {
	prev := 0
	for rep := 0; rep <= 5000; rep += 25 {
		n := len(PrivilegesOf(rep))
		if n < prev {
			t.Fatalf("privilege count shrank from %d to %d at reputation %d", prev, n, rep)
		}
		prev = n
	}
}

func TestHasTierAgreesWithPrivilegesOf(t *testing.T) {
	tiers := []PrivilegeTier{
		TierCreatePost, TierUpvote, TierComment, TierFlagContent,
		TierDownvote, TierEditOthers, TierModerationTools, TierTrustedUser,
	}
	for _, rep := range []int{0, 1, 14, 15, 49, 50, 125, 999, 1000, 2000, 4999, 5000} {
		unlocked := map[PrivilegeTier]bool{}
		for _, tier := range PrivilegesOf(rep) {
			unlocked[tier] = true
		}
		for _, tier := range tiers {
			if HasTier(rep, tier) != unlocked[tier] {
				t.Fatalf("HasTier(%d, %s) disagrees with PrivilegesOf", rep, tier)
			}
		}
	}
}

func TestHasTierUnknown(t *testing.T) {
	if HasTier(5000, PrivilegeTier("close_votes")) {
		t.Fatalf("unknown tier must never be unlocked")
	}
	if _, ok := ThresholdOf(PrivilegeTier("close_votes")); ok {
		t.Fatalf("unknown tier must have no threshold")
	}
}

func TestActorTierForVoteReasons(t *testing.T) {
	cases := []struct {
		reason ReputationReason
		tier   PrivilegeTier
		gated  bool
	}{
		{ReasonQuestionUpvote, TierUpvote, true},
		{ReasonAnswerUpvote, TierUpvote, true},
		{ReasonQuestionDownvote, TierDownvote, true},
		{ReasonAnswerDownvote, TierDownvote, true},
		{ReasonAnswerAccepted, "", false},
		{ReasonAcceptAnswer, "", false},
		{ReasonToolReview, "", false},
		{ReasonAdminAdjustment, "", false},
	}
	for _, tc := range cases {
		tier, gated := ActorTierFor(tc.reason)
		if gated != tc.gated || tier != tc.tier {
			t.Fatalf("ActorTierFor(%s) = (%s, %v), want (%s, %v)", tc.reason, tier, gated, tc.tier, tc.gated)
		}
	}
}
