package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

func TestCheckAndAwardAtMostOnce(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "asker")
	seedContent(t, repos, userID, domain.ContentKindQuestion, 0)

	const callers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.CheckAndAward(context.Background(), userID, domain.BadgeFirstQuestion)
			if err != nil {
				t.Errorf("CheckAndAward: %v", err)
				return
			}
			if out.NewlyAwarded {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if awarded != 1 {
		t.Fatalf("badge awarded %d times, want exactly once", awarded)
	}
	held, err := repos.Badges.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	count := 0
	for _, b := range held {
		if b.BadgeID == domain.BadgeFirstQuestion {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("stored %d first_question badges, want 1", count)
	}
}

func TestCheckAndAwardNotQualified(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "lurker")

	out, err := svc.CheckAndAward(context.Background(), userID, domain.BadgeFirstPost)
	if err != nil {
		t.Fatalf("CheckAndAward error: %v", err)
	}
	if out.NewlyAwarded {
		t.Fatalf("badge awarded without any authored content")
	}

	_, err = svc.CheckAndAward(context.Background(), userID, domain.BadgeID("time_traveler"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown badge: expected ErrNotFound, got %v", err)
	}
}

func TestReviewerBadgeAtFiveReviews(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "critic")

	for i := 0; i < domain.BadgeReviewerReviewCount-1; i++ {
		seedContent(t, repos, userID, domain.ContentKindReview, 0)
	}
	out, err := svc.CheckAndAward(context.Background(), userID, domain.BadgeReviewer)
	if err != nil {
		t.Fatalf("CheckAndAward error: %v", err)
	}
	if out.NewlyAwarded {
		t.Fatalf("reviewer badge awarded at four reviews")
	}

	seedContent(t, repos, userID, domain.ContentKindReview, 0)
	out, err = svc.CheckAndAward(context.Background(), userID, domain.BadgeReviewer)
	if err != nil {
		t.Fatalf("CheckAndAward error: %v", err)
	}
	if !out.NewlyAwarded {
		t.Fatalf("reviewer badge missing at five reviews")
	}
}

func TestExpertBadgeFromReputationChange(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "guru")
	admin := application.Actor{SubjectID: uuid.New(), Role: application.RoleAdmin}

	out, err := svc.ApplyChange(context.Background(), admin, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  domain.BadgeExpertReputation,
	})
	if err != nil {
		t.Fatalf("ApplyChange error: %v", err)
	}
	found := false
	for _, id := range out.NewBadges {
		if id == domain.BadgeExpert {
			found = true
		}
	}
	if !found {
		t.Fatalf("expert badge not in new badges: %v", out.NewBadges)
	}
}

func TestListBadgesReturnsDefinitions(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "starter")
	seedContent(t, repos, userID, domain.ContentKindAnswer, 0)

	if _, err := svc.CheckAllBadges(context.Background(), userID); err != nil {
		t.Fatalf("CheckAllBadges error: %v", err)
	}
	views, err := svc.ListBadges(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListBadges error: %v", err)
	}
	byID := map[domain.BadgeID]domain.Badge{}
	for _, view := range views {
		byID[view.Badge.ID] = view.Badge
		if view.AwardedAt.IsZero() {
			t.Fatalf("badge %s has no award time", view.Badge.ID)
		}
	}
	for _, want := range []domain.BadgeID{domain.BadgeWelcome, domain.BadgeFirstPost, domain.BadgeFirstAnswer} {
		badge, ok := byID[want]
		if !ok {
			t.Fatalf("badge %s missing from %v", want, views)
		}
		if badge.Name == "" || badge.Level == "" {
			t.Fatalf("badge %s definition incomplete", want)
		}
	}
}
