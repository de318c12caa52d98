package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/adapters/memory"
	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type stubSpamChecker struct {
	result ports.SpamResult
	err    error
}

func (s *stubSpamChecker) CheckForSpam(context.Context, string, string) (ports.SpamResult, error) {
	return s.result, s.err
}

type mapCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func newTestService(spam ports.SpamChecker, cache ports.Cache) (*application.Service, memory.Repositories) {
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Config:     application.Config{SpamAutoThreshold: 0.85},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Reputation: repos.Reputation,
		Users:      repos.Users,
		Contents:   repos.Contents,
		Badges:     repos.Badges,
		Flags:      repos.Flags,
		Actions:    repos.Actions,
		Appeals:    repos.Appeals,
		Outbox:     repos.Outbox,
		Spam:       spam,
		Cache:      cache,
	})
	return svc, repos
}

func seedUser(t *testing.T, repos memory.Repositories, username string) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	err := repos.Users.Create(context.Background(), domain.User{
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return userID
}

func seedContent(t *testing.T, repos memory.Repositories, authorID uuid.UUID, kind domain.ContentKind, upvotes int) uuid.UUID {
	t.Helper()
	contentID := uuid.New()
	err := repos.Contents.Create(context.Background(), domain.Content{
		ContentID: contentID,
		AuthorID:  authorID,
		Kind:      kind,
		Body:      "test body",
		Upvotes:   upvotes,
		State:     domain.ContentStateVisible,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	return contentID
}

func grantReputation(t *testing.T, svc *application.Service, userID uuid.UUID, amount int) {
	t.Helper()
	admin := application.Actor{SubjectID: uuid.New(), Role: application.RoleAdmin}
	_, err := svc.ApplyChange(context.Background(), admin, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  amount,
	})
	if err != nil {
		t.Fatalf("grant reputation: %v", err)
	}
}

func TestApplyChangeUsesFixedDelta(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "alice")
	voterID := seedUser(t, repos, "victor")
	grantReputation(t, svc, voterID, 15)
	actor := application.Actor{SubjectID: voterID, Role: application.RoleUser}

	// The caller's delta is ignored for table-driven reasons.
	out, err := svc.ApplyChange(context.Background(), actor, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAnswerUpvote,
		Delta:  999,
	})
	if err != nil {
		t.Fatalf("ApplyChange error: %v", err)
	}
	if out.Entry.Delta != domain.PointsAnswerUpvote {
		t.Fatalf("entry delta = %d, want %d", out.Entry.Delta, domain.PointsAnswerUpvote)
	}
	if out.NewTotal != domain.PointsAnswerUpvote {
		t.Fatalf("new total = %d, want %d", out.NewTotal, domain.PointsAnswerUpvote)
	}
	user, _ := repos.Store.User(userID)
	if user.Reputation != domain.PointsAnswerUpvote {
		t.Fatalf("stored reputation = %d, want %d", user.Reputation, domain.PointsAnswerUpvote)
	}
}

func TestApplyChangeVoteRequiresVoterTier(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	target := seedUser(t, repos, "author")
	voterID := seedUser(t, repos, "newcomer")
	voter := application.Actor{SubjectID: voterID, Role: application.RoleUser}

	// A fresh account cannot credit votes for anyone, itself included.
	_, err := svc.ApplyChange(context.Background(), voter, application.ApplyChangeInput{
		UserID: target,
		Reason: domain.ReasonAnswerUpvote,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("upvote at 0 reputation: err = %v, want ErrForbidden", err)
	}
	_, err = svc.ApplyChange(context.Background(), voter, application.ApplyChangeInput{
		UserID: voterID,
		Reason: domain.ReasonAnswerUpvote,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("self-upvote at 0 reputation: err = %v, want ErrForbidden", err)
	}

	grantReputation(t, svc, voterID, 15)
	if _, err = svc.ApplyChange(context.Background(), voter, application.ApplyChangeInput{
		UserID: target,
		Reason: domain.ReasonAnswerUpvote,
	}); err != nil {
		t.Fatalf("upvote at 15 reputation: %v", err)
	}

	// Downvoting opens at a higher rung of the ladder.
	_, err = svc.ApplyChange(context.Background(), voter, application.ApplyChangeInput{
		UserID: target,
		Reason: domain.ReasonAnswerDownvote,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("downvote at 15 reputation: err = %v, want ErrForbidden", err)
	}
	grantReputation(t, svc, voterID, 110)
	if _, err = svc.ApplyChange(context.Background(), voter, application.ApplyChangeInput{
		UserID: target,
		Reason: domain.ReasonAnswerDownvote,
	}); err != nil {
		t.Fatalf("downvote at 125 reputation: %v", err)
	}
}

func TestApplyChangeFreeDeltaAuthorization(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "bob")

	_, err := svc.ApplyChange(context.Background(), application.Actor{SubjectID: userID, Role: application.RoleUser}, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user adjustment: expected ErrForbidden, got %v", err)
	}

	_, err = svc.ApplyChange(context.Background(), application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("moderator adjustment: expected ErrForbidden, got %v", err)
	}

	out, err := svc.ApplyChange(context.Background(), application.Actor{SubjectID: uuid.New(), Role: application.RoleAdmin}, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  100,
	})
	if err != nil {
		t.Fatalf("admin adjustment error: %v", err)
	}
	if out.NewTotal != 100 {
		t.Fatalf("new total = %d, want 100", out.NewTotal)
	}
}

func TestApplyChangeRejectsInvalidInput(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "carol")
	admin := application.Actor{SubjectID: uuid.New(), Role: application.RoleAdmin}

	_, err := svc.ApplyChange(context.Background(), admin, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReputationReason("bribe"),
		Delta:  5,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown reason: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.ApplyChange(context.Background(), admin, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAdminAdjustment,
		Delta:  0,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero delta: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.ApplyChange(context.Background(), application.Actor{}, application.ApplyChangeInput{
		UserID: userID,
		Reason: domain.ReasonAnswerUpvote,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous caller: expected ErrUnauthorized, got %v", err)
	}

	_, err = svc.ApplyChange(context.Background(), admin, application.ApplyChangeInput{
		UserID: uuid.New(),
		Reason: domain.ReasonAnswerUpvote,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
}

func TestLedgerTotalMatchesEntriesUnderConcurrency(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "dave")
	voterID := seedUser(t, repos, "vera")
	grantReputation(t, svc, voterID, 15)
	actor := application.Actor{SubjectID: voterID, Role: application.RoleUser}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyChange(context.Background(), actor, application.ApplyChangeInput{
				UserID: userID,
				Reason: domain.ReasonAnswerUpvote,
			})
			if err != nil {
				t.Errorf("concurrent ApplyChange: %v", err)
			}
		}()
	}
	wg.Wait()

	user, _ := repos.Store.User(userID)
	if want := writers * domain.PointsAnswerUpvote; user.Reputation != want {
		t.Fatalf("total = %d, want %d", user.Reputation, want)
	}
	history, err := svc.History(context.Background(), actor, userID, 100, 0)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if history.Total != writers {
		t.Fatalf("entry count = %d, want %d", history.Total, writers)
	}
	sum := 0
	for _, entry := range history.Items {
		sum += entry.Delta
	}
	if sum != user.Reputation {
		t.Fatalf("ledger sum %d disagrees with cached total %d", sum, user.Reputation)
	}
}

func TestStatsRankAndPercentile(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	top := seedUser(t, repos, "top")
	mid := seedUser(t, repos, "mid")
	low := seedUser(t, repos, "low")
	grantReputation(t, svc, top, 100)
	grantReputation(t, svc, mid, 50)
	grantReputation(t, svc, low, 10)

	stats, err := svc.Stats(context.Background(), application.Actor{SubjectID: mid, Role: application.RoleUser}, mid)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.Total != 50 {
		t.Fatalf("total = %d, want 50", stats.Total)
	}
	if stats.Rank != 2 {
		t.Fatalf("rank = %d, want 2", stats.Rank)
	}
	// Two of three positive users sit at or below 50.
	if stats.Percentile < 66.6 || stats.Percentile > 66.7 {
		t.Fatalf("percentile = %f, want ~66.67", stats.Percentile)
	}
	if stats.ByReason[domain.ReasonAdminAdjustment] != 50 {
		t.Fatalf("by_reason total = %d, want 50", stats.ByReason[domain.ReasonAdminAdjustment])
	}
	unlocked := map[domain.PrivilegeTier]bool{}
	for _, tier := range stats.Privileges {
		unlocked[tier] = true
	}
	if !unlocked[domain.TierFlagContent] || unlocked[domain.TierDownvote] {
		t.Fatalf("privileges at 50 reputation wrong: %v", stats.Privileges)
	}
}

func TestStatsCacheInvalidatedByLedgerWrite(t *testing.T) {
	cache := newMapCache()
	svc, repos := newTestService(nil, cache)
	userID := seedUser(t, repos, "erin")
	actor := application.Actor{SubjectID: userID, Role: application.RoleUser}
	grantReputation(t, svc, userID, 40)

	first, err := svc.Stats(context.Background(), actor, userID)
	if err != nil {
		t.Fatalf("first Stats error: %v", err)
	}
	if first.Total != 40 {
		t.Fatalf("first total = %d, want 40", first.Total)
	}

	grantReputation(t, svc, userID, 10)

	second, err := svc.Stats(context.Background(), actor, userID)
	if err != nil {
		t.Fatalf("second Stats error: %v", err)
	}
	if second.Total != 50 {
		t.Fatalf("stale cache: total = %d, want 50", second.Total)
	}
}

func TestHasPrivilege(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	userID := seedUser(t, repos, "frank")
	grantReputation(t, svc, userID, 125)

	ok, err := svc.HasPrivilege(context.Background(), userID, domain.TierDownvote)
	if err != nil || !ok {
		t.Fatalf("expected downvote at 125 reputation, got %v %v", ok, err)
	}
	ok, err = svc.HasPrivilege(context.Background(), userID, domain.TierModerationTools)
	if err != nil || ok {
		t.Fatalf("moderation tools must need 2000 reputation, got %v %v", ok, err)
	}
	_, err = svc.HasPrivilege(context.Background(), userID, domain.PrivilegeTier("close_votes"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown tier: expected ErrInvalidInput, got %v", err)
	}
}
