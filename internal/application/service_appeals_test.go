package application_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

func TestCreateContentActionDeleteDebitsAuthor(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	authorID := seedUser(t, repos, "author")
	contentID := seedContent(t, repos, authorID, domain.ContentKindAnswer, 3)
	grantReputation(t, svc, authorID, 100)
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateContentAction(context.Background(), moderator, application.CreateContentActionInput{
		Type:      domain.ActionDelete,
		ContentID: contentID,
		Reason:    "plagiarised",
	})
	if err != nil {
		t.Fatalf("CreateContentAction error: %v", err)
	}
	wantDebit := 3 * domain.PointsAnswerUpvote
	if got := action.Metadata[domain.MetadataKeyReputationDebit]; got != strconv.Itoa(wantDebit) {
		t.Fatalf("recorded debit = %q, want %d", got, wantDebit)
	}
	if got := action.Metadata[domain.MetadataKeyPriorState]; got != string(domain.ContentStateVisible) {
		t.Fatalf("prior state = %q, want visible", got)
	}
	content, _ := repos.Store.Content(contentID)
	if content.State != domain.ContentStateDeleted {
		t.Fatalf("content state = %s, want deleted", content.State)
	}
	user, _ := repos.Store.User(authorID)
	if want := 100 - wantDebit; user.Reputation != want {
		t.Fatalf("author reputation = %d, want %d", user.Reputation, want)
	}
}

func TestCreateContentActionRejectsUserActionType(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	authorID := seedUser(t, repos, "author")
	contentID := seedContent(t, repos, authorID, domain.ContentKindQuestion, 0)
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	_, err := svc.CreateContentAction(context.Background(), moderator, application.CreateContentActionInput{
		Type:      domain.ActionSuspend,
		ContentID: contentID,
		Reason:    "wrong target",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("suspend on content: expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateUserActionSuspend(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	targetID := seedUser(t, repos, "offender")
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateUserAction(context.Background(), moderator, application.CreateUserActionInput{
		Type:   domain.ActionSuspend,
		UserID: targetID,
		Reason: "repeated harassment",
	})
	if err != nil {
		t.Fatalf("CreateUserAction error: %v", err)
	}
	if action.Metadata[domain.MetadataKeyPriorState] != "active" {
		t.Fatalf("prior state = %q, want active", action.Metadata[domain.MetadataKeyPriorState])
	}
	user, _ := repos.Store.User(targetID)
	if !user.Suspended {
		t.Fatalf("target not suspended")
	}

	list, err := svc.ActionsForUser(context.Background(), moderator, targetID, 10, 0)
	if err != nil {
		t.Fatalf("ActionsForUser error: %v", err)
	}
	if list.Total != 1 || list.Items[0].ActionID != action.ActionID {
		t.Fatalf("action record missing from the user's history")
	}
}

func TestCreateAppealOnlyByTarget(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	authorID := seedUser(t, repos, "author")
	bystanderID := seedUser(t, repos, "bystander")
	contentID := seedContent(t, repos, authorID, domain.ContentKindQuestion, 0)
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateContentAction(context.Background(), moderator, application.CreateContentActionInput{
		Type:      domain.ActionHide,
		ContentID: contentID,
		Reason:    "off topic",
	})
	if err != nil {
		t.Fatalf("CreateContentAction error: %v", err)
	}

	_, err = svc.CreateAppeal(context.Background(), application.Actor{SubjectID: bystanderID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "seems harsh",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bystander appeal: expected ErrForbidden, got %v", err)
	}

	_, err = svc.CreateAppeal(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "   ",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank reason: expected ErrInvalidInput, got %v", err)
	}

	appeal, err := svc.CreateAppeal(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "the question was on topic",
	})
	if err != nil {
		t.Fatalf("CreateAppeal error: %v", err)
	}
	if appeal.Status != domain.AppealStatusPending {
		t.Fatalf("appeal status = %s, want pending", appeal.Status)
	}

	_, err = svc.CreateAppeal(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "asking again",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second pending appeal: expected ErrConflict, got %v", err)
	}
}

func TestApproveAppealReversesActionAndRecredits(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	authorID := seedUser(t, repos, "author")
	contentID := seedContent(t, repos, authorID, domain.ContentKindQuestion, 4)
	grantReputation(t, svc, authorID, 50)
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateContentAction(context.Background(), moderator, application.CreateContentActionInput{
		Type:      domain.ActionDelete,
		ContentID: contentID,
		Reason:    "suspected plagiarism",
	})
	if err != nil {
		t.Fatalf("CreateContentAction error: %v", err)
	}
	debit := 4 * domain.PointsQuestionUpvote
	user, _ := repos.Store.User(authorID)
	if user.Reputation != 50-debit {
		t.Fatalf("post-delete reputation = %d, want %d", user.Reputation, 50-debit)
	}

	appeal, err := svc.CreateAppeal(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "the citation was in the footnote",
	})
	if err != nil {
		t.Fatalf("CreateAppeal error: %v", err)
	}

	resolved, err := svc.ResolveAppeal(context.Background(), moderator, application.ResolveAppealInput{
		AppealID: appeal.AppealID,
		Status:   domain.AppealStatusApproved,
		Notes:    "citation verified",
	})
	if err != nil {
		t.Fatalf("ResolveAppeal error: %v", err)
	}
	if resolved.Status != domain.AppealStatusApproved {
		t.Fatalf("appeal status = %s, want approved", resolved.Status)
	}
	if resolved.ModeratorID == nil || *resolved.ModeratorID != moderator.SubjectID {
		t.Fatalf("resolving moderator not recorded")
	}

	reverted, err := repos.Actions.Get(context.Background(), action.ActionID)
	if err != nil {
		t.Fatalf("action lookup error: %v", err)
	}
	if reverted.Status != domain.ActionStatusReverted {
		t.Fatalf("action status = %s, want reverted", reverted.Status)
	}
	content, _ := repos.Store.Content(contentID)
	if content.State != domain.ContentStateVisible {
		t.Fatalf("content state = %s, want visible after reversal", content.State)
	}
	user, _ = repos.Store.User(authorID)
	if user.Reputation != 50 {
		t.Fatalf("reputation after re-credit = %d, want 50", user.Reputation)
	}
	history, err := svc.History(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, authorID, 10, 0)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	credited := false
	for _, entry := range history.Items {
		if entry.Reason == domain.ReasonAppealApproved && entry.Delta == debit {
			credited = true
		}
	}
	if !credited {
		t.Fatalf("appeal credit entry missing from ledger: %+v", history.Items)
	}

	_, err = svc.ResolveAppeal(context.Background(), moderator, application.ResolveAppealInput{
		AppealID: appeal.AppealID,
		Status:   domain.AppealStatusRejected,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double resolution: expected ErrConflict, got %v", err)
	}

	_, err = svc.CreateAppeal(context.Background(), application.Actor{SubjectID: authorID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "once more",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("appeal against reverted action: expected ErrConflict, got %v", err)
	}
}

func TestRejectAppealLeavesActionInPlace(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	targetID := seedUser(t, repos, "offender")
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateUserAction(context.Background(), moderator, application.CreateUserActionInput{
		Type:   domain.ActionSuspend,
		UserID: targetID,
		Reason: "ban evasion",
	})
	if err != nil {
		t.Fatalf("CreateUserAction error: %v", err)
	}
	appeal, err := svc.CreateAppeal(context.Background(), application.Actor{SubjectID: targetID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "wrong account",
	})
	if err != nil {
		t.Fatalf("CreateAppeal error: %v", err)
	}

	resolved, err := svc.ResolveAppeal(context.Background(), moderator, application.ResolveAppealInput{
		AppealID: appeal.AppealID,
		Status:   domain.AppealStatusRejected,
		Notes:    "same IP, same device",
	})
	if err != nil {
		t.Fatalf("ResolveAppeal error: %v", err)
	}
	if resolved.Status != domain.AppealStatusRejected {
		t.Fatalf("appeal status = %s, want rejected", resolved.Status)
	}
	kept, _ := repos.Actions.Get(context.Background(), action.ActionID)
	if kept.Status != domain.ActionStatusActive {
		t.Fatalf("rejected appeal must leave the action active, got %s", kept.Status)
	}
	user, _ := repos.Store.User(targetID)
	if !user.Suspended {
		t.Fatalf("suspension lifted by a rejected appeal")
	}
}

func TestApproveAppealRestoresSuspension(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	targetID := seedUser(t, repos, "appellant")
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateUserAction(context.Background(), moderator, application.CreateUserActionInput{
		Type:   domain.ActionSuspend,
		UserID: targetID,
		Reason: "spam wave",
	})
	if err != nil {
		t.Fatalf("CreateUserAction error: %v", err)
	}
	appeal, err := svc.CreateAppeal(context.Background(), application.Actor{SubjectID: targetID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "account was compromised, now recovered",
	})
	if err != nil {
		t.Fatalf("CreateAppeal error: %v", err)
	}
	if _, err := svc.ResolveAppeal(context.Background(), moderator, application.ResolveAppealInput{
		AppealID: appeal.AppealID,
		Status:   domain.AppealStatusApproved,
	}); err != nil {
		t.Fatalf("ResolveAppeal error: %v", err)
	}
	user, _ := repos.Store.User(targetID)
	if user.Suspended {
		t.Fatalf("approved appeal must lift the suspension")
	}
}

func TestAppealsForUserVisibility(t *testing.T) {
	svc, repos := newTestService(nil, nil)
	targetID := seedUser(t, repos, "appellant")
	otherID := seedUser(t, repos, "other")
	moderator := application.Actor{SubjectID: uuid.New(), Role: application.RoleModerator}

	action, err := svc.CreateUserAction(context.Background(), moderator, application.CreateUserActionInput{
		Type:   domain.ActionSuspend,
		UserID: targetID,
		Reason: "abuse",
	})
	if err != nil {
		t.Fatalf("CreateUserAction error: %v", err)
	}
	if _, err := svc.CreateAppeal(context.Background(), application.Actor{SubjectID: targetID, Role: application.RoleUser}, application.CreateAppealInput{
		ActionID: action.ActionID,
		Reason:   "contested",
	}); err != nil {
		t.Fatalf("CreateAppeal error: %v", err)
	}

	_, err = svc.AppealsForUser(context.Background(), application.Actor{SubjectID: otherID, Role: application.RoleUser}, targetID, 10, 0)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other user listing appeals: expected ErrForbidden, got %v", err)
	}

	own, err := svc.AppealsForUser(context.Background(), application.Actor{SubjectID: targetID, Role: application.RoleUser}, targetID, 10, 0)
	if err != nil {
		t.Fatalf("AppealsForUser error: %v", err)
	}
	if own.Total != 1 {
		t.Fatalf("appeal count = %d, want 1", own.Total)
	}
	staff, err := svc.AppealsForUser(context.Background(), moderator, targetID, 10, 0)
	if err != nil {
		t.Fatalf("staff AppealsForUser error: %v", err)
	}
	if staff.Total != 1 {
		t.Fatalf("staff view count = %d, want 1", staff.Total)
	}
}
