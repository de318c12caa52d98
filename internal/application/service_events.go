package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

// Domain events are enqueued to the transactional outbox after the primary
// write commits; a worker publishes them to the bus. Consumers (notification
// sink included) can fail without ever touching core state.

func (s *Service) enqueueReputationChanged(ctx context.Context, userID uuid.UUID, delta int, reason domain.ReputationReason, newTotal int) error {
	return s.enqueueEvent(ctx, domain.EventReputationChanged, userID.String(), map[string]any{
		"user_id":   userID.String(),
		"delta":     delta,
		"reason":    string(reason),
		"new_total": newTotal,
	})
}

func (s *Service) enqueueBadgeAwarded(ctx context.Context, userID uuid.UUID, badgeID domain.BadgeID) error {
	badge, _ := domain.BadgeByID(badgeID)
	return s.enqueueEvent(ctx, domain.EventBadgeAwarded, userID.String(), map[string]any{
		"user_id":     userID.String(),
		"badge_id":    string(badgeID),
		"badge_name":  badge.Name,
		"badge_level": string(badge.Level),
	})
}

func (s *Service) enqueueFlagCreated(ctx context.Context, flag domain.Flag) error {
	return s.enqueueEvent(ctx, domain.EventFlagCreated, flag.TargetID.String(), map[string]any{
		"flag_id":     flag.FlagID.String(),
		"flag_type":   string(flag.Type),
		"target_id":   flag.TargetID.String(),
		"reporter_id": flag.ReporterID.String(),
		"reason":      string(flag.Reason),
	})
}

func (s *Service) enqueueActionCreated(ctx context.Context, action domain.ModerationAction) error {
	data := map[string]any{
		"action_id":    action.ActionID.String(),
		"action_type":  string(action.Type),
		"moderator_id": action.ModeratorID.String(),
		"automated":    action.ModeratorID == domain.SystemModeratorID,
	}
	partitionKey := action.ActionID.String()
	if action.TargetContentID != nil {
		data["target_content_id"] = action.TargetContentID.String()
		partitionKey = action.TargetContentID.String()
	}
	if action.TargetUserID != nil {
		data["target_user_id"] = action.TargetUserID.String()
		partitionKey = action.TargetUserID.String()
	}
	return s.enqueueEvent(ctx, domain.EventActionCreated, partitionKey, data)
}

func (s *Service) enqueueAppealResolved(ctx context.Context, appeal domain.Appeal) error {
	return s.enqueueEvent(ctx, domain.EventAppealResolved, appeal.UserID.String(), map[string]any{
		"appeal_id": appeal.AppealID.String(),
		"action_id": appeal.ActionID.String(),
		"user_id":   appeal.UserID.String(),
		"status":    string(appeal.Status),
	})
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data map[string]any) error {
	if s.outbox == nil {
		return nil
	}
	occurredAt := s.nowFn()
	envelope := map[string]any{
		"event_id":       uuid.NewString(),
		"event_type":     eventType,
		"occurred_at":    occurredAt.Format(time.RFC3339),
		"source_service": s.cfg.ServiceName,
		"schema_version": "1.0",
		"partition_key":  partitionKey,
		"data":           data,
	}
	payload, _ := json.Marshal(envelope)
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:       uuid.New(),
		EventType:     eventType,
		PartitionKey:  partitionKey,
		Payload:       payload,
		OccurredAt:    occurredAt,
		SchemaVersion: "1.0",
	})
}
