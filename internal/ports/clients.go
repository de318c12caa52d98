package ports

import "context"

type SpamResult struct {
	IsSpam bool
	Score  float64
	Reason string
}

// SpamChecker is the external spam-heuristic gateway. Callers treat any error
// as "classifier unavailable, assume not spam"; the flag-creation path never
// fails because the gateway did.
type SpamChecker interface {
	CheckForSpam(ctx context.Context, text, targetType string) (SpamResult, error)
}

// EventPublisher pushes a drained outbox record to the broker. partitionKey
// is the subject user id; implementations must keep events with the same key
// ordered. Delivery is at-least-once, so consumers dedupe on the event id in
// the payload.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
