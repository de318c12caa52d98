package application

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Actor is the resolved principal attached to every request. The service
// never authenticates; it only authorizes using the role and the caller's
// reputation-derived tiers.
type Actor struct {
	SubjectID uuid.UUID
	Role      string
}

func (a Actor) isStaff() bool {
	return a.Role == RoleModerator || a.Role == RoleAdmin
}

type Config struct {
	ServiceName       string
	SpamAutoThreshold float64
	SpamCheckTimeout  time.Duration
	StatsCacheTTL     time.Duration
	DefaultPageSize   int
}

type Service struct {
	cfg        Config
	logger     *slog.Logger
	reputation ports.ReputationRepository
	users      ports.UserRepository
	contents   ports.ContentRepository
	badges     ports.BadgeRepository
	flags      ports.FlagRepository
	actions    ports.ActionRepository
	appeals    ports.AppealRepository
	outbox     ports.OutboxRepository
	spam       ports.SpamChecker
	cache      ports.Cache
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Logger     *slog.Logger
	Reputation ports.ReputationRepository
	Users      ports.UserRepository
	Contents   ports.ContentRepository
	Badges     ports.BadgeRepository
	Flags      ports.FlagRepository
	Actions    ports.ActionRepository
	Appeals    ports.AppealRepository
	Outbox     ports.OutboxRepository
	Spam       ports.SpamChecker
	Cache      ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "trust-service"
	}
	if cfg.SpamAutoThreshold <= 0 {
		cfg.SpamAutoThreshold = 0.85
	}
	if cfg.SpamCheckTimeout <= 0 {
		cfg.SpamCheckTimeout = 3 * time.Second
	}
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = time.Minute
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		reputation: deps.Reputation,
		users:      deps.Users,
		contents:   deps.Contents,
		badges:     deps.Badges,
		flags:      deps.Flags,
		actions:    deps.Actions,
		appeals:    deps.Appeals,
		outbox:     deps.Outbox,
		spam:       deps.Spam,
		cache:      deps.Cache,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
