package service

import (
	"context"
	"time"

	"github.com/tieubaoca/line-assistant-be/repository"
	"github.com/tieubaoca/line-assistant-be/types"
)

// SessionService is the per-conversation AI/Human mode store. A conversation
// without a record is in AI mode; reads never create records, only SetMode
// does. Mode only ever changes through an explicit operator action.
type SessionService interface {
	GetMode(ctx context.Context, lineUserID string) (types.Mode, error)
	SetMode(ctx context.Context, lineUserID string, mode types.Mode) error
	Toggle(ctx context.Context, lineUserID string) (types.Mode, error)
	ListHumanSessions(ctx context.Context) ([]*types.ChatSession, error)
}

type sessionService struct {
	repo repository.SessionRepo
	now  func() time.Time
}

func NewSessionService(repo repository.SessionRepo) SessionService {
	return &sessionService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *sessionService) GetMode(ctx context.Context, lineUserID string) (types.Mode, error) {
	session, err := s.repo.FindByUserID(ctx, lineUserID)
	if err != nil {
		return types.ModeAI, err
	}
	if session == nil {
		return types.ModeAI, nil
	}
	return session.Mode, nil
}

func (s *sessionService) SetMode(ctx context.Context, lineUserID string, mode types.Mode) error {
	return s.repo.Upsert(ctx, &types.ChatSession{
		LineUserID: lineUserID,
		Mode:       mode,
		LastActive: s.now().Unix(),
	})
}

func (s *sessionService) Toggle(ctx context.Context, lineUserID string) (types.Mode, error) {
	current, err := s.GetMode(ctx, lineUserID)
	if err != nil {
		return "", err
	}
	next := types.ModeHuman
	if current == types.ModeHuman {
		next = types.ModeAI
	}
	if err := s.SetMode(ctx, lineUserID, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *sessionService) ListHumanSessions(ctx context.Context) ([]*types.ChatSession, error) {
	return s.repo.ListByMode(ctx, types.ModeHuman)
}
