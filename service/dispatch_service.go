package service

import (
	"context"

	"github.com/tieubaoca/line-assistant-be/types"
	"go.uber.org/zap"
)

// OperatorNotifier pushes Human-mode inbound messages to whoever is watching
// the operator queue.
type OperatorNotifier interface {
	NotifyInbound(lineUserID, text string)
}

// DispatchService routes one inbound text message. A nil reply with a nil
// error means the conversation is in Human mode and no automated answer must
// be sent.
type DispatchService interface {
	Handle(ctx context.Context, lineUserID, text string) (*types.Reply, error)
}

type dispatchService struct {
	sessions  SessionService
	knowledge KnowledgeService
	generator GenerateService
	notifier  OperatorNotifier
}

func NewDispatchService(
	sessions SessionService,
	knowledge KnowledgeService,
	generator GenerateService,
	notifier OperatorNotifier,
) DispatchService {
	return &dispatchService{
		sessions:  sessions,
		knowledge: knowledge,
		generator: generator,
		notifier:  notifier,
	}
}

func (s *dispatchService) Handle(ctx context.Context, lineUserID, text string) (*types.Reply, error) {
	mode, err := s.sessions.GetMode(ctx, lineUserID)
	if err != nil {
		// Failing open keeps the bot answering when the session store is
		// unreachable; dropping messages silently would be worse.
		zap.L().Warn("mode lookup failed, treating as AI",
			zap.String("line_user_id", lineUserID),
			zap.Error(err))
		mode = types.ModeAI
	}

	if mode == types.ModeHuman {
		if s.notifier != nil {
			s.notifier.NotifyInbound(lineUserID, text)
		}
		return nil, nil
	}

	knowledgeContext := ""
	snapshot, err := s.knowledge.Snapshot(ctx)
	if err != nil {
		zap.L().Error("knowledge snapshot failed", zap.Error(err))
	} else {
		knowledgeContext = snapshot.CombinedContext
	}

	result := s.generator.Generate(ctx, text, knowledgeContext)

	return &types.Reply{
		Text:     result.Text,
		Provider: result.Provider,
		Model:    result.Model,
	}, nil
}
