package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/store"
)

// StartSessionRequest asks for a practice text in a language and game mode.
type StartSessionRequest struct {
	Language   domain.Language `json:"language" validate:"required,language" doc:"Language of the practice text"`
	GameModeID string          `json:"gameModeId" validate:"required,rid=gm" doc:"Game mode ID"`
	TextID     string          `json:"textId,omitempty" validate:"omitempty,rid=text" doc:"Specific text to practice"`
}

// SessionService starts typing sessions. Sessions are not persisted.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
	pick   func(n int) int
}

// NewSessionService creates a new session service.
func NewSessionService(store store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
		now:    time.Now,
		pick:   rand.IntN,
	}
}

// Start resolves the game mode and picks a text: the requested one, or a
// uniformly random text of the language.
func (s *SessionService) Start(ctx context.Context, req StartSessionRequest) (*domain.Session, error) {
	if lang, ok := domain.ParseLanguage(string(req.Language)); ok {
		req.Language = lang
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	mode, err := resolveGameMode(ctx, s.store, s.logger, req.GameModeID)
	if err != nil {
		return nil, err
	}

	text, err := s.selectText(ctx, req.Language, req.TextID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		SessionID: id.NewSessionID(),
		Text:      *text,
		GameMode:  *mode,
		StartedAt: s.now(),
	}
	if d, ok := mode.EstimatedDuration(); ok {
		session.EstimatedDuration = &d
	}
	if w, ok := mode.TargetWords(); ok {
		session.TargetWords = &w
	}

	s.logger.Debug("session started",
		"session_id", session.SessionID,
		"text_id", text.ID,
		"game_mode", mode.ID,
	)
	return session, nil
}

func (s *SessionService) selectText(ctx context.Context, lang domain.Language, textID string) (*domain.Text, error) {
	if textID != "" {
		text, err := s.store.GetText(ctx, textID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && text.Language != lang) {
			return nil, domainerrors.NotFoundf("text %q not found for language %s", textID, lang)
		}
		if err != nil {
			return nil, s.internal("load text", err)
		}
		return text, nil
	}

	ids, err := s.store.ListTextIDs(ctx, lang)
	if err != nil {
		return nil, s.internal("list texts", err)
	}
	if len(ids) == 0 {
		return nil, domainerrors.NotFoundf("no texts available for language %s", lang)
	}

	text, err := s.store.GetText(ctx, ids[s.pick(len(ids))])
	if err != nil {
		return nil, s.internal("load text", err)
	}
	return text, nil
}

func (s *SessionService) internal(op string, err error) error {
	s.logger.Error("session "+op+" failed", "error", err)
	return domainerrors.Internal(err)
}
