package service

import (
	"context"
	"log/slog"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/store"
)

// PersonalBestTracker decides whether an attempt is its owner's best for its
// game mode and language.
//
// An attempt holds a personal best for a metric when no other attempt by the
// same user in the same (game mode, language) has a greater value and none
// reached the same value earlier. Equal values are ordered by created_at, then
// by id, so exactly one attempt holds each best. For a freshly stored attempt
// this reads as: no prior attempts, or a value above every prior one.
type PersonalBestTracker struct {
	store  store.Store
	logger *slog.Logger
}

// NewPersonalBestTracker creates a new personal best tracker.
func NewPersonalBestTracker(store store.Store, logger *slog.Logger) *PersonalBestTracker {
	return &PersonalBestTracker{store: store, logger: logger}
}

// IsBest reports whether the attempt holds the owner's best for metric.
// Guest attempts are never personal bests.
func (t *PersonalBestTracker) IsBest(ctx context.Context, a *domain.Attempt, metric domain.Metric) (bool, error) {
	if a.IsGuest() {
		return false, nil
	}

	better, err := t.store.CountBetterAttempts(ctx, store.PersonalBestQuery{
		AttemptID:  a.ID,
		UserID:     a.UserID,
		GameModeID: a.GameModeID,
		Language:   a.Language,
		Metric:     metric,
		Value:      metric.Of(a),
		CreatedAt:  a.CreatedAt,
	})
	if err != nil {
		t.logger.Error("personal best lookup failed", "attempt_id", a.ID, "metric", metric, "error", err)
		return false, domainerrors.Internal(err)
	}
	return better == 0, nil
}

// Flags evaluates both ranked metrics for the attempt.
func (t *PersonalBestTracker) Flags(ctx context.Context, a *domain.Attempt) (domain.PersonalBestFlags, error) {
	var flags domain.PersonalBestFlags
	if a.IsGuest() {
		return flags, nil
	}

	var err error
	if flags.WPM, err = t.IsBest(ctx, a, domain.MetricWPM); err != nil {
		return domain.PersonalBestFlags{}, err
	}
	if flags.Accuracy, err = t.IsBest(ctx, a, domain.MetricAccuracy); err != nil {
		return domain.PersonalBestFlags{}, err
	}
	return flags, nil
}
