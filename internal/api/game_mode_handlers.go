package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/typerank/typerank-server/internal/domain"
)

func (s *Server) registerGameModeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGameModes",
		Method:      http.MethodGet,
		Path:        "/api/v1/game-modes",
		Summary:     "List game modes",
		Description: "Returns every game mode ordered by type and value",
		Tags:        []string{"Game Modes"},
	}, s.handleListGameModes)
}

// ListGameModesOutput wraps the game mode list for Huma.
type ListGameModesOutput struct {
	Body []domain.GameMode
}

func (s *Server) handleListGameModes(ctx context.Context, _ *struct{}) (*ListGameModesOutput, error) {
	modes, err := s.services.GameMode.List(ctx)
	if err != nil {
		return nil, err
	}
	if modes == nil {
		modes = []domain.GameMode{}
	}
	return &ListGameModesOutput{Body: modes}, nil
}
