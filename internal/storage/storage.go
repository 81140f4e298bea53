package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

// Storage persists game states.
type Storage interface {
	SaveGameState(ctx context.Context, id uuid.UUID, gs *gamestate.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*gamestate.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}
