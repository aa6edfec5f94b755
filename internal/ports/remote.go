package ports

import (
	"context"

	"helpbot/internal/domain"
)

// RemoteSource is the read-only view of the board that owns the knowledge base.
// Errors wrap domain.ErrRemoteUnreachable or domain.ErrRemoteMalformed.
// Implementations do not retry.
type RemoteSource interface {
	ListBoardLists(ctx context.Context, boardID string) ([]domain.RemoteList, error)
	ListCards(ctx context.Context, listID string) ([]domain.RemoteCard, error)
	GetCard(ctx context.Context, cardID string) (domain.RemoteCard, error)
}
