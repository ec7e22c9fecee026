package inventory

import (
	"context"
	"time"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/alexjbarnes/inventory-sync/internal/state"
)

//go:generate mockgen -source=repository.go -destination=mock_inventory_test.go -package=inventory

// Repository performs remote CRUD against the article API and reads and
// writes the local snapshot.
type Repository interface {
	// FetchAll returns the server collection, or an empty list on error.
	FetchAll(ctx context.Context) []models.Article
	// FetchOne returns the current server version of one article.
	FetchOne(ctx context.Context, id int) (models.Article, error)
	// CheckConnection is a short reachability probe. It never fails.
	CheckConnection(ctx context.Context) bool
	Create(ctx context.Context, a models.Article) (int, []byte, error)
	Update(ctx context.Context, id int, a models.Article) (int, []byte, error)
	Delete(ctx context.Context, id int) (int, error)
	SaveLocalSnapshot(articles []models.Article) bool
	LoadLocalSnapshot() []models.Article
}

// ReconnectChoice is the user's answer when going online with local changes.
type ReconnectChoice int

const (
	ReconnectPush ReconnectChoice = iota
	ReconnectDiscard
	ReconnectReview
	ReconnectCancel
)

func (c ReconnectChoice) String() string {
	switch c {
	case ReconnectPush:
		return "push"
	case ReconnectDiscard:
		return "discard"
	case ReconnectReview:
		return "review"
	default:
		return "cancel"
	}
}

// ConflictChoice is the user's answer to a set of conflicts.
type ConflictChoice int

const (
	ConflictOverwrite ConflictChoice = iota
	ConflictAcceptServer
	ConflictCancel
)

func (c ConflictChoice) String() string {
	switch c {
	case ConflictOverwrite:
		return "overwrite"
	case ConflictAcceptServer:
		return "accept-server"
	default:
		return "cancel"
	}
}

// Prompter asks the user to decide. Implementations block until the user
// answers or ctx is done; a cancelled context should yield the cancel
// choice.
type Prompter interface {
	ChooseReconnect(ctx context.Context, pending int) ReconnectChoice
	ConfirmPush(ctx context.Context, report string) bool
	ResolveConflicts(ctx context.Context, report string) ConflictChoice
	ConfirmDelete(ctx context.Context, a models.Article) bool
}

// Journal persists the engine's session so offline work survives a
// restart. *state.State implements it.
type Journal interface {
	LoadSession() (state.Session, error)
	SaveSession(sess state.Session) error
	LastSync() time.Time
	SetLastSync(t time.Time) error
}
