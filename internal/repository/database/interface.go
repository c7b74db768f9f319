package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
)

// DatabaseRepository handles registered-database records. The connected flag
// invariant (at most one connected record per user) is enforced by the
// service layer through DisconnectAllForUser before SetConnected.
type DatabaseRepository interface {
	Create(ctx context.Context, db *domain.Database) (*domain.Database, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Database, error)
	FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.Database, error)
	FindConnectedByUserID(ctx context.Context, userID bson.ObjectID) (*domain.Database, error)
	DisconnectAllForUser(ctx context.Context, userID bson.ObjectID) error
	SetConnected(ctx context.Context, id bson.ObjectID, schema string) error
	SetDisconnected(ctx context.Context, id bson.ObjectID) error
	Update(ctx context.Context, db *domain.Database) error
	Delete(ctx context.Context, id bson.ObjectID) error
}
