package user

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
)

// UserRepository handles user account documents.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	AddDatabaseRef(ctx context.Context, userID, databaseID bson.ObjectID) error
}
