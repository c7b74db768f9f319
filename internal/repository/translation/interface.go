package translation

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
)

// TranslationRepository persists NL-to-SQL conversion records.
type TranslationRepository interface {
	Create(ctx context.Context, t *domain.SQLTranslation) (*domain.SQLTranslation, error)
	FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.SQLTranslation, error)
}
