package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/voxai/voxai-sql/internal/domain"
)

type mongoTranslationRepository struct {
	collection *mongo.Collection
}

func NewTranslationRepository(db *mongo.Database) TranslationRepository {
	return &mongoTranslationRepository{collection: db.Collection("sql_translations")}
}

func (r *mongoTranslationRepository) Create(ctx context.Context, t *domain.SQLTranslation) (*domain.SQLTranslation, error) {
	if t.UserID.IsZero() {
		return nil, errors.New("invalid user ID")
	}
	if t.InputText == "" || t.SQLQuery == "" {
		return nil, errors.New("input text and SQL query are required")
	}

	t.ID = bson.NewObjectID()
	t.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("database error saving translation: %w", err)
	}
	return t, nil
}

func (r *mongoTranslationRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.SQLTranslation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("database error fetching translations: %w", err)
	}
	defer cursor.Close(ctx)

	translations := []domain.SQLTranslation{}
	if err := cursor.All(ctx, &translations); err != nil {
		return nil, fmt.Errorf("database error decoding translations: %w", err)
	}
	return translations, nil
}
