package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/voxai/voxai-sql/internal/domain"
)

var ErrDatabaseNotFound = errors.New("database not found")

// ErrNoConnectedDatabase is returned when the user has no record with the
// connected flag set.
var ErrNoConnectedDatabase = errors.New("no active database connected")

type mongoDatabaseRepository struct {
	collection *mongo.Collection
}

func NewDatabaseRepository(db *mongo.Database) DatabaseRepository {
	return &mongoDatabaseRepository{collection: db.Collection("databases")}
}

func (r *mongoDatabaseRepository) Create(ctx context.Context, record *domain.Database) (*domain.Database, error) {
	if err := record.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if record.UserID.IsZero() {
		return nil, errors.New("invalid user ID")
	}

	now := time.Now().UTC()
	record.ID = bson.NewObjectID()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return nil, fmt.Errorf("database error creating record: %w", err)
	}
	return record, nil
}

func (r *mongoDatabaseRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Database, error) {
	var record domain.Database
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDatabaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error fetching record: %w", err)
	}
	return &record, nil
}

func (r *mongoDatabaseRepository) FindByUserID(ctx context.Context, userID bson.ObjectID) ([]domain.Database, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("database error fetching records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.Database{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("database error decoding records: %w", err)
	}
	return records, nil
}

func (r *mongoDatabaseRepository) FindConnectedByUserID(ctx context.Context, userID bson.ObjectID) (*domain.Database, error) {
	var record domain.Database
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "is_connected": true}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoConnectedDatabase
	}
	if err != nil {
		return nil, fmt.Errorf("database error fetching connected record: %w", err)
	}
	return &record, nil
}

func (r *mongoDatabaseRepository) DisconnectAllForUser(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_connected": false}})
	if err != nil {
		return fmt.Errorf("database error clearing connected flags: %w", err)
	}
	return nil
}

func (r *mongoDatabaseRepository) SetConnected(ctx context.Context, id bson.ObjectID, schema string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"is_connected": true,
			"schema":       schema,
			"updated_at":   time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("database error marking record connected: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDatabaseNotFound
	}
	return nil
}

func (r *mongoDatabaseRepository) SetDisconnected(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_connected": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("database error marking record disconnected: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDatabaseNotFound
	}
	return nil
}

func (r *mongoDatabaseRepository) Update(ctx context.Context, record *domain.Database) error {
	if err := record.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{
			"db_name":    record.DBName,
			"host":       record.Host,
			"port":       record.Port,
			"username":   record.Username,
			"password":   record.Password,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("database error updating record: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDatabaseNotFound
	}
	return nil
}

func (r *mongoDatabaseRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("database error deleting record: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrDatabaseNotFound
	}
	return nil
}
