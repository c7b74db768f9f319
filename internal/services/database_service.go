// File: internal/services/database_service.go
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
	dbrepo "github.com/voxai/voxai-sql/internal/repository/database"
	userrepo "github.com/voxai/voxai-sql/internal/repository/user"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

// DatabaseService manages a user's registered external databases and the
// single live connection slot. Connecting a database disconnects every other
// record the user owns first, so at most one record per user carries the
// connected flag at any time.
type DatabaseService struct {
	databases dbrepo.DatabaseRepository
	users     userrepo.UserRepository
	manager   *dbconn.Manager
	logger    Logger
}

func NewDatabaseService(databases dbrepo.DatabaseRepository, users userrepo.UserRepository, manager *dbconn.Manager, logger Logger) (*DatabaseService, error) {
	if databases == nil || users == nil || manager == nil {
		return nil, errors.New("database service requires repositories and a connection manager")
	}
	return &DatabaseService{databases: databases, users: users, manager: manager, logger: logger}, nil
}

// AddDatabase verifies the credentials with a throwaway connection,
// introspects the schema, and stores the registration with it. The live
// slot is untouched until Connect.
func (s *DatabaseService) AddDatabase(ctx context.Context, userID bson.ObjectID, record *domain.Database) (*domain.Database, error) {
	record.UserID = userID
	if err := record.IsValid(); err != nil {
		return nil, NewValidationError("add_database", err.Error())
	}

	schema, err := s.manager.TestConnection(ctx, record)
	if err != nil {
		return nil, err
	}
	record.Schema = schema

	created, err := s.databases.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddDatabaseRef(ctx, userID, created.ID); err != nil {
		s.logger.Warn("failed to link database to user record",
			"user_id", userID.Hex(), "database_id", created.ID.Hex(), "error", err.Error())
	}
	return created, nil
}

// GetUserDatabases lists the user's registrations. Passwords never leave the
// service; the domain type hides them from JSON.
func (s *DatabaseService) GetUserDatabases(ctx context.Context, userID bson.ObjectID) ([]domain.Database, error) {
	return s.databases.FindByUserID(ctx, userID)
}

// GetActiveDatabase returns the user's currently connected record.
func (s *DatabaseService) GetActiveDatabase(ctx context.Context, userID bson.ObjectID) (*domain.Database, error) {
	record, err := s.databases.FindConnectedByUserID(ctx, userID)
	if errors.Is(err, dbrepo.ErrNoConnectedDatabase) {
		return nil, NewNoActiveDatabaseError("get_active_database")
	}
	return record, err
}

// Connect opens a live connection to the registered database, introspects
// its schema, and marks the record connected. Any previously connected
// record for the same user is flipped off first.
func (s *DatabaseService) Connect(ctx context.Context, userID, databaseID bson.ObjectID) (*domain.Database, error) {
	record, err := s.ownedRecord(ctx, userID, databaseID)
	if err != nil {
		return nil, err
	}

	if err := s.manager.Connect(ctx, record); err != nil {
		return nil, err
	}

	schema, err := s.manager.IntrospectActive(ctx)
	if err != nil {
		s.logger.Warn("schema introspection failed after connect",
			"database_id", record.ID.Hex(), "error", err.Error())
		schema = ""
	}

	if err := s.databases.DisconnectAllForUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.databases.SetConnected(ctx, record.ID, schema); err != nil {
		return nil, err
	}

	record.IsConnected = true
	record.Schema = schema
	return record, nil
}

// Disconnect closes the live connection and clears the connected flag.
// Disconnecting an already-disconnected record succeeds.
func (s *DatabaseService) Disconnect(ctx context.Context, userID, databaseID bson.ObjectID) error {
	record, err := s.ownedRecord(ctx, userID, databaseID)
	if err != nil {
		return err
	}

	if active := s.manager.ActiveRecord(); active != nil && active.ID == record.ID {
		s.manager.Disconnect()
	}
	return s.databases.SetDisconnected(ctx, record.ID)
}

// UpdateDatabase replaces the stored registration details. A connected
// record is disconnected first since its credentials may no longer match.
func (s *DatabaseService) UpdateDatabase(ctx context.Context, userID, databaseID bson.ObjectID, update *domain.Database) (*domain.Database, error) {
	record, err := s.ownedRecord(ctx, userID, databaseID)
	if err != nil {
		return nil, err
	}

	update.ID = record.ID
	update.UserID = userID
	if err := update.IsValid(); err != nil {
		return nil, NewValidationError("update_database", err.Error())
	}

	if record.IsConnected {
		if active := s.manager.ActiveRecord(); active != nil && active.ID == record.ID {
			s.manager.Disconnect()
		}
		if err := s.databases.SetDisconnected(ctx, record.ID); err != nil {
			return nil, err
		}
	}

	if err := s.databases.Update(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

// DeleteDatabase removes a registration, closing the live connection if it
// belongs to the deleted record.
func (s *DatabaseService) DeleteDatabase(ctx context.Context, userID, databaseID bson.ObjectID) error {
	record, err := s.ownedRecord(ctx, userID, databaseID)
	if err != nil {
		return err
	}

	if active := s.manager.ActiveRecord(); active != nil && active.ID == record.ID {
		s.manager.Disconnect()
	}
	return s.databases.Delete(ctx, record.ID)
}

// ExecuteQuery runs an ad-hoc SQL string against one of the user's
// registered databases.
func (s *DatabaseService) ExecuteQuery(ctx context.Context, userID, databaseID bson.ObjectID, query string) (*dbconn.QueryResult, error) {
	if query == "" {
		return nil, NewValidationError("execute_query", "query is required")
	}
	record, err := s.ownedRecord(ctx, userID, databaseID)
	if err != nil {
		return nil, err
	}
	return s.ExecuteForRecord(ctx, record, query)
}

// ExecuteForRecord satisfies QueryExecutor. The manager holds one live slot
// for the whole process; when the slot currently belongs to a different
// record the manager reconnects to the requested one before executing, so a
// user's query never runs against another user's database.
func (s *DatabaseService) ExecuteForRecord(ctx context.Context, record *domain.Database, query string) (*dbconn.QueryResult, error) {
	active := s.manager.ActiveRecord()
	if active == nil || active.ID != record.ID {
		if err := s.manager.Connect(ctx, record); err != nil {
			return nil, err
		}
	}
	return s.manager.Execute(ctx, query)
}

func (s *DatabaseService) ownedRecord(ctx context.Context, userID, databaseID bson.ObjectID) (*domain.Database, error) {
	record, err := s.databases.FindByID(ctx, databaseID)
	if errors.Is(err, dbrepo.ErrDatabaseNotFound) {
		return nil, NewNotFoundError("load_database", "Database not found")
	}
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, NewNotFoundError("load_database", "Database not found")
	}
	return record, nil
}
