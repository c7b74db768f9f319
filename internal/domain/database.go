// File: internal/domain/database.go
package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Database is a user-registered external MySQL database. The stored schema
// text is the compact rendering used as grounding context for NL-to-SQL
// translation. At most one record per user carries IsConnected at a time;
// the connection manager enforces that, not the store.
type Database struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID `bson:"user_id" json:"user"`
	DBName      string        `bson:"db_name" json:"dbName"`
	Host        string        `bson:"host" json:"host"`
	Port        int           `bson:"port" json:"port"`
	Username    string        `bson:"username" json:"username"`
	Password    string        `bson:"password" json:"-"`
	Schema      string        `bson:"schema" json:"schema"`
	IsConnected bool          `bson:"is_connected" json:"isConnected"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

func (d *Database) IsValid() error {
	if d.DBName == "" {
		return errors.New("database name is required")
	}
	if d.Host == "" {
		return errors.New("host is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if d.Username == "" {
		return errors.New("username is required")
	}
	return nil
}
