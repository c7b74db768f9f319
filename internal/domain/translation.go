// File: internal/domain/translation.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SQLTranslation records one NL-to-SQL conversion: the natural-language
// question a user asked and the SQL the translation service produced for it.
type SQLTranslation struct {
	ID        bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID     `bson:"user_id" json:"user"`
	InputText string            `bson:"input_text" json:"inputText"`
	SQLQuery  string            `bson:"sql_query" json:"sqlQuery"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
