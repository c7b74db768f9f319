// File: internal/services/translation_service.go
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
	dbrepo "github.com/voxai/voxai-sql/internal/repository/database"
	translationrepo "github.com/voxai/voxai-sql/internal/repository/translation"
	"github.com/voxai/voxai-sql/internal/services/ai"
)

// TranslationService backs the standalone text-to-sql endpoint: translate a
// natural-language question against the caller's connected database schema
// without touching any chat transcript.
type TranslationService struct {
	translations translationrepo.TranslationRepository
	databases    dbrepo.DatabaseRepository
	translator   ai.SQLTranslator
	transcriber  ai.Transcriber
	logger       Logger
}

func NewTranslationService(
	translations translationrepo.TranslationRepository,
	databases dbrepo.DatabaseRepository,
	translator ai.SQLTranslator,
	transcriber ai.Transcriber,
	logger Logger,
) (*TranslationService, error) {
	if translations == nil || databases == nil || translator == nil || transcriber == nil {
		return nil, errors.New("translation service requires all collaborators")
	}
	return &TranslationService{
		translations: translations,
		databases:    databases,
		translator:   translator,
		transcriber:  transcriber,
		logger:       logger,
	}, nil
}

// Translate converts a question to SQL using the caller's connected
// database schema and records the conversion.
func (s *TranslationService) Translate(ctx context.Context, userID bson.ObjectID, question string) (*domain.SQLTranslation, error) {
	if question == "" {
		return nil, NewValidationError("translate", "question is required")
	}

	record, err := s.databases.FindConnectedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNoConnectedDatabase) {
			return nil, NewNoActiveDatabaseError("translate")
		}
		return nil, err
	}
	if record.Schema == "" {
		return nil, NewMissingSchemaError("translate")
	}

	sqlQuery, err := s.translator.TranslateToSQL(ctx, question, record.Schema)
	if err != nil {
		return nil, NewUpstreamError("nl_to_sql", "Failed to generate SQL from the question.", err)
	}

	created, err := s.translations.Create(ctx, &domain.SQLTranslation{
		UserID:    userID,
		InputText: question,
		SQLQuery:  sqlQuery,
		Metadata:  map[string]string{"database": record.DBName},
	})
	if err != nil {
		s.logger.Warn("failed to save SQL translation record", "error", err.Error())
		return &domain.SQLTranslation{UserID: userID, InputText: question, SQLQuery: sqlQuery}, nil
	}
	return created, nil
}

// History returns the caller's past conversions.
func (s *TranslationService) History(ctx context.Context, userID bson.ObjectID) ([]domain.SQLTranslation, error) {
	return s.translations.FindByUserID(ctx, userID)
}

// Transcribe forwards an audio payload to the speech service and returns
// the recognized text.
func (s *TranslationService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", NewValidationError("transcribe", "audio payload is required")
	}
	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", NewUpstreamError("transcribe", "Failed to transcribe audio.", err)
	}
	return text, nil
}
