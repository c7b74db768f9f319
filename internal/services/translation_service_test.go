// File: internal/services/translation_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
)

type translationFixture struct {
	svc          *TranslationService
	databases    *fakeDatabaseRepo
	translations *fakeTranslationRepo
	translator   *fakeTranslator
	transcriber  *fakeTranscriber
}

func newTranslationFixture(t *testing.T) *translationFixture {
	t.Helper()
	f := &translationFixture{
		databases:    newFakeDatabaseRepo(),
		translations: &fakeTranslationRepo{},
		translator:   &fakeTranslator{sql: "SELECT COUNT(*) FROM orders"},
		transcriber:  &fakeTranscriber{text: "how many orders today"},
	}
	svc, err := NewTranslationService(f.translations, f.databases, f.translator, f.transcriber, &NoOpLogger{})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *translationFixture) seedConnected(t *testing.T, userID bson.ObjectID, schema string) {
	t.Helper()
	record, err := f.databases.Create(context.Background(), &domain.Database{
		UserID: userID, DBName: "shop", Host: "h", Port: 3306, Username: "u",
	})
	require.NoError(t, err)
	require.NoError(t, f.databases.SetConnected(context.Background(), record.ID, schema))
}

func TestTranslateUsesConnectedSchema(t *testing.T) {
	f := newTranslationFixture(t)
	userID := bson.NewObjectID()
	f.seedConnected(t, userID, "orders(id, total)")

	got, err := f.svc.Translate(context.Background(), userID, "how many orders")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM orders", got.SQLQuery)
	assert.Equal(t, "orders(id, total)", f.translator.gotSchema)
	require.Len(t, f.translations.saved, 1)
}

func TestTranslateWithoutConnectedDatabase(t *testing.T) {
	f := newTranslationFixture(t)

	_, err := f.svc.Translate(context.Background(), bson.NewObjectID(), "how many orders")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeNoActiveDatabase, svcErr.Type)
}

func TestTranslateSurvivesRecordSaveFailure(t *testing.T) {
	f := newTranslationFixture(t)
	userID := bson.NewObjectID()
	f.seedConnected(t, userID, "orders(id)")
	f.translations.createErr = errBoom

	got, err := f.svc.Translate(context.Background(), userID, "how many orders")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM orders", got.SQLQuery)
}

func TestTranscribeRejectsEmptyPayload(t *testing.T) {
	f := newTranslationFixture(t)

	_, err := f.svc.Transcribe(context.Background(), nil, "note.wav")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeValidation, svcErr.Type)
}

func TestTranscribeForwardsAudio(t *testing.T) {
	f := newTranslationFixture(t)

	text, err := f.svc.Transcribe(context.Background(), []byte{1, 2, 3}, "note.wav")
	require.NoError(t, err)
	assert.Equal(t, "how many orders today", text)
}
