// File: internal/services/chat_service_test.go
package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
	"github.com/voxai/voxai-sql/internal/services/assistant"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

type chatFixture struct {
	svc          *ChatService
	chats        *fakeChatRepo
	databases    *fakeDatabaseRepo
	translations *fakeTranslationRepo
	titles       *fakeTitleProvider
	translator   *fakeTranslator
	executor     *fakeExecutor
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		chats:        newFakeChatRepo(),
		databases:    newFakeDatabaseRepo(),
		translations: &fakeTranslationRepo{},
		titles:       &fakeTitleProvider{title: "Generated Title"},
		translator:   &fakeTranslator{sql: "SELECT * FROM users"},
		executor: &fakeExecutor{result: &dbconn.QueryResult{
			Columns: []string{"id"},
			Rows:    []map[string]any{{"id": int64(1)}, {"id": int64(2)}},
		}},
	}
	svc, err := NewChatService(
		f.chats, f.databases, f.translations,
		f.titles, f.translator,
		assistant.NewResponderWithSource(rand.NewSource(1)),
		f.executor, &NoOpLogger{},
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *chatFixture) seedConnectedDatabase(t *testing.T, userID bson.ObjectID, schema string) *domain.Database {
	t.Helper()
	record, err := f.databases.Create(context.Background(), &domain.Database{
		UserID:   userID,
		DBName:   "shop",
		Host:     "db.example.com",
		Port:     3306,
		Username: "reader",
	})
	require.NoError(t, err)
	require.NoError(t, f.databases.SetConnected(context.Background(), record.ID, schema))
	record.IsConnected = true
	record.Schema = schema
	return record
}

func TestCreateChatGeneratesTitleFromSeedMessage(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()

	chat, err := f.svc.CreateChat(context.Background(), userID, []IncomingMessage{
		{Text: "show me all customers", Sender: domain.SenderUser},
	})
	require.NoError(t, err)
	assert.Equal(t, "Generated Title", chat.Title)
	assert.Len(t, chat.Messages, 1)
	assert.Equal(t, 1, f.titles.calls)
}

func TestCreateChatWithoutMessagesKeepsPlaceholder(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.svc.CreateChat(context.Background(), bson.NewObjectID(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderTitle, chat.Title)
	assert.Equal(t, 0, f.titles.calls)
}

func TestCreateChatSwallowsTitleFailure(t *testing.T) {
	f := newChatFixture(t)
	f.titles.err = errBoom

	chat, err := f.svc.CreateChat(context.Background(), bson.NewObjectID(), []IncomingMessage{
		{Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderTitle, chat.Title)
}

func TestAddMessageConversationalPath(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	result, err := f.svc.AddMessage(context.Background(), userID, chat.ID, "hello there")
	require.NoError(t, err)

	assert.Equal(t, assistant.CategoryGreeting, result.AICategory)
	assert.Equal(t, assistant.ModelName, result.AIModel)
	assert.NotEmpty(t, result.AIResponse)
	assert.Empty(t, result.GeneratedSQL)

	stored, err := f.chats.FindByID(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, domain.SenderUser, stored.Messages[0].Sender)
	assert.True(t, stored.Messages[1].IsAIResponse)
	assert.Equal(t, string(assistant.CategoryGreeting), stored.Messages[1].AICategory)
}

func TestAddMessageSQLPath(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "users(id, name)")
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	result, err := f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: list all users")
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users", result.GeneratedSQL)
	assert.Len(t, result.QueryResults, 2)
	assert.Equal(t, "list all users", f.translator.gotQuestion)
	assert.Equal(t, "users(id, name)", f.translator.gotSchema)
	assert.Equal(t, "SELECT * FROM users", f.executor.gotQuery)

	stored, err := f.chats.FindByID(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 3)
	assert.Equal(t, "SELECT * FROM users", stored.Messages[1].Text)
	assert.True(t, stored.Messages[2].IsQueryResult)
	assert.Equal(t, "Query executed successfully. Showing 2 results.", stored.Messages[2].Text)

	// Conversion records are persisted alongside the transcript.
	require.Len(t, f.translations.saved, 1)
	assert.Equal(t, "list all users", f.translations.saved[0].InputText)
}

func TestAddMessageSQLPathWithoutConnectedDatabase(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: list all users")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeNoActiveDatabase, svcErr.Type)

	// The user message survives even though the request failed.
	stored, err := f.chats.FindByID(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, domain.SenderUser, stored.Messages[0].Sender)
}

func TestAddMessageSQLPathMissingSchema(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "")
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: anything")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeMissingSchema, svcErr.Type)
}

func TestAddMessageTranslatorFailureLeavesUserMessage(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "users(id)")
	f.translator.err = errBoom
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: anything")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeUpstream, svcErr.Type)

	stored, _ := f.chats.FindByID(context.Background(), chat.ID)
	assert.Len(t, stored.Messages, 1)
}

func TestAddMessageExecutionFailureKeepsSQLMessage(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "users(id)")
	f.executor.err = errors.New("syntax error")
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: anything")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeExecution, svcErr.Type)

	// User message and generated SQL are already committed.
	stored, _ := f.chats.FindByID(context.Background(), chat.ID)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, "SELECT * FROM users", stored.Messages[1].Text)
}

func TestAddMessageExecutionConnErrorCarriesReason(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "users(id)")
	f.executor.err = &dbconn.ConnError{
		Reason:  dbconn.ReasonTransportLost,
		Message: "connection to the database was lost",
	}
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: anything")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeConnection, svcErr.Type)
	assert.Equal(t, string(dbconn.ReasonTransportLost), svcErr.Reason)
}

func TestAddMessageTranslationRecordFailureDoesNotFailRequest(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.seedConnectedDatabase(t, userID, "users(id)")
	f.translations.createErr = errBoom
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	result, err := f.svc.AddMessage(context.Background(), userID, chat.ID, "generate sql: anything")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users", result.GeneratedSQL)
}

func TestAddMessageFirstUserMessageTriggersTitle(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)
	require.Equal(t, 0, f.titles.calls)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, f.titles.calls)

	stored, _ := f.chats.FindByID(context.Background(), chat.ID)
	assert.Equal(t, "Generated Title", stored.Title)

	// A second message must not regenerate.
	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "how are you")
	require.NoError(t, err)
	assert.Equal(t, 1, f.titles.calls)
}

func TestAddMessageReplyCategoryFollowsIncomingText(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	result, err := f.svc.AddMessage(context.Background(), userID, chat.ID, "tell me about sql please")
	require.NoError(t, err)
	assert.Equal(t, assistant.CategorySQLHelp, result.AICategory)

	// The earlier SQL exchange must not color an unrelated follow-up; the
	// category is decided by the message being answered.
	result, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "xyzzy plugh")
	require.NoError(t, err)
	assert.Equal(t, assistant.CategoryFallback, result.AICategory)
}

func TestAddMessageFallbackPromotionSeesIncomingText(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	// First message in an empty chat: the responder's window is just the
	// incoming text. "mydatabasez" falls through classification but still
	// counts as a database mention, so the reply is promoted.
	result, err := f.svc.AddMessage(context.Background(), userID, chat.ID, "tell me about mydatabasez")
	require.NoError(t, err)
	assert.Equal(t, assistant.CategorySQLHelp, result.AICategory)
}

type panickingResponder struct{}

func (panickingResponder) Respond(string, []assistant.ContextMessage) assistant.Reply {
	panic("responder exploded")
}

func TestAddMessageResponderPanicAppendsFallback(t *testing.T) {
	f := newChatFixture(t)
	svc, err := NewChatService(
		f.chats, f.databases, f.translations,
		f.titles, f.translator,
		panickingResponder{},
		f.executor, &NoOpLogger{},
	)
	require.NoError(t, err)
	userID := bson.NewObjectID()
	chat, err := svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	result, err := svc.AddMessage(context.Background(), userID, chat.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, assistant.UltimateFallbackText, result.AIResponse)
	assert.Equal(t, "ultimate_fallback", result.AIModel)

	stored, err := f.chats.FindByID(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	assert.True(t, stored.Messages[1].IsAIResponse)
	assert.Equal(t, assistant.UltimateFallbackText, stored.Messages[1].Text)
	assert.Equal(t, "ultimate_fallback", stored.Messages[1].AIModel)
}

func TestAddMessageRejectsForeignChat(t *testing.T) {
	f := newChatFixture(t)
	owner := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), owner, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), bson.NewObjectID(), chat.ID, "hello")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeNotFound, svcErr.Type)
}

func TestAddMessageRejectsEmptyText(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddMessage(context.Background(), userID, chat.ID, "")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeValidation, svcErr.Type)
}

func TestGetOrGenerateTitleIsIdempotentOnFailure(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	f.titles.err = errBoom
	chat, err := f.svc.CreateChat(context.Background(), userID, []IncomingMessage{
		{Text: "show revenue by month", Sender: domain.SenderUser},
	})
	require.NoError(t, err)

	// Each call retries generation but never persists the placeholder.
	title, err := f.svc.GetOrGenerateTitle(context.Background(), userID, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderTitle, title)

	f.titles.err = nil
	title, err = f.svc.GetOrGenerateTitle(context.Background(), userID, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Generated Title", title)

	// Once stored, further calls return without regenerating.
	before := f.titles.calls
	title, err = f.svc.GetOrGenerateTitle(context.Background(), userID, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Generated Title", title)
	assert.Equal(t, before, f.titles.calls)
}

func TestGetOrGenerateTitleWithoutUserMessage(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	_, err = f.svc.GetOrGenerateTitle(context.Background(), userID, chat.ID)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeValidation, svcErr.Type)
}

func TestUpdateTitleOverwrites(t *testing.T) {
	f := newChatFixture(t)
	userID := bson.NewObjectID()
	chat, err := f.svc.CreateChat(context.Background(), userID, nil)
	require.NoError(t, err)

	updated, err := f.svc.UpdateTitle(context.Background(), userID, chat.ID, "Quarterly Numbers")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Numbers", updated.Title)

	stored, _ := f.chats.FindByID(context.Background(), chat.ID)
	assert.Equal(t, "Quarterly Numbers", stored.Title)
}
