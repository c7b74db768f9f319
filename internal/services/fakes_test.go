// File: internal/services/fakes_test.go
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/domain"
	chatrepo "github.com/voxai/voxai-sql/internal/repository/chat"
	dbrepo "github.com/voxai/voxai-sql/internal/repository/database"
	userrepo "github.com/voxai/voxai-sql/internal/repository/user"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

// In-memory repository fakes. They implement just enough behavior for the
// service tests; error injection happens through the *_Err fields.

type fakeChatRepo struct {
	chats     map[bson.ObjectID]*domain.Chat
	appendErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[bson.ObjectID]*domain.Chat)}
}

func (f *fakeChatRepo) Create(_ context.Context, chat *domain.Chat) (*domain.Chat, error) {
	chat.ID = bson.NewObjectID()
	stored := *chat
	f.chats[chat.ID] = &stored
	return chat, nil
}

func (f *fakeChatRepo) FindByID(_ context.Context, id bson.ObjectID) (*domain.Chat, error) {
	stored, ok := f.chats[id]
	if !ok {
		return nil, chatrepo.ErrChatNotFound
	}
	cp := *stored
	cp.Messages = append([]domain.Message(nil), stored.Messages...)
	return &cp, nil
}

func (f *fakeChatRepo) FindByUserID(_ context.Context, userID bson.ObjectID) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) AppendMessage(_ context.Context, chatID bson.ObjectID, msg domain.Message) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	stored, ok := f.chats[chatID]
	if !ok {
		return chatrepo.ErrChatNotFound
	}
	stored.Messages = append(stored.Messages, msg)
	return nil
}

func (f *fakeChatRepo) UpdateTitle(_ context.Context, chatID bson.ObjectID, title string) error {
	stored, ok := f.chats[chatID]
	if !ok {
		return chatrepo.ErrChatNotFound
	}
	stored.Title = title
	return nil
}

type fakeDatabaseRepo struct {
	records map[bson.ObjectID]*domain.Database
}

func newFakeDatabaseRepo() *fakeDatabaseRepo {
	return &fakeDatabaseRepo{records: make(map[bson.ObjectID]*domain.Database)}
}

func (f *fakeDatabaseRepo) Create(_ context.Context, db *domain.Database) (*domain.Database, error) {
	db.ID = bson.NewObjectID()
	stored := *db
	f.records[db.ID] = &stored
	return db, nil
}

func (f *fakeDatabaseRepo) FindByID(_ context.Context, id bson.ObjectID) (*domain.Database, error) {
	stored, ok := f.records[id]
	if !ok {
		return nil, dbrepo.ErrDatabaseNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeDatabaseRepo) FindByUserID(_ context.Context, userID bson.ObjectID) ([]domain.Database, error) {
	var out []domain.Database
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeDatabaseRepo) FindConnectedByUserID(_ context.Context, userID bson.ObjectID) (*domain.Database, error) {
	for _, r := range f.records {
		if r.UserID == userID && r.IsConnected {
			cp := *r
			return &cp, nil
		}
	}
	return nil, dbrepo.ErrNoConnectedDatabase
}

func (f *fakeDatabaseRepo) DisconnectAllForUser(_ context.Context, userID bson.ObjectID) error {
	for _, r := range f.records {
		if r.UserID == userID {
			r.IsConnected = false
		}
	}
	return nil
}

func (f *fakeDatabaseRepo) SetConnected(_ context.Context, id bson.ObjectID, schema string) error {
	stored, ok := f.records[id]
	if !ok {
		return dbrepo.ErrDatabaseNotFound
	}
	stored.IsConnected = true
	stored.Schema = schema
	return nil
}

func (f *fakeDatabaseRepo) SetDisconnected(_ context.Context, id bson.ObjectID) error {
	stored, ok := f.records[id]
	if !ok {
		return dbrepo.ErrDatabaseNotFound
	}
	stored.IsConnected = false
	return nil
}

func (f *fakeDatabaseRepo) Update(_ context.Context, db *domain.Database) error {
	if _, ok := f.records[db.ID]; !ok {
		return dbrepo.ErrDatabaseNotFound
	}
	stored := *db
	f.records[db.ID] = &stored
	return nil
}

func (f *fakeDatabaseRepo) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := f.records[id]; !ok {
		return dbrepo.ErrDatabaseNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeTranslationRepo struct {
	saved     []domain.SQLTranslation
	createErr error
}

func (f *fakeTranslationRepo) Create(_ context.Context, t *domain.SQLTranslation) (*domain.SQLTranslation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	t.ID = bson.NewObjectID()
	f.saved = append(f.saved, *t)
	return t, nil
}

func (f *fakeTranslationRepo) FindByUserID(_ context.Context, userID bson.ObjectID) ([]domain.SQLTranslation, error) {
	var out []domain.SQLTranslation
	for _, t := range f.saved {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[bson.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[bson.ObjectID]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	user.ID = bson.NewObjectID()
	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id bson.ObjectID) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userrepo.ErrUserNotFound
}

func (f *fakeUserRepo) AddDatabaseRef(_ context.Context, userID, databaseID bson.ObjectID) error {
	stored, ok := f.users[userID]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	stored.Databases = append(stored.Databases, databaseID)
	return nil
}

// Collaborator fakes.

type fakeTitleProvider struct {
	title string
	err   error
	calls int
}

func (f *fakeTitleProvider) GenerateTitle(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.title, nil
}

type fakeTranslator struct {
	sql         string
	err         error
	gotQuestion string
	gotSchema   string
}

func (f *fakeTranslator) TranslateToSQL(_ context.Context, question, schema string) (string, error) {
	f.gotQuestion = question
	f.gotSchema = schema
	if f.err != nil {
		return "", f.err
	}
	return f.sql, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

type fakeExecutor struct {
	result    *dbconn.QueryResult
	err       error
	gotQuery  string
	gotRecord *domain.Database
}

func (f *fakeExecutor) ExecuteForRecord(_ context.Context, record *domain.Database, query string) (*dbconn.QueryResult, error) {
	f.gotRecord = record
	f.gotQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errBoom = errors.New("boom")
