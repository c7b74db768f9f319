// File: internal/services/ai/http_provider_test.go
package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*HTTPProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewHTTPProvider(&Config{
		TitleBaseURL:      server.URL,
		NLToSQLBaseURL:    server.URL,
		TranscribeBaseURL: server.URL,
		Timeout:           5 * time.Second,
	})
	require.NoError(t, err)
	return provider, server
}

func TestGenerateTitle(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-title", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "show all users", in["text"])

		json.NewEncoder(w).Encode(map[string]string{"title": "User Listing"})
	})

	title, err := provider.GenerateTitle(context.Background(), "show all users")
	require.NoError(t, err)
	assert.Equal(t, "User Listing", title)
}

func TestGenerateTitleServerError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := provider.GenerateTitle(context.Background(), "anything")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeProvider, svcErr.Type)
	assert.Equal(t, http.StatusInternalServerError, svcErr.Code)
}

func TestTranslateToSQL(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nl-to-sql", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "show all users", in["question"])
		assert.Equal(t, "users(id, name)", in["schema"])

		json.NewEncoder(w).Encode(map[string]string{"sql_query": "SELECT * FROM users;"})
	})

	sqlQuery, err := provider.TranslateToSQL(context.Background(), "show all users", "users(id, name)")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;", sqlQuery)
}

func TestTranslateToSQLEmptyResponse(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := provider.TranslateToSQL(context.Background(), "q", "s")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeProvider, svcErr.Type)
}

func TestTranscribe(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "clip.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"transcription": "show all users"})
	})

	text, err := provider.Transcribe(context.Background(), []byte{1, 2, 3}, "clip.wav")
	require.NoError(t, err)
	assert.Equal(t, "show all users", text)
}

type recordingObserver struct {
	services []string
	elapsed  []time.Duration
}

func (o *recordingObserver) ObserveUpstream(service string, elapsed time.Duration) {
	o.services = append(o.services, service)
	o.elapsed = append(o.elapsed, elapsed)
}

func TestObserverSeesEveryRoundTrip(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate-title":
			json.NewEncoder(w).Encode(map[string]string{"title": "User Listing"})
		case "/nl-to-sql":
			json.NewEncoder(w).Encode(map[string]string{"sql_query": "SELECT 1"})
		case "/transcribe":
			json.NewEncoder(w).Encode(map[string]string{"transcription": "hello"})
		}
	})
	observer := &recordingObserver{}
	provider.SetObserver(observer)

	_, err := provider.GenerateTitle(context.Background(), "show all users")
	require.NoError(t, err)
	_, err = provider.TranslateToSQL(context.Background(), "count users", "users(id)")
	require.NoError(t, err)
	_, err = provider.Transcribe(context.Background(), []byte{1}, "clip.wav")
	require.NoError(t, err)

	require.Equal(t, []string{"title", "nl-to-sql", "transcription"}, observer.services)
	for _, d := range observer.elapsed {
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestObserverSeesFailedRoundTrips(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})
	observer := &recordingObserver{}
	provider.SetObserver(observer)

	_, err := provider.GenerateTitle(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, []string{"title"}, observer.services)
}

func TestNewHTTPProviderValidatesConfig(t *testing.T) {
	_, err := NewHTTPProvider(&Config{})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrTypeConfig, svcErr.Type)
}
