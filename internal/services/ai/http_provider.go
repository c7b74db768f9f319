// File: internal/services/ai/http_provider.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Observer receives the latency of each upstream round trip, keyed by
// service name ("title", "nl-to-sql", "transcription").
type Observer interface {
	ObserveUpstream(service string, elapsed time.Duration)
}

// HTTPProvider reaches the three inference services over plain HTTP with
// JSON bodies.
type HTTPProvider struct {
	config   *Config
	client   *http.Client
	observer Observer
}

func NewHTTPProvider(config *Config) (*HTTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, &ServiceError{Type: ErrTypeConfig, Service: "inference",
			Operation: "config", Message: err.Error()}
	}
	return &HTTPProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// SetObserver attaches a latency observer. Passing nil detaches it.
func (p *HTTPProvider) SetObserver(o Observer) {
	p.observer = o
}

// observe is meant to be deferred with time.Now() as the start argument.
func (p *HTTPProvider) observe(service string, start time.Time) {
	if p.observer != nil {
		p.observer.ObserveUpstream(service, time.Since(start))
	}
}

// GenerateTitle calls the text-to-title service: POST {text} -> {title}.
func (p *HTTPProvider) GenerateTitle(ctx context.Context, text string) (string, error) {
	var out struct {
		Title string `json:"title"`
	}
	err := p.postJSON(ctx, "title", p.config.TitleBaseURL+"/generate-title",
		map[string]string{"text": text}, &out)
	if err != nil {
		return "", err
	}
	if out.Title == "" {
		return "", &ServiceError{Type: ErrTypeProvider, Service: "title",
			Operation: "generate-title", Message: "empty title in response"}
	}
	return out.Title, nil
}

// TranslateToSQL calls the NL-to-SQL service:
// POST {question, schema} -> {sql_query}.
func (p *HTTPProvider) TranslateToSQL(ctx context.Context, question, schema string) (string, error) {
	var out struct {
		SQLQuery string `json:"sql_query"`
	}
	err := p.postJSON(ctx, "nl-to-sql", p.config.NLToSQLBaseURL+"/nl-to-sql",
		map[string]string{"question": question, "schema": schema}, &out)
	if err != nil {
		return "", err
	}
	if out.SQLQuery == "" {
		return "", &ServiceError{Type: ErrTypeProvider, Service: "nl-to-sql",
			Operation: "translate", Message: "empty sql_query in response"}
	}
	return out.SQLQuery, nil
}

// Transcribe sends the audio as a multipart form to the speech-to-text
// service: POST <audio> -> {transcription}.
func (p *HTTPProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", &ServiceError{Type: ErrTypeValidation, Service: "transcription",
			Operation: "transcribe", Message: "building multipart body", Cause: err}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &ServiceError{Type: ErrTypeValidation, Service: "transcription",
			Operation: "transcribe", Message: "writing audio payload", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return "", &ServiceError{Type: ErrTypeValidation, Service: "transcription",
			Operation: "transcribe", Message: "finalizing multipart body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.TranscribeBaseURL+"/transcribe", &body)
	if err != nil {
		return "", newNetworkError("transcription", "transcribe", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	defer p.observe("transcription", time.Now())
	resp, err := p.client.Do(req)
	if err != nil {
		return "", newNetworkError("transcription", "transcribe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", newProviderError("transcription", "transcribe", resp.StatusCode, string(respBody))
	}

	var out struct {
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ServiceError{Type: ErrTypeProvider, Service: "transcription",
			Operation: "transcribe", Message: "decoding response", Cause: err}
	}
	return out.Transcription, nil
}

func (p *HTTPProvider) postJSON(ctx context.Context, service, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ServiceError{Type: ErrTypeValidation, Service: service,
			Operation: "request", Message: "invalid payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return newNetworkError(service, "request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	defer p.observe(service, time.Now())
	resp, err := p.client.Do(req)
	if err != nil {
		return newNetworkError(service, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return newProviderError(service, "request", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Type: ErrTypeProvider, Service: service,
			Operation: "response", Message: fmt.Sprintf("decoding response from %s", url), Cause: err}
	}
	return nil
}
