package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatalf(string, ...interface{}) {}

type capturedRequest struct {
	path        string
	contentType string
	username    string
	secret      string
	payload     map[string]interface{}
}

func statusServer(t *testing.T, statusCode int, respBody string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.contentType = r.Header.Get("Content-Type")
		captured.username, captured.secret, _ = r.BasicAuth()
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured.payload))
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(respBody))
	}))
}

func TestSend(t *testing.T) {
	var captured capturedRequest
	server := statusServer(t, http.StatusNoContent, "", &captured)
	defer server.Close()

	sender := New(nopLogger{})
	resp, err := sender.Send(context.TODO(),
		&core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		core.StatusResource{Host: server.URL, Owner: "acme", RepoSlug: "widgets", CommitID: "abc123"},
		core.BuildStatus{
			State:       core.StateSuccessful,
			Key:         "aa64ec9f240a74f55fd4f885b1f8f39c",
			URL:         "https://ci.example.com/job/widgets/7/",
			Name:        "acme/widgets #7",
			Description: "8 of 10 tests passed",
		})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, "/rest/build-status/1.0/commits/abc123", captured.path)
	assert.Equal(t, "application/json; charset=utf-8", captured.contentType)
	assert.Equal(t, "ci-bot", captured.username)
	assert.Equal(t, "hunter2", captured.secret)
	assert.Equal(t, map[string]interface{}{
		"state":       "SUCCESSFUL",
		"key":         "aa64ec9f240a74f55fd4f885b1f8f39c",
		"url":         "https://ci.example.com/job/widgets/7/",
		"name":        "acme/widgets #7",
		"description": "8 of 10 tests passed",
	}, captured.payload)
}

func TestSendOmitsEmptyState(t *testing.T) {
	var captured capturedRequest
	server := statusServer(t, http.StatusNoContent, "", &captured)
	defer server.Close()

	sender := New(nopLogger{})
	_, err := sender.Send(context.TODO(),
		&core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		core.StatusResource{Host: server.URL, Owner: "acme", RepoSlug: "widgets", CommitID: "abc123"},
		core.BuildStatus{Key: "somekey", URL: "https://ci.example.com/job/widgets/7/", Name: "acme/widgets #7"})
	require.NoError(t, err)

	_, hasState := captured.payload["state"]
	assert.False(t, hasState, "empty state must be left out of the payload")
}

func TestSendMissingCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	sender := New(nopLogger{})
	resp, err := sender.Send(context.TODO(), nil,
		core.StatusResource{Host: server.URL, Owner: "acme", RepoSlug: "widgets", CommitID: "abc123"},
		core.BuildStatus{Key: "somekey"})
	assert.ErrorIs(t, err, errs.ErrMissingCredentials)
	assert.Nil(t, resp)
	assert.False(t, called, "no request may leave the sender without credentials")
}

func TestSendNon2xx(t *testing.T) {
	var captured capturedRequest
	server := statusServer(t, http.StatusUnauthorized, `{"errors":[{"message":"Authentication failed"}]}`, &captured)
	defer server.Close()

	sender := New(nopLogger{})
	resp, err := sender.Send(context.TODO(),
		&core.Credentials{Username: "ci-bot", Secret: "wrong"},
		core.StatusResource{Host: server.URL, Owner: "acme", RepoSlug: "widgets", CommitID: "abc123"},
		core.BuildStatus{State: core.StateFailed, Key: "somekey"})
	assert.ErrorIs(t, err, errs.ErrNon2xxStatus)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Body, "Authentication failed")
}
