package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/scm"
	"github.com/stashnotify/stashnotify/pkg/transport"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatalf(string, ...interface{}) {}

type recordedPost struct {
	path    string
	payload map[string]interface{}
}

// newStatusAPI runs a fake status endpoint recording every post it receives.
func newStatusAPI(t *testing.T, statusCode int, posts *[]recordedPost) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &payload))
		*posts = append(*posts, recordedPost{path: r.URL.Path, payload: payload})
		w.WriteHeader(statusCode)
	}))
}

func newNotifier() core.Notifier {
	logger := nopLogger{}
	return New(scm.New(logger), transport.New(logger), logger)
}

func captureLog(lines *[]string) core.BuildLog {
	return core.BuildLogFunc(func(format string, args ...interface{}) {
		*lines = append(*lines, fmt.Sprintf(format, args...))
	})
}

func gitBuild(host, jobFullName string, number int, result core.BuildResult) *core.Build {
	return &core.Build{
		JobFullName: jobFullName,
		Number:      number,
		URL:         fmt.Sprintf("https://ci.example.com/job/%s/%d/", jobFullName, number),
		Result:      result,
		SCM: &core.SCMRef{
			Kind:    core.SCMGit,
			Remotes: []core.Remote{{URL: host + "/acme/widgets.git", CommitID: "abc123"}},
		},
	}
}

func TestNotifySuccessfulBuild(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess),
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "/rest/build-status/1.0/commits/abc123", posts[0].path)
	assert.Equal(t, "SUCCESSFUL", posts[0].payload["state"])
	assert.Equal(t, "aa64ec9f240a74f55fd4f885b1f8f39c", posts[0].payload["key"])
	assert.Equal(t, "acme/widgets #7", posts[0].payload["name"])
	assert.Contains(t, lines, "Sending build status SUCCESSFUL for commit abc123 is done!")
	assert.Contains(t, lines, "Sent build status with http status code: 204")
}

func TestNotifyInProgressBuild(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       gitBuild(server.URL, "acme/widgets", 7, ""),
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "INPROGRESS", posts[0].payload["state"])
}

func TestNotifySkipsForeignRemotes(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	build := gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess)
	build.SCM.Remotes = append(build.SCM.Remotes,
		core.Remote{URL: "https://github.com/acme/widgets.git", CommitID: "abc123"})

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       build,
	}, captureLog(&lines))
	require.NoError(t, err)
	// only the remote on the status host gets a notification
	require.Len(t, posts, 1)
	assert.Equal(t, "/rest/build-status/1.0/commits/abc123", posts[0].path)
}

func TestNotifyContinuationReusesAbortedKey(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	build := gitBuild(server.URL, "platform/widgets", 12, core.ResultSuccess)
	build.Previous = gitBuild(server.URL, "platform/widgets", 11, core.ResultAborted)

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       build,
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	// the key of aborted build #11, not the one of build #12
	assert.Equal(t, "8a678f2a82432066e1a88f8305a4f250", posts[0].payload["key"])
	// the rest of the status still describes the current build
	assert.Equal(t, "platform/widgets #12", posts[0].payload["name"])
	assert.Equal(t, "SUCCESSFUL", posts[0].payload["state"])
}

func TestNotifyContinuationUnderOverride(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	build := gitBuild(server.URL, "platform/widgets", 12, core.ResultSuccess)
	build.Previous = gitBuild(server.URL, "platform/widgets", 11, core.ResultAborted)

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials:         &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:          server.URL,
		OverrideLatestBuild: true,
		Build:               build,
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	// the job level key is the same for both builds
	assert.Equal(t, "75eaa30ccb9020c8c1d9e4de99932ef8", posts[0].payload["key"])
	assert.Equal(t, "platform/widgets", posts[0].payload["name"])
}

func TestNotifyContinuationIgnoresNonAbortedPrevious(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	build := gitBuild(server.URL, "platform/widgets", 12, core.ResultSuccess)
	build.Previous = gitBuild(server.URL, "platform/widgets", 11, core.ResultFailure)

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       build,
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "44e807052cd1bae25ab58aadce5cd310", posts[0].payload["key"])
}

func TestNotifyExplicitResourceOverride(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess),
		RepoSlug:    "forked-widgets",
		CommitID:    "def456",
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "/rest/build-status/1.0/commits/def456", posts[0].path)
}

func TestNotifyMissingCredentialsIsFatal(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		StatusHost: server.URL,
		Build:      gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess),
	}, captureLog(&lines))
	assert.ErrorIs(t, err, errs.ErrMissingCredentials)
	assert.Empty(t, posts)
}

func TestNotifyUnsupportedSCMIsFatal(t *testing.T) {
	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  "https://bitbucket.example.com",
		Build:       &core.Build{JobFullName: "acme/widgets", Number: 7},
	}, captureLog(&lines))
	assert.ErrorIs(t, err, errs.ErrUnsupportedSCM)
}

func TestNotifyDegradesOnRejectedStatus(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusUnauthorized, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "wrong"},
		StatusHost:  server.URL,
		Build:       gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess),
	}, captureLog(&lines))
	// a rejected post is reported on the build log, not returned
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Contains(t, lines, "Sending build status for commit abc123 failed with http status code: 401")
}

func TestNotifyCustomStatus(t *testing.T) {
	var posts []recordedPost
	server := newStatusAPI(t, http.StatusNoContent, &posts)
	defer server.Close()

	var lines []string
	err := newNotifier().Notify(context.TODO(), &core.NotifyRequest{
		Credentials: &core.Credentials{Username: "ci-bot", Secret: "hunter2"},
		StatusHost:  server.URL,
		Build:       gitBuild(server.URL, "acme/widgets", 7, core.ResultSuccess),
		Status: &core.BuildStatus{
			State:       core.StateFailed,
			Key:         "mykey",
			URL:         "https://ci.example.com/job/acme/widgets/7/",
			Name:        "custom step",
			Description: "deploy step failed",
		},
	}, captureLog(&lines))
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "FAILED", posts[0].payload["state"])
	assert.Equal(t, "mykey", posts[0].payload["key"])
	assert.Equal(t, "custom step", posts[0].payload["name"])
}
