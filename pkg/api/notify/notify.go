// Package notify exposes the build status notification entry points called
// by job-execution engines.
package notify

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/constants"
	"github.com/stashnotify/stashnotify/pkg/core"
	"github.com/stashnotify/stashnotify/pkg/credentials"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/keys"
	"github.com/stashnotify/stashnotify/pkg/lumber"
	"github.com/stashnotify/stashnotify/pkg/status"
)

// build lifecycle phases reported by the job engine.
const (
	PhaseStarted  = "started"
	PhaseFinished = "finished"
)

type buildEventRequest struct {
	// Phase is the lifecycle point of the event, finished when empty.
	Phase               string      `json:"phase"`
	CredentialsID       string      `json:"credentialsId"`
	OverrideLatestBuild *bool       `json:"overrideLatestBuild"`
	Build               *core.Build `json:"build" binding:"required"`
}

type stepRequest struct {
	BuildState       string      `json:"buildState" binding:"required"`
	CredentialsID    string      `json:"credentialsId"`
	BuildKey         string      `json:"buildKey"`
	BuildName        string      `json:"buildName"`
	BuildDescription string      `json:"buildDescription"`
	RepoSlug         string      `json:"repoSlug"`
	CommitID         string      `json:"commitId"`
	Build            *core.Build `json:"build" binding:"required"`
}

// HandleBuildEvent notifies the status derived from a build lifecycle event.
// The event's phase is checked against the notifyStart/notifyFinish
// configuration and skipped phases are accepted as no-ops.
func HandleBuildEvent(cfg *config.Config, notifier core.Notifier, store core.CredentialStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req buildEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if req.Build.JobFullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "build.jobFullName is required"})
			return
		}

		if req.Phase == PhaseStarted && !cfg.Bitbucket.NotifyStart {
			c.JSON(http.StatusOK, gin.H{"message": "notify on start is disabled"})
			return
		}
		if req.Phase != PhaseStarted && !cfg.Bitbucket.NotifyFinish {
			c.JSON(http.StatusOK, gin.H{"message": "notify on finish is disabled"})
			return
		}

		creds, err := credentials.Resolve(c.Request.Context(), store, req.CredentialsID, cfg.Bitbucket.GlobalCredentialsID)
		if err != nil {
			logger.Errorf("failed to resolve credentials for job %s, error: %v", req.Build.JobFullName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to resolve credentials"})
			return
		}

		override := cfg.Bitbucket.OverrideLatestBuild
		if req.OverrideLatestBuild != nil {
			override = *req.OverrideLatestBuild
		}

		notifyReq := &core.NotifyRequest{
			Credentials:         creds,
			StatusHost:          cfg.Bitbucket.Host,
			OverrideLatestBuild: override,
			Build:               req.Build,
		}
		respondNotify(c, notifier, notifyReq)
	}
}

// HandleStep is the scripted notification entry point. Callers supply the
// state and optionally their own key, name, description and target; defaults
// follow the build event, and addressing is always the unique mode.
func HandleStep(cfg *config.Config, notifier core.Notifier, store core.CredentialStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if req.Build.JobFullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "build.jobFullName is required"})
			return
		}

		state, err := status.ParseState(req.BuildState)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if len(req.BuildKey) > constants.MaxBuildKeyLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("buildKey must be at most %d characters", constants.MaxBuildKeyLength),
			})
			return
		}

		build := req.Build
		buildStatus := core.BuildStatus{
			State:       state,
			Key:         req.BuildKey,
			URL:         build.URL,
			Name:        req.BuildName,
			Description: req.BuildDescription,
		}
		if buildStatus.Key == "" {
			buildStatus.Key = keys.UniqueKey(build.JobFullName)
		}
		if buildStatus.Name == "" {
			buildStatus.Name = keys.DefaultName(build.JobFullName, build.Number)
		}
		if buildStatus.Description == "" {
			buildStatus.Description = status.Description(build)
		}

		creds, err := credentials.Resolve(c.Request.Context(), store, req.CredentialsID, cfg.Bitbucket.GlobalCredentialsID)
		if err != nil {
			logger.Errorf("failed to resolve credentials for job %s, error: %v", build.JobFullName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to resolve credentials"})
			return
		}

		notifyReq := &core.NotifyRequest{
			Credentials:         creds,
			StatusHost:          cfg.Bitbucket.Host,
			OverrideLatestBuild: true,
			Build:               build,
			Status:              &buildStatus,
			RepoSlug:            req.RepoSlug,
			CommitID:            req.CommitID,
		}
		respondNotify(c, notifier, notifyReq)
	}
}

// respondNotify runs the notification and reports the captured build log
// lines back to the engine. A notification failure never fails the build,
// only unsupported SCM and missing credentials surface as request errors.
func respondNotify(c *gin.Context, notifier core.Notifier, req *core.NotifyRequest) {
	lines := []string{}
	buildLog := core.BuildLogFunc(func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})

	if err := notifier.Notify(c.Request.Context(), req, buildLog); err != nil {
		httpStatus := http.StatusInternalServerError
		if errors.Is(err, errs.ErrUnsupportedSCM) || errors.Is(err, errs.ErrMissingCredentials) {
			httpStatus = http.StatusUnprocessableEntity
		}
		c.JSON(httpStatus, gin.H{"message": err.Error(), "log": lines})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "build status notification done", "log": lines})
}
