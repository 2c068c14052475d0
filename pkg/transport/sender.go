// Package transport delivers build status payloads to the remote status API.
package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	jsoniter "github.com/json-iterator/go"

	"github.com/stashnotify/stashnotify/pkg/constants"
	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

type sender struct {
	logger lumber.Logger
	client *http.Client
}

// New returns a status sender with bounded connect and read timeouts. Each
// notifier invocation gets its own client, there is no shared state beyond
// the pooled transport.
func New(logger lumber.Logger) core.StatusSender {
	pooled := cleanhttp.DefaultPooledTransport()
	pooled.DialContext = (&net.Dialer{
		Timeout:   constants.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &sender{
		logger: logger,
		client: &http.Client{
			Transport: pooled,
			Timeout:   constants.ReadTimeout,
		},
	}
}

func (s *sender) Send(ctx context.Context, credentials *core.Credentials, resource core.StatusResource, status core.BuildStatus) (*core.StatusResponse, error) {
	if credentials == nil {
		s.logger.Errorf("no credentials resolved for status notification of commit %s", resource.CommitID)
		return nil, errs.ErrMissingCredentials
	}

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	body, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}

	endpoint := resource.EndpointURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		s.logger.Errorf("error while creating http request %v", err)
		return nil, err
	}
	// basic auth is set per request so rotated credentials are picked up on
	// the next call
	req.SetBasicAuth(credentials.Username, credentials.Secret)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	s.logger.Debugf("sending build status request to %s", endpoint)
	s.logger.Debugf("build status request body: %s", string(body))

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Errorf("error while sending build status request to %s, error: %v", endpoint, err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Errorf("error while reading build status response body %v", err)
		return &core.StatusResponse{StatusCode: resp.StatusCode}, err
	}

	result := &core.StatusResponse{StatusCode: resp.StatusCode, Body: string(respBody)}
	s.logger.Debugf("build status response received, status: %d, body: %s", result.StatusCode, result.Body)

	//nolint:gomnd
	if resp.StatusCode >= 300 {
		s.logger.Errorf("non 2xx status code %d from %s, body: %s", resp.StatusCode, endpoint, result.Body)
		return result, errs.ErrNon2xxStatus
	}
	return result, nil
}
