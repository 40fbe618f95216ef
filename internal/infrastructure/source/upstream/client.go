// Package upstream fetches raw project and task records from the remote
// project API that owns them.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

const (
	defaultRetryMaxWait = 2 * time.Second
	headerRequestID     = "X-Request-ID"
	memberParam         = "memberId"
)

// Source is a record source over the upstream HTTP API.
type Source struct {
	http   *resty.Client
	cfg    config.UpstreamConfig
	logger logging.Logger
}

// NewSource builds a Source from cfg.  An empty token sends no
// Authorization header.
func NewSource(cfg config.UpstreamConfig, log logging.Logger) *Source {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(retryCondition)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &Source{http: client, cfg: cfg, logger: log}
}

// retryCondition retries transport failures, timeouts, throttling and 5xx.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// ListProjects fetches every project record.
func (s *Source) ListProjects(ctx context.Context) ([]board.Project, error) {
	body, err := s.get(ctx, s.cfg.ProjectsPath, nil)
	if err != nil {
		return nil, err
	}
	projects := board.DecodeProjects(body)
	s.logger.Debug("Fetched upstream projects", logging.Int("count", len(projects)))
	return projects, nil
}

// ListTasks fetches the tasks memberID takes part in.  The member filter is
// sent upstream and re-applied locally, so an upstream that ignores the
// parameter still yields the right set.
func (s *Source) ListTasks(ctx context.Context, memberID string) ([]board.Task, error) {
	var params map[string]string
	if memberID != "" {
		params = map[string]string{memberParam: memberID}
	}
	body, err := s.get(ctx, s.cfg.TasksPath, params)
	if err != nil {
		return nil, err
	}

	tasks := board.DecodeTasks(body)
	if memberID == "" {
		return tasks, nil
	}
	mine := tasks[:0]
	for i := range tasks {
		if hasMember(&tasks[i], memberID) {
			mine = append(mine, tasks[i])
		}
	}
	return mine, nil
}

func hasMember(t *board.Task, id string) bool {
	for _, m := range t.Members() {
		if m == id {
			return true
		}
	}
	return false
}

func (s *Source) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	req := s.http.R().SetContext(ctx)
	if id, ok := ctx.Value(common.ContextKeyRequestID).(string); ok && id != "" {
		req.SetHeader(headerRequestID, id)
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "upstream request failed").WithDetail(path)
	}
	if err := statusError(resp); err != nil {
		s.logger.Warn("Upstream returned an error status",
			logging.String("path", path),
			logging.Int("status", resp.StatusCode()),
		)
		return nil, err
	}
	return unwrapEnvelope(resp.Body())
}

func statusError(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.Newf(errors.ErrCodeDataSourceAuthFailed, "upstream rejected credentials: %s", resp.Status())
	case code == http.StatusTooManyRequests:
		return errors.Newf(errors.ErrCodeDataSourceRateLimited, "upstream throttled the request: %s", resp.Status())
	default:
		return errors.Newf(errors.ErrCodeDataSourceUnavailable, "upstream returned %s", resp.Status())
	}
}

// unwrapEnvelope accepts a bare array or an object carrying the array under
// "data".  Any other valid JSON passes through and decodes as empty.
func unwrapEnvelope(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, errors.New(errors.ErrCodeDataSourceParseError, "upstream body is not valid JSON")
	}
	if body[0] != '{' {
		return body, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body, nil
	}
	return env.Data, nil
}

//Personal.AI order the ending
