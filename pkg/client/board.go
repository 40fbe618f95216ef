package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
)

// Response types are shared with the server so the wire format has one owner.
type (
	BoardResult = board.Result
	TaskResult  = board.TaskResult
	Summary     = board.Summary
	SnapshotRef = snapshot.Ref
	Snapshot    = snapshot.Snapshot
)

// BoardClient reads the project board, task boards and snapshots.
type BoardClient struct {
	client *Client
}

// BoardParams narrows and orders the project board.  Blank fields are not
// sent.
type BoardParams struct {
	Search     string
	ProjectID  string
	Employee   string
	Status     string
	Completion string
	Priority   string
	Sort       string
	Order      string
}

// TaskParams is BoardParams plus the member whose tasks to list.
type TaskParams struct {
	BoardParams
	Assignee string
}

func (p BoardParams) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", p.Search)
	set("project_id", p.ProjectID)
	set("employee", p.Employee)
	set("status", p.Status)
	set("completion", p.Completion)
	set("priority", p.Priority)
	set("sort", p.Sort)
	set("order", p.Order)
	return v
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// Get fetches the filtered, sorted project board.
func (b *BoardClient) Get(ctx context.Context, params BoardParams) (*BoardResult, error) {
	var resp envelope[*BoardResult]
	if err := b.client.get(ctx, withQuery("/api/v1/board", params.values()), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Summary fetches the KPI counters of the unfiltered board.
func (b *BoardClient) Summary(ctx context.Context) (*Summary, error) {
	var resp envelope[*Summary]
	if err := b.client.get(ctx, "/api/v1/board/summary", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Tasks fetches a task board.  An empty Assignee lists every task.
func (b *BoardClient) Tasks(ctx context.Context, params TaskParams) (*TaskResult, error) {
	v := params.values()
	if params.Assignee != "" {
		v.Set("assignee", params.Assignee)
	}
	var resp envelope[*TaskResult]
	if err := b.client.get(ctx, withQuery("/api/v1/board/tasks", v), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Invalidate drops cached views.  With no IDs every cached view is dropped.
func (b *BoardClient) Invalidate(ctx context.Context, projectIDs ...string) error {
	v := url.Values{}
	for _, id := range projectIDs {
		v.Add("project_id", id)
	}
	return b.client.post(ctx, withQuery("/api/v1/board/invalidate", v), nil, nil)
}

// CreateSnapshot stores the current summary and returns its reference.
func (b *BoardClient) CreateSnapshot(ctx context.Context) (*SnapshotRef, error) {
	var resp envelope[*SnapshotRef]
	if err := b.client.post(ctx, "/api/v1/board/snapshots", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListSnapshots returns the newest snapshots first.  limit <= 0 uses the
// server default.
func (b *BoardClient) ListSnapshots(ctx context.Context, limit int) ([]SnapshotRef, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var resp envelope[[]SnapshotRef]
	if err := b.client.get(ctx, withQuery("/api/v1/board/snapshots", v), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetSnapshot fetches one stored snapshot.
func (b *BoardClient) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var resp envelope[*Snapshot]
	if err := b.client.get(ctx, "/api/v1/board/snapshots/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

//Personal.AI order the ending
