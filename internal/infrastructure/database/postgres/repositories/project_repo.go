// Package repositories stores raw project and task records in PostgreSQL and
// serves them back to the board pipeline.
package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL
// ─────────────────────────────────────────────────────────────────────────────

const (
	SQLListProjects = `SELECT doc FROM projects ORDER BY seq`

	SQLListTasks = `SELECT doc FROM tasks WHERE $1 = '' OR $1 = ANY(member_ids) ORDER BY seq`

	SQLUpsertProject = `INSERT INTO projects (id, doc, updated_at) VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`

	SQLUpsertTask = `INSERT INTO tasks (id, project_id, member_ids, doc, updated_at) VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE SET project_id = EXCLUDED.project_id, member_ids = EXCLUDED.member_ids, doc = EXCLUDED.doc, updated_at = now()`

	SQLDeleteProject = `DELETE FROM projects WHERE id = $1`

	SQLDeleteProjectTasks = `DELETE FROM tasks WHERE project_id = $1`
)

// ImportResult counts the outcome of an Import.
type ImportResult struct {
	Projects int `json:"projects"`
	Tasks    int `json:"tasks"`
	// Skipped counts records without an id.  They cannot be keyed and are
	// left out.
	Skipped int `json:"skipped"`
}

// ProjectRepository is a record source backed by the projects and tasks
// tables.  Documents are stored exactly as received and decoded on read.
type ProjectRepository struct {
	db     Querier
	logger logging.Logger
}

func NewProjectRepository(db Querier, log logging.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: log}
}

// ListProjects returns every project in insertion order.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]board.Project, error) {
	docs, err := r.queryDocs(ctx, SQLListProjects)
	if err != nil {
		return nil, err
	}
	projects := make([]board.Project, 0, len(docs))
	for _, d := range docs {
		var p board.Project
		_ = json.Unmarshal(d, &p)
		projects = append(projects, p)
	}
	return projects, nil
}

// ListTasks returns the tasks memberID is assigned to or collaborates on.
// An empty memberID returns every task.
func (r *ProjectRepository) ListTasks(ctx context.Context, memberID string) ([]board.Task, error) {
	docs, err := r.queryDocs(ctx, SQLListTasks, memberID)
	if err != nil {
		return nil, err
	}
	tasks := make([]board.Task, 0, len(docs))
	for _, d := range docs {
		var t board.Task
		_ = json.Unmarshal(d, &t)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *ProjectRepository) queryDocs(ctx context.Context, query string, args ...any) ([][]byte, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "record query failed")
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to scan record")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "record iteration failed")
	}
	return docs, nil
}

// Import upserts the project and task records of two JSON array documents in
// one transaction.  Either document may be empty.
func (r *ProjectRepository) Import(ctx context.Context, projectsDoc, tasksDoc []byte) (ImportResult, error) {
	projects, err := splitArray(projectsDoc)
	if err != nil {
		return ImportResult{}, err
	}
	tasks, err := splitArray(tasksDoc)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	err = postgres.WithTransaction(ctx, r.db, func(tx postgres.Tx, txCtx context.Context) error {
		for _, raw := range projects {
			var p board.Project
			_ = json.Unmarshal(raw, &p)
			if p.ID == "" {
				res.Skipped++
				continue
			}
			if _, err := tx.Exec(txCtx, SQLUpsertProject, p.ID, raw); err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert project").WithDetail(p.ID)
			}
			res.Projects++
		}
		for _, raw := range tasks {
			var t board.Task
			_ = json.Unmarshal(raw, &t)
			if t.ID == "" {
				res.Skipped++
				continue
			}
			if _, err := tx.Exec(txCtx, SQLUpsertTask, t.ID, t.ProjectID, []string(t.Members()), raw); err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert task").WithDetail(t.ID)
			}
			res.Tasks++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	r.logger.Info("Imported records",
		logging.Int("projects", res.Projects),
		logging.Int("tasks", res.Tasks),
		logging.Int("skipped", res.Skipped),
	)
	return res, nil
}

// DeleteProject removes a project and its stand-alone task records.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	return postgres.WithTransaction(ctx, r.db, func(tx postgres.Tx, txCtx context.Context) error {
		if _, err := tx.Exec(txCtx, SQLDeleteProjectTasks, id); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete project tasks")
		}
		tag, err := tx.Exec(txCtx, SQLDeleteProject, id)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete project")
		}
		if tag.RowsAffected() == 0 {
			return errors.Newf(errors.ErrCodeProjectNotFound, "project %q not found", id)
		}
		return nil
	})
}

// splitArray returns the elements of a JSON array, dropping nulls.  Empty
// input yields no elements.
func splitArray(doc []byte) ([]json.RawMessage, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRecordMalformed, "records document must be a JSON array")
	}
	out := items[:0]
	for _, it := range items {
		if string(it) != "null" {
			out = append(out, it)
		}
	}
	return out, nil
}

//Personal.AI order the ending
