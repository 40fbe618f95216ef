package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

// BoardHandler serves the project board, the task board and snapshots.
type BoardHandler struct {
	svc    dashboard.Service
	logger logging.Logger
}

func NewBoardHandler(svc dashboard.Service, logger logging.Logger) *BoardHandler {
	return &BoardHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the board endpoints under r.
func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/board", func(br chi.Router) {
		br.Get("/", h.GetBoard)
		br.Get("/summary", h.GetSummary)
		br.Get("/tasks", h.GetTasks)
		br.Post("/invalidate", h.Invalidate)

		br.Route("/snapshots", func(sr chi.Router) {
			sr.Get("/", h.ListSnapshots)
			sr.Post("/", h.CreateSnapshot)
			sr.Get("/{snapshotID}", h.GetSnapshot)
		})
	})
}

// snapshotListQuery is the query string of GET /board/snapshots.
type snapshotListQuery struct {
	Limit int `validate:"gte=0,lte=100"`
}

func boardQueryFrom(r *http.Request) dashboard.BoardQuery {
	q := r.URL.Query()
	return dashboard.BoardQuery{
		Search:     q.Get("search"),
		ProjectID:  q.Get("project_id"),
		Employee:   q.Get("employee"),
		Status:     q.Get("status"),
		Completion: q.Get("completion"),
		Priority:   q.Get("priority"),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
	}
}

// GetBoard handles GET /api/v1/board.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	q := boardQueryFrom(r)
	if err := validateStruct(q); err != nil {
		writeAppError(w, r, err)
		return
	}
	res, err := h.svc.Board(r.Context(), q)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// GetSummary handles GET /api/v1/board/summary.
func (h *BoardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, sum)
}

// GetTasks handles GET /api/v1/board/tasks.
func (h *BoardHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	q := dashboard.TaskQuery{
		BoardQuery: boardQueryFrom(r),
		AssigneeID: r.URL.Query().Get("assignee"),
	}
	if err := validateStruct(q); err != nil {
		writeAppError(w, r, err)
		return
	}
	res, err := h.svc.Tasks(r.Context(), q)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// Invalidate handles POST /api/v1/board/invalidate.  Optional project_id
// query values name the changed projects.
func (h *BoardHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()["project_id"]
	if err := h.svc.Invalidate(r.Context(), ids...); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSnapshot handles POST /api/v1/board/snapshots.
func (h *BoardHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ref, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, ref)
}

// ListSnapshots handles GET /api/v1/board/snapshots?limit=N.
func (h *BoardHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	var q snapshotListQuery
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeAppError(w, r, errors.New(errors.ErrCodeBadRequest, "limit must be an integer").WithDetail(raw))
			return
		}
		q.Limit = n
	}
	if err := validateStruct(q); err != nil {
		writeAppError(w, r, err)
		return
	}
	refs, err := h.svc.ListSnapshots(r.Context(), q.Limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, refs)
}

// GetSnapshot handles GET /api/v1/board/snapshots/{snapshotID}.
func (h *BoardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetSnapshot(r.Context(), chi.URLParam(r, "snapshotID"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, snap)
}

//Personal.AI order the ending
