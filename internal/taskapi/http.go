// Package taskapi serves the task store over the /api/tasks REST routes.
package taskapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"taskloop/internal/events"
	"taskloop/internal/httpmw"
	"taskloop/internal/query"
	"taskloop/internal/task"
)

const (
	MsgCreated     = "Task created successfully"
	MsgUpdated     = "Task updated successfully"
	MsgDeleted     = "Task deleted"
	MsgToggled     = "Task completion status toggled"
	MsgNotFound    = "Task not found"
	MsgInvalidJSON = "Invalid JSON body"
	MsgInternal    = "Internal server error"
)

// maxBodyBytes bounds request bodies; a valid task is well under 1 KiB.
const maxBodyBytes = 64 << 10

// Response is the envelope every successful mutation returns.
type Response struct {
	Message string     `json:"message"`
	Task    *task.Task `json:"task,omitempty"`
}

// Publisher receives every successful mutation.
type Publisher interface {
	Publish(kind events.Kind, t task.Task)
}

type MutationObserver interface {
	ObserveMutation(op string)
}

type Handler struct {
	repo      task.Repo
	publisher Publisher
	observer  MutationObserver
	logger    *slog.Logger
}

func NewHandler(repo task.Repo) *Handler {
	return &Handler{repo: repo, logger: slog.Default()}
}

func (h *Handler) SetPublisher(p Publisher) {
	h.publisher = p
}

func (h *Handler) SetObserver(o MutationObserver) {
	h.observer = o
}

func (h *Handler) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// Register mounts the task routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/tasks", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{id}/toggle", h.Toggle).Methods(http.MethodPatch)
}

// GET /api/tasks?completed=&search=&sort=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}
	httpmw.WriteJSON(w, http.StatusOK, query.Apply(tasks, query.ParseValues(r.URL.Query())))
}

// POST /api/tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	// completed is not accepted on create
	in.Completed = nil

	t, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create", err)
		return
	}
	h.mutated(events.KindCreated, "create", t)
	httpmw.WriteJSON(w, http.StatusCreated, Response{Message: MsgCreated, Task: &t})
}

// PUT /api/tasks/{id}
//
// The body is validated before the id is looked up, so an invalid body
// for an unknown id reports 400.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	if err := task.ValidateUpdate(in); err != nil {
		h.fail(w, r, "update", err)
		return
	}
	id, ok := parseID(r)
	if !ok {
		httpmw.WriteMessage(w, http.StatusNotFound, MsgNotFound)
		return
	}

	t, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "update", err)
		return
	}
	h.mutated(events.KindUpdated, "update", t)
	httpmw.WriteJSON(w, http.StatusOK, Response{Message: MsgUpdated, Task: &t})
}

// DELETE /api/tasks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpmw.WriteMessage(w, http.StatusNotFound, MsgNotFound)
		return
	}
	t, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, "delete", err)
		return
	}
	h.mutated(events.KindDeleted, "delete", t)
	httpmw.WriteJSON(w, http.StatusOK, Response{Message: MsgDeleted, Task: &t})
}

// PATCH /api/tasks/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpmw.WriteMessage(w, http.StatusNotFound, MsgNotFound)
		return
	}
	t, err := h.repo.Toggle(r.Context(), id)
	if err != nil {
		h.fail(w, r, "toggle", err)
		return
	}
	h.mutated(events.KindToggled, "toggle", t)
	httpmw.WriteJSON(w, http.StatusOK, Response{Message: MsgToggled, Task: &t})
}

func (h *Handler) mutated(kind events.Kind, op string, t task.Task) {
	h.logger.Debug("task_mutated", "op", op, "task_id", t.ID)
	if h.observer != nil {
		h.observer.ObserveMutation(op)
	}
	if h.publisher != nil {
		h.publisher.Publish(kind, t)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		httpmw.WriteMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, task.ErrNotFound):
		httpmw.WriteMessage(w, http.StatusNotFound, MsgNotFound)
	default:
		h.logger.Error("task_op_failed",
			"op", op,
			"request_id", httpmw.RequestIDFromContext(r.Context()),
			"err", err,
		)
		httpmw.WriteMessage(w, http.StatusInternalServerError, MsgInternal)
	}
}

// decodeInput reads a task body. A non-boolean completed is reported through
// validation (after the required and length rules), not as malformed JSON.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (task.Input, bool) {
	var in task.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&in)
	if err == nil {
		return in, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "completed" {
		in.Completed = nil
		return in, true
	}
	httpmw.WriteMessage(w, http.StatusBadRequest, MsgInvalidJSON)
	return task.Input{}, false
}

// parseID reads the {id} route variable. Anything that is not a positive
// integer cannot name a task.
func parseID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(mux.Vars(r)["id"])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
