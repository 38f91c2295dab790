package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskHandler serves the /todos endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /todos.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r, log)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items, err := h.tasks.List(r.Context(), identity, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskItemsToResponse(items))
}

// Create handles POST /todos.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r, log)
	if !ok {
		return
	}

	input, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}

	item, err := h.tasks.Create(r.Context(), identity, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Message: "Task created",
		TodoID:  item.ID,
	})
}

// Get handles GET /todos/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := identityAndPathID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	item, err := h.tasks.Get(r.Context(), identity, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskItemToResponse(item))
}

// Update handles PUT /todos/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := identityAndPathID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	input, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}

	item, err := h.tasks.Update(r.Context(), identity, taskID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskItemToResponse(item))
}

// UpdateStatus handles PATCH /todos/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := identityAndPathID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.tasks.UpdateStatus(r.Context(), identity, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskItemToResponse(item))
}

func decodeTaskInput(w http.ResponseWriter, r *http.Request) (service.TaskInput, bool) {
	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return service.TaskInput{}, false
	}

	due, err := domain.ParseDueDate(req.DueDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return service.TaskInput{}, false
	}

	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	}, true
}

// parseTaskFilter reads page, limit, sortBy, sortOrder, status and search.
// The account is set later from the identity.
func parseTaskFilter(q url.Values) (store.TaskFilter, error) {
	var filter store.TaskFilter

	page, err := parsePositiveInt(q, "page")
	if err != nil {
		return filter, err
	}
	limit, err := parsePositiveInt(q, "limit")
	if err != nil {
		return filter, err
	}
	filter.Page = page
	filter.Limit = limit

	if filter.SortBy, err = store.ParseSortField(q.Get("sortBy")); err != nil {
		return filter, err
	}
	if filter.SortOrder, err = store.ParseSortOrder(q.Get("sortOrder")); err != nil {
		return filter, err
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	filter.Search = q.Get("search")
	return filter, nil
}

// parsePositiveInt returns 0 when the parameter is absent so defaults apply.
func parsePositiveInt(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", store.ErrInvalidPagination, name)
	}
	return n, nil
}
