package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/timeedit"
	"github.com/kintai-app/kintai-backend-go/internal/handler/http/response"
)

type TimeEditHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type timeEditHandlerImpl struct {
	timeEditService timeedit.Service
}

func NewTimeEditHandler(timeEditService timeedit.Service) TimeEditHandler {
	return &timeEditHandlerImpl{
		timeEditService: timeEditService,
	}
}

// Submit implements TimeEditHandler.
func (h *timeEditHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeedit.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID

	result, err := h.timeEditService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("Submit service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Edit request submitted", result)
}

// GetMyRequests implements TimeEditHandler.
func (h *timeEditHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeEditService.GetMyRequests(r.Context(), userID, filterFromQuery(r))
	if err != nil {
		slog.Error("GetMyRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRequests implements TimeEditHandler.
func (h *timeEditHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeEditService.ListRequests(r.Context(), filterFromQuery(r))
	if err != nil {
		slog.Error("ListRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements TimeEditHandler.
func (h *timeEditHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true, "Edit request approved")
}

// Reject implements TimeEditHandler.
func (h *timeEditHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false, "Edit request rejected")
}

func (h *timeEditHandlerImpl) decide(w http.ResponseWriter, r *http.Request, approve bool, message string) {
	result, err := h.timeEditService.Decide(r.Context(), timeedit.DecideRequest{
		ID:      chi.URLParam(r, "id"),
		Approve: approve,
	})
	if err != nil {
		slog.Error("Decide service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func filterFromQuery(r *http.Request) timeedit.Filter {
	q := r.URL.Query()

	var filter timeedit.Filter

	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter
}
