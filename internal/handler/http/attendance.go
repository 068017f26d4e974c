package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetState(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	RecheckIn(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	GetMyRecords(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// GetState implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetState(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetState(r.Context(), userID, time.Now().UTC())
	if err != nil {
		slog.Error("GetState service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Checked in", h.attendanceService.CheckIn)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Break started", h.attendanceService.StartBreak)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Break ended", h.attendanceService.EndBreak)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Checked out", h.attendanceService.CheckOut)
}

// RecheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecheckIn(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Checked in again", h.attendanceService.RecheckIn)
}

// MarkAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Marked absent", h.attendanceService.MarkAbsent)
}

func (h *attendanceHandlerImpl) action(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(ctx context.Context, userID string, now time.Time) (attendance.StateResponse, error),
) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := fn(r.Context(), userID, time.Now().UTC())
	if err != nil {
		slog.Error("Attendance action error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// GetMyRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyRecords(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := recordFilterFromQuery(r)

	result, err := h.attendanceService.GetMyRecords(r.Context(), userID, filter)
	if err != nil {
		slog.Error("GetMyRecords service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := recordFilterFromQuery(r)

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	result, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		slog.Error("ListRecords service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func recordFilterFromQuery(r *http.Request) attendance.RecordFilter {
	q := r.URL.Query()

	var filter attendance.RecordFilter

	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.SortOrder = q.Get("sort")

	return filter
}
