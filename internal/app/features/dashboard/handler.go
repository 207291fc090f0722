// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/rollcall/internal/app/store/attendance"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
)

type Handler struct {
	Students   *studentstore.Store
	Attendance *attendancestore.Store
	Log        *zap.Logger
}

func NewHandler(students *studentstore.Store, att *attendancestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Students: students, Attendance: att, Log: logger}
}

type dashboardData struct {
	viewdata.BaseVM
	Today        string
	StudentCount int64
	Summary      attendancestore.Summary
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	today := time.Now().UTC().Format(attendancestore.DateFormat)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.Students.Count(ctx, user.Username)
	if err != nil {
		h.Log.Error("failed to count students", zap.Error(err))
	}

	summary, err := h.Attendance.Summarize(ctx, user.Username, today)
	if err != nil {
		h.Log.Error("failed to summarize attendance", zap.Error(err))
	}

	templates.Render(w, r, "dashboard", dashboardData{
		BaseVM:       viewdata.NewBaseVM(r, "Dashboard", "/"),
		Today:        today,
		StudentCount: count,
		Summary:      summary,
	})
}
