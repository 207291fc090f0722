// internal/app/features/share/handler.go
package share

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/rollcall/internal/app/store/attendance"
	sharelinkstore "github.com/dalemusser/rollcall/internal/app/store/sharelinks"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

// Handler serves read-only attendance sheets through share links. The link ID
// is the only credential, so nothing here touches the session.
type Handler struct {
	Students   *studentstore.Store
	Attendance *attendancestore.Store
	ShareLinks *sharelinkstore.Store
	Log        *zap.Logger
}

func NewHandler(
	students *studentstore.Store,
	att *attendancestore.Store,
	links *sharelinkstore.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{Students: students, Attendance: att, ShareLinks: links, Log: logger}
}

type sharedRow struct {
	StudentID string
	Name      string
	Status    string
}

type sharedSheetData struct {
	viewdata.BaseVM
	Date    string
	Rows    []sharedRow
	Summary attendancestore.Summary
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /share/{linkID}                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSharedSheet(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	link, err := h.ShareLinks.GetLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, sharelinkstore.ErrLinkNotFound) {
			templates.Render(w, r, "share_expired", viewdata.NewBaseVM(r, "Link Expired", "/"))
			return
		}
		h.Log.Error("failed to resolve share link", zap.Error(err))
		http.Error(w, "Failed to load the shared sheet", http.StatusInternalServerError)
		return
	}

	rows, summary, err := h.buildSharedSheet(ctx, link)
	if err != nil {
		h.Log.Error("failed to build shared sheet", zap.Error(err))
		http.Error(w, "Failed to load the shared sheet", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "share_sheet", sharedSheetData{
		BaseVM:  viewdata.NewBaseVM(r, "Attendance "+link.Date, "/"),
		Date:    link.Date,
		Rows:    rows,
		Summary: summary,
	})
}

func (h *Handler) buildSharedSheet(ctx context.Context, link *models.ShareLink) ([]sharedRow, attendancestore.Summary, error) {
	roster, err := h.Students.ListByOwner(ctx, link.CreatedBy)
	if err != nil {
		return nil, attendancestore.Summary{}, err
	}

	records, err := h.Attendance.ListByDate(ctx, link.CreatedBy, link.Date)
	if err != nil {
		return nil, attendancestore.Summary{}, err
	}

	byStudent := make(map[string]string, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec.Status
	}

	rows := make([]sharedRow, 0, len(roster))
	summary := attendancestore.Summary{Date: link.Date}
	for _, s := range roster {
		status := byStudent[s.StudentID]
		switch status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		}
		rows = append(rows, sharedRow{StudentID: s.StudentID, Name: s.Name, Status: status})
	}
	return rows, summary, nil
}
