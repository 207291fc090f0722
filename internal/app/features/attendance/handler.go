// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/rollcall/internal/app/store/attendance"
	sharelinkstore "github.com/dalemusser/rollcall/internal/app/store/sharelinks"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

type Handler struct {
	Students   *studentstore.Store
	Attendance *attendancestore.Store
	ShareLinks *sharelinkstore.Store
	BaseURL    string
	ShareTTL   time.Duration
	ScanTTL    time.Duration
	Log        *zap.Logger
}

func NewHandler(
	students *studentstore.Store,
	att *attendancestore.Store,
	links *sharelinkstore.Store,
	baseURL string,
	shareTTL, scanTTL time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Students:   students,
		Attendance: att,
		ShareLinks: links,
		BaseURL:    baseURL,
		ShareTTL:   shareTTL,
		ScanTTL:    scanTTL,
		Log:        logger,
	}
}

// rosterRow pairs a student with their status on the page's date; Status is
// empty when nothing has been marked yet.
type rosterRow struct {
	Student models.Student
	Status  string
}

type sheetData struct {
	viewdata.BaseVM
	Error    string
	Date     string
	Rows     []rosterRow
	Summary  attendancestore.Summary
	ShareURL string
}

type historyData struct {
	viewdata.BaseVM
	Student models.Student
	Records []models.Attendance
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance?date=YYYY-MM-DD                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSheet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	date := normalizeDate(query.Get(r, "date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, summary, err := h.buildSheet(ctx, user.Username, date)
	if err != nil {
		h.Log.Error("failed to build attendance sheet", zap.Error(err))
		h.renderSheet(w, r, sheetData{Date: date, Error: "Failed to load attendance."})
		return
	}

	h.renderSheet(w, r, sheetData{Date: date, Rows: rows, Summary: summary})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance/mark                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}

	studentID := r.FormValue("student_id")
	date := normalizeDate(r.FormValue("date"))
	status := r.FormValue("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Attendance.Mark(ctx, user.Username, studentID, date, status); err != nil {
		rows, summary, _ := h.buildSheet(ctx, user.Username, date)
		h.renderSheet(w, r, sheetData{Date: date, Rows: rows, Summary: summary, Error: err.Error()})
		return
	}

	http.Redirect(w, r, "/attendance?date="+date, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/history/{studentID}                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	studentID := chi.URLParam(r, "studentID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	student, err := h.Students.Get(ctx, user.Username, studentID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	records, err := h.Attendance.ListByStudent(ctx, user.Username, studentID)
	if err != nil {
		h.Log.Error("failed to list attendance history", zap.Error(err))
		http.Error(w, "Failed to load attendance history", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "attendance_history", historyData{
		BaseVM:  viewdata.NewBaseVM(r, "Attendance History", "/students"),
		Student: *student,
		Records: records,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance/share                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreateShare issues a read-only link to one day's sheet and re-renders
// the sheet with the link shown.
func (h *Handler) HandleCreateShare(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}
	date := normalizeDate(r.FormValue("date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	link, err := h.ShareLinks.CreateLink(ctx, user.Username, date, h.ShareTTL)
	if err != nil {
		h.Log.Error("failed to create share link", zap.Error(err))
		h.renderSheet(w, r, sheetData{Date: date, Error: "Failed to create a share link."})
		return
	}

	rows, summary, err := h.buildSheet(ctx, user.Username, date)
	if err != nil {
		h.Log.Error("failed to build attendance sheet", zap.Error(err))
	}

	h.renderSheet(w, r, sheetData{
		Date:     date,
		Rows:     rows,
		Summary:  summary,
		ShareURL: h.BaseURL + "/share/" + link.LinkID,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance/scan  and  POST /attendance/scan/{sessionID}               |
*─────────────────────────────────────────────────────────────────────────────*/

type scanData struct {
	viewdata.BaseVM
	Error   string
	Session models.ScanSession
	Marked  string // student just marked present, if any
}

// HandleStartScan opens a scan session for rapid check-in: each scan marks a
// student present for the session's date.
func (h *Handler) HandleStartScan(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}
	date := normalizeDate(r.FormValue("date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sess, err := h.ShareLinks.StartScanSession(ctx, user.Username, date, h.ScanTTL)
	if err != nil {
		h.Log.Error("failed to start scan session", zap.Error(err))
		h.renderSheet(w, r, sheetData{Date: date, Error: "Failed to start a scan session."})
		return
	}

	templates.Render(w, r, "attendance_scan", scanData{
		BaseVM:  viewdata.NewBaseVM(r, "Scan Check-In", "/attendance"),
		Session: sess,
	})
}

func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}
	studentID := r.FormValue("student_id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sess, err := h.ShareLinks.GetScanSession(ctx, user.Username, sessionID)
	if err != nil {
		h.renderSheet(w, r, sheetData{
			Date:  today(),
			Error: "The scan session has expired. Start a new one.",
		})
		return
	}

	// The scan must belong to a known student before it counts.
	student, err := h.Students.Get(ctx, user.Username, studentID)
	if err != nil {
		templates.Render(w, r, "attendance_scan", scanData{
			BaseVM:  viewdata.NewBaseVM(r, "Scan Check-In", "/attendance"),
			Session: *sess,
			Error:   "Unknown student ID: " + studentID,
		})
		return
	}

	if err := h.Attendance.Mark(ctx, user.Username, studentID, sess.Date, models.AttendancePresent); err != nil {
		templates.Render(w, r, "attendance_scan", scanData{
			BaseVM:  viewdata.NewBaseVM(r, "Scan Check-In", "/attendance"),
			Session: *sess,
			Error:   err.Error(),
		})
		return
	}

	if err := h.ShareLinks.RecordScan(ctx, user.Username, sessionID); err != nil {
		h.Log.Warn("failed to record scan count", zap.Error(err))
	}
	sess.Scans++

	templates.Render(w, r, "attendance_scan", scanData{
		BaseVM:  viewdata.NewBaseVM(r, "Scan Check-In", "/attendance"),
		Session: *sess,
		Marked:  student.Name,
	})
}

/*───────────────────────────── helpers ──────────────────────────────────────*/

func today() string {
	return time.Now().UTC().Format(attendancestore.DateFormat)
}

// normalizeDate falls back to today when the value is missing or not a real
// calendar date.
func normalizeDate(date string) string {
	if date == "" {
		return today()
	}
	if _, err := time.Parse(attendancestore.DateFormat, date); err != nil {
		return today()
	}
	return date
}

// buildSheet joins the roster with the day's records so unmarked students
// still appear.
func (h *Handler) buildSheet(ctx context.Context, owner, date string) ([]rosterRow, attendancestore.Summary, error) {
	roster, err := h.Students.ListByOwner(ctx, owner)
	if err != nil {
		return nil, attendancestore.Summary{}, err
	}

	records, err := h.Attendance.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, attendancestore.Summary{}, err
	}

	byStudent := make(map[string]string, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec.Status
	}

	rows := make([]rosterRow, 0, len(roster))
	summary := attendancestore.Summary{Date: date}
	for _, s := range roster {
		status := byStudent[s.StudentID]
		switch status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		}
		rows = append(rows, rosterRow{Student: s, Status: status})
	}
	return rows, summary, nil
}

func (h *Handler) renderSheet(w http.ResponseWriter, r *http.Request, data sheetData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Attendance", "/dashboard")
	templates.Render(w, r, "attendance", data)
}
