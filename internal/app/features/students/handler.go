// internal/app/features/students/handler.go
package students

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

type Handler struct {
	DB       docstore.DB
	Students *studentstore.Store
	Log      *zap.Logger
}

func NewHandler(db docstore.DB, students *studentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Students: students, Log: logger}
}

type rosterData struct {
	viewdata.BaseVM
	Error    string
	Students []models.Student
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /students                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	roster, err := h.Students.ListByOwner(ctx, user.Username)
	if err != nil {
		h.Log.Error("failed to list students", zap.Error(err))
		h.renderRoster(w, r, nil, "Failed to load the student roster.")
		return
	}

	h.renderRoster(w, r, roster, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /students                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.rosterError(w, r, user.Username, "Invalid form data.")
		return
	}

	student := models.Student{
		StudentID: r.FormValue("student_id"),
		Name:      htmlsanitize.StripTags(r.FormValue("name")),
		Course:    htmlsanitize.StripTags(r.FormValue("course")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Students.Create(ctx, user.Username, student); err != nil {
		h.rosterError(w, r, user.Username, err.Error())
		return
	}

	h.Log.Info("student added",
		zap.String("owner", user.Username),
		zap.String("student_id", student.StudentID))
	http.Redirect(w, r, "/students", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /students/{studentID}/delete                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the student and every attendance record they own.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	studentID := chi.URLParam(r, "studentID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Students.Delete(ctx, h.DB, user.Username, studentID); err != nil {
		h.rosterError(w, r, user.Username, err.Error())
		return
	}

	h.Log.Info("student deleted",
		zap.String("owner", user.Username),
		zap.String("student_id", studentID))
	http.Redirect(w, r, "/students", http.StatusSeeOther)
}

/*───────────────────────────── helpers ──────────────────────────────────────*/

func (h *Handler) rosterError(w http.ResponseWriter, r *http.Request, owner, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	roster, err := h.Students.ListByOwner(ctx, owner)
	if err != nil {
		h.Log.Error("failed to list students", zap.Error(err))
	}
	h.renderRoster(w, r, roster, msg)
}

func (h *Handler) renderRoster(w http.ResponseWriter, r *http.Request, roster []models.Student, errMsg string) {
	templates.Render(w, r, "students", rosterData{
		BaseVM:   viewdata.NewBaseVM(r, "Students", "/dashboard"),
		Error:    errMsg,
		Students: roster,
	})
}
