package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/client"
	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/model"
)

// Form endpoints answer a successful write with 303 See Other back to the
// list page, and a failure with an error page carrying the matching status.

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Rows(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderIndex(w, r, indexVM{Rows: rows, Priorities: model.PriorityOptions})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := parseNewTodo(r.FormValue("name"), r.FormValue("deadline"), r.FormValue("priority"))
	if err == nil {
		_, err = s.svc.Create(r.Context(), in)
	}
	if err != nil {
		s.logger.Error("failed to create todo", "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !r.Form.Has(client.ParamNewName) {
		s.writeError(w, r, clierr.New(clierr.InvalidInput, "missing parameter newName"))
		return
	}
	if _, err := s.svc.UpdateName(r.Context(), id, r.FormValue(client.ParamNewName)); err != nil {
		s.logger.Error("failed to update todo", "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleUpdateIsDone(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.svc.ToggleDone(r.Context(), id); err != nil {
		s.logger.Error("failed to change status", "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleUpdateDeadline(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := parseOptionalDate(r.FormValue(client.ParamNewDate))
	if err == nil {
		_, err = s.svc.UpdateDeadline(r.Context(), id, d)
	}
	if err != nil {
		s.logger.Error("failed to update deadline", "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleUpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := parsePriority(r.FormValue(client.ParamPriority))
	if err == nil {
		_, err = s.svc.UpdatePriority(r.Context(), id, p)
	}
	if err != nil {
		s.logger.Error("failed to update priority", "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete todo", "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// todoID reads the required todoId parameter from the query or form body.
func todoID(r *http.Request) (int64, error) {
	if err := r.ParseForm(); err != nil {
		return 0, clierr.Newf(clierr.InvalidInput, "parse form: %v", err)
	}
	raw := strings.TrimSpace(r.Form.Get(client.ParamTodoID))
	if raw == "" {
		return 0, clierr.New(clierr.InvalidTodoID, "missing parameter todoId")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidTodoID, "invalid todoId %q", raw)
	}
	return id, nil
}

// parseOptionalDate treats an empty value as "no date".
func parseOptionalDate(raw string) (*date.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := date.Parse(raw)
	if err != nil {
		return nil, clierr.New(clierr.InvalidDate, err.Error())
	}
	return &d, nil
}

func parsePriority(raw string) (model.Priority, error) {
	p, err := model.ParsePriority(strings.TrimSpace(raw))
	if err != nil {
		return model.PriorityNone, clierr.New(clierr.InvalidPriority, err.Error())
	}
	return p, nil
}

func parseNewTodo(name, deadline, priority string) (model.NewTodo, error) {
	d, err := parseOptionalDate(deadline)
	if err != nil {
		return model.NewTodo{}, err
	}
	p, err := parsePriority(priority)
	if err != nil {
		return model.NewTodo{}, err
	}
	return model.NewTodo{Name: name, Deadline: d, Priority: p}, nil
}
