package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/client"
	"github.com/idilsaglam/todo-inline/internal/model"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

type createRequest struct {
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, clierr.Newf(clierr.InvalidInput, "decode request: %v", err))
		return
	}
	in, err := parseNewTodo(req.Name, req.Deadline, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Create(r.Context(), in)
	if err != nil {
		s.logger.Error("failed to create todo", "err", err)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: fmt.Sprintf("Todo: %s was saved", t.Name)})
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Rows(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAPIUpdateName(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, func(id int64) (model.Todo, error) {
		if !r.Form.Has(client.ParamNewName) {
			return model.Todo{}, clierr.New(clierr.InvalidInput, "missing parameter newName")
		}
		return s.svc.UpdateName(r.Context(), id, r.Form.Get(client.ParamNewName))
	})
}

func (s *Server) handleAPIChangeIsDone(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, func(id int64) (model.Todo, error) {
		return s.svc.ToggleDone(r.Context(), id)
	})
}

func (s *Server) handleAPIUpdateDeadline(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, func(id int64) (model.Todo, error) {
		d, err := parseOptionalDate(r.Form.Get(client.ParamNewDate))
		if err != nil {
			return model.Todo{}, err
		}
		return s.svc.UpdateDeadline(r.Context(), id, d)
	})
}

func (s *Server) handleAPIUpdatePriority(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, func(id int64) (model.Todo, error) {
		p, err := parsePriority(r.Form.Get(client.ParamPriority))
		if err != nil {
			return model.Todo{}, err
		}
		return s.svc.UpdatePriority(r.Context(), id, p)
	})
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
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
	w.WriteHeader(http.StatusNoContent)
}

// apiMutate parses todoId, runs fn and answers with the updated row.
func (s *Server) apiMutate(w http.ResponseWriter, r *http.Request, fn func(id int64) (model.Todo, error)) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := fn(id)
	if err != nil {
		s.logger.Error("failed to update todo", "path", r.URL.Path, "todoId", id, "err", err)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ToRow(t))
}
