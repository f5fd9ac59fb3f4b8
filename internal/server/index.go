package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/model"
)

type indexVM struct {
	Rows       []model.Row
	Priorities []string
}

var funcs = template.FuncMap{
	"selection": model.SelectionFor,
	"hasDeadline": func(label string) bool {
		return label != model.NoDeadline
	},
	"maxName": func() int { return model.MaxNameLength },
}

var indexTmpl = template.Must(template.New("index").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Todos</title>
</head>
<body>
<h1>Todos</h1>
<form id="todoForm" action="/createTodo" method="post">
  <input type="text" id="name" name="name" maxlength="{{maxName}}" required>
  <input type="date" id="deadline" name="deadline">
  <select id="priority" name="priority">
    {{- range .Priorities}}
    <option value="{{if eq . "None"}}{{else}}{{.}}{{end}}">{{.}}</option>
    {{- end}}
  </select>
  <button type="submit">Add</button>
</form>
<table>
  <thead><tr><th>Name</th><th>Status</th><th>Deadline</th><th>Priority</th><th></th></tr></thead>
  <tbody>
  {{- range .Rows}}
  {{- $sel := selection .Priority}}
  <tr data-todo-id="{{.ID}}">
    <td>
      <input type="hidden" name="todoId" value="{{.ID}}">
      <span class="editable-task">{{.Name}}</span>
      <span class="edit-icon">&#9998;</span>
    </td>
    <td>
      <span class="status-text" data-todo-id="{{.ID}}">{{.IsDone}}</span>
      <span class="status-icon" data-todo-id="{{.ID}}">&#8635;</span>
    </td>
    <td>
      <input type="date" class="deadline-input" data-todo-id="{{.ID}}" value="{{if hasDeadline .Deadline}}{{.Deadline}}{{end}}">
      <button type="button" class="clear-deadline-btn" data-todo-id="{{.ID}}">Clear</button>
    </td>
    <td>
      <select class="priority-select" data-todo-id="{{.ID}}">
        {{- range $.Priorities}}
        <option value="{{.}}"{{if eq . $sel}} selected{{end}}>{{.}}</option>
        {{- end}}
      </select>
    </td>
    <td>
      <form action="/deleteTodo?todoId={{.ID}}" method="post"><button type="submit">Delete</button></form>
    </td>
  </tr>
  {{- end}}
  </tbody>
</table>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error {{.Status}}</title></head>
<body>
<h1>Error {{.Status}}</h1>
<p class="error-code">{{.Code}}</p>
<p class="error-message">{{.Message}}</p>
<a href="/">Back</a>
</body>
</html>
`))

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, vm indexVM) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, vm); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, status int, ce *clierr.Error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := errorTmpl.Execute(w, struct {
		Status  int
		Code    string
		Message string
	}{status, ce.Code, ce.Message})
	if err != nil {
		s.logger.Error("render error page", "err", err)
	}
}
