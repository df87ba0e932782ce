package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskwire.org/internal/obs"
	"taskwire.org/internal/todo"
)

type createTodoRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required,min=3,max=255"`
	Completed   boolish `json:"completed"`
}

type updateTodoRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=3,max=255"`
	Description *string `json:"description" validate:"omitnil,min=3,max=255"`
	Completed   boolish `json:"completed"`
}

type listMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

func (a *API) handleTodosCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTodos(w, r)
	case http.MethodPost:
		a.createTodo(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTodoResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/todos/"), "/")
	if path == "" || strings.Contains(path, "/") {
		writeMessage(w, http.StatusNotFound, "resource not found")
		return
	}

	if path == "stream" {
		a.streamTodos(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.showTodo(w, r, path)
	case http.MethodPut, http.MethodPatch:
		a.updateTodo(w, r, path)
	case http.MethodDelete:
		a.destroyTodo(w, r, path)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listTodos(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	q := todo.ListQuery{Search: r.URL.Query().Get("search")}
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeMessage(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		q.Page = page
	}

	result, err := a.todos.List(r.Context(), caller, q)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve Todo List")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": result.Items,
		"meta": listMeta{Page: result.Page, PerPage: result.PerPage, Total: result.Total},
	})
}

func (a *API) createTodo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	errs := validateStruct(req)
	if msgs := completedErrors(req.Completed, true); msgs != nil {
		if errs == nil {
			errs = map[string][]string{}
		}
		errs["completed"] = append(errs["completed"], msgs...)
	}
	if errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	created, err := a.todos.Create(r.Context(), caller, todo.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed.value,
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create Todo")
		return
	}

	w.Header().Set("Location", "/v1/todos/"+created.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Todo Created Successfully",
		"data":    created,
	})
}

func (a *API) showTodo(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	t, err := a.todos.Show(r.Context(), caller, id)
	if err != nil {
		handleTodoError(w, err, "Failed to retrieve Todo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo Retrieved Successfully",
		"data":    t,
	})
}

func (a *API) updateTodo(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	errs := validateStruct(req)
	if msgs := completedErrors(req.Completed, false); msgs != nil {
		if errs == nil {
			errs = map[string][]string{}
		}
		errs["completed"] = append(errs["completed"], msgs...)
	}
	if errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	in := todo.UpdateInput{Title: req.Title, Description: req.Description}
	if req.Completed.set {
		in.Completed = &req.Completed.value
	}

	updated, err := a.todos.Update(r.Context(), caller, id, in)
	if err != nil {
		handleTodoError(w, err, "Failed to update Todo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo Updated Successfully",
		"data":    updated,
	})
}

func (a *API) destroyTodo(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := a.todos.Destroy(r.Context(), caller, id); err != nil {
		handleTodoError(w, err, "Failed to delete Todo")
		return
	}
	writeMessage(w, http.StatusOK, "Todo Deleted Successfully")
}

func handleTodoError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, todo.ErrUnauthorized):
		writeMessage(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, todo.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Todo Not Found")
	default:
		obs.Error(generic, err, nil)
		writeMessage(w, http.StatusInternalServerError, generic)
	}
}
