// Package server exposes the domain operations over HTTP: one query/mutation
// endpoint plus a health check. The transport stays thin; all authorization
// lives in the operations themselves.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/bugasmarcondes/taskade-backend/internal/service"
	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

type Server struct {
	svc      *service.Service
	resolver *service.IdentityResolver
	store    store.Store
	log      *log.Logger
}

func New(svc *service.Service, resolver *service.IdentityResolver, st store.Store, logger *log.Logger) *Server {
	return &Server{svc: svc, resolver: resolver, store: st, log: logger}
}

// Handler returns the full middleware-wrapped handler: CORS around the
// router, request logging and identity resolution on the API subtree.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requestLog, s.identity)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/query", s.handleQuery).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// envelope is the request body of POST /api/query.
type envelope struct {
	Operation string          `json:"operation"`
	Input     json.RawMessage `json:"input"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req envelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid request body")
		return
	}
	if len(req.Input) == 0 {
		req.Input = json.RawMessage("{}")
	}

	ctx := r.Context()
	rc := service.RequestContext{Store: s.store, User: identityFrom(ctx)}

	var (
		data any
		err  error
	)
	switch req.Operation {
	case "signUp":
		var input service.SignUpInput
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.SignUp(ctx, rc, input)
		}
	case "signIn":
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.SignIn(ctx, rc, input.Email, input.Password)
		}
	case "myTaskLists":
		data, err = s.svc.MyTaskLists(ctx, rc)
	case "getTaskList":
		var input struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.GetTaskList(ctx, rc, input.ID)
		}
	case "createTaskList":
		var input struct {
			Title string `json:"title"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.CreateTaskList(ctx, rc, input.Title)
		}
	case "updateTaskList":
		var input struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.UpdateTaskList(ctx, rc, input.ID, input.Title)
		}
	case "deleteTaskList":
		var input struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.DeleteTaskList(ctx, rc, input.ID)
		}
	case "addUserToTaskList":
		var input struct {
			TaskListID string `json:"taskListId"`
			UserID     string `json:"userId"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.AddUserToTaskList(ctx, rc, input.TaskListID, input.UserID)
		}
	case "createToDo":
		var input struct {
			Content    string `json:"content"`
			TaskListID string `json:"taskListId"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.CreateToDo(ctx, rc, input.Content, input.TaskListID)
		}
	case "updateToDo":
		var input struct {
			ID          string  `json:"id"`
			Content     *string `json:"content"`
			IsCompleted *bool   `json:"isCompleted"`
		}
		if err = json.Unmarshal(req.Input, &input); err == nil {
			data, err = s.svc.UpdateToDo(ctx, rc, input.ID, input.Content, input.IsCompleted)
		}
	default:
		writeError(w, http.StatusBadRequest, "BadRequest", "unknown operation: "+req.Operation)
		return
	}

	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) writeOperationError(w http.ResponseWriter, err error) {
	var authErr *service.AuthenticationError
	if errors.As(err, &authErr) {
		writeError(w, http.StatusUnauthorized, "AuthenticationError", authErr.Message)
		return
	}
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		writeError(w, http.StatusUnprocessableEntity, "ValidationError", valErr.Message)
		return
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid input")
		return
	}
	s.log.Error("operation failed", "err", err)
	writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errType, message string) {
	writeJSON(w, code, map[string]any{
		"error": map[string]string{"type": errType, "message": message},
	})
}
