// Package server is the HTTP boundary of the service: thin glue between
// the chi router and the task, member, contact and API key services.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/taskdesk/taskdesk/internal/apikeys"
	"github.com/taskdesk/taskdesk/internal/contacts"
	"github.com/taskdesk/taskdesk/internal/members"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/tasks"
)

// Config collects everything the router needs.
type Config struct {
	Logger        zerolog.Logger
	SessionSecret []byte
	CORSOrigins   []string

	Memberships store.MembershipStore

	Tasks    *tasks.Service
	Members  *members.Service
	Contacts *contacts.Service
	APIKeys  *apikeys.Service
}

// NewRouter builds the HTTP router. All /api routes sit behind the session
// middleware; /healthz does not.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	session := NewSessionMiddleware(cfg.SessionSecret, cfg.Memberships)

	tasksHandler := NewTasksHandler(cfg.Tasks)
	membersHandler := NewMembersHandler(cfg.Members)
	contactsHandler := NewContactsHandler(cfg.Contacts)
	keysHandler := NewAPIKeysHandler(cfg.APIKeys)

	r.Route("/api", func(r chi.Router) {
		r.Use(session.Handler)

		r.Get("/members/assignable", membersHandler.Assignable)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", tasksHandler.Create)
			r.Get("/", tasksHandler.AdminList)
			r.Get("/mine", tasksHandler.OwnList)
			r.Patch("/{taskID}/status", tasksHandler.UpdateStatus)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contactsHandler.Create)
			r.Get("/", contactsHandler.List)
			r.Get("/{contactID}", contactsHandler.Get)
			r.Patch("/{contactID}/stage", contactsHandler.UpdateStage)
			r.Post("/{contactID}/notes", contactsHandler.AddNote)
			r.Get("/{contactID}/timeline", contactsHandler.Timeline)
		})

		r.Route("/keys", func(r chi.Router) {
			r.Post("/", keysHandler.Create)
			r.Get("/", keysHandler.List)
			r.Delete("/{keyID}", keysHandler.Delete)
		})
	})

	return r
}
