package api

import (
	"github.com/comunifi/droprelay/internal/codesession"
	"github.com/comunifi/droprelay/internal/filedrop"
	"github.com/comunifi/droprelay/internal/version"
	"github.com/comunifi/droprelay/pkg/relay"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) CreateBaseRouter() *chi.Mux {
	cr := chi.NewRouter()

	return cr
}

func (s *Server) AddMiddleware(cr *chi.Mux) *chi.Mux {

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)
	cr.Use(middleware.Recoverer)

	// configure custom middleware
	cr.Use(CorsMiddleware(s.allowedOrigin))
	cr.Use(HealthMiddleware)

	return cr
}

func (s *Server) AddRoutes(cr *chi.Mux) *chi.Mux {
	// instantiate handlers
	v := version.NewService()

	// configure routes
	cr.Route("/version", func(cr chi.Router) {
		cr.Get("/", v.Current)
	})

	cr.Get("/ws", s.manager.Connect) // socket for file drops and code sessions

	return cr
}

// AddEventHandlers routes the named websocket events to the registries
func (s *Server) AddEventHandlers() {
	fd := filedrop.NewHandlers(s.files, s.manager)
	cs := codesession.NewHandlers(s.code, s.manager)

	// file drop
	s.manager.Handle(relay.WSEventCreateRoom, fd.CreateRoom)
	s.manager.Handle(relay.WSEventJoinRoom, fd.JoinRoom)

	// code sessions
	s.manager.Handle(relay.WSEventCreateCodeSession, cs.CreateSession)
	s.manager.Handle(relay.WSEventJoinCodeSession, cs.JoinSession)
	s.manager.Handle(relay.WSEventSendCodeUpdate, cs.SendUpdate)
}
