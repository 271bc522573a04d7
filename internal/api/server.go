package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/comunifi/droprelay/internal/codesession"
	"github.com/comunifi/droprelay/internal/filedrop"
	"github.com/comunifi/droprelay/internal/ws"
)

type Server struct {
	allowedOrigin string
	files         *filedrop.Registry
	code          *codesession.Registry
	manager       *ws.Manager

	srv *http.Server
}

func NewServer(allowedOrigin string, files *filedrop.Registry, code *codesession.Registry, manager *ws.Manager) *Server {
	return &Server{allowedOrigin: allowedOrigin, files: files, code: code, manager: manager}
}

func (s *Server) Start(port int, handler http.Handler) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start the server
	log.Printf("API server starting on :%v", port)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	return s.srv.Shutdown(ctx)
}
