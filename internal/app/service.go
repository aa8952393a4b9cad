// Package app assembles the reference backend from configuration.
package app

import (
	"context"
	"errors"
	"net/http"

	"lawfirm-cms/internal/config"
	apphttp "lawfirm-cms/internal/http"

	"github.com/sirupsen/logrus"
)

const serverAddrPrefix = ":"

// Service is the running backend and the resources it owns.
type Service struct {
	config  *config.Config
	log     logrus.FieldLogger
	server  *apphttp.Server
	closers []func()
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Service) Start() error {
	s.log.WithField("port", s.config.Server.Port).Info("starting HTTP server")
	if err := s.server.Start(serverAddrPrefix + s.config.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the stores.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.Close()
	return err
}

// Close releases the stores without touching the server.
func (s *Service) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
