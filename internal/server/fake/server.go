// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"sync"
	"testing"

	"github.com/mia-platform/logfacade/internal/server"
)

var _ server.Server = &Server{}

// Server records the lifecycle calls made by the serve command.
type Server struct {
	tb testing.TB

	startedChan chan struct{}
	closedChan  chan struct{}
	stopOnce    sync.Once
}

func NewFakeServer(tb testing.TB) *Server {
	tb.Helper()

	return &Server{
		tb:          tb,
		startedChan: make(chan struct{}),
		closedChan:  make(chan struct{}),
	}
}

// Start blocks until Stop is called.
func (s *Server) Start() error {
	s.tb.Helper()
	close(s.startedChan)
	<-s.closedChan
	return nil
}

func (s *Server) Stop() error {
	s.tb.Helper()
	s.stopOnce.Do(func() { close(s.closedChan) })
	return nil
}

// Started is closed once Start has been called.
func (s *Server) Started() <-chan struct{} {
	return s.startedChan
}

// Stopped is closed once Stop has been called.
func (s *Server) Stopped() <-chan struct{} {
	return s.closedChan
}
