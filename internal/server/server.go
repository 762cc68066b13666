// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/logfacade/internal/info"
	"github.com/mia-platform/logfacade/internal/logger"
)

const (
	loggerName = "logfacade:server"

	statusPathPrefix = "/-/"
)

type Server interface {
	Start() error
	Stop() error
}

type impServer struct {
	config

	app *fiber.App
	log logger.Logger
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer builds the admin server for the logger found in ctx.
func NewServer(ctx context.Context) (Server, error) {
	return newServer(ctx)
}

func newServer(ctx context.Context) (*impServer, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	facade := logger.FromContext(ctx)
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		ErrorHandler:          errorHandler,
	})
	app.Use(logger.RequestMiddlewareLogger(facade, []string{statusPathPrefix}))

	statusRoutes(app, info.AppName, info.Version)
	logsRoutes(app, facade)

	return &impServer{
		config: *cfg,
		app:    app,
		log:    facade.WithName(loggerName),
	}, nil
}

func (s *impServer) Start() error {
	s.log.Info("starting server", "host", s.HTTPHost, "port", s.HTTPPort)
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	s.log.Info("stopping server")
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

// errorHandler renders every handler error with the same JSON shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"statusCode": code,
		"error":      http.StatusText(code),
		"message":    err.Error(),
	})
}
