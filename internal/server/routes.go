// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	logconfig "github.com/mia-platform/logfacade/internal/config"
	"github.com/mia-platform/logfacade/internal/logger"
)

const (
	healthzPath    = statusPathPrefix + "healthz"
	readyPath      = statusPathPrefix + "ready"
	logsPath       = statusPathPrefix + "logs"
	defaultLogPath = logsPath + "/default"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// transportResponse describes a single attached transport.
type transportResponse struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Level string `json:"level"`
}

// logsResponse describes the process logger.
type logsResponse struct {
	Path                string              `json:"path"`
	DefaultFilename     string              `json:"defaultFilename"`
	DefaultFilenamePath string              `json:"defaultFilenamePath"`
	DefaultLogEnabled   bool                `json:"defaultLogEnabled"`
	Transports          []transportResponse `json:"transports"`
}

// addLogRequest is the body accepted to attach a new file transport.
type addLogRequest struct {
	Filename string `json:"filename"`
	Level    string `json:"level,omitempty"`
	Path     string `json:"path,omitempty"`
}

func statusRoutes(app *fiber.App, name, version string) {
	status := func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Status:  "OK",
			Name:    name,
			Version: version,
		})
	}

	app.Get(healthzPath, status)
	app.Get(readyPath, status)
}

func logsRoutes(app *fiber.App, facade *logger.Facade) {
	app.Get(logsPath, func(c *fiber.Ctx) error {
		return c.JSON(describeLogs(facade))
	})

	app.Post(logsPath, func(c *fiber.Ctx) error {
		request := new(addLogRequest)
		if err := c.BodyParser(request); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if request.Filename == "" {
			return fiber.NewError(http.StatusBadRequest, "filename is required")
		}

		opts := make([]logger.LogOption, 0, 2)
		if request.Level != "" {
			if !logconfig.IsValidLevel(request.Level) {
				return fiber.NewError(http.StatusBadRequest, "unknown level "+request.Level)
			}
			opts = append(opts, logger.WithLevel(logger.LevelFromString(request.Level)))
		}
		if err := validateLogFilename(request.Filename); err != nil {
			return err
		}
		if request.Path != "" {
			directory, err := logDirectoryWithin(facade.Path(), request.Path)
			if err != nil {
				return err
			}
			opts = append(opts, logger.WithDirectory(directory))
		}

		transport, err := facade.AddLog(request.Filename, opts...)
		if err != nil {
			return err
		}
		return c.Status(http.StatusCreated).JSON(describeTransport(transport))
	})

	app.Post(defaultLogPath, func(c *fiber.Ctx) error {
		if err := facade.EnableDefaultLog(); err != nil {
			return err
		}
		return c.SendStatus(http.StatusNoContent)
	})

	app.Delete(defaultLogPath, func(c *fiber.Ctx) error {
		facade.DisableDefaultLog()
		return c.SendStatus(http.StatusNoContent)
	})
}

// validateLogFilename accepts only plain file names; transports added from the
// admin routes always live below the log path.
func validateLogFilename(filename string) error {
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) || filepath.IsAbs(filename) {
		return fiber.NewError(http.StatusBadRequest, "filename must be a plain file name: "+filename)
	}
	return nil
}

// logDirectoryWithin resolves directory against base and rejects anything
// outside of it.
func logDirectoryWithin(base, directory string) (string, error) {
	resolved := directory
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(base, directory)
	}
	resolved = filepath.Clean(resolved)

	relative, err := filepath.Rel(base, resolved)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", fiber.NewError(http.StatusBadRequest, "path must be inside "+base+": "+directory)
	}
	return resolved, nil
}

func describeLogs(facade *logger.Facade) logsResponse {
	transports := facade.Transports()
	response := logsResponse{
		Path:                facade.Path(),
		DefaultFilename:     facade.DefaultFilename(),
		DefaultFilenamePath: facade.DefaultFilenamePath(),
		DefaultLogEnabled:   facade.DefaultLogEnabled(),
		Transports:          make([]transportResponse, 0, len(transports)),
	}
	for _, transport := range transports {
		response.Transports = append(response.Transports, describeTransport(transport))
	}
	return response
}

func describeTransport(transport *logger.Transport) transportResponse {
	return transportResponse{
		Name:  transport.Name(),
		Path:  transport.Path(),
		Level: transport.Level().String(),
	}
}
