// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	requestIDHeaderName    = "x-request-id"
	userAgentHeaderName    = "user-agent"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// requestFields are the request attributes shared by both log lines.
type requestFields struct {
	method        string
	path          string
	userAgent     string
	hostname      string
	forwardedHost string
	ip            string
}

func (r requestFields) keyValues() []interface{} {
	return []interface{}{
		"method", r.method,
		"path", r.path,
		"userAgent", r.userAgent,
		"hostname", r.hostname,
		"forwardedHost", r.forwardedHost,
		"ip", r.ip,
	}
}

func newRequestFields(c *fiber.Ctx) requestFields {
	return requestFields{
		method:        c.Method(),
		path:          string(c.Request().URI().RequestURI()),
		userAgent:     c.Get(userAgentHeaderName),
		hostname:      removePort(string(c.Request().Host())),
		forwardedHost: c.Get(forwardedHostHeaderKey),
		ip:            c.Get(forwardedForHeaderKey),
	}
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// GetReqID returns the request id header, or a new random uuid when missing.
func GetReqID(c *fiber.Ctx) string {
	if requestID := c.Get(requestIDHeaderName); requestID != "" {
		return requestID
	}
	return uuid.NewString()
}

// responseStatus returns the status code and body size of the response,
// taking into account errors returned by the handler chain.
func responseStatus(c *fiber.Ctx, handlerErr error) (int, int) {
	var fiberErr *fiber.Error
	if errors.As(handlerErr, &fiberErr) {
		return fiberErr.Code, len(fiberErr.Message)
	}

	bodySize := len(c.Response().Body())
	if content := c.GetRespHeader(fiber.HeaderContentLength); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			bodySize = length
		}
	}
	return c.Response().StatusCode(), bodySize
}

// RequestMiddlewareLogger is a fiber middleware to log all requests.
// It logs the incoming request and, once completed, its status and latency.
// Requests whose path starts with one of excludedPrefix are not logged.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := newRequestFields(c)
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(fields.path, prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		requestLogger := logger.WithName("request").WithName(GetReqID(c))
		requestLogger.Trace(IncomingRequestMessage, fields.keyValues()...)

		err := c.Next()

		statusCode, bodySize := responseStatus(c, err)
		completed := append(fields.keyValues(),
			"statusCode", statusCode,
			"bytes", bodySize,
			"responseTime", float64(time.Since(start).Milliseconds()),
		)
		requestLogger.Info(RequestCompletedMessage, completed...)

		return err
	}
}
