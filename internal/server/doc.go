// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the admin HTTP server of logfacade.
// It exposes health routes and routes to inspect and change the transports
// of the process logger at runtime; every other request is logged through
// the request middleware.
package server
