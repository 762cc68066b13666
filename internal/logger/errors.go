// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import "errors"

var (
	// ErrLogPathCreation is returned by New when the log directory cannot be created.
	ErrLogPathCreation = errors.New("cannot create log path")

	// ErrTransportOpen is returned when a file transport cannot be opened.
	ErrTransportOpen = errors.New("cannot open log file")

	// ErrFacadeClosed is returned when attaching transports to a closed or discarding facade.
	ErrFacadeClosed = errors.New("logger is closed")
)
