// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger builds the process logger on top of hclog. A Facade fans
// messages out to a console transport, an optional default file transport and
// any number of extra file transports, each with its own minimum level.
// The facade is created once by the entry point and passed around explicitly
// or through the context helpers.
package logger
