// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTransports(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testCases := map[string]struct {
		path               string
		expectedTransports []TransportConfig
		expectedError      error
		errorContains      string
	}{
		"valid yaml file": {
			path: filepath.Join("testdata", "transports.yaml"),
			expectedTransports: []TransportConfig{
				{Filename: "extra.log", Level: "warn"},
				{Filename: "audit.log", Path: "/var/log/audit"},
			},
		},
		"multiple documents with an empty one": {
			path: filepath.Join("testdata", "multiple.yaml"),
			expectedTransports: []TransportConfig{
				{Filename: "first.log"},
				{Filename: "second.log", Level: "DEBUG"},
			},
		},
		"empty file": {
			path:               filepath.Join("testdata", "empty.yaml"),
			expectedTransports: []TransportConfig{},
		},
		"missing filename": {
			path:          filepath.Join("testdata", "missing-filename.yaml"),
			expectedError: ErrParsing,
			errorContains: "missing field 'filename'",
		},
		"unknown level": {
			path:          filepath.Join("testdata", "unknown-level.yaml"),
			expectedError: ErrParsing,
			errorContains: "unknown value 'verbose'",
		},
		"unknown field": {
			path:          filepath.Join("testdata", "unknown-field.yaml"),
			expectedError: ErrParsing,
			errorContains: "rotate",
		},
		"missing file": {
			path:          filepath.Join(tempDir, "missing.yaml"),
			expectedError: syscall.ENOENT,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			transports, err := LoadTransports(test.path)
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				if test.errorContains != "" {
					assert.ErrorContains(t, err, test.errorContains)
				}
				assert.Nil(t, transports)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedTransports, transports)
		})
	}
}
