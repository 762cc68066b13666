// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FilenameField = "filename"
	LevelField    = "level"
)

var (
	// ErrParsing reports failures that occur while decoding transport files.
	ErrParsing = errors.New("error parsing")
)

// TransportsFile is the document layout of a LOG_TRANSPORTS_FILE.
type TransportsFile struct {
	Transports []TransportConfig `json:"transports" yaml:"transports"`
}

// TransportConfig declares an extra file transport to attach at startup.
type TransportConfig struct {
	// Filename is resolved against Path, or against the default log path when Path is empty.
	Filename string `json:"filename" yaml:"filename"`
	// Level is the minimum severity written to the file. Empty inherits LOG_LEVEL.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (t TransportConfig) validate() []string {
	errorsList := []string{}
	if t.Filename == "" {
		errorsList = append(errorsList, fmt.Sprintf("missing field '%s' in transport", FilenameField))
	}
	if t.Level != "" && !IsValidLevel(t.Level) {
		errorsList = append(errorsList, fmt.Sprintf("unknown value '%s' for field '%s' in transport", t.Level, LevelField))
	}
	return errorsList
}

// LoadTransports parses the YAML file at path and returns every transport
// declared in it. The file may contain multiple documents.
func LoadTransports(path string) ([]TransportConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decodeTransports(file, path)
}

func decodeTransports(reader io.Reader, path string) ([]TransportConfig, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	transports := make([]TransportConfig, 0)
	for {
		document := new(TransportsFile)
		err := decoder.Decode(&document)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}

		// empty documents decode to nil
		if document == nil {
			continue
		}

		errorsList := []string{}
		for _, transport := range document.Transports {
			errorsList = append(errorsList, transport.validate()...)
		}
		if len(errorsList) > 0 {
			return nil, fmt.Errorf("%w %q: %s", ErrParsing, path, strings.Join(errorsList, "; "))
		}

		transports = append(transports, document.Transports...)
	}

	return transports, nil
}
