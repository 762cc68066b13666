// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfacade/internal/config"
	"github.com/mia-platform/logfacade/internal/logger"
)

func testLogger(t *testing.T) (*logger.Facade, *bytes.Buffer) {
	t.Helper()

	buffer := new(bytes.Buffer)
	facade, err := logger.New(&config.Config{
		LogPath:          t.TempDir(),
		LogFilename:      "info.log",
		CreatePath:       true,
		EnableDefaultLog: true,
		LogLevel:         "info",
	}, logger.WithConsoleOutput(buffer))
	require.NoError(t, err)
	t.Cleanup(func() { _ = facade.Close() })

	return facade, buffer
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestCmds(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		cmd                  func() *cobra.Command
		args                 []string
		expectedError        error
		expectedErrorMessage string
		expectedUsage        bool
	}{
		"emit command with no arguments returns no error and print usage": {
			cmd:           EmitCmd,
			args:          []string{},
			expectedUsage: true,
		},
		"emit command with invalid level returns error and usage": {
			cmd:                  EmitCmd,
			args:                 []string{"loud", "message"},
			expectedUsage:        true,
			expectedError:        errInvalidLevel,
			expectedErrorMessage: errInvalidLevel.Error() + ": loud\n",
		},
		"emit command without message returns error and usage": {
			cmd:                  EmitCmd,
			args:                 []string{"info"},
			expectedUsage:        true,
			expectedError:        errNoMessage,
			expectedErrorMessage: errNoMessage.Error() + "\n",
		},
		"emit command with invalid extra log level returns error and usage": {
			cmd:                  EmitCmd,
			args:                 []string{"info", "message", "--" + extraLogLevelFlagName, "loud"},
			expectedUsage:        true,
			expectedError:        errInvalidLevel,
			expectedErrorMessage: errInvalidLevel.Error() + ": loud\n",
		},
		"emit command with missing extra log folder returns error and no usage": {
			cmd:           EmitCmd,
			args:          []string{"info", "message", "--" + extraLogFlagName, filepath.Join("missing", "extra.log")},
			expectedError: logger.ErrTransportOpen,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			facade, _ := testLogger(t)
			cmd := test.cmd()
			stderr := new(bytes.Buffer)
			stdout := new(bytes.Buffer)
			cmd.SetErr(stderr)
			cmd.SetOut(stdout)
			cmd.SetArgs(test.args)

			err := cmd.ExecuteContext(logger.WithContext(t.Context(), facade))
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
			} else {
				assert.NoError(t, err)
			}

			if test.expectedErrorMessage != "" {
				assert.True(t, strings.HasPrefix(stderr.String(), test.expectedErrorMessage), stderr.String())
			}

			if test.expectedUsage {
				assert.Contains(t, stdout.String()+stderr.String(), "Usage:")
			} else {
				assert.NotContains(t, stdout.String()+stderr.String(), "Usage:")
			}
		})
	}
}

func TestEmitCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes to console and default log", func(t *testing.T) {
		t.Parallel()

		facade, buffer := testLogger(t)
		cmd := EmitCmd()
		cmd.SetArgs([]string{"warn", "disk", "almost", "full"})
		require.NoError(t, cmd.ExecuteContext(logger.WithContext(t.Context(), facade)))

		assert.Contains(t, buffer.String(), "[WARN]  disk almost full")
		assert.Contains(t, readFile(t, facade.DefaultFilenamePath()), "disk almost full")
	})

	t.Run("writes to extra logs with their own level", func(t *testing.T) {
		t.Parallel()

		facade, _ := testLogger(t)
		ctx := logger.WithContext(t.Context(), facade)
		extraPath := filepath.Join(facade.Path(), "errors.log")

		for _, args := range [][]string{
			{"info", "informational", "--" + extraLogFlagName, "errors.log", "--" + extraLogLevelFlagName, "error"},
			{"error", "failure", "--" + extraLogFlagName, "errors.log", "--" + extraLogLevelFlagName, "error"},
		} {
			cmd := EmitCmd()
			cmd.SetArgs(args)
			require.NoError(t, cmd.ExecuteContext(ctx))
		}

		extra := readFile(t, extraPath)
		assert.NotContains(t, extra, "informational")
		assert.Contains(t, extra, "failure")
		assert.Len(t, facade.Transports(), 2, "extra logs are detached after the message")
	})

	t.Run("skips the default log", func(t *testing.T) {
		t.Parallel()

		facade, buffer := testLogger(t)
		cmd := EmitCmd()
		cmd.SetArgs([]string{"info", "console", "only", "--" + noDefaultLogFlagName})
		require.NoError(t, cmd.ExecuteContext(logger.WithContext(t.Context(), facade)))

		assert.Contains(t, buffer.String(), "console only")
		assert.NotContains(t, readFile(t, facade.DefaultFilenamePath()), "console only")
		assert.False(t, facade.DefaultLogEnabled())
	})
}

func TestPathsCmd(t *testing.T) {
	t.Parallel()

	facade, _ := testLogger(t)
	cmd := PathsCmd()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(logger.WithContext(t.Context(), facade)))

	expected := "path: " + facade.Path() + "\n" +
		"defaultFilename: info.log\n" +
		"defaultFilenamePath: " + filepath.Join(facade.Path(), "info.log") + "\n" +
		"defaultLogEnabled: true\n"
	assert.Equal(t, expected, stdout.String())
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		args               []string
		toComplete         string
		expectedCompletion []string
	}{
		"no args, complete levels": {
			args:               []string{},
			expectedCompletion: availableLevels,
		},
		"some args, no completions": {
			args: []string{"info"},
		},
		"no args, partial string, return filtered levels": {
			args:               []string{},
			toComplete:         "D",
			expectedCompletion: []string{"debug"},
		},
		"no args, partial wrong string, return no level": {
			args:       []string{},
			toComplete: "x",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			args, directive := validArgsFunc(nil, test.args, test.toComplete)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.ElementsMatch(t, test.expectedCompletion, args)
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	stderr := new(bytes.Buffer)
	cmd.SetErr(stderr)
	cmd.SetOut(stderr)

	require.NoError(t, handleError(cmd, errNoArguments))
	assert.Contains(t, stderr.String(), "Usage:")

	stderr.Reset()
	err := handleError(cmd, context.Canceled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, context.Canceled.Error()+"\n", stderr.String())
}
