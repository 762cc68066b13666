// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeServer(t *testing.T) {
	t.Parallel()

	srv := NewFakeServer(t)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case <-srv.Started():
	case <-time.After(time.Second):
		require.Fail(t, "server not started")
	}

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
	require.NoError(t, <-errChan)

	select {
	case <-srv.Stopped():
	default:
		require.Fail(t, "server not stopped")
	}
}
