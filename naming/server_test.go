package naming

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopIsIdempotentAndRecordsCause(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	cause := errors.New("shutting down for maintenance")

	srv.Stop(context.Background(), cause)
	srv.Stop(context.Background(), errors.New("second call should be ignored"))

	select {
	case <-srv.Stopped():
	default:
		t.Fatal("Stopped channel should be closed after Stop")
	}
	assert.Equal(t, cause, srv.Cause())
}

func TestStopWithNilCauseIsCleanShutdown(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	srv.Stop(context.Background(), nil)
	require.NoError(t, srv.Cause())
}
