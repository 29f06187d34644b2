package breakpoint

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnableIdempotent(t *testing.T) {
	s := New(WithPollInterval(time.Millisecond))

	s.Enable(discardLogger())
	s.Enable(discardLogger())

	require.False(t, s.Attached(), "enable must not mark the sync attached")
	require.Equal(t, uint64(0), s.Marks())
}

func TestOnSignalLatchesAttach(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithPollInterval(time.Millisecond))
	s.Enable(slog.New(slog.NewTextHandler(&buf, nil)))

	s.OnSignal()
	s.OnSignal()
	s.OnSignal()

	require.True(t, s.Attached())
	// only the first delivery per attach cycle announces the console
	require.Equal(t, 1, strings.Count(buf.String(), "GDB console attached"))
}

func TestWaitBlocksUntilAttach(t *testing.T) {
	s := New(WithPollInterval(time.Millisecond))
	s.Enable(discardLogger())

	done := make(chan struct{})
	go func() {
		s.Wait(discardLogger())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before any console attached")
	case <-time.After(20 * time.Millisecond):
	}

	s.OnSignal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after attach")
	}
	require.Equal(t, uint64(1), s.Marks())
}

func TestWaitAfterAttachReturnsImmediately(t *testing.T) {
	s := New(WithPollInterval(time.Hour)) // a poll would hang the test
	s.Enable(discardLogger())
	s.OnSignal()

	s.Wait(discardLogger())
	s.Wait(discardLogger())

	require.Equal(t, uint64(2), s.Marks(), "every Wait issues its own marker call")
}

func TestWaitWithoutEnableIsNoop(t *testing.T) {
	s := New(WithPollInterval(time.Hour))

	s.Wait(discardLogger())

	require.Equal(t, uint64(0), s.Marks())
	require.False(t, s.Attached())
}

func TestSetLogger(t *testing.T) {
	s := New()

	require.False(t, s.SetLogger(discardLogger()), "sync not enabled yet")

	s.Enable(discardLogger())
	require.False(t, s.SetLogger(nil))
	require.True(t, s.SetLogger(discardLogger()))
}
