package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, keysAndValues))
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.log("INFO", msg, keysAndValues) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues) }

func (l *testLogger) contains(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	d, err := New(logger)
	require.NoError(t, err)
	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Event
	d.Register(":FILTER:YEAR:TOGGLE:", func(e Event) (any, error) {
		got = e
		return "result", nil
	})

	result, err := d.Dispatch(Event{Command: ":FILTER:YEAR:TOGGLE:", Args: []string{"2021"}})

	require.NoError(t, err)
	assert.Equal(t, "result", result)
	assert.Equal(t, []string{"2021"}, got.Args)
	assert.False(t, got.Timestamp.IsZero())
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Event{Command: ":UNKNOWN:"})

	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), ":UNKNOWN:")
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Register(":VIEW:RESET:", func(Event) (any, error) { return nil, nil })

	assert.True(t, d.HasHandler(":VIEW:RESET:"))
	assert.False(t, d.HasHandler(":VIEW:PAN:"))
}

func TestDispatcher_Commands(t *testing.T) {
	d, _ := newTestDispatcher(t)
	for _, c := range []string{":VIEW:ZOOM:", ":FILTER:RESET:", ":LEGEND:CLICK:"} {
		d.Register(c, func(Event) (any, error) { return nil, nil })
	}

	assert.Equal(t, []string{":FILTER:RESET:", ":LEGEND:CLICK:", ":VIEW:ZOOM:"}, d.Commands())
}

func TestDispatcher_ReRegisterReplaces(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.Register(":X:", func(Event) (any, error) { return 1, nil })
	d.Register(":X:", func(Event) (any, error) { return 2, nil })

	result, err := d.Dispatch(Event{Command: ":X:"})
	require.NoError(t, err)
	assert.Equal(t, 2, result)
}

func TestDispatcher_HandlerErrorPassedThrough(t *testing.T) {
	d, _ := newTestDispatcher(t)
	boom := errors.New("boom")
	d.Register(":X:", func(Event) (any, error) { return nil, boom })

	_, err := d.Dispatch(Event{Command: ":X:"})
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)
	d.Register(":OK:", func(Event) (any, error) { return nil, nil }, Logged())
	d.Register(":FAIL:", func(Event) (any, error) { return nil, errors.New("bad args") }, Logged())

	_, err := d.Dispatch(Event{Command: ":OK:"})
	require.NoError(t, err)
	assert.True(t, logger.contains("DEBUG: handling event"))
	assert.True(t, logger.contains("DEBUG: event complete"))

	_, err = d.Dispatch(Event{Command: ":FAIL:"})
	require.Error(t, err)
	assert.True(t, logger.contains("ERROR: event failed"))
}

func TestDispatcher_UnloggedHandlerIsQuiet(t *testing.T) {
	d, logger := newTestDispatcher(t)
	d.Register(":QUIET:", func(Event) (any, error) { return nil, nil })

	_, err := d.Dispatch(Event{Command: ":QUIET:"})
	require.NoError(t, err)
	assert.Empty(t, logger.messages)
}

func TestDispatcher_NilLogger(t *testing.T) {
	d, err := New(nil)
	require.NoError(t, err)
	d.Register(":X:", func(Event) (any, error) { return "ok", nil }, Logged())

	result, err := d.Dispatch(Event{Command: ":X:"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func collectSums(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					out[m.Name] += dp.Value
				}
			}
		}
	}
	return out
}

func TestDispatcher_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	d, err := NewWithMeterProvider(nil, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	d.Register(":VIEW:RESET:", func(Event) (any, error) { return nil, nil })
	d.Register(":VIEW:ZOOM:", func(Event) (any, error) { return nil, errors.New("bad zoom") })

	_, _ = d.Dispatch(Event{Command: ":VIEW:RESET:"})
	_, _ = d.Dispatch(Event{Command: ":VIEW:RESET:"})
	_, _ = d.Dispatch(Event{Command: ":VIEW:ZOOM:"})

	sums := collectSums(t, reader)
	assert.Equal(t, int64(3), sums["dispatcher.events.processed"])
	assert.Equal(t, int64(1), sums["dispatcher.events.failed"])
}
