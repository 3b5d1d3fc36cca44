package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ncecere/voice_translator/internal/config"
)

func TestCheckNowRecordsStatuses(t *testing.T) {
	m := NewMonitor(config.HealthConfig{CheckInterval: time.Minute, Timeout: time.Second}, nil)
	m.checks = map[string]Check{
		"google": func(context.Context) error { return nil },
		"openai": func(context.Context) error { return errors.New("401 unauthorized") },
	}

	require.True(t, m.Healthy())
	m.CheckNow(context.Background())

	snap := m.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, "google", snap[0].Provider)
	require.True(t, snap[0].Healthy)
	require.Equal(t, "openai", snap[1].Provider)
	require.False(t, snap[1].Healthy)
	require.Equal(t, "401 unauthorized", snap[1].Error)
	require.False(t, m.Healthy())
}

func TestCheckHonoursTimeout(t *testing.T) {
	m := NewMonitor(config.HealthConfig{CheckInterval: time.Minute, Timeout: 20 * time.Millisecond}, nil)
	m.checks = map[string]Check{
		"slow": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	m.CheckNow(context.Background())
	snap := m.Snapshot()
	require.Len(t, snap, 1)
	require.False(t, snap[0].Healthy)
}

func TestStartRunsInitialSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{}, 1)
	m := NewMonitor(config.HealthConfig{CheckInterval: time.Hour}, nil)
	m.Start(ctx, map[string]Check{
		"google": func(context.Context) error {
			select {
			case done <- struct{}{}:
			default:
			}
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("initial health sweep did not run")
	}
}
