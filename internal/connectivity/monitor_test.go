package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedProber struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (p *scriptedProber) Health(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.calls < len(p.results) {
		err = p.results[p.calls]
	}
	p.calls++
	if err != nil {
		return "", err
	}
	return "Backend is running", nil
}

func TestStartupProbeSetsConnected(t *testing.T) {
	prober := &scriptedProber{results: []error{nil}}
	m := NewMonitor(prober, Options{})

	require.False(t, m.Connected())
	require.True(t, m.Probe(context.Background()))
}

func TestProbeFailureFlipsToDisconnected(t *testing.T) {
	down := errors.New("connection refused")
	prober := &scriptedProber{results: []error{nil, down, down, down}}
	m := NewMonitor(prober, Options{})

	ctx := context.Background()
	require.True(t, m.Probe(ctx))
	require.False(t, m.Probe(ctx))
	require.False(t, m.Probe(ctx))
	require.False(t, m.Probe(ctx))
}

func TestNotifyFiresOnTransitionsOnly(t *testing.T) {
	down := errors.New("connection refused")
	prober := &scriptedProber{results: []error{nil, nil, down, down, nil}}

	var transitions []bool
	m := NewMonitor(prober, Options{Notify: func(connected bool) {
		transitions = append(transitions, connected)
	}})

	ctx := context.Background()
	for range 5 {
		m.Probe(ctx)
	}
	require.Equal(t, []bool{true, false, true}, transitions)
}

func TestRecoveryAfterOutage(t *testing.T) {
	down := errors.New("timeout")
	prober := &scriptedProber{results: []error{down, nil}}
	m := NewMonitor(prober, Options{})

	ctx := context.Background()
	require.False(t, m.Probe(ctx))
	require.True(t, m.Probe(ctx))
}
