package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestartCreatesOneTimer(t *testing.T) {
	factory := &tickerFactory{}
	p := newTestPoller(newFakeClient(), &fakeSink{}, Options{NewTicker: factory.New})
	defer p.Close(context.Background())

	for i := 0; i < 3; i++ {
		p.OnDaemonDead()
	}
	if factory.count() != 0 {
		t.Fatalf("tickers created while stopped: %d", factory.count())
	}

	p.OnDaemonRestarted()
	p.OnDaemonRestarted()
	if factory.count() != 1 {
		t.Fatalf("tickers = %d, want 1", factory.count())
	}
	if d := factory.last().d; d != 1000*time.Millisecond {
		t.Errorf("interval = %v, want 1s", d)
	}
	if !p.State().Running {
		t.Error("poller not running after restart")
	}

	first := factory.last()
	p.OnDaemonDead()
	p.OnDaemonDead()
	waitFor(t, "ticker stop", first.isStopped)
	if p.State().Running {
		t.Error("poller running after daemon death")
	}

	p.OnDaemonRestarted()
	if factory.count() != 2 {
		t.Errorf("tickers = %d, want 2", factory.count())
	}
}

func TestLoopTicks(t *testing.T) {
	factory := &tickerFactory{}
	client := newFakeClient()
	p := newTestPoller(client, &fakeSink{}, Options{NewTicker: factory.New})
	defer p.Close(context.Background())

	p.Start()
	factory.last().c <- time.Now()
	waitFor(t, "tick", func() bool { return len(client.snapshotCalls()) == 4 })
}

func TestSetInterval(t *testing.T) {
	factory := &tickerFactory{}
	p := newTestPoller(newFakeClient(), &fakeSink{}, Options{NewTicker: factory.New})
	defer p.Close(context.Background())

	p.SetInterval(250 * time.Millisecond)
	if factory.count() != 0 {
		t.Fatal("SetInterval started a stopped poller")
	}

	p.Start()
	p.SetInterval(250 * time.Millisecond)
	if factory.count() != 1 {
		t.Fatalf("unchanged interval restarted the timer")
	}

	p.SetInterval(2 * time.Second)
	if factory.count() != 2 {
		t.Fatalf("tickers = %d, want 2", factory.count())
	}
	if d := factory.last().d; d != 2*time.Second {
		t.Errorf("interval = %v, want 2s", d)
	}
	if got := p.State().Interval; got != 2*time.Second {
		t.Errorf("State().Interval = %v", got)
	}
}

func TestStartAfterClose(t *testing.T) {
	factory := &tickerFactory{}
	p := newTestPoller(newFakeClient(), &fakeSink{}, Options{NewTicker: factory.New})
	p.Start()

	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !factory.last().isStopped() {
		t.Error("ticker not stopped after Close")
	}

	p.OnDaemonRestarted()
	if factory.count() != 1 {
		t.Errorf("poller restarted after Close")
	}
}

func TestSetIntervalDuringTickDoesNotOverlap(t *testing.T) {
	factory := &tickerFactory{}
	client := newFakeClient()

	var (
		active, peak, calls atomic.Int32
		entered             = make(chan struct{})
		release             = make(chan struct{})
		once                sync.Once
	)
	client.onEvents = func() {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			cur := peak.Load()
			if n <= cur || peak.CompareAndSwap(cur, n) {
				break
			}
		}
		if calls.Add(1) == 1 {
			once.Do(func() { close(entered) })
			<-release
		}
	}

	p := newTestPoller(client, &fakeSink{}, Options{NewTicker: factory.New})
	defer p.Close(context.Background())

	p.Start()
	factory.last().c <- time.Now()
	<-entered

	p.SetInterval(2 * time.Second)
	factory.last().c <- time.Now()
	time.Sleep(20 * time.Millisecond)
	close(release)

	waitFor(t, "second tick", func() bool { return calls.Load() == 2 })
	if got := peak.Load(); got != 1 {
		t.Errorf("%d ticks ran concurrently, want 1", got)
	}
}
