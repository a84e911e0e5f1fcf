// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsTasks(t *testing.T) {
	p := New(Config{Workers: 3, QueueSize: 10})
	p.Start()

	var n atomic.Int32
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		ok := p.Submit("count", func(context.Context) error {
			defer wg.Done()
			n.Add(1)
			return nil
		})
		require.True(t, ok)
	}
	wg.Wait()
	assert.Equal(t, int32(5), n.Load())
	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_SurvivesFailuresAndPanics(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 10})
	p.Start()

	done := make(chan struct{})
	p.Submit("fails", func(context.Context) error { return errors.New("boom") })
	p.Submit("panics", func(context.Context) error { panic("kaboom") })
	p.Submit("after", func(context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not survive a failing task")
	}
	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_SubmitWhenStopped(t *testing.T) {
	p := New(Config{})
	assert.False(t, p.Submit("early", func(context.Context) error { return nil }))

	p.Start()
	require.NoError(t, p.Stop(context.Background()))
	assert.False(t, p.Submit("late", func(context.Context) error { return nil }))
}

func TestPool_DropsWhenFull(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1})
	p.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, p.Submit("block", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.True(t, p.Submit("queued", func(context.Context) error { return nil }))
	assert.False(t, p.Submit("dropped", func(context.Context) error { return nil }))

	close(release)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_StopDrainsQueue(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 10})
	p.Start()

	var n atomic.Int32
	for range 5 {
		p.Submit("slow", func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			n.Add(1)
			return nil
		})
	}
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(5), n.Load())
}

func TestPool_TaskTimeout(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1, Timeout: 10 * time.Millisecond})
	p.Start()

	errc := make(chan error, 1)
	p.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		errc <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not cancelled")
	}
	require.NoError(t, p.Stop(context.Background()))
}
