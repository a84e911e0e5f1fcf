// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package worker runs best-effort background tasks on a fixed number of
// goroutines fed by a bounded queue. Tasks never block the code that
// submits them and their failures are only logged.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config holds pool configuration.
type Config struct {
	Workers   int           // number of goroutines
	QueueSize int           // pending tasks before Submit starts dropping
	Timeout   time.Duration // per-task deadline, 0 for none
}

// DefaultConfig returns the pool configuration used when none is set.
func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 100, Timeout: 30 * time.Second}
}

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Pool is a bounded background task runner.
type Pool struct {
	cfg     Config
	queue   chan task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	stopped bool
	base    context.Context
	cancel  context.CancelFunc
}

// New creates a pool. Call Start before submitting tasks.
func New(cfg Config) *Pool {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	return &Pool{cfg: cfg, queue: make(chan task, cfg.QueueSize)}
}

// Start launches the workers. Tasks run with a context derived from a
// fresh background context, never from the submitting request. A pool
// cannot be restarted after Stop.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return
	}
	p.running = true
	p.base, p.cancel = context.WithCancel(context.Background())

	slog.Info("starting worker pool", "workers", p.cfg.Workers, "queue", p.cfg.QueueSize)
	for i := range p.cfg.Workers {
		p.wg.Add(1)
		go p.work(i)
	}
}

// Submit queues fn and returns immediately. It reports false when the
// pool is stopped or the queue is full; the task is then dropped.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		slog.Warn("worker pool not running, dropping task", "task", name)
		return false
	}
	select {
	case p.queue <- task{name: name, fn: fn}:
		return true
	default:
		slog.Warn("worker queue full, dropping task", "task", name)
		return false
	}
}

// Stop stops accepting tasks, lets the workers drain what is queued and
// waits for them. When ctx expires first the running tasks are cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	defer p.cancel()
	select {
	case <-done:
		slog.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return fmt.Errorf("stop worker pool: %w", ctx.Err())
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for t := range p.queue {
		p.run(id, t)
	}
}

func (p *Pool) run(id int, t task) {
	ctx := p.base
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("background task panicked", "task", t.name, "worker_id", id, "panic", r)
		}
	}()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		slog.Warn("background task failed", "task", t.name, "worker_id", id, "error", err)
		return
	}
	slog.Debug("background task done", "task", t.name, "worker_id", id, "duration", time.Since(start))
}
