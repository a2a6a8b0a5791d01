package main

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"gobf/pkg/compiler"
	"gobf/pkg/machine"
)

// keyReader feeds typed characters to the machine. ReadByte blocks until a
// key arrives or the reader is closed.
type keyReader struct {
	keys    chan byte
	done    chan struct{}
	once    sync.Once
	waiting atomic.Bool
}

func newKeyReader() *keyReader {
	return &keyReader{keys: make(chan byte, 64), done: make(chan struct{})}
}

// Push queues a key without blocking; it reports false when the queue is full.
func (k *keyReader) Push(b byte) bool {
	select {
	case k.keys <- b:
		return true
	default:
		return false
	}
}

// Close makes every pending and future read return io.EOF once the queue
// is drained.
func (k *keyReader) Close() { k.once.Do(func() { close(k.done) }) }

func (k *keyReader) ReadByte() (byte, error) {
	select {
	case b := <-k.keys:
		return b, nil
	default:
	}
	k.waiting.Store(true)
	defer k.waiting.Store(false)
	select {
	case b := <-k.keys:
		return b, nil
	case <-k.done:
		return 0, io.EOF
	}
}

// Read lets keyReader satisfy io.Reader for machine.WithInput.
func (k *keyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := k.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}

// outputLog collects program output for the screen.
type outputLog struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *outputLog) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// Tail returns at most n trailing lines.
func (o *outputLog) Tail(n int) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	lines := bytes.Split(o.buf.Bytes(), []byte{'\n'})
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}

// view is a copy of the machine state taken between steps.
type view struct {
	from    int
	cells   []byte
	pointer int
	steps   uint64
}

// runner executes a program on its own goroutine. The goroutine holds mu
// while running and only releases it between steps, so a view taken under
// mu is consistent.
type runner struct {
	mu     sync.Mutex
	m      *machine.Machine
	input  *keyReader
	output *outputLog
	rate   atomic.Int64 // steps per frame
	paused atomic.Bool
	ticks  chan struct{}
	budget int64
	cells  int
	done   chan struct{}
	err    error
	last   view
}

func newRunner(cells int, opts ...machine.Option) *runner {
	r := &runner{
		input:  newKeyReader(),
		output: &outputLog{},
		ticks:  make(chan struct{}, 1),
		cells:  cells,
		done:   make(chan struct{}),
	}
	r.rate.Store(1000)
	opts = append(opts,
		machine.WithInput(r.input),
		machine.WithOutput(r.output),
		machine.WithStepHook(r.pace),
	)
	r.m = machine.New(opts...)
	return r
}

// pace runs inside the machine goroutine before every step. It releases mu
// so the screen can take a view, and blocks for the next frame once the
// step budget of the current one is spent.
func (r *runner) pace(*machine.Machine) {
	r.mu.Unlock()
	r.budget--
	for r.budget <= 0 {
		<-r.ticks
		if !r.paused.Load() {
			r.budget = r.rate.Load()
		}
	}
	r.mu.Lock()
}

// Tick grants the next frame's step budget.
func (r *runner) Tick() {
	select {
	case r.ticks <- struct{}{}:
	default:
	}
}

// Start runs root until it halts, fails, or ctx ends.
func (r *runner) Start(ctx context.Context, root compiler.Node) {
	go func() {
		r.mu.Lock()
		err := r.m.Run(ctx, root)
		r.mu.Unlock()
		r.err = err
		close(r.done)
	}()
}

// Done reports whether the run has ended, and its error.
func (r *runner) Done() (bool, error) {
	select {
	case <-r.done:
		return true, r.err
	default:
		return false, nil
	}
}

// View returns the tape around the pointer. When the machine is mid-step
// (blocked on input) the previous view is returned.
func (r *runner) View() view {
	if !r.mu.TryLock() {
		return r.last
	}
	defer r.mu.Unlock()
	from := r.m.Pointer() - r.cells/2
	if r.m.Policy() != machine.PolicyGrow {
		lo, hi := r.m.Extent()
		from = max(lo, min(from, hi-r.cells))
	}
	r.last = view{
		from:    from,
		cells:   r.m.Window(from, r.cells),
		pointer: r.m.Pointer(),
		steps:   r.m.Steps(),
	}
	return r.last
}
