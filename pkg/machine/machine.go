// Package machine is the execution backend: it binds an AST to handlers that
// drive a byte tape, a pointer and a pair of byte streams.
package machine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gobf/pkg/compiler"
	"gobf/pkg/logging"
)

var (
	ErrEndOfInput        = errors.New("end of input")
	ErrPointerOutOfRange = errors.New("pointer out of range")
	ErrStepLimit         = errors.New("step limit exceeded")
)

// Machine is the execution context shared by every handler of one run. It is
// not safe for concurrent use; the tree it runs may be shared freely.
type Machine struct {
	tape   tape
	policy TapePolicy
	size   int
	ptr    int

	in  io.ByteReader
	out io.Writer
	buf [1]byte

	steps    uint64
	maxSteps uint64 // 0 means unlimited

	// hook, when set, is called after every step.
	hook func(m *Machine)

	logger *slog.Logger
	runID  string
	ctx    context.Context
}

// Option configures a Machine.
type Option func(*Machine)

// WithInput sets the byte source read by GetChar. Readers that are not
// already io.ByteReaders are buffered.
func WithInput(r io.Reader) Option {
	return func(m *Machine) {
		if br, ok := r.(io.ByteReader); ok {
			m.in = br
			return
		}
		m.in = bufio.NewReader(r)
	}
}

// WithOutput sets the sink written by PutChar.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

func WithPolicy(p TapePolicy) Option {
	return func(m *Machine) { m.policy = p }
}

// WithTapeSize sets the number of cells for the wrap and strict policies.
// Non-positive sizes keep the default.
func WithTapeSize(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.size = n
		}
	}
}

// WithMaxSteps bounds the number of steps a run may take. A step is one leaf
// node executed or one loop iteration started.
func WithMaxSteps(n uint64) Option {
	return func(m *Machine) { m.maxSteps = n }
}

func WithStepHook(fn func(m *Machine)) Option {
	return func(m *Machine) { m.hook = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(m *Machine) { m.runID = id }
}

// New returns a machine with a zeroed tape and the pointer at 0. Without
// options it wraps a 30,000 cell tape, reads no input and discards output.
func New(opts ...Option) *Machine {
	m := &Machine{
		policy: PolicyWrap,
		size:   DefaultTapeSize,
		out:    io.Discard,
		logger: logging.Discard(),
		runID:  uuid.New().String(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.policy == PolicyGrow {
		m.tape = newSparseTape()
	} else {
		m.tape = newFixedTape(m.size)
	}
	return m
}

func (m *Machine) Pointer() int         { return m.ptr }
func (m *Machine) Steps() uint64        { return m.steps }
func (m *Machine) Policy() TapePolicy   { return m.policy }
func (m *Machine) TapeSize() int        { return m.size }
func (m *Machine) RunID() string        { return m.runID }
func (m *Machine) Cell(pos int) byte    { return m.tape.get(pos) }
func (m *Machine) CurrentCell() byte    { return m.tape.get(m.ptr) }
func (m *Machine) Logger() *slog.Logger { return m.logger }

// SetInput replaces the input stream between runs.
func (m *Machine) SetInput(r io.Reader) { WithInput(r)(m) }

// SetOutput replaces the output stream between runs.
func (m *Machine) SetOutput(w io.Writer) { WithOutput(w)(m) }

// Extent returns the half-open range of tape positions that can hold data:
// the whole tape for fixed policies, the written cells plus the pointer for
// PolicyGrow.
func (m *Machine) Extent() (lo, hi int) {
	lo, hi = m.tape.extent()
	if m.policy == PolicyGrow {
		if lo == hi {
			return m.ptr, m.ptr + 1
		}
		lo, hi = min(lo, m.ptr), max(hi, m.ptr+1)
	}
	return lo, hi
}

// Window returns a copy of n cells starting at from.
func (m *Machine) Window(from, n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = m.tape.get(from + i)
	}
	return out
}

// Reset zeroes the tape, the pointer and the step counter. The run id is
// kept.
func (m *Machine) Reset() {
	m.tape.reset()
	m.ptr = 0
	m.steps = 0
}

// Handlers returns the execution dispatch table. Every handler closes over m.
func (m *Machine) Handlers() compiler.HandlerTable {
	children := func() compiler.Handler {
		return compiler.HandlerFunc(func(b *compiler.Binding) error { return b.VisitChildren() })
	}
	return compiler.HandlerTable{
		compiler.ROOT:          children,
		compiler.SEQUENCE:      children,
		compiler.LOOP:          func() compiler.Handler { return compiler.HandlerFunc(m.visitLoop) },
		compiler.MOVE:          func() compiler.Handler { return compiler.HandlerFunc(m.visitMove) },
		compiler.AUGMENT:       func() compiler.Handler { return compiler.HandlerFunc(m.visitAugment) },
		compiler.GET_CHAR_NODE: func() compiler.Handler { return compiler.HandlerFunc(m.visitGetChar) },
		compiler.PUT_CHAR_NODE: func() compiler.Handler { return compiler.HandlerFunc(m.visitPutChar) },
	}
}

// Run executes root against the machine's current state. The tape, pointer
// and step counter carry over between runs until Reset.
func (m *Machine) Run(ctx context.Context, root compiler.Node) error {
	b, err := compiler.Bind(root, m.Handlers())
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m.ctx = ctx
	defer func() { m.ctx = nil }()

	start := time.Now()
	before := m.steps
	m.logger.Debug("run started",
		"run_id", m.runID,
		"nodes", compiler.Count(root),
		"policy", m.policy.String(),
		"max_steps", m.maxSteps,
	)
	err = b.Visit()
	attrs := []any{
		"run_id", m.runID,
		"steps", m.steps - before,
		"pointer", m.ptr,
		"elapsed", time.Since(start),
	}
	if err != nil {
		m.logger.Warn("run failed", append(attrs, "error", err)...)
		return err
	}
	m.logger.Info("run finished", attrs...)
	return nil
}

func (m *Machine) step() error {
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return fmt.Errorf("%w (%d)", ErrStepLimit, m.maxSteps)
	}
	m.steps++
	if m.hook != nil {
		m.hook(m)
	}
	return nil
}

func (m *Machine) visitLoop(b *compiler.Binding) error {
	for m.tape.get(m.ptr) != 0 {
		if m.ctx != nil {
			if err := m.ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.step(); err != nil {
			return err
		}
		if err := b.VisitChildren(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) visitMove(b *compiler.Binding) error {
	if err := m.step(); err != nil {
		return err
	}
	p := m.ptr + b.Node().(*compiler.Move).Delta
	switch m.policy {
	case PolicyWrap:
		p = ((p % m.size) + m.size) % m.size
	case PolicyStrict:
		if p < 0 || p >= m.size {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrPointerOutOfRange, p, m.size)
		}
	}
	m.ptr = p
	return nil
}

func (m *Machine) visitAugment(b *compiler.Binding) error {
	if err := m.step(); err != nil {
		return err
	}
	d := b.Node().(*compiler.Augment).Delta
	m.tape.set(m.ptr, byte(int(m.tape.get(m.ptr))+d))
	return nil
}

func (m *Machine) visitGetChar(*compiler.Binding) error {
	if err := m.step(); err != nil {
		return err
	}
	if m.in == nil {
		return ErrEndOfInput
	}
	c, err := m.in.ReadByte()
	if errors.Is(err, io.EOF) {
		return ErrEndOfInput
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	m.tape.set(m.ptr, c)
	return nil
}

func (m *Machine) visitPutChar(*compiler.Binding) error {
	if err := m.step(); err != nil {
		return err
	}
	m.buf[0] = m.tape.get(m.ptr)
	if _, err := m.out.Write(m.buf[:]); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
