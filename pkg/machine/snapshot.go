package machine

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// snapshotState is the JSON-serializable part of a machine snapshot. The tape
// itself goes to tape.bin, starting at Origin.
type snapshotState struct {
	RunID    string `json:"run_id"`
	Policy   string `json:"policy"`
	TapeSize int    `json:"tape_size"`
	Pointer  int    `json:"pointer"`
	Steps    uint64 `json:"steps"`
	MaxSteps uint64 `json:"max_steps"`
	Origin   int    `json:"origin"`
	Length   int    `json:"length"`
}

// SnapshotToBytes serialises the machine state into an in-memory ZIP archive
// holding machine_state.json and tape.bin.
func (m *Machine) SnapshotToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	lo, hi := m.tape.extent()
	state := snapshotState{
		RunID:    m.runID,
		Policy:   m.policy.String(),
		TapeSize: m.size,
		Pointer:  m.ptr,
		Steps:    m.steps,
		MaxSteps: m.maxSteps,
		Origin:   lo,
		Length:   hi - lo,
	}
	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal machine_state: %w", err)
	}
	if err := writeZipEntry(zw, "machine_state.json", jsonData); err != nil {
		return nil, err
	}

	var cells []byte
	switch t := m.tape.(type) {
	case *fixedTape:
		cells = t.cells
	case *sparseTape:
		cells = make([]byte, hi-lo)
		t.each(lo, hi, func(pos int, v byte) { cells[pos-lo] = v })
	}
	if err := writeZipEntry(zw, "tape.bin", cells); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes replaces the machine state with a ZIP archive produced by
// SnapshotToBytes. Streams, hook and logger are left alone.
func (m *Machine) RestoreFromBytes(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "machine_state.json")
	if err != nil {
		return err
	}
	var state snapshotState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return fmt.Errorf("unmarshal machine_state: %w", err)
	}
	policy, err := ParsePolicy(state.Policy)
	if err != nil {
		return err
	}
	if policy != PolicyGrow && state.TapeSize <= 0 {
		return fmt.Errorf("invalid tape size %d", state.TapeSize)
	}
	cells, err := readZipEntry(fileMap, "tape.bin")
	if err != nil {
		return err
	}
	if len(cells) != state.Length {
		return fmt.Errorf("tape.bin holds %d cells, state says %d", len(cells), state.Length)
	}
	if policy != PolicyGrow {
		if state.Pointer < 0 || state.Pointer >= state.TapeSize {
			return fmt.Errorf("%w: pointer %d outside tape of %d cells", ErrPointerOutOfRange, state.Pointer, state.TapeSize)
		}
		if state.Origin < 0 || state.Origin+state.Length > state.TapeSize {
			return fmt.Errorf("tape.bin range [%d,%d) outside tape of %d cells", state.Origin, state.Origin+state.Length, state.TapeSize)
		}
	}

	m.policy = policy
	m.size = state.TapeSize
	if policy == PolicyGrow {
		m.tape = newSparseTape()
	} else {
		m.tape = newFixedTape(m.size)
	}
	for i, v := range cells {
		if v != 0 {
			m.tape.set(state.Origin+i, v)
		}
	}
	m.ptr = state.Pointer
	m.steps = state.Steps
	m.maxSteps = state.MaxSteps
	if state.RunID != "" {
		m.runID = state.RunID
	}
	return nil
}

// SnapshotToFile writes the snapshot archive to path.
func (m *Machine) SnapshotToFile(path string) error {
	data, err := m.SnapshotToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RestoreFromFile reads a snapshot archive from path and restores it.
func (m *Machine) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
