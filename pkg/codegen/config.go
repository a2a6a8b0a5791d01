package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"gobf/pkg/machine"
)

var (
	ErrUnknownLanguage = errors.New("unknown target language")
	ErrInvalidName     = errors.New("invalid identifier")
)

const (
	LanguageGo     = "go"
	LanguagePython = "python"
)

// TargetConfig controls the names and constants baked into generated code.
// Zero fields take the defaults from DefaultTargetConfig.
type TargetConfig struct {
	Language      string `toml:"language" yaml:"language"`
	BufferVar     string `toml:"buffer_var" yaml:"buffer_var"`
	PointerVar    string `toml:"pointer_var" yaml:"pointer_var"`
	BufferFactory string `toml:"buffer_factory" yaml:"buffer_factory"`
	StartIndex    int    `toml:"start_index" yaml:"start_index"`
	TapeSize      int    `toml:"tape_size" yaml:"tape_size"`
	// WrapPointer lowers every move as a step modulo TapeSize, matching the
	// machine's wrap policy. Without it the host's own bounds checks apply.
	WrapPointer bool `toml:"wrap_pointer" yaml:"wrap_pointer"`
}

// DefaultTargetConfig returns the Go target with the classic tape.
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		Language:   LanguageGo,
		BufferVar:  "buffer",
		PointerVar: "pointer",
		TapeSize:   machine.DefaultTapeSize,
	}
}

// normalizeLanguage maps accepted aliases onto the canonical names.
func normalizeLanguage(lang string) (string, error) {
	switch strings.ToLower(lang) {
	case "", "go", "golang":
		return LanguageGo, nil
	case "python", "py", "python3":
		return LanguagePython, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownLanguage, lang)
}

func defaultFactory(lang string) string {
	if lang == LanguagePython {
		return "bytearray"
	}
	return "newTape"
}

// WithDefaults fills every zero field and canonicalizes the language name.
func (c TargetConfig) WithDefaults() (TargetConfig, error) {
	lang, err := normalizeLanguage(c.Language)
	if err != nil {
		return c, err
	}
	d := DefaultTargetConfig()
	c.Language = lang
	if c.BufferVar == "" {
		c.BufferVar = d.BufferVar
	}
	if c.PointerVar == "" {
		c.PointerVar = d.PointerVar
	}
	if c.BufferFactory == "" {
		c.BufferFactory = defaultFactory(lang)
	}
	if c.TapeSize <= 0 {
		c.TapeSize = d.TapeSize
	}
	return c, nil
}

// reserved holds the names the runtime preamble of each host already uses.
var reserved = map[string]map[string]bool{
	LanguageGo: nameSet(
		"main", "stdin", "stdout", "readByte", "bufio", "fmt", "os",
		"make", "byte", "int",
	),
	LanguagePython: nameSet(
		"sys", "read_byte", "put_byte", "bytes", "bytearray",
		"and", "as", "assert", "async", "await", "class", "def", "del",
		"elif", "except", "finally", "from", "global", "in", "is", "lambda",
		"nonlocal", "not", "or", "pass", "raise", "try", "while", "with",
		"yield", "None", "True", "False",
	),
}

func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Validate checks a config that has been through WithDefaults.
func (c TargetConfig) Validate() error {
	for _, n := range []string{c.BufferVar, c.PointerVar, c.BufferFactory} {
		if !token.IsIdentifier(n) {
			return fmt.Errorf("%w %q", ErrInvalidName, n)
		}
		if reserved[c.Language][n] && n != defaultFactory(c.Language) {
			return fmt.Errorf("%w %q: reserved in generated %s", ErrInvalidName, n, c.Language)
		}
	}
	if c.BufferVar == c.PointerVar || c.BufferVar == c.BufferFactory || c.PointerVar == c.BufferFactory {
		return fmt.Errorf("%w: buffer, pointer and factory names must differ", ErrInvalidName)
	}
	if c.StartIndex < 0 || c.StartIndex >= c.TapeSize {
		return fmt.Errorf("start index %d outside tape of %d cells", c.StartIndex, c.TapeSize)
	}
	return nil
}
