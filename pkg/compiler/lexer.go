package compiler

// Lexer holds the scanning state for one pass over src. The language is byte
// oriented, so src is walked byte by byte rather than rune by rune.
type Lexer struct {
	src  string
	pos  int // index of the next byte to consume
	line int // current 1-based source line
	col  int // current 1-based column
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// next classifies the byte at l.pos and advances past it.
func (l *Lexer) next() (Token, error) {
	b := l.src[l.pos]
	tt, ok := symbols[b]
	if !ok {
		return Token{}, &SyntaxError{Err: ErrInvalidCharacter, Char: b, Offset: l.pos, Line: l.line, Col: l.col}
	}
	tok := Token{Type: tt, Offset: l.pos, Line: l.line, Col: l.col}
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return tok, nil
}

// Tokenize maps every byte of src to a token, preserving order. It fails on
// the first byte outside the command and whitespace set and returns no tokens
// in that case.
func Tokenize(src string) ([]Token, error) {
	l := newLexer(src)
	tokens := make([]Token, 0, len(src))
	for l.pos < len(l.src) {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// StripComments drops every byte the tokenizer would reject. The conventional
// dialect treats such bytes as comments; Tokenize itself stays strict.
func StripComments(src string) string {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if _, ok := symbols[src[i]]; ok {
			out = append(out, src[i])
		}
	}
	return string(out)
}
