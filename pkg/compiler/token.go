package compiler

import "fmt"

// TokenType identifies which source byte a token came from.
type TokenType int

const (
	NEXT            TokenType = iota // >
	PREV                             // <
	INC                              // +
	DEC                              // -
	PUT_CHAR                         // .
	GET_CHAR                         // ,
	LOOP_OPEN                        // [
	LOOP_CLOSE                       // ]
	SPACE                            // ' '
	LINE_FEED                        // \n
	CARRIAGE_RETURN                  // \r
)

var tokenNames = [...]string{
	NEXT:            "NEXT",
	PREV:            "PREV",
	INC:             "INC",
	DEC:             "DEC",
	PUT_CHAR:        "PUT_CHAR",
	GET_CHAR:        "GET_CHAR",
	LOOP_OPEN:       "LOOP_OPEN",
	LOOP_CLOSE:      "LOOP_CLOSE",
	SPACE:           "SPACE",
	LINE_FEED:       "LINE_FEED",
	CARRIAGE_RETURN: "CARRIAGE_RETURN",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// symbols maps each accepted source byte to its token type.
var symbols = map[byte]TokenType{
	'>':  NEXT,
	'<':  PREV,
	'+':  INC,
	'-':  DEC,
	'.':  PUT_CHAR,
	',':  GET_CHAR,
	'[':  LOOP_OPEN,
	']':  LOOP_CLOSE,
	' ':  SPACE,
	'\n': LINE_FEED,
	'\r': CARRIAGE_RETURN,
}

// Symbol returns the source byte for tt.
func (tt TokenType) Symbol() byte {
	for b, t := range symbols {
		if t == tt {
			return b
		}
	}
	return 0
}

// Ignorable reports whether the parser skips tokens of this type.
func (tt TokenType) Ignorable() bool {
	return tt == SPACE || tt == LINE_FEED || tt == CARRIAGE_RETURN
}

// Token is a single source byte classified by the tokenizer.
type Token struct {
	Type   TokenType
	Offset int // 0-based byte offset
	Line   int // 1-based source line
	Col    int // 1-based column
}

func (t Token) String() string {
	return fmt.Sprintf("%-15s %q  line %d col %d", t.Type, t.Type.Symbol(), t.Line, t.Col)
}
