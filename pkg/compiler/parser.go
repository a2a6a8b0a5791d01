package compiler

// frame is one enclosing node list on the parser stack together with the
// bracket that opened it.
type frame struct {
	nodes *[]Node
	open  Token
}

// Parser consumes the token slice produced by Tokenize and builds the AST.
//
// Grammar:
//
//	program = item* EOF
//	item    = ">" | "<" | "+" | "-" | "." | "," | loop | whitespace
//	loop    = "[" item* "]"
type Parser struct {
	tokens  []Token
	stack   []frame
	current *[]Node
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) emit(n Node) {
	*p.current = append(*p.current, n)
}

// Parse builds a Root wrapping the top-level Sequence.
func (p *Parser) Parse() (*Root, error) {
	body := &Sequence{}
	p.current = &body.Nodes
	p.stack = p.stack[:0]

	for _, tok := range p.tokens {
		switch tok.Type {
		case NEXT:
			p.emit(&Move{Delta: 1})
		case PREV:
			p.emit(&Move{Delta: -1})
		case INC:
			p.emit(&Augment{Delta: 1})
		case DEC:
			p.emit(&Augment{Delta: -1})
		case PUT_CHAR:
			p.emit(&PutChar{})
		case GET_CHAR:
			p.emit(&GetChar{})
		case LOOP_OPEN:
			loop := &Loop{}
			p.emit(loop)
			p.stack = append(p.stack, frame{nodes: p.current, open: tok})
			p.current = &loop.Nodes
		case LOOP_CLOSE:
			if len(p.stack) == 0 {
				return nil, &SyntaxError{Err: ErrUnmatchedCloseBracket, Offset: tok.Offset, Line: tok.Line, Col: tok.Col}
			}
			top := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.current = top.nodes
		default:
			// whitespace produces no node
		}
	}

	if len(p.stack) > 0 {
		open := p.stack[len(p.stack)-1].open
		return nil, &SyntaxError{Err: ErrUnclosedLoop, Offset: open.Offset, Line: open.Line, Col: open.Col}
	}
	return &Root{Body: body}, nil
}

// Parse is a convenience wrapper around NewParser(tokens).Parse().
func Parse(tokens []Token) (*Root, error) {
	return NewParser(tokens).Parse()
}
