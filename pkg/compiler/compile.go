package compiler

// Compile tokenizes and parses src into an unoptimized tree.
func Compile(src string) (*Root, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}
