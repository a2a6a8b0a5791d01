package compiler

import (
	"math/rand"
	"strings"
)

const maxRandomDepth = 3

// RandomProgram returns bracket-balanced source with roughly n commands,
// drawn from rng. Property tests and benchmarks use it; the programs are not
// guaranteed to terminate.
func RandomProgram(rng *rand.Rand, n int) string {
	const plain = "><+-.,"
	var sb strings.Builder
	depth := 0
	for i := 0; i < n; i++ {
		switch r := rng.Intn(10); {
		case r == 0 && depth < maxRandomDepth:
			sb.WriteByte('[')
			depth++
		case r == 1 && depth > 0:
			sb.WriteByte(']')
			depth--
		case r == 2:
			// runs make the optimizer do some work
			c := plain[rng.Intn(4)]
			sb.WriteString(strings.Repeat(string(c), 1+rng.Intn(4)))
		default:
			sb.WriteByte(plain[rng.Intn(len(plain))])
		}
	}
	sb.WriteString(strings.Repeat("]", depth))
	return sb.String()
}
