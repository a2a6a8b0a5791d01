// Package compiler provides the tokenizer, parser, AST, peephole optimizer and
// handler dispatch for the eight-command tape language.
//
// Pipeline: source → Tokenize → Parse → (Optimize) → Bind/Walk with a backend
package compiler
