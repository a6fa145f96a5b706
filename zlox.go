// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"io"
)

// Compile scans and compiles source text into a chunk ready for a VM. The
// context collects string literals allocated during compilation.
func Compile(ctx *GlobalContext, src []byte) (*Chunk, error) {
	tokens, err := NewScanner(src).ScanTokens()
	if err != nil {
		return nil, err
	}
	return NewCompiler(ctx, src, tokens).Compile()
}

// Interpret compiles and runs source text, writing print output to out.
func Interpret(ctx *GlobalContext, src []byte, out io.Writer) error {
	chunk, err := Compile(ctx, src)
	if err != nil {
		return err
	}
	return NewVM(ctx, chunk).SetOutput(out).Run()
}
