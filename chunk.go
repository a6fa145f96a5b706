// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"bytes"
	"fmt"
	"io"
)

// MaxPoolSize is the entry limit of the constant, varname and local pools.
// Operands are single bytes, so indexes cannot exceed it.
const MaxPoolSize = 256

// Chunk is a unit of compiled code: the bytecode stream, the constant pool
// and the global variable name pool. Varname entries are slices of the
// original source text, which must outlive the chunk.
type Chunk struct {
	Code      []byte
	Constants []Value
	Varnames  [][]byte
}

// NewChunk creates an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v Value) (int, error) {
	if len(c.Constants) >= MaxPoolSize {
		return 0, ErrTooManyConstants
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}

// AddVarname appends name to the varname pool and returns its index.
func (c *Chunk) AddVarname(name []byte) (int, error) {
	if len(c.Varnames) >= MaxPoolSize {
		return 0, ErrTooManyGlobals
	}
	c.Varnames = append(c.Varnames, name)
	return len(c.Varnames) - 1, nil
}

func (c *Chunk) putConstants(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Constants:\n")
	for i := range c.Constants {
		v := c.Constants[i]
		if v.Type == ValueObject {
			_, _ = fmt.Fprintf(w, "%4d: %q|%s\n", i, v.String(), v.TypeName())
		} else {
			_, _ = fmt.Fprintf(w, "%4d: %s|%s\n", i, v.String(), v.TypeName())
		}
	}
}

func (c *Chunk) putVarnames(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Varnames:\n")
	for i := range c.Varnames {
		_, _ = fmt.Fprintf(w, "%4d: %s\n", i, c.Varnames[i])
	}
}

// Fprint writes constants, varnames and instructions to given Writer in a
// human readable form.
func (c *Chunk) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Chunk")
	c.putConstants(w)
	c.putVarnames(w)
	_, _ = fmt.Fprintf(w, "Instructions:\n")
	i := 0
	var operands []int
	for i < len(c.Code) {
		op := c.Code[i]
		numOperands := OpcodeOperands[op]
		operands, offset := ReadOperands(numOperands, c.Code[i+1:], operands)
		_, _ = fmt.Fprintf(w, "%04d %-14s", i, OpcodeNames[op])
		for _, o := range operands {
			_, _ = fmt.Fprintf(w, "    %d", o)
		}
		_, _ = fmt.Fprintln(w)
		i += offset + 1
	}
}

func (c *Chunk) String() string {
	var buf bytes.Buffer
	c.Fprint(&buf)
	return buf.String()
}
