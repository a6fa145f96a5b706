// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

// GlobalContext owns every heap object and the string interning table. It is
// shared by the compiler and the VM so that strings created in either phase
// canonicalize through the same table.
type GlobalContext struct {
	// Objects registers every heap object allocated through the context.
	Objects []Obj
	// Strings is the interning table. Keys are canonical string storage;
	// values are a presence marker and never read.
	Strings *HashTable
	// Debug records the CLI's --debug setting. Nothing in this package reads
	// it; the CLI drives its token and bytecode traces from its own flag.
	Debug bool
}

// NewGlobalContext creates a new GlobalContext.
func NewGlobalContext() *GlobalContext {
	return &GlobalContext{Strings: NewHashTable()}
}

// Intern returns the canonical storage for b. The first interning of a byte
// string makes it canonical; later calls with equal bytes return the
// original slice, so equal strings share a backing array.
func (c *GlobalContext) Intern(b []byte) []byte {
	if canonical, ok := c.Strings.FindKey(b); ok {
		return canonical
	}
	c.Strings.Insert(b, True)
	return b
}

// NewString wraps b in a string object registered with the context. The
// bytes are interned first, so the object may share storage with an earlier
// equal string.
func (c *GlobalContext) NewString(b []byte) *ObjString {
	o := &ObjString{Bytes: c.Intern(b)}
	c.Objects = append(c.Objects, o)
	return o
}
