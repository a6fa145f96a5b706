// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/tusharsadhwani/zlox"
)

func makeInst(op Opcode, args ...int) []byte {
	b, err := MakeInstruction(op, args...)
	if err != nil {
		panic(err)
	}
	return b
}

func concatInsts(insts ...[]byte) []byte {
	var out []byte
	for i := range insts {
		out = append(out, insts[i]...)
	}
	return out
}

func compile(t *testing.T, script string) *Chunk {
	t.Helper()
	chunk, err := Compile(NewGlobalContext(), []byte(script))
	require.NoError(t, err)
	return chunk
}

func expectCompileErrIs(t *testing.T, script string, expected error) {
	t.Helper()
	_, err := Compile(NewGlobalContext(), []byte(script))
	require.Error(t, err)
	require.ErrorIs(t, err, expected)
}

func TestCompilerPrintStatement(t *testing.T) {
	chunk := compile(t, "print 1;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)
	require.Equal(t, []Value{NumberValue(1)}, chunk.Constants)
}

func TestCompilerExpressionStatement(t *testing.T) {
	chunk := compile(t, "1;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpPop),
			makeInst(OpExit),
		),
		chunk.Code)
}

func TestCompilerLiterals(t *testing.T) {
	chunk := compile(t, "print true; print false; print nil;")
	require.Equal(t, []Value{True, False, Nil}, chunk.Constants)
}

func TestCompilerPrecedence(t *testing.T) {
	// factor binds tighter than term
	chunk := compile(t, "print 1 + 2 * 3;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpGetConst, 2),
			makeInst(OpMultiply),
			makeInst(OpAdd),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)

	// same precedence is left associative
	chunk = compile(t, "print 1 - 2 - 3;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpSubtract),
			makeInst(OpGetConst, 2),
			makeInst(OpSubtract),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)

	// comparison, then equality, lowest
	chunk = compile(t, "print 1 < 2 == true;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpLessThan),
			makeInst(OpGetConst, 2),
			makeInst(OpEquals),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)
}

func TestCompilerUnary(t *testing.T) {
	// unary binds tighter than factor
	chunk := compile(t, "print -1 * 2;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpNegate),
			makeInst(OpGetConst, 1),
			makeInst(OpMultiply),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)

	chunk = compile(t, "print --1;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpNegate),
			makeInst(OpNegate),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)
}

func TestCompilerGlobals(t *testing.T) {
	chunk := compile(t, "var x = 1; x = 2; print x;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpDeclareGlobal, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpSetGlobal, 1),
			makeInst(OpPop),
			makeInst(OpGetGlobal, 2),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)
	require.Equal(t,
		[][]byte{[]byte("x"), []byte("x"), []byte("x")},
		chunk.Varnames)
}

func TestCompilerLocals(t *testing.T) {
	chunk := compile(t, "{ var a = 1; var b = 2; print a + b; }")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpSetLocal, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpSetLocal, 1),
			makeInst(OpGetLocal, 0),
			makeInst(OpGetLocal, 1),
			makeInst(OpAdd),
			makeInst(OpPrint),
			makeInst(OpPop),
			makeInst(OpPop),
			makeInst(OpExit),
		),
		chunk.Code)
	// locals never touch the varname pool
	require.Empty(t, chunk.Varnames)
}

func TestCompilerNestedBlocks(t *testing.T) {
	// the inner block's local pops before the outer one's
	chunk := compile(t, "{ var a = 1; { var b = 2; print b; } print a; }")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpSetLocal, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpSetLocal, 1),
			makeInst(OpGetLocal, 1),
			makeInst(OpPrint),
			makeInst(OpPop),
			makeInst(OpGetLocal, 0),
			makeInst(OpPrint),
			makeInst(OpPop),
			makeInst(OpExit),
		),
		chunk.Code)
}

func TestCompilerLocalShadowsGlobal(t *testing.T) {
	chunk := compile(t, "var x = 1; { var x = 2; print x; } print x;")
	require.Equal(t,
		concatInsts(
			makeInst(OpGetConst, 0),
			makeInst(OpDeclareGlobal, 0),
			makeInst(OpGetConst, 1),
			makeInst(OpSetLocal, 0),
			makeInst(OpGetLocal, 0),
			makeInst(OpPrint),
			makeInst(OpPop),
			makeInst(OpGetGlobal, 1),
			makeInst(OpPrint),
			makeInst(OpExit),
		),
		chunk.Code)
}

func TestCompilerStringLiteral(t *testing.T) {
	ctx := NewGlobalContext()
	chunk, err := Compile(ctx, []byte(`print "hi";`))
	require.NoError(t, err)

	require.Len(t, chunk.Constants, 1)
	v := chunk.Constants[0]
	require.Equal(t, ValueObject, v.Type)
	require.Equal(t, "hi", v.String())
	// the literal is registered with the context
	require.Len(t, ctx.Objects, 1)
}

func TestCompilerErrors(t *testing.T) {
	expectCompileErrIs(t, "a + b = c;", ErrInvalidAssignmentTarget)
	expectCompileErrIs(t, "{ var a = 1; var a = 2; }", ErrRedeclaredLocal)
	expectCompileErrIs(t, "{ var a = 1;", ErrUnterminatedBlock)
	expectCompileErrIs(t, "print ;", ErrExpressionExpected)
	expectCompileErrIs(t, "1 + ;", ErrExpressionExpected)
	expectCompileErrIs(t, "var x;", ErrUnexpectedToken)
	expectCompileErrIs(t, "var 1 = 2;", ErrUnexpectedToken)
	expectCompileErrIs(t, "print 1", ErrUnexpectedToken)
	expectCompileErrIs(t, "@;", ErrExpressionExpected)
}

func TestCompilerRedeclareInInnerScopeOK(t *testing.T) {
	// shadowing an outer local is not a redeclaration
	_, err := Compile(NewGlobalContext(),
		[]byte("{ var a = 1; { var a = 2; print a; } }"))
	require.NoError(t, err)
}

func TestCompilerTooManyConstants(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= 256; i++ {
		fmt.Fprintf(&sb, "print %d;", i)
	}
	expectCompileErrIs(t, sb.String(), ErrTooManyConstants)
}

func TestCompilerTooManyGlobals(t *testing.T) {
	// every declaration and every read takes a varname slot
	var sb strings.Builder
	sb.WriteString("var g0 = 1;")
	for i := 1; i <= 256; i++ {
		fmt.Fprintf(&sb, "var g%d = g%d;", i, i-1)
	}
	expectCompileErrIs(t, sb.String(), ErrTooManyGlobals)
}

func TestCompilerTooManyLocals(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{ var l0 = 1;")
	for i := 1; i <= 256; i++ {
		fmt.Fprintf(&sb, "var l%d = l0;", i)
	}
	sb.WriteString("}")
	expectCompileErrIs(t, sb.String(), ErrTooManyLocals)
}

func TestCompilerErrorOffset(t *testing.T) {
	_, err := Compile(NewGlobalContext(), []byte("print 1 +;"))
	require.Error(t, err)

	var cerr *CompilerError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, 9, cerr.Offset)
}
