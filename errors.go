// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"fmt"
	"strings"
)

// Error represents an interpreter error and implements the error interface.
// Package level Err* values are sentinels; NewError derives an error from a
// sentinel keeping it reachable with errors.Is.
type Error struct {
	Name    string
	Message string
	Cause   error
}

func (o *Error) Unwrap() error {
	return o.Cause
}

// Error implements error interface.
func (o *Error) Error() string {
	name := o.Name
	if name == "" {
		name = "error"
	}
	return fmt.Sprintf("%s: %s", name, o.Message)
}

// NewError creates a new Error and sets original Error as its cause which
// can be unwrapped.
func (o *Error) NewError(messages ...string) *Error {
	return &Error{
		Name:    o.Name,
		Message: strings.Join(messages, " "),
		Cause:   o,
	}
}

var (
	// ErrUnterminatedString is returned by Scanner when a string literal is
	// missing its closing quote.
	ErrUnterminatedString = &Error{
		Name:    "UnterminatedStringError",
		Message: "string literal is not terminated",
	}

	// ErrUnexpectedToken represents an unexpected token error.
	ErrUnexpectedToken = &Error{Name: "UnexpectedTokenError"}

	// ErrExpressionExpected is returned when a token that cannot start an
	// expression is found where an expression is required.
	ErrExpressionExpected = &Error{
		Name:    "ExpressionExpectedError",
		Message: "expected an expression",
	}

	// ErrInvalidSyntax represents a malformed construct error.
	ErrInvalidSyntax = &Error{Name: "InvalidSyntaxError"}

	// ErrInvalidAssignmentTarget is returned when the left hand side of '='
	// is not assignable.
	ErrInvalidAssignmentTarget = &Error{
		Name:    "InvalidAssignmentTargetError",
		Message: "invalid assignment target",
	}

	// ErrUnterminatedBlock is returned when end of file is reached inside a
	// block.
	ErrUnterminatedBlock = &Error{
		Name:    "UnterminatedBlockError",
		Message: "missing '}' before end of file",
	}

	// ErrUnexpectedEOF represents an unexpected end of file error.
	ErrUnexpectedEOF = &Error{Name: "UnexpectedEOFError"}

	// ErrTooManyConstants is returned by Compiler when the number of chunk
	// constants exceeds the one byte operand limit of 256.
	ErrTooManyConstants = &Error{
		Name:    "TooManyConstantsError",
		Message: "number of constants exceeds the limit",
	}

	// ErrTooManyGlobals is returned by Compiler when the number of global
	// names exceeds the one byte operand limit of 256.
	ErrTooManyGlobals = &Error{
		Name:    "TooManyGlobalsError",
		Message: "number of global names exceeds the limit",
	}

	// ErrTooManyLocals is returned by Compiler when the number of local
	// variables exceeds the one byte operand limit of 256.
	ErrTooManyLocals = &Error{
		Name:    "TooManyLocalsError",
		Message: "number of local variables exceeds the limit",
	}

	// ErrRedeclaredLocal is returned when a local variable is declared twice
	// in the same scope.
	ErrRedeclaredLocal = &Error{Name: "RedeclaredLocalError"}

	// ErrRuntime represents a type error during execution.
	ErrRuntime = &Error{Name: "RuntimeError"}

	// ErrUndeclaredVariable is returned by VM when a global name is read or
	// assigned before being declared.
	ErrUndeclaredVariable = &Error{Name: "UndeclaredVariableError"}

	// ErrStackNotEmpty is returned by VM when values remain on the operand
	// stack at EXIT. It indicates a compiler bug.
	ErrStackNotEmpty = &Error{
		Name:    "StackNotEmptyError",
		Message: "operand stack is not empty at EXIT",
	}
)

// NewOperandTypeError creates a new Error from ErrRuntime.
func NewOperandTypeError(operator, leftType, rightType string) *Error {
	return ErrRuntime.NewError(
		fmt.Sprintf("unsupported operand types for '%s': '%s' and '%s'",
			operator, leftType, rightType))
}

// CompilerError represents a compiler error with the byte offset of the
// offending token.
type CompilerError struct {
	Err    error
	Offset int
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("Compile Error: %s\n\tat byte offset %d", e.Err.Error(), e.Offset)
}

func (e *CompilerError) Unwrap() error {
	return e.Err
}
