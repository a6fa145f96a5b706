// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"fmt"
)

// Opcode represents a single byte operation code.
type Opcode = byte

// List of opcodes
const (
	OpExit Opcode = iota
	OpPop
	OpPrint
	OpGetConst
	OpDeclareGlobal
	OpSetGlobal
	OpGetGlobal
	OpSetLocal
	OpGetLocal
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpLessThan
	OpGreaterThan
	OpEquals
)

// OpcodeNames are string representation of opcodes.
var OpcodeNames = [...]string{
	OpExit:          "EXIT",
	OpPop:           "POP",
	OpPrint:         "PRINT",
	OpGetConst:      "GETCONST",
	OpDeclareGlobal: "DECLAREGLOBAL",
	OpSetGlobal:     "SETGLOBAL",
	OpGetGlobal:     "GETGLOBAL",
	OpSetLocal:      "SETLOCAL",
	OpGetLocal:      "GETLOCAL",
	OpAdd:           "ADD",
	OpSubtract:      "SUBTRACT",
	OpMultiply:      "MULTIPLY",
	OpDivide:        "DIVIDE",
	OpNegate:        "NEGATE",
	OpLessThan:      "LESSTHAN",
	OpGreaterThan:   "GREATERTHAN",
	OpEquals:        "EQUALS",
}

// OpcodeOperands is the number of operands. Every operand is a single byte.
var OpcodeOperands = [...][]int{
	OpExit:          {},
	OpPop:           {},
	OpPrint:         {},
	OpGetConst:      {1}, // constant index
	OpDeclareGlobal: {1}, // varname index
	OpSetGlobal:     {1}, // varname index
	OpGetGlobal:     {1}, // varname index
	OpSetLocal:      {1}, // stack slot
	OpGetLocal:      {1}, // stack slot
	OpAdd:           {},
	OpSubtract:      {},
	OpMultiply:      {},
	OpDivide:        {},
	OpNegate:        {},
	OpLessThan:      {},
	OpGreaterThan:   {},
	OpEquals:        {},
}

// ReadOperands reads operands from the bytecode. Given operands slice is
// used to fill operands and is returned to allocate less.
func ReadOperands(numOperands []int, ins []byte, operands []int) ([]int, int) {
	operands = operands[:0]
	var offset int
	for range numOperands {
		operands = append(operands, int(ins[offset]))
		offset++
	}
	return operands, offset
}

// MakeInstruction returns a bytecode for an opcode and the operands.
func MakeInstruction(op Opcode, args ...int) ([]byte, error) {
	operands := OpcodeOperands[op]
	if len(operands) != len(args) {
		return nil, fmt.Errorf("MakeInstruction: %s expected %d operands, but got %d",
			OpcodeNames[op], len(operands), len(args))
	}
	inst := make([]byte, 1+len(args))
	inst[0] = op
	for i, arg := range args {
		inst[1+i] = byte(arg)
	}
	return inst, nil
}
