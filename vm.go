// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"fmt"
	"io"
	"os"
)

// VM executes the instructions in a chunk. The globals table borrows its
// keys from the chunk's varname pool, so a VM must not outlive its chunk.
type VM struct {
	ctx     *GlobalContext
	chunk   *Chunk
	stack   []Value
	globals *HashTable
	ip      int
	out     io.Writer
	trace   io.Writer
}

// NewVM creates a VM for a compiled chunk.
func NewVM(ctx *GlobalContext, chunk *Chunk) *VM {
	return &VM{
		ctx:     ctx,
		chunk:   chunk,
		globals: NewHashTable(),
		out:     os.Stdout,
	}
}

// SetOutput sets the writer print statements write to. Default is stdout.
func (vm *VM) SetOutput(w io.Writer) *VM {
	vm.out = w
	return vm
}

// SetGlobals replaces the globals table. The REPL uses this to persist
// globals across inputs.
func (vm *VM) SetGlobals(t *HashTable) *VM {
	vm.globals = t
	return vm
}

// SetTrace sets a writer for the stack dump emitted when execution stops
// with a non empty stack.
func (vm *VM) SetTrace(w io.Writer) *VM {
	vm.trace = w
	return vm
}

// Globals returns the globals table.
func (vm *VM) Globals() *HashTable {
	return vm.globals
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// peek reads the value distance slots below the top without popping.
func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

// checkNumbers verifies both binary operands are numbers before they are
// popped.
func (vm *VM) checkNumbers(operator string) error {
	if vm.peek(0).Type != ValueNumber || vm.peek(1).Type != ValueNumber {
		return NewOperandTypeError(operator,
			vm.peek(1).TypeName(), vm.peek(0).TypeName())
	}
	return nil
}

// Run executes the chunk until EXIT. The stack must be empty at EXIT;
// anything left indicates a compiler bug and fails with a stack not empty
// error.
func (vm *VM) Run() error {
	code := vm.chunk.Code
	for vm.ip < len(code) {
		op := code[vm.ip]
		vm.ip++
		switch op {
		case OpExit:
			if len(vm.stack) != 0 {
				if vm.trace != nil {
					vm.dumpStack(vm.trace)
				}
				return ErrStackNotEmpty.NewError(
					fmt.Sprintf("%d values left", len(vm.stack)))
			}
			return nil
		case OpPop:
			vm.pop()
		case OpPrint:
			v := vm.pop()
			if _, err := fmt.Fprintf(vm.out, "%s\n", v.String()); err != nil {
				return err
			}
		case OpGetConst:
			vm.push(vm.chunk.Constants[vm.readByte()])
		case OpDeclareGlobal:
			name := vm.chunk.Varnames[vm.readByte()]
			vm.globals.Insert(name, vm.pop())
		case OpSetGlobal:
			name := vm.chunk.Varnames[vm.readByte()]
			if !vm.globals.HasKey(name) {
				return ErrUndeclaredVariable.NewError(string(name))
			}
			// assignment is an expression, its value stays on the stack
			vm.globals.Insert(name, vm.peek(0))
		case OpGetGlobal:
			name := vm.chunk.Varnames[vm.readByte()]
			value, ok := vm.globals.Find(name)
			if !ok {
				return ErrUndeclaredVariable.NewError(string(name))
			}
			vm.push(value)
		case OpSetLocal:
			vm.stack[vm.readByte()] = vm.peek(0)
		case OpGetLocal:
			vm.push(vm.stack[vm.readByte()])
		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case OpSubtract:
			if err := vm.checkNumbers("-"); err != nil {
				return err
			}
			b, a := vm.pop(), vm.pop()
			vm.push(NumberValue(a.Num - b.Num))
		case OpMultiply:
			if err := vm.checkNumbers("*"); err != nil {
				return err
			}
			b, a := vm.pop(), vm.pop()
			vm.push(NumberValue(a.Num * b.Num))
		case OpDivide:
			if err := vm.checkNumbers("/"); err != nil {
				return err
			}
			b, a := vm.pop(), vm.pop()
			vm.push(NumberValue(a.Num / b.Num))
		case OpNegate:
			if vm.peek(0).Type != ValueNumber {
				return ErrRuntime.NewError(fmt.Sprintf(
					"unsupported operand type for '-': '%s'", vm.peek(0).TypeName()))
			}
			vm.stack[len(vm.stack)-1].Num = -vm.stack[len(vm.stack)-1].Num
		case OpLessThan:
			if err := vm.checkNumbers("<"); err != nil {
				return err
			}
			b, a := vm.pop(), vm.pop()
			vm.push(BoolValue(a.Num < b.Num))
		case OpGreaterThan:
			if err := vm.checkNumbers(">"); err != nil {
				return err
			}
			b, a := vm.pop(), vm.pop()
			vm.push(BoolValue(a.Num > b.Num))
		case OpEquals:
			b, a := vm.pop(), vm.pop()
			vm.push(BoolValue(a.Equal(b)))
		default:
			return ErrRuntime.NewError(
				fmt.Sprintf("unknown opcode %d", op))
		}
	}
	return ErrRuntime.NewError("chunk is not terminated by EXIT")
}

// add implements ADD: numbers add, strings concatenate into a new interned
// string, anything else is a type error. Interning the result keeps
// identity based string equality sound.
func (vm *VM) add() error {
	a, b := vm.peek(1), vm.peek(0)
	switch {
	case a.Type == ValueNumber && b.Type == ValueNumber:
		vm.pop()
		vm.pop()
		vm.push(NumberValue(a.Num + b.Num))
		return nil
	case a.Type == ValueObject && b.Type == ValueObject:
		as, aok := a.Obj.(*ObjString)
		bs, bok := b.Obj.(*ObjString)
		if !aok || !bok {
			break
		}
		cat := make([]byte, 0, len(as.Bytes)+len(bs.Bytes))
		cat = append(cat, as.Bytes...)
		cat = append(cat, bs.Bytes...)
		vm.pop()
		vm.pop()
		vm.push(ObjectValue(vm.ctx.NewString(cat)))
		return nil
	}
	return NewOperandTypeError("+", a.TypeName(), b.TypeName())
}

// dumpStack writes the operand stack top down.
func (vm *VM) dumpStack(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Stack")
	for i := len(vm.stack) - 1; i >= 0; i-- {
		_, _ = fmt.Fprintf(w, "%4d: %s|%s\n", i, vm.stack[i].String(), vm.stack[i].TypeName())
	}
}
