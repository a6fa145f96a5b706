// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package zlox

import (
	"bytes"
	"strconv"

	"github.com/tusharsadhwani/zlox/token"
)

// Precedence represents operator binding strength, low to high.
type Precedence byte

// List of precedence levels
const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
)

type parseFn func(c *Compiler, canAssign bool) error

// parseRule drives the Pratt parser: how a token parses in prefix position,
// how it parses in infix position, and how tightly it binds.
type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   Precedence
}

var parseRules map[token.Type]parseRule

func init() {
	parseRules = map[token.Type]parseRule{
		token.Plus:        {nil, (*Compiler).binary, PrecTerm},
		token.Minus:       {(*Compiler).unary, (*Compiler).binary, PrecTerm},
		token.Star:        {nil, (*Compiler).binary, PrecFactor},
		token.Slash:       {nil, (*Compiler).binary, PrecFactor},
		token.EqualEqual:  {nil, (*Compiler).binary, PrecEquality},
		token.LessThan:    {nil, (*Compiler).binary, PrecComparison},
		token.GreaterThan: {nil, (*Compiler).binary, PrecComparison},
		token.Number:      {(*Compiler).number, nil, PrecNone},
		token.String:      {(*Compiler).str, nil, PrecNone},
		token.Identifier:  {(*Compiler).identifier, nil, PrecNone},
		token.True:        {(*Compiler).literal, nil, PrecNone},
		token.False:       {(*Compiler).literal, nil, PrecNone},
		token.Nil:         {(*Compiler).literal, nil, PrecNone},
	}
}

// ruleOf returns the parse rule for t. Tokens without a rule get the zero
// rule: no handlers, PrecNone.
func ruleOf(t token.Type) parseRule {
	return parseRules[t]
}

// Local tracks a block scoped variable. Its index in the compiler's locals
// slice equals the operand stack slot holding its value at run time; the VM
// pushes initializers in declaration order and block exit pops in reverse,
// which keeps the two aligned.
type Local struct {
	Name  []byte
	Depth int
}

// Compiler translates a token stream into a chunk in a single pass, with no
// intermediate tree. Variable scoping is resolved at emission time: locals
// become stack slots, globals become varname pool references.
type Compiler struct {
	ctx        *GlobalContext
	src        []byte
	tokens     []token.Token
	index      int
	chunk      *Chunk
	locals     []Local
	scopeDepth int
}

// NewCompiler creates a Compiler for a token stream over src.
func NewCompiler(ctx *GlobalContext, src []byte, tokens []token.Token) *Compiler {
	return &Compiler{
		ctx:    ctx,
		src:    src,
		tokens: tokens,
		chunk:  NewChunk(),
	}
}

// Compile compiles the whole token stream and returns the chunk, terminated
// by EXIT.
func (c *Compiler) Compile() (*Chunk, error) {
	for !c.check(token.EOF) {
		if err := c.declaration(); err != nil {
			return nil, err
		}
	}
	if c.index != len(c.tokens)-1 {
		return nil, c.errorAtCurrent(ErrUnexpectedEOF)
	}
	c.emit(OpExit)
	return c.chunk, nil
}

func (c *Compiler) current() token.Token {
	return c.tokens[c.index]
}

func (c *Compiler) previous() token.Token {
	return c.tokens[c.index-1]
}

func (c *Compiler) advance() {
	if c.index < len(c.tokens)-1 {
		c.index++
	}
}

func (c *Compiler) check(t token.Type) bool {
	return c.current().Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) error {
	if c.match(t) {
		return nil
	}
	return c.errorAtCurrent(ErrUnexpectedToken.NewError(message))
}

func (c *Compiler) lexeme(tok token.Token) []byte {
	return tok.Lexeme(c.src)
}

// errorAt wraps err with the byte offset of tok.
func (c *Compiler) errorAt(tok token.Token, err error) error {
	return &CompilerError{Err: err, Offset: tok.Start}
}

func (c *Compiler) errorAtCurrent(err error) error {
	return c.errorAt(c.current(), err)
}

func (c *Compiler) errorAtPrevious(err error) error {
	return c.errorAt(c.previous(), err)
}

func (c *Compiler) emit(op Opcode, operands ...int) {
	c.chunk.Code = append(c.chunk.Code, op)
	for _, o := range operands {
		c.chunk.Code = append(c.chunk.Code, byte(o))
	}
}

func (c *Compiler) emitConstant(v Value) error {
	index, err := c.chunk.AddConstant(v)
	if err != nil {
		return c.errorAtPrevious(err)
	}
	c.emit(OpGetConst, index)
	return nil
}

func (c *Compiler) declaration() error {
	switch {
	case c.match(token.LBrace):
		return c.block()
	case c.match(token.Var):
		return c.varDeclaration()
	case c.match(token.Print):
		return c.printStatement()
	default:
		return c.expressionStatement()
	}
}

// block parses declarations until the closing brace, then pops every local
// the block declared and leaves the scope.
func (c *Compiler) block() error {
	c.scopeDepth++
	for !c.check(token.RBrace) && !c.check(token.EOF) {
		if err := c.declaration(); err != nil {
			return err
		}
	}
	if !c.match(token.RBrace) {
		return c.errorAtCurrent(ErrUnterminatedBlock)
	}
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth == c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		c.emit(OpPop)
	}
	c.scopeDepth--
	return nil
}

// varDeclaration parses `var IDENT = expression ;`. An initializer is
// required. The initializer is compiled first: for a global its value is
// consumed by DECLAREGLOBAL, for a local it stays on the stack as the
// local's storage slot.
func (c *Compiler) varDeclaration() error {
	if !c.match(token.Identifier) {
		return c.errorAtCurrent(ErrUnexpectedToken.NewError("expected variable name"))
	}
	nameTok := c.previous()
	name := c.lexeme(nameTok)
	if err := c.consume(token.Equal, "expected '=' after variable name"); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(token.Semicolon, "expected ';' after variable declaration"); err != nil {
		return err
	}

	if c.scopeDepth == 0 {
		index, err := c.chunk.AddVarname(name)
		if err != nil {
			return c.errorAt(nameTok, err)
		}
		c.emit(OpDeclareGlobal, index)
		return nil
	}

	if c.findLocal(name, true) >= 0 {
		return c.errorAt(nameTok, ErrRedeclaredLocal.NewError(string(name)))
	}
	if len(c.locals) >= MaxPoolSize {
		return c.errorAt(nameTok, ErrTooManyLocals)
	}
	c.locals = append(c.locals, Local{Name: name, Depth: c.scopeDepth})
	c.emit(OpSetLocal, len(c.locals)-1)
	return nil
}

func (c *Compiler) printStatement() error {
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(token.Semicolon, "expected ';' after value"); err != nil {
		return err
	}
	c.emit(OpPrint)
	return nil
}

func (c *Compiler) expressionStatement() error {
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(token.Semicolon, "expected ';' after expression"); err != nil {
		return err
	}
	c.emit(OpPop)
	return nil
}

func (c *Compiler) expression() error {
	return c.parsePrecedence(PrecAssignment)
}

// parsePrecedence parses an expression at precedence p or higher: one prefix
// handler, then infix handlers while the next token binds at least as
// tightly as p. Assignment is only legal when parsing at assignment
// precedence; a leftover '=' after a tighter parse is an invalid target.
func (c *Compiler) parsePrecedence(p Precedence) error {
	c.advance()
	rule := ruleOf(c.previous().Type)
	if rule.prefix == nil {
		return c.errorAtPrevious(ErrExpressionExpected)
	}
	canAssign := p <= PrecAssignment
	if err := rule.prefix(c, canAssign); err != nil {
		return err
	}
	for p <= ruleOf(c.current().Type).prec {
		c.advance()
		if err := ruleOf(c.previous().Type).infix(c, canAssign); err != nil {
			return err
		}
	}
	if !canAssign && c.check(token.Equal) {
		return c.errorAtCurrent(ErrInvalidAssignmentTarget)
	}
	return nil
}

func (c *Compiler) number(bool) error {
	lexeme := c.lexeme(c.previous())
	n, err := strconv.ParseFloat(string(lexeme), 32)
	if err != nil {
		return c.errorAtPrevious(ErrInvalidSyntax.NewError("invalid number literal"))
	}
	return c.emitConstant(NumberValue(float32(n)))
}

// str compiles a string literal: the bytes between the quotes are copied out
// of the source, interned and wrapped in a context owned object.
func (c *Compiler) str(bool) error {
	tok := c.previous()
	raw := c.src[tok.Start+1 : tok.Start+tok.Len-1]
	b := make([]byte, len(raw))
	copy(b, raw)
	return c.emitConstant(ObjectValue(c.ctx.NewString(b)))
}

func (c *Compiler) literal(bool) error {
	switch c.previous().Type {
	case token.True:
		return c.emitConstant(True)
	case token.False:
		return c.emitConstant(False)
	default:
		return c.emitConstant(Nil)
	}
}

func (c *Compiler) unary(bool) error {
	if err := c.parsePrecedence(PrecUnary); err != nil {
		return err
	}
	c.emit(OpNegate)
	return nil
}

// binary compiles the right operand at one level above the operator's own
// precedence, which makes same-precedence chains left associative.
func (c *Compiler) binary(bool) error {
	op := c.previous().Type
	if err := c.parsePrecedence(ruleOf(op).prec + 1); err != nil {
		return err
	}
	switch op {
	case token.Plus:
		c.emit(OpAdd)
	case token.Minus:
		c.emit(OpSubtract)
	case token.Star:
		c.emit(OpMultiply)
	case token.Slash:
		c.emit(OpDivide)
	case token.LessThan:
		c.emit(OpLessThan)
	case token.GreaterThan:
		c.emit(OpGreaterThan)
	case token.EqualEqual:
		c.emit(OpEquals)
	}
	return nil
}

// identifier compiles a variable read or, when assignment is legal and an
// '=' follows, an assignment. Resolution prefers locals; any name that is
// not a live local refers to a global.
func (c *Compiler) identifier(canAssign bool) error {
	nameTok := c.previous()
	name := c.lexeme(nameTok)

	if canAssign && c.match(token.Equal) {
		if err := c.expression(); err != nil {
			return err
		}
		if slot := c.findLocal(name, false); slot >= 0 {
			c.emit(OpSetLocal, slot)
			return nil
		}
		index, err := c.chunk.AddVarname(name)
		if err != nil {
			return c.errorAt(nameTok, err)
		}
		c.emit(OpSetGlobal, index)
		return nil
	}

	if slot := c.findLocal(name, false); slot >= 0 {
		c.emit(OpGetLocal, slot)
		return nil
	}
	index, err := c.chunk.AddVarname(name)
	if err != nil {
		return c.errorAt(nameTok, err)
	}
	c.emit(OpGetGlobal, index)
	return nil
}

// findLocal scans locals newest to oldest and returns the index of the
// first name match, or -1. With sameScopeOnly only locals of the current
// depth are considered, which is the redeclaration check.
func (c *Compiler) findLocal(name []byte, sameScopeOnly bool) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := &c.locals[i]
		if sameScopeOnly && l.Depth != c.scopeDepth {
			continue
		}
		if bytes.Equal(l.Name, name) {
			return i
		}
	}
	return -1
}
