// Package parser implements the recursive-descent parser: it turns a token
// stream into an AST, using a save/restore checkpoint discipline to try
// speculative alternatives.
package parser

import (
	"fmt"

	"github.com/wingez/gxpu/internal/ast"
	"github.com/wingez/gxpu/internal/token"
)

// Error is raised whenever no grammar rule matches the current input. It
// carries the position of the token that defeated every alternative; an
// end-of-input error (NoMoreTokens) has no position.
type Error struct {
	Pos          token.Pos
	Msg          string
	NoMoreTokens bool
}

func (e *Error) Error() string {
	if e.NoMoreTokens {
		return fmt.Sprintf("%s: unexpected end of input: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Program is the result of parsing a whole source file: its function and
// struct definitions, in declaration order.
type Program struct {
	Functions []*ast.Function
	Structs   []*ast.Struct
}

// Parser holds a token vector and an integer cursor. Every exported entry
// point below constructs one and drives it to completion.
type Parser struct {
	tokens []token.Token
	index  int
}

// New returns a Parser positioned at the start of toks.
func New(toks []token.Token) *Parser {
	return &Parser{tokens: toks}
}

func (p *Parser) atEnd() bool { return p.index >= len(p.tokens) }

func (p *Parser) peek() (token.Token, error) {
	if p.atEnd() {
		return token.Token{}, &Error{NoMoreTokens: true, Msg: "no more tokens"}
	}
	return p.tokens[p.index], nil
}

func (p *Parser) checkpoint() int { return p.index }

func (p *Parser) restore(cp int) { p.index = cp }

func (p *Parser) consume() (token.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return token.Token{}, err
	}
	p.index++
	return tok, nil
}

// expect consumes the next token and errors if it is not of kind k. It does
// not restore the cursor; callers that are speculating must do so
// themselves on any error returned from expect.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok, err := p.consume()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Kind != k {
		return token.Token{}, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got %s", k, tok.Kind)}
	}
	return tok, nil
}

// ParseProgram parses a whole source file: zero or more function and struct
// definitions separated by blank lines.
func ParseProgram(toks []token.Token) (*Program, error) {
	p := New(toks)
	prog := &Program{}

	for !p.atEnd() {
		tok, err := p.peek()
		if err != nil {
			break
		}
		switch tok.Kind {
		case token.EOL:
			p.consume()
		case token.Def:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, fn)
		case token.Struct:
			st, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			prog.Structs = append(prog.Structs, st)
		default:
			return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s at top level", tok.Kind)}
		}
	}
	return prog, nil
}

// ParseStatementList parses a flat list of statements with no enclosing
// "def", the way a script-style function body is compiled directly. It
// reuses parseStatementsUntilEndBlock by appending a synthetic EndBlock
// sentinel after the caller's tokens.
func ParseStatementList(toks []token.Token) ([]ast.Statement, error) {
	withSentinel := make([]token.Token, 0, len(toks)+1)
	withSentinel = append(withSentinel, toks...)
	withSentinel = append(withSentinel, token.New(token.EndBlock, token.Pos{}))
	p := New(withSentinel)
	return p.parseStatementsUntilEndBlock()
}

// ParseFunction parses a single "def ...: ..." definition.
func ParseFunction(toks []token.Token) (*ast.Function, error) {
	p := New(toks)
	return p.parseFunction()
}

// ParseStruct parses a single "struct ...: ..." definition.
func ParseStruct(toks []token.Token) (*ast.Struct, error) {
	p := New(toks)
	return p.parseStruct()
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	startTok, err := p.expect(token.Def)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LeftParen); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}

	returnType := ""
	if tok, err := p.peek(); err == nil && tok.Kind == token.Identifier {
		p.consume()
		returnType = tok.Name
	}

	if _, err := p.expect(token.EOL); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BeginBlock); err != nil {
		return nil, err
	}
	body, err := p.parseStatementsUntilEndBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Name:           nameTok.Name,
		Params:         params,
		Body:           body,
		ReturnTypeName: returnType,
		Pos:            startTok.Pos,
	}, nil
}

func (p *Parser) parseStruct() (*ast.Struct, error) {
	startTok, err := p.expect(token.Struct)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOL); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BeginBlock); err != nil {
		return nil, err
	}

	var members []ast.AssignTarget
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOL {
			p.consume()
			continue
		}
		if tok.Kind == token.EndBlock {
			p.consume()
			break
		}
		m, err := p.parseAssignTarget()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EOL); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return &ast.Struct{Name: nameTok.Name, Members: members, Pos: startTok.Pos}, nil
}

func (p *Parser) parseParamList() ([]ast.AssignTarget, error) {
	var params []ast.AssignTarget
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.RightParen {
		return params, nil
	}
	for {
		t, err := p.parseAssignTarget()
		if err != nil {
			return nil, err
		}
		params = append(params, t)

		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Comma {
			break
		}
		p.consume()

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.RightParen {
			break // trailing comma
		}
	}
	return params, nil
}

func (p *Parser) parseArgList() ([]ast.ValueProvider, error) {
	var args []ast.ValueProvider
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.RightParen {
		return args, nil
	}
	for {
		v, err := p.parseValueProvider()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Comma {
			break
		}
		p.consume()
	}
	return args, nil
}

func (p *Parser) parseAssignTarget() (ast.AssignTarget, error) {
	identTok, err := p.expect(token.Identifier)
	if err != nil {
		return ast.AssignTarget{}, err
	}
	target := ast.AssignTarget{Name: identTok.Name, Pos: identTok.Pos}

	for {
		tok, err := p.peek()
		if err != nil || tok.Kind != token.Dot {
			break
		}
		p.consume()
		memberTok, err := p.expect(token.Identifier)
		if err != nil {
			return ast.AssignTarget{}, err
		}
		target.Modifiers = append(target.Modifiers, ast.MemberAccess{Field: memberTok.Name})
	}

	if tok, err := p.peek(); err == nil && tok.Kind == token.Colon {
		p.consume()
		if tok2, err := p.peek(); err == nil && tok2.Kind == token.KwNew {
			p.consume()
			target.ExplicitNew = true
		}
		typeTok, err := p.expect(token.Identifier)
		if err != nil {
			return ast.AssignTarget{}, err
		}
		target.TypeName = typeTok.Name
	}
	return target, nil
}

// parseStatementsUntilEndBlock consumes statements (skipping blank EOLs)
// until it hits EndBlock, which it consumes. It is reused both for a
// function's body and, via ParseStatementList, for a bare statement list.
func (p *Parser) parseStatementsUntilEndBlock() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOL {
			p.consume()
			continue
		}
		if tok.Kind == token.EndBlock {
			p.consume()
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// parseStatement tries each statement rule in order, restoring the cursor
// between attempts. The first success wins; if none match, it raises a
// fatal Error at the position of the token that defeated every rule.
func (p *Parser) parseStatement() (ast.Statement, error) {
	if s, ok := p.tryParseAssign(); ok {
		return s, nil
	}
	if s, ok := p.tryParsePrint(); ok {
		return s, nil
	}
	if s, ok := p.tryParseCallStmt(); ok {
		return s, nil
	}
	if s, ok := p.tryParseWhile(); ok {
		return s, nil
	}
	if s, ok := p.tryParseIf(); ok {
		return s, nil
	}
	if s, ok := p.tryParseReturn(); ok {
		return s, nil
	}

	tok, _ := p.peek()
	return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("don't know how to parse statement starting with %s", tok.Kind)}
}

func (p *Parser) tryParseAssign() (ast.Statement, bool) {
	cp := p.checkpoint()

	target, err := p.parseAssignTarget()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.Equals); err != nil {
		p.restore(cp)
		return nil, false
	}
	value, err := p.parseValueProvider()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	return &ast.Assign{Target: target, Value: value, Pos: target.Pos}, true
}

func (p *Parser) tryParsePrint() (ast.Statement, bool) {
	cp := p.checkpoint()

	if _, err := p.expect(token.Print); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.LeftParen); err != nil {
		p.restore(cp)
		return nil, false
	}
	value, err := p.parseValueProvider()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.RightParen); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	return &ast.Print{Value: value}, true
}

func (p *Parser) tryParseCallStmt() (ast.Statement, bool) {
	cp := p.checkpoint()

	identTok, err := p.expect(token.Identifier)
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.LeftParen); err != nil {
		p.restore(cp)
		return nil, false
	}
	args, err := p.parseArgList()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.RightParen); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	return &ast.Call{Name: identTok.Name, Args: args, Pos: identTok.Pos}, true
}

func (p *Parser) tryParseWhile() (ast.Statement, bool) {
	cp := p.checkpoint()

	startTok, err := p.expect(token.While)
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	cond, err := p.parseValueProvider()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.Colon); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.BeginBlock); err != nil {
		p.restore(cp)
		return nil, false
	}
	body, err := p.parseStatementsUntilEndBlock()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	return &ast.While{Cond: cond, Body: body, Pos: startTok.Pos}, true
}

func (p *Parser) tryParseIf() (ast.Statement, bool) {
	cp := p.checkpoint()

	startTok, err := p.expect(token.If)
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	cond, err := p.parseValueProvider()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.Colon); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.BeginBlock); err != nil {
		p.restore(cp)
		return nil, false
	}
	body, err := p.parseStatementsUntilEndBlock()
	if err != nil {
		p.restore(cp)
		return nil, false
	}

	node := &ast.If{Cond: cond, Body: body, Pos: startTok.Pos}

	elseCp := p.checkpoint()
	if tok, err := p.peek(); err == nil && tok.Kind == token.Else {
		p.consume()
		if _, err := p.expect(token.Colon); err != nil {
			p.restore(cp)
			return nil, false
		}
		if _, err := p.expect(token.EOL); err != nil {
			p.restore(cp)
			return nil, false
		}
		if _, err := p.expect(token.BeginBlock); err != nil {
			p.restore(cp)
			return nil, false
		}
		elseBody, err := p.parseStatementsUntilEndBlock()
		if err != nil {
			p.restore(cp)
			return nil, false
		}
		node.ElseBody = elseBody
	} else {
		p.restore(elseCp)
	}

	return node, true
}

func (p *Parser) tryParseReturn() (ast.Statement, bool) {
	cp := p.checkpoint()

	startTok, err := p.expect(token.Return)
	if err != nil {
		p.restore(cp)
		return nil, false
	}

	tok, err := p.peek()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if tok.Kind == token.EOL {
		p.consume()
		return &ast.Return{Pos: startTok.Pos}, true
	}

	value, err := p.parseValueProvider()
	if err != nil {
		p.restore(cp)
		return nil, false
	}
	if _, err := p.expect(token.EOL); err != nil {
		p.restore(cp)
		return nil, false
	}
	return &ast.Return{Value: value, Pos: startTok.Pos}, true
}

// parseValueProvider parses one primary, optionally followed by a single
// '+' or '-' and a second primary. The right-hand operand of a binary
// operation is never itself compound: Additions, Subtractions and Calls are
// all rejected there ("operation too complex").
func (p *Parser) parseValueProvider() (ast.ValueProvider, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind.IsExpressionSeparator() {
		return left, nil
	}
	if !tok.Kind.IsSingleOperation() {
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s in value expression", tok.Kind)}
	}
	p.consume()

	right, err := p.parseValueProvider()
	if err != nil {
		return nil, err
	}
	switch right.(type) {
	case *ast.Addition, *ast.Subtraction, *ast.Call:
		return nil, &Error{Pos: tok.Pos, Msg: "operation too complex"}
	}

	if tok.Kind == token.Plus {
		return &ast.Addition{Left: left, Right: right, Pos: tok.Pos}, nil
	}
	return &ast.Subtraction{Left: left, Right: right, Pos: tok.Pos}, nil
}

func (p *Parser) parsePrimary() (ast.ValueProvider, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.NumericConstant:
		p.consume()
		return &ast.Constant{Value: tok.Value, Pos: tok.Pos}, nil

	case token.Identifier:
		p.consume()
		if next, err := p.peek(); err == nil && next.Kind == token.LeftParen {
			p.consume()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RightParen); err != nil {
				return nil, err
			}
			return &ast.Call{Name: tok.Name, Args: args, Pos: tok.Pos}, nil
		}
		return &ast.Identifier{Name: tok.Name, Pos: tok.Pos}, nil

	default:
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected a value expression, got %s", tok.Kind)}
	}
}
