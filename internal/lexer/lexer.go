// Package lexer implements the indentation-sensitive tokenizer: it turns
// source text into a flat token stream with explicit begin-block/end-block
// markers, decoupling the parser from whitespace.
package lexer

import (
	"fmt"
	"strings"

	"github.com/wingez/gxpu/internal/token"
)

// SyntaxError is raised for every tokenizer-level fault: mixed tabs/spaces,
// a lone leading space, or an indentation jump of more than one step.
type SyntaxError struct {
	Pos token.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: invalid syntax: %s", e.Pos, e.Msg)
}

func newSyntaxError(line int, msg string) *SyntaxError {
	return &SyntaxError{Pos: token.Pos{Line: line, Col: 1}, Msg: msg}
}

// delimiters is the fixed set of characters that terminate the current word
// during line tokenization. Space is a pure separator, '#' starts a
// comment, and the rest are single-char symbol tokens in themselves.
const delimiters = " #(),:+-=<>."

type indentKind uint8

const (
	indentUnknown indentKind = iota
	indentTabs
	indentSpaces
)

// Tokenize converts source text into a token stream. Line terminator is
// '\n'; each line's trailing newline is stripped before tokenization, per
// the spec.
func Tokenize(src string) ([]token.Token, error) {
	var toks []token.Token

	lines := strings.Split(src, "\n")
	kind := indentUnknown
	baseSet := false
	currentIndent := 0
	openBlocks := 0

	for i, raw := range lines {
		lineNo := i + 1
		if strings.TrimSpace(raw) == "" {
			// blank line: skip entirely, does not affect indentation state
			continue
		}

		steps, rest, newKind, err := measureIndent(raw, kind)
		if err != nil {
			return nil, newSyntaxError(lineNo, err.Error())
		}
		kind = newKind

		if !baseSet {
			baseSet = true
			currentIndent = steps
		} else {
			switch diff := steps - currentIndent; {
			case diff == 1:
				toks = append(toks, token.New(token.BeginBlock, token.Pos{Line: lineNo, Col: 1}))
				openBlocks++
				currentIndent = steps
			case diff > 1:
				return nil, newSyntaxError(lineNo, "indentation increased by more than one step")
			case diff < 0:
				for n := 0; n < -diff; n++ {
					toks = append(toks, token.New(token.EndBlock, token.Pos{Line: lineNo, Col: 1}))
					openBlocks--
				}
				currentIndent = steps
			default:
				// same indentation, no block token
			}
		}

		lineToks, err := tokenizeLine(rest, lineNo, steps)
		if err != nil {
			return nil, err
		}
		if len(lineToks) > 0 {
			toks = append(toks, lineToks...)
			toks = append(toks, token.New(token.EOL, token.Pos{Line: lineNo, Col: len(raw) + 1}))
		}
	}

	for ; openBlocks > 0; openBlocks-- {
		toks = append(toks, token.New(token.EndBlock, token.Pos{Line: len(lines) + 1, Col: 1}))
	}

	return toks, nil
}

// measureIndent counts the leading indentation steps of line (one tab or two
// spaces each), enforcing that the file does not mix the two kinds and that
// a lone leading space is not followed by a non-space. It returns the
// number of steps, the remainder of the line past the indentation, and the
// indent kind now established for the file (possibly unchanged from fileKind).
func measureIndent(line string, fileKind indentKind) (steps int, rest string, newKind indentKind, err error) {
	newKind = fileKind
	i := 0
	for {
		switch {
		case i < len(line) && line[i] == '\t':
			if newKind == indentSpaces {
				return 0, "", fileKind, fmt.Errorf("cannot mix tabs and spaces")
			}
			newKind = indentTabs
			steps++
			i++

		case i+1 < len(line) && line[i] == ' ' && line[i+1] == ' ':
			if newKind == indentTabs {
				return 0, "", fileKind, fmt.Errorf("cannot mix tabs and spaces")
			}
			newKind = indentSpaces
			steps++
			i += 2

		case i < len(line) && line[i] == ' ' && (i+1 >= len(line) || line[i+1] != ' '):
			return 0, "", fileKind, fmt.Errorf("mismatched spaces")

		default:
			return steps, line[i:], newKind, nil
		}
	}
}

// tokenizeLine scans one line's content (past its indentation) into tokens.
// indentSteps is only used to compute approximate columns for diagnostics.
func tokenizeLine(line string, lineNo, indentSteps int) ([]token.Token, error) {
	var toks []token.Token
	var word strings.Builder

	colBase := indentSteps + 1
	flush := func(endCol int) error {
		if word.Len() == 0 {
			return nil
		}
		tok, err := token.ToWord(word.String(), token.Pos{Line: lineNo, Col: endCol - word.Len()})
		if err != nil {
			return &SyntaxError{Pos: token.Pos{Line: lineNo, Col: endCol - word.Len()}, Msg: err.Error()}
		}
		toks = append(toks, tok)
		word.Reset()
		return nil
	}

	for i, r := range line {
		col := colBase + i
		if strings.ContainsRune(delimiters, r) {
			if err := flush(col); err != nil {
				return nil, err
			}
			switch r {
			case ' ':
				continue
			case '#':
				return toks, nil
			default:
				tok, ok := token.ToSymbol(string(r), token.Pos{Line: lineNo, Col: col})
				if !ok {
					return nil, &SyntaxError{Pos: token.Pos{Line: lineNo, Col: col}, Msg: fmt.Sprintf("illegal character %q", r)}
				}
				toks = append(toks, tok)
				continue
			}
		}
		word.WriteRune(r)
	}
	if err := flush(colBase + len(line)); err != nil {
		return nil, err
	}
	return toks, nil
}
