// Package lexer turns lambent source text into a slice of tokens.
//
// The lexer is a small state machine in the style of text/template: each
// state function consumes some input, emits zero or more tokens and returns
// the next state.
package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"go.skia.org/lambent/lambent/go/token"
)

const (
	eof = -1

	lambdaKeyword = "L"
	lambdaRune    = 'λ'
	commentRune   = '#'
)

// LexError is returned when the input contains a character that cannot start
// any token.
type LexError struct {
	Character rune
	Line      int
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("Unexpected character '%c' on line %d", e.Character, e.Line)
}

type stateFn func(*lexer) stateFn

type lexer struct {
	input     string
	start     int // start of the current token.
	pos       int // current position in input.
	width     int // width of the last rune read.
	line      int // line of pos.
	startLine int // line of start.
	tokens    []token.Token
	err       error
}

// Lex scans all of src and returns the tokens, always terminated by a single
// token.EOF. Lexing stops at the first invalid character.
func Lex(src string) ([]token.Token, error) {
	l := &lexer{
		input:     src,
		line:      1,
		startLine: 1,
	}
	for state := lexAny; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.tokens, nil
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
	if l.width == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
}

func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

func (l *lexer) emit(t token.Token) {
	t.Line = l.startLine
	l.tokens = append(l.tokens, t)
	l.ignore()
}

func (l *lexer) emitKind(k token.Kind) {
	l.emit(token.Token{Kind: k})
}

// emitIfNext emits long if the next rune is '=', otherwise short.
func (l *lexer) emitIfNext(long, short token.Kind) {
	if l.peek() == '=' {
		l.next()
		l.emitKind(long)
		return
	}
	l.emitKind(short)
}

func (l *lexer) errorf(r rune) stateFn {
	l.err = &LexError{Character: r, Line: l.startLine}
	return nil
}

func lexAny(l *lexer) stateFn {
	r := l.next()
	switch {
	case r == eof:
		l.emitKind(token.EOF)
		return nil
	case isSpace(r):
		l.ignore()
		return lexAny
	case r == commentRune:
		return lexComment
	case r == lambdaRune:
		l.emitKind(token.Lambda)
		return lexAny
	case isDigit(r):
		l.backup()
		return lexNumber
	case unicode.IsLetter(r):
		l.backup()
		return lexIdentifier
	}

	switch r {
	case '(':
		l.emitKind(token.LeftParen)
	case ')':
		l.emitKind(token.RightParen)
	case '.':
		l.emitKind(token.Dot)
	case '+':
		l.emitKind(token.Add)
	case '-':
		l.emitKind(token.Sub)
	case '*':
		l.emitKind(token.Mul)
	case '/':
		l.emitKind(token.Div)
	case '^':
		l.emitKind(token.Expo)
	case ';':
		l.emitKind(token.Semicolon)
	case '=':
		l.emitIfNext(token.Equal, token.Assign)
	case '<':
		l.emitIfNext(token.LessThanOrEqual, token.LessThan)
	case '>':
		l.emitIfNext(token.GreaterThanOrEqual, token.GreaterThan)
	case '!':
		if l.peek() != '=' {
			return l.errorf(r)
		}
		l.next()
		l.emitKind(token.NotEqual)
	default:
		return l.errorf(r)
	}
	return lexAny
}

// lexComment skips from '#' up to and including the end of the line.
func lexComment(l *lexer) stateFn {
	for {
		switch l.next() {
		case eof:
			l.ignore()
			return lexAny
		case '\n':
			l.ignore()
			return lexAny
		}
	}
}

// lexIdentifier scans a letter followed by letters, digits and underscores.
func lexIdentifier(l *lexer) stateFn {
	for {
		r := l.next()
		if r == lambdaRune || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			l.backup()
			break
		}
	}
	word := l.input[l.start:l.pos]
	if word == lambdaKeyword {
		l.emitKind(token.Lambda)
	} else {
		l.emit(token.Token{Kind: token.Identifier, Text: word})
	}
	return lexAny
}

// lexNumber scans digits with at most one decimal point. A trailing point is
// part of the number, so "7." is 7.
func lexNumber(l *lexer) stateFn {
	seenDot := false
	for {
		r := l.next()
		if isDigit(r) {
			continue
		}
		if r == '.' && !seenDot {
			seenDot = true
			continue
		}
		l.backup()
		break
	}
	// Only digits and one dot were consumed, so the only possible error is
	// ErrRange, in which case v is +Inf.
	v, _ := strconv.ParseFloat(l.input[l.start:l.pos], 32)
	l.emit(token.Token{Kind: token.Number, Value: float32(v)})
	return lexAny
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
