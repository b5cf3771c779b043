// lexer.go — single-pass scanner for Ouroboros source.
//
// The lexer walks the source bytes once with start/cur indices and line/col
// counters. It never emits whitespace or comment tokens and always terminates
// the stream with EOF.
//
//   - identifiers: [A-Za-z_][A-Za-z0-9_]*, classified against the keyword table
//   - numbers: digits, optionally '.' digits; "1..5" lexes as 1 .. 5
//   - strings: double-quoted, escapes \n \t \\ \" only, no raw newlines
//   - comments: // to end of line
//
// Errors are collected: an unexpected character is reported and skipped so
// one pass can surface several of them. Non-ASCII input is only legal inside
// string literals.
package ouro

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer scans an Ouroboros source string into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	tokStartLine int
	tokStartCol  int

	tokens []Token
	errs   ErrorList
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans src completely. On failure it returns the tokens recognised
// so far (EOF-terminated) together with an ErrorList.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan runs the lexer to the end of input.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		stop := l.scanToken()
		if stop {
			break
		}
	}
	if len(l.tokens) == 0 || l.tokens[len(l.tokens)-1].Type != EOF {
		l.tokStartLine, l.tokStartCol = l.line, l.col
		l.start = l.cur
		l.addToken(EOF, nil)
	}
	return l.tokens, l.errs.Err()
}

//// END_OF_PUBLIC

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol + 1,
	})
}

func (l *Lexer) errAt(kind ErrorKind, line, col int, format string, args ...any) *Error {
	e := &Error{Kind: kind, Line: line, Col: col + 1, Msg: fmt.Sprintf(format, args...)}
	l.errs = append(l.errs, e)
	return e
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if next, ok := l.peekN(1); ok && next == '/' {
				for !l.isAtEnd() {
					if b, _ := l.peek(); b == '\n' {
						break
					}
					l.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// scanToken scans one token (or records one error). It returns true once EOF
// has been emitted or scanning cannot continue.
func (l *Lexer) scanToken() bool {
	l.skipWhitespaceAndComments()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		l.addToken(EOF, nil)
		return true
	}

	ch := l.advance()
	switch {
	case isAlpha(ch):
		l.scanIdentifier()
		return false
	case isDigit(ch):
		l.scanNumber()
		return false
	case ch == '"':
		return l.scanString()
	}

	switch ch {
	case ':':
		l.addToken(COLON, nil)
	case '=':
		l.addToken(EQUALS, nil)
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '{':
		l.addToken(LBRACE, nil)
	case '}':
		l.addToken(RBRACE, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '*':
		l.addToken(STAR, nil)
	case '/':
		l.addToken(SLASH, nil)
	case '>':
		l.addToken(GREATER, nil)
	case '-':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			l.addToken(ARROW, nil)
		} else {
			l.addToken(MINUS, nil)
		}
	case '.':
		if b, ok := l.peek(); ok && b == '.' {
			l.advance()
			l.addToken(DOTDOT, nil)
		} else {
			l.errAt(UnexpectedCharacter, l.tokStartLine, l.tokStartCol, "unexpected character '.' on line %d", l.tokStartLine)
		}
	default:
		l.unexpectedChar(ch)
	}
	return false
}

// unexpectedChar reports the character that started at l.start (decoding a
// full UTF-8 sequence when the byte is non-ASCII) and skips past it.
func (l *Lexer) unexpectedChar(ch byte) {
	r := rune(ch)
	if ch >= utf8.RuneSelf {
		var size int
		r, size = utf8.DecodeRuneInString(l.src[l.start:])
		// advance already consumed one byte
		l.cur = l.start + size
		l.col = l.tokStartCol + 1
	}
	l.errAt(UnexpectedCharacter, l.tokStartLine, l.tokStartCol, "unexpected character %s on line %d", strconv.QuoteRune(r), l.tokStartLine)
}

func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	text := l.src[l.start:l.cur]
	if kw, ok := keywords[text]; ok {
		l.addToken(kw, nil)
		return
	}
	l.addToken(IDENTIFIER, text)
}

// scanNumber reads digits and an optional fraction. A '.' is only taken as
// the decimal point when a digit follows it, so "0..5" stays a range.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if d, ok2 := l.peekN(1); ok2 && isDigit(d) {
			l.advance() // '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	// digits-only input: the only possible failure is ErrRange, where
	// ParseFloat already returns ±Inf.
	v, _ := strconv.ParseFloat(lex, 64)
	l.addToken(NUMBER, v)
}

// scanString decodes a string literal. It returns true when scanning has to
// stop (end of input reached inside the literal).
func (l *Lexer) scanString() bool {
	var out strings.Builder
	for {
		if l.isAtEnd() {
			e := l.errAt(UnterminatedString, l.tokStartLine, l.tokStartCol, "unterminated string")
			e.incomplete = true
			return true
		}
		ch, _ := l.peek()
		switch ch {
		case '"':
			l.advance()
			l.addToken(STRING_LITERAL, out.String())
			return false
		case '\n':
			// leave the newline for the whitespace skipper; resume on the next line
			l.errAt(UnterminatedString, l.tokStartLine, l.tokStartCol, "unterminated string (newline in string literal)")
			return false
		case '\\':
			escLine, escCol := l.line, l.col
			l.advance()
			if l.isAtEnd() {
				e := l.errAt(UnterminatedString, l.tokStartLine, l.tokStartCol, "unterminated string")
				e.incomplete = true
				return true
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '\\':
				out.WriteByte('\\')
			case '"':
				out.WriteByte('"')
			default:
				l.errAt(UnexpectedCharacter, escLine, escCol, "invalid escape sequence \\%c on line %d", esc, escLine)
			}
		default:
			out.WriteByte(l.advance())
		}
	}
}
