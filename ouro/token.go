package ouro

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Keywords
	LET
	FN
	IF
	ELSE
	RETURN
	FOR
	IN
	ASYNC
	AWAIT
	GPU

	// Type names (reserved, never usable as variables)
	INT
	FLOAT
	STRING

	// Literals & identifiers
	IDENTIFIER
	NUMBER
	STRING_LITERAL

	// Punctuation
	COLON     // ":"
	EQUALS    // "="
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	SEMICOLON // ";"
	COMMA     // ","
	ARROW     // "->"
	DOTDOT    // ".."

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	GREATER
)

var tokenNames = [...]string{
	EOF:            "end of input",
	LET:            "'let'",
	FN:             "'fn'",
	IF:             "'if'",
	ELSE:           "'else'",
	RETURN:         "'return'",
	FOR:            "'for'",
	IN:             "'in'",
	ASYNC:          "'async'",
	AWAIT:          "'await'",
	GPU:            "'gpu'",
	INT:            "'int'",
	FLOAT:          "'float'",
	STRING:         "'string'",
	IDENTIFIER:     "identifier",
	NUMBER:         "number",
	STRING_LITERAL: "string literal",
	COLON:          "':'",
	EQUALS:         "'='",
	LPAREN:         "'('",
	RPAREN:         "')'",
	LBRACE:         "'{'",
	RBRACE:         "'}'",
	SEMICOLON:      "';'",
	COMMA:          "','",
	ARROW:          "'->'",
	DOTDOT:         "'..'",
	PLUS:           "'+'",
	MINUS:          "'-'",
	STAR:           "'*'",
	SLASH:          "'/'",
	GREATER:        "'>'",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token.
//
// Lexeme is the raw source slice; Literal holds the decoded payload for
// literals (float64 for NUMBER, unescaped text for STRING_LITERAL) and is nil
// otherwise. Line and Col are 1-based.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Col     int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
}

// Pos returns the token's source position.
func (t Token) Pos() Pos { return Pos{Line: t.Line, Col: t.Col} }

// describe renders a token for "got ..." messages.
func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENTIFIER, NUMBER:
		return fmt.Sprintf("%s '%s'", t.Type, t.Lexeme)
	case STRING_LITERAL:
		return fmt.Sprintf("string %s", t.Lexeme)
	}
	return t.Type.String()
}

var keywords = map[string]TokenType{
	"let":    LET,
	"fn":     FN,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
	"for":    FOR,
	"in":     IN,
	"async":  ASYNC,
	"await":  AWAIT,
	"gpu":    GPU,
	"int":    INT,
	"float":  FLOAT,
	"string": STRING,
}

// IsTypeName reports whether t is one of the reserved type-name tokens.
func IsTypeName(t TokenType) bool { return t == INT || t == FLOAT || t == STRING }
