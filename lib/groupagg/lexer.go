package groupagg

import "strings"

// tokenKind classifies one lexer token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokDecimal
	tokComma
	tokDash
	tokColon
)

// lexer tokenizes the operation DSL, built by joining the argument vector
// with single spaces (the shell has already split argv). A single-pass
// recursive-descent scanner over that joined string, same shape as the
// query-language scanners elsewhere in this stack, adapted to a
// space-joined argv stream instead of a delimited query string.
//
// Whitespace is always skipped between tokens, so "foo:10: 4" and
// "foo:10:4" tokenize identically; parseOpParam tells them apart from a
// legitimate single parameter by rejecting any second contiguous ':' it
// sees after consuming one, regardless of whether space preceded it.
type lexer struct {
	src []byte
	pos int

	tok  tokenKind
	text string
}

func newLexer(args []string) *lexer {
	return &lexer{src: []byte(strings.Join(args, " "))}
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// next advances the lexer and reports whether a token (including tokEOF) is
// available; it always returns true except after tokEOF has already been
// produced once, mirroring bufio.Scanner.Scan-style loops.
func (lx *lexer) next() bool {
	if lx.tok == tokEOF && lx.pos >= len(lx.src) {
		return false
	}

	for lx.pos < len(lx.src) && isBlank(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		lx.tok = tokEOF
		lx.text = ""
		return true
	}

	c := lx.src[lx.pos]
	switch {
	case c == ',':
		lx.pos++
		lx.tok, lx.text = tokComma, ","
	case c == '-':
		lx.pos++
		lx.tok, lx.text = tokDash, "-"
	case c == ':':
		lx.pos++
		lx.tok, lx.text = tokColon, ":"
	case isDigit(c):
		lx.scanNumber()
	default:
		lx.scanIdent()
	}
	return true
}

func (lx *lexer) scanNumber() {
	start := lx.pos
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	isDecimal := false
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == '.' && isDigit(lx.src[lx.pos+1]) {
		isDecimal = true
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	lx.text = string(lx.src[start:lx.pos])
	if isDecimal {
		lx.tok = tokDecimal
	} else {
		lx.tok = tokInt
	}
}

// scanIdent consumes an identifier: letters, digits, underscore, or any
// backslash-escaped byte (so escaped '-'/':' can appear inside a name).
func (lx *lexer) scanIdent() {
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.pos+1 < len(lx.src) {
			sb.WriteByte(lx.src[lx.pos+1])
			lx.pos += 2
			continue
		}
		if isIdentByte(c) {
			sb.WriteByte(c)
			lx.pos++
			continue
		}
		break
	}
	lx.tok = tokIdent
	lx.text = sb.String()
}

// isKeyword reports whether the current token's text matches any of words.
// An empty word matches tokEOF.
func (lx *lexer) isKeyword(words ...string) bool {
	for _, w := range words {
		if w == "" && lx.tok == tokEOF {
			return true
		}
		if lx.tok != tokEOF && lx.text == w {
			return true
		}
	}
	return false
}
