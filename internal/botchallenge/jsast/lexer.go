package jsast

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
	tokKeyword
)

type token struct {
	kind tokenKind
	lit  string
	num  float64
}

var keywords = map[string]bool{
	"function": true, "var": true, "return": true, "if": true, "else": true,
	"for": true, "try": true, "catch": true, "finally": true,
	"true": true, "false": true, "null": true, "undefined": true,
	"typeof": true, "void": true, "new": true, "in": true, "instanceof": true,
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

// tokenize converts src into a flat token stream. A character that is not
// part of any recognized token (e.g. '@') is an error reported by the
// lexer itself, with its byte offset.
func tokenize(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		l.skipTrivia()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF})
			return l.toks, nil
		}
		c := l.src[l.pos]
		switch {
		case isIdentStart(c):
			start := l.pos
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			word := l.src[start:l.pos]
			if keywords[word] {
				l.toks = append(l.toks, token{kind: tokKeyword, lit: word})
			} else {
				l.toks = append(l.toks, token{kind: tokIdent, lit: word})
			}
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			start := l.pos
			if c == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
				l.pos += 2
				for l.pos < len(l.src) && isHex(l.src[l.pos]) {
					l.pos++
				}
				lit := l.src[start:l.pos]
				n, err := strconv.ParseInt(lit[2:], 16, 64)
				if err != nil {
					return nil, fmt.Errorf("jsast: invalid hex literal %q", lit)
				}
				l.toks = append(l.toks, token{kind: tokNumber, lit: lit, num: float64(n)})
				continue
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
			if l.pos < len(l.src) && l.src[l.pos] == '.' {
				l.pos++
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			}
			if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
				l.pos++
				if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
					l.pos++
				}
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			}
			lit := l.src[start:l.pos]
			n, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("jsast: invalid number literal %q", lit)
			}
			l.toks = append(l.toks, token{kind: tokNumber, lit: lit, num: n})
		case c == '"' || c == '\'':
			s, err := l.readString(c)
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, token{kind: tokString, lit: s})
		default:
			p, err := l.readPunct()
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, token{kind: tokPunct, lit: p})
		}
	}
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.src) && !(l.src[l.pos] == '*' && l.src[l.pos+1] == '/') {
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func (l *lexer) readString(quote byte) (string, error) {
	l.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", fmt.Errorf("jsast: unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			return sb.String(), nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			esc := l.src[l.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			case 'u':
				if l.pos+4 < len(l.src) {
					hex := l.src[l.pos+1 : l.pos+5]
					if n, err := strconv.ParseInt(hex, 16, 32); err == nil {
						sb.WriteRune(rune(n))
						l.pos += 4
						break
					}
				}
				sb.WriteByte(esc)
			default:
				sb.WriteByte(esc)
			}
			l.pos++
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
}

var multiCharPuncts = []string{
	">>>=", "...",
	"===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "**",
	"<<", ">>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "++", "--",
}

func (l *lexer) readPunct() (string, error) {
	rest := l.src[l.pos:]
	for _, mc := range multiCharPuncts {
		if strings.HasPrefix(rest, mc) {
			l.pos += len(mc)
			return mc, nil
		}
	}
	c := l.src[l.pos]
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '.', '?',
		'<', '>', '+', '-', '*', '/', '%', '&', '|', '^', '!', '~', '=':
		l.pos++
		return string(c), nil
	}
	return "", fmt.Errorf("jsast: unexpected character %q at offset %d", c, l.pos)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
