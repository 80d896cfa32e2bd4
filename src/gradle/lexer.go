package gradle

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent  // dotted identifiers: signingConfigs.getByName, JavaVersion.VERSION_11
	tokString // contents without quotes
	tokNumber
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokAssign    // =
	tokAppend    // +=
	tokComma     // ,
	tokSemicolon // ;
	tokOther     // any other operator character
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex splits Kotlin DSL source into tokens. Comments are dropped; newlines
// are kept because they terminate statements.
func lex(src string) ([]token, error) {
	var (
		toks []token
		line = 1
		i    = 0
	)

	emit := func(k tokenKind, text string) {
		toks = append(toks, token{kind: k, text: text, line: line})
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			emit(tokNewline, "")
			line++
			i++

		case c == ' ' || c == '\t' || c == '\r':
			i++

		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated block comment", line)
			}
			line += strings.Count(src[i:i+2+end], "\n")
			i += end + 4

		case c == '"':
			if strings.HasPrefix(src[i:], `"""`) {
				end := strings.Index(src[i+3:], `"""`)
				if end < 0 {
					return nil, fmt.Errorf("line %d: unterminated raw string", line)
				}
				emit(tokString, src[i+3:i+3+end])
				line += strings.Count(src[i:i+3+end], "\n")
				i += end + 6
				continue
			}
			var b strings.Builder
			j := i + 1
			for ; j < len(src) && src[j] != '"'; j++ {
				if src[j] == '\n' {
					return nil, fmt.Errorf("line %d: unterminated string", line)
				}
				if src[j] == '\\' && j+1 < len(src) {
					j++
					switch src[j] {
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					default:
						b.WriteByte(src[j])
					}
					continue
				}
				b.WriteByte(src[j])
			}
			if j >= len(src) {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			emit(tokString, b.String())
			i = j + 1

		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && (isDigit(src[j]) || src[j] == '_') {
				j++
			}
			emit(tokNumber, strings.ReplaceAll(src[i:j], "_", ""))
			i = j

		case isIdentStart(rune(c)):
			j := i
			for j < len(src) && (isIdentPart(rune(src[j])) || src[j] == '.') {
				j++
			}
			emit(tokIdent, strings.TrimRight(src[i:j], "."))
			i = j

		case c == '{':
			emit(tokLBrace, "{")
			i++
		case c == '}':
			emit(tokRBrace, "}")
			i++
		case c == '(':
			emit(tokLParen, "(")
			i++
		case c == ')':
			emit(tokRParen, ")")
			i++
		case c == ',':
			emit(tokComma, ",")
			i++
		case c == ';':
			emit(tokSemicolon, ";")
			i++
		case strings.HasPrefix(src[i:], "+="):
			emit(tokAppend, "+=")
			i += 2
		case c == '=' && !strings.HasPrefix(src[i:], "=="):
			emit(tokAssign, "=")
			i++

		default:
			emit(tokOther, string(c))
			i++
		}
	}

	emit(tokEOF, "")
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
