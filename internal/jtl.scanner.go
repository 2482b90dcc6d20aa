package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TokenType represents the type of a lexical token
type TokenType string

// Token type constants
const (
	TokenTypeText      TokenType = "TEXT"
	TokenTypeVariable  TokenType = "VARIABLE"
	TokenTypeIfOpen    TokenType = "IF_OPEN"
	TokenTypeIfClose   TokenType = "IF_CLOSE"
	TokenTypeEachOpen  TokenType = "EACH_OPEN"
	TokenTypeEachClose TokenType = "EACH_CLOSE"
	TokenTypeInclude   TokenType = "INCLUDE"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token is a recognised construct or a run of literal text.
// Start and End are byte offsets into the scanned source; End is exclusive.
type Token struct {
	Type     TokenType
	Value    string // expression, items path, include name, variable body or text
	Path     string // variables only
	Filters  []string
	Start    int
	End      int
	Position Position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Type, t.Value, t.Position)
}

// IsFiltered reports whether a variable token carries a filter chain.
func (t Token) IsFiltered() bool {
	return t.Type == TokenTypeVariable && len(t.Filters) > 0
}

// Scanner splits template text into tokens in a single left-to-right pass.
// Anything between {{ and }} that is not a recognised construct is kept as text.
type Scanner struct {
	source string
	pos    int
	line   int
	column int
	logger *zap.Logger
}

// NewScanner creates a scanner over source.
func NewScanner(source string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Scan tokenizes the whole source. Adjacent literal text is merged into one token.
func (s *Scanner) Scan() []Token {
	s.logger.Debug(LogMsgScanStart, zap.Int(LogFieldSourceLength, len(s.source)))

	var tokens []Token
	textStart := 0
	textPos := s.currentPosition()

	flushText := func(end int) {
		if end > textStart {
			tokens = append(tokens, Token{
				Type:     TokenTypeText,
				Value:    s.source[textStart:end],
				Start:    textStart,
				End:      end,
				Position: textPos,
			})
		}
	}

	for s.pos < len(s.source) {
		idx := strings.Index(s.source[s.pos:], StrOpenDelim)
		if idx < 0 {
			break
		}
		s.advanceTo(s.pos + idx)

		innerStart := s.pos + LenOpenDelim
		closeIdx := strings.Index(s.source[innerStart:], StrCloseDelim)
		if closeIdx < 0 {
			break
		}
		innerEnd := innerStart + closeIdx

		tok, ok := classify(s.source[innerStart:innerEnd])
		if !ok {
			// Literal brace; retry one byte further so "{{{x}}}" still finds "{{x}}".
			s.advanceTo(s.pos + 1)
			continue
		}

		flushText(s.pos)
		tok.Start = s.pos
		tok.End = innerEnd + LenCloseDelim
		tok.Position = s.currentPosition()
		tokens = append(tokens, tok)

		s.advanceTo(tok.End)
		textStart = s.pos
		textPos = s.currentPosition()
	}

	flushText(len(s.source))
	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens
}

// Tokenize is a convenience wrapper for NewScanner(source, nil).Scan().
func Tokenize(source string) []Token {
	return NewScanner(source, nil).Scan()
}

// classify recognises the body between {{ and }}.
func classify(inner string) (Token, bool) {
	trimmed := strings.TrimSpace(inner)
	if trimmed == StringValueEmpty {
		return Token{}, false
	}

	switch {
	case trimmed == StrIfClose:
		return Token{Type: TokenTypeIfClose, Value: KeywordIf}, true

	case trimmed == StrEachClose:
		return Token{Type: TokenTypeEachClose, Value: KeywordEach}, true

	case strings.HasPrefix(trimmed, StrIfPrefix):
		expr, ok := keywordArgument(trimmed, StrIfPrefix)
		if !ok {
			return Token{}, false
		}
		return Token{Type: TokenTypeIfOpen, Value: expr}, true

	case strings.HasPrefix(trimmed, StrEachPrefix):
		path, ok := keywordArgument(trimmed, StrEachPrefix)
		if !ok {
			return Token{}, false
		}
		return Token{Type: TokenTypeEachOpen, Value: path}, true

	case strings.HasPrefix(trimmed, StrIncludePrefix):
		name := strings.TrimSpace(trimmed[len(StrIncludePrefix):])
		if name == StringValueEmpty {
			return Token{}, false
		}
		return Token{Type: TokenTypeInclude, Value: name}, true
	}

	path, filters, ok := ParseVariable(trimmed)
	if !ok {
		return Token{}, false
	}
	return Token{Type: TokenTypeVariable, Value: trimmed, Path: path, Filters: filters}, true
}

// keywordArgument returns the argument after a block keyword such as "#if".
// The keyword must be followed by whitespace and a non-empty argument.
func keywordArgument(trimmed, keyword string) (string, bool) {
	rest := trimmed[len(keyword):]
	if rest == StringValueEmpty || !isSpace(rest[0]) {
		return StringValueEmpty, false
	}
	arg := strings.TrimSpace(rest)
	return arg, arg != StringValueEmpty
}

// ParseVariable splits "path | f1 | f2" into its path and filter names.
func ParseVariable(body string) (string, []string, bool) {
	parts := strings.Split(body, StrFilterPipe)
	path := strings.TrimSpace(parts[0])
	if !IsValidPath(path) {
		return StringValueEmpty, nil, false
	}

	var filters []string
	for _, part := range parts[1:] {
		name := strings.TrimSpace(part)
		if !isIdentifier(name) {
			return StringValueEmpty, nil, false
		}
		filters = append(filters, name)
	}
	return path, filters, true
}

// IsValidPath reports whether path is a dotted sequence of non-empty segments.
// Whitespace around segments is allowed.
func IsValidPath(path string) bool {
	if path == StringValueEmpty {
		return false
	}
	for _, segment := range strings.Split(path, StrPathSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == StringValueEmpty {
			return false
		}
		for i := 0; i < len(segment); i++ {
			if !isPathChar(segment[i]) {
				return false
			}
		}
	}
	return true
}

func isIdentifier(name string) bool {
	if name == StringValueEmpty {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if !isLetter(ch) && !isDigit(ch) && ch != '_' {
			return false
		}
	}
	return true
}

func (s *Scanner) currentPosition() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// advanceTo moves the cursor forward to offset, tracking lines and columns.
func (s *Scanner) advanceTo(offset int) {
	if offset > len(s.source) {
		offset = len(s.source)
	}
	for s.pos < offset {
		if s.source[s.pos] == CharNewline {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
		s.pos++
	}
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}

func isPathChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '@' || ch == '$'
}

// Log message constants
const (
	LogMsgScanStart = "starting scan"
	LogMsgScanEnd   = "scan complete"
)

// Log field names
const (
	LogFieldSourceLength = "source_length"
	LogFieldTokens       = "token_count"
)
