package pseudo

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soypat/go-pseudo/token"
)

// TokenTuple is a single scanned token. Lit holds the source lexeme, except for
// string and character literals where it holds the decoded value.
type TokenTuple struct {
	Tok token.Token
	Lit string
	Pos token.Position
}

func (tt TokenTuple) String() string {
	if tt.Lit == "" || tt.Lit == tt.Tok.String() {
		return tt.Pos.String() + " " + tt.Tok.String()
	}
	return tt.Pos.String() + " " + tt.Tok.String() + " " + strconv.Quote(tt.Lit)
}

const eof = -1

// Lexer scans pseudocode source text. The zero value is not usable, call Reset first.
type Lexer struct {
	src string
	ch  rune // current character, eof at end of input.
	chw int  // byte width of ch.

	line int // line of current char.
	col  int // rune column of current char.
	off  int // byte offset of current char.

	// prev is the last significant token returned. Decides whether a '-'
	// before a digit folds into a numeric literal.
	prev  token.Token
	idbuf []byte // decoded string literal accumulation buffer.
	err   error
}

// Reset discards all state and begins a new lexing procedure on src.
func (l *Lexer) Reset(src string) {
	*l = Lexer{
		src:   src,
		line:  1,
		col:   1,
		idbuf: l.idbuf[:0],
	}
	l.decode()
}

// Err returns the first error encountered by the lexer.
func (l *Lexer) Err() error { return l.err }

// IsDone returns true once EOF or an error has been reached.
func (l *Lexer) IsDone() bool { return l.err != nil || l.ch == eof }

// Pos returns the position of the next unread character.
func (l *Lexer) Pos() token.Position {
	return token.Position{Line: l.line, Col: l.col, Offset: l.off}
}

func (l *Lexer) decode() {
	if l.off >= len(l.src) {
		l.ch, l.chw = eof, 0
		return
	}
	l.ch, l.chw = utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *Lexer) readChar() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off += l.chw
	l.decode()
}

func (l *Lexer) peekChar() rune { return l.peekN(1) }

// peekN returns the rune n positions after the current one.
func (l *Lexer) peekN(n int) rune {
	off := l.off + l.chw
	for ; n > 1; n-- {
		if off >= len(l.src) {
			return eof
		}
		_, w := utf8.DecodeRuneInString(l.src[off:])
		off += w
	}
	if off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

// Tokenize scans all of src and returns its tokens, ending in a single [token.EOF].
// Whitespace and comments are discarded, newlines are kept as statement separators.
func Tokenize(src string) ([]TokenTuple, error) {
	var l Lexer
	l.Reset(src)
	toks := make([]TokenTuple, 0, len(src)/3+1)
	for {
		tt, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tt.Tok.IsTrivia() {
			continue
		}
		toks = append(toks, tt)
		if tt.Tok == token.EOF {
			return toks, nil
		}
	}
}

// NextToken scans the next token, including whitespace and comment tokens.
// After an error is returned every further call returns the same error.
func (l *Lexer) NextToken() (TokenTuple, error) {
	if l.err != nil {
		return TokenTuple{Tok: token.Illegal, Pos: l.Pos()}, l.err
	}
	tt, err := l.next()
	if err != nil {
		l.err = err
		tt.Tok = token.Illegal
		return tt, err
	}
	if !tt.Tok.IsTrivia() {
		l.prev = tt.Tok
	}
	return tt, nil
}

func (l *Lexer) next() (tt TokenTuple, err error) {
	tt.Pos = l.Pos()
	start := l.off
	ch := l.ch
	switch {
	case ch == eof:
		tt.Tok = token.EOF
		return tt, nil
	case ch == '\n':
		tt.Tok = token.NewLine
		l.readChar()
	case isSpace(ch):
		for isSpace(l.ch) {
			l.readChar()
		}
		tt.Tok = token.Whitespace
	case ch == '/' && l.peekChar() == '/':
		for l.ch != '\n' && l.ch != eof {
			l.readChar()
		}
		tt.Tok = token.Comment
	case ch == '/' && l.peekChar() == '*':
		err = l.skipBlockComment(tt.Pos)
		tt.Tok = token.Comment
	case ch == '"' || ch == '\'':
		tt.Tok, tt.Lit, err = l.readString(ch)
		return tt, err
	case isDigit(ch) || (ch == '.' && isDigit(l.peekChar())):
		tt.Tok, err = l.readNumber(tt.Pos)
	case ch == '-' && l.startsSignedNumber():
		tt.Tok, err = l.readNumber(tt.Pos)
	case ch == '_' && isDigit(l.peekChar()):
		for isIdentifierContinue(l.ch) {
			l.readChar()
		}
		return tt, &LexError{Kind: InvalidNumberFormat, Text: l.src[start:l.off], Detail: "numbers cannot start with an underscore", Pos: tt.Pos}
	case isIdentifierStart(ch):
		for isIdentifierContinue(l.ch) {
			l.readChar()
		}
		tt.Lit = l.src[start:l.off]
		tt.Tok = token.LookupKeyword(tt.Lit)
		return tt, nil
	default:
		tt.Tok = l.readOperator()
		if tt.Tok == token.Illegal {
			return tt, &LexError{Kind: UnexpectedCharacter, Text: string(ch), Pos: tt.Pos}
		}
	}
	tt.Lit = l.src[start:l.off]
	return tt, err
}

// startsSignedNumber reports whether the '-' under the cursor begins a negative
// numeric literal. After anything that ends an operand it is a binary minus.
func (l *Lexer) startsSignedNumber() bool {
	next := l.peekChar()
	if !isDigit(next) && !(next == '.' && isDigit(l.peekN(2))) {
		return false
	}
	return !l.prev.EndsOperand()
}

func (l *Lexer) readOperator() (tok token.Token) {
	switch l.ch {
	case '+':
		tok = token.Plus
	case '-':
		tok = token.Minus
	case '*':
		tok = token.Asterisk
	case '/':
		tok = token.Slash
	case '%':
		tok = token.Percent
	case '=':
		tok = token.Equal
	case '≠':
		tok = token.NotEqual
	case '!':
		if l.peekChar() != '=' {
			return token.Illegal
		}
		l.readChar()
		tok = token.NotEqual
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.LessEq
		} else {
			tok = token.Less
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.GreaterEq
		} else {
			tok = token.Greater
		}
	case '≦', '≤':
		tok = token.LessEq
	case '≧', '≥':
		tok = token.GreaterEq
	case '←':
		tok = token.Assign
	case '(', '（':
		tok = token.LParen
	case ')', '）':
		tok = token.RParen
	case '[', '［':
		tok = token.LBracket
	case ']', '］':
		tok = token.RBracket
	case '{':
		tok = token.LBrace
	case '}':
		tok = token.RBrace
	case ',', '，':
		tok = token.Comma
	case '.':
		tok = token.Dot
	case ';', '；':
		tok = token.Semicolon
	case ':', '：':
		tok = token.Colon
	default:
		return token.Illegal
	}
	l.readChar()
	return tok
}

func (l *Lexer) skipBlockComment(start token.Position) error {
	l.readChar() // '/'
	l.readChar() // '*'
	for l.ch != eof {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
	return &LexError{Kind: UnterminatedComment, Text: "/*", Pos: start}
}

func (l *Lexer) readString(quote rune) (token.Token, string, error) {
	start := l.Pos()
	l.readChar() // consume opening quote
	l.idbuf = l.idbuf[:0]
	for {
		switch l.ch {
		case eof, '\n':
			return token.Illegal, "", &LexError{Kind: UnterminatedString, Text: l.src[start.Offset:l.off], Detail: "missing closing " + string(quote), Pos: start}
		case quote:
			l.readChar()
			lit := string(l.idbuf)
			if quote == '\'' && utf8.RuneCountInString(lit) == 1 {
				return token.CharLit, lit, nil
			}
			return token.StringLit, lit, nil
		case '\\':
			if err := l.readEscape(); err != nil {
				return token.Illegal, "", err
			}
		default:
			l.idbuf = utf8.AppendRune(l.idbuf, l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readEscape() error {
	escPos := l.Pos()
	escOff := l.off
	l.readChar() // consume backslash
	var r rune
	switch l.ch {
	case 'n':
		r = '\n'
	case 't':
		r = '\t'
	case 'r':
		r = '\r'
	case '0':
		r = 0
	case '\\', '\'', '"':
		r = l.ch
	case 'u':
		return l.readUnicodeEscape(escPos, escOff)
	case eof, '\n':
		return &LexError{Kind: UnterminatedString, Text: "\\", Detail: "escape at end of line", Pos: escPos}
	default:
		return &LexError{Kind: InvalidEscapeSequence, Text: `\` + string(l.ch), Pos: escPos}
	}
	l.readChar()
	l.idbuf = utf8.AppendRune(l.idbuf, r)
	return nil
}

// readUnicodeEscape reads \u{X..} with 1 to 6 hex digits or \uXXXX with exactly 4.
func (l *Lexer) readUnicodeEscape(escPos token.Position, escOff int) error {
	l.readChar() // consume 'u'
	var digits int
	var v rune
	bad := func() error {
		return &LexError{Kind: InvalidUnicodeEscape, Text: l.src[escOff:l.off], Pos: escPos}
	}
	if l.ch == '{' {
		l.readChar()
		for l.ch != '}' {
			d, ok := hexValue(l.ch)
			if !ok || digits == 6 {
				return bad()
			}
			v = v<<4 | d
			digits++
			l.readChar()
		}
		l.readChar() // consume '}'
		if digits == 0 {
			return bad()
		}
	} else {
		for ; digits < 4; digits++ {
			d, ok := hexValue(l.ch)
			if !ok {
				return bad()
			}
			v = v<<4 | d
			l.readChar()
		}
	}
	if v > unicode.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return bad()
	}
	l.idbuf = utf8.AppendRune(l.idbuf, v)
	return nil
}

func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.off
	if l.ch == '-' {
		l.readChar()
	}
	if l.ch == '0' {
		if base := basePrefix(l.peekChar()); base != 0 {
			return token.IntLit, l.readBasedNumber(pos, start, base)
		}
	}
	tok := token.IntLit
	l.readDigits()
	if l.ch == '.' && (isDigit(l.peekChar()) || l.peekChar() == '_') {
		tok = token.RealLit
		l.readChar()
		l.readDigits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '_' || ((next == '+' || next == '-') && (isDigit(l.peekN(2)) || l.peekN(2) == '_')) {
			tok = token.RealLit
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits()
		}
	}
	if isIdentifierContinue(l.ch) {
		for isIdentifierContinue(l.ch) {
			l.readChar()
		}
		return tok, &LexError{Kind: InvalidNumberFormat, Text: l.src[start:l.off], Detail: "number followed by letter", Pos: pos}
	}
	lit := l.src[start:l.off]
	if !underscoresValid(strings.TrimPrefix(lit, "-"), isDigit) {
		return tok, &LexError{Kind: InvalidUnderscorePlacement, Text: lit, Pos: pos}
	}
	var err error
	if tok == token.IntLit {
		_, err = ParseIntLiteral(lit)
	} else {
		_, err = ParseRealLiteral(lit)
	}
	if err != nil {
		return tok, &LexError{Kind: InvalidNumberFormat, Text: lit, Detail: "value out of range", Pos: pos}
	}
	return tok, nil
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
}

func (l *Lexer) readBasedNumber(pos token.Position, start, base int) error {
	l.readChar() // '0'
	l.readChar() // prefix letter
	digitStart := l.off
	for isIdentifierContinue(l.ch) {
		l.readChar()
	}
	lit := l.src[start:l.off]
	digits := l.src[digitStart:l.off]
	baseDetail := "base " + strconv.Itoa(base)
	if digits == "" {
		return &LexError{Kind: InvalidNumberFormat, Text: lit, Detail: "missing digits after base prefix", Pos: pos}
	}
	valid := func(c rune) bool { return digitValue(c) < base }
	for _, c := range digits {
		if c != '_' && digitValue(c) >= base {
			return &LexError{Kind: InvalidDigitForBase, Text: lit, Detail: baseDetail, Pos: pos}
		}
	}
	if !underscoresValid(digits, valid) {
		return &LexError{Kind: InvalidUnderscorePlacement, Text: lit, Pos: pos}
	}
	if _, err := ParseIntLiteral(lit); err != nil {
		return &LexError{Kind: InvalidNumberFormat, Text: lit, Detail: "value out of range", Pos: pos}
	}
	return nil
}

// underscoresValid reports whether every '_' in s sits between two digits.
func underscoresValid(s string, isDigit func(rune) bool) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(rune(s[i-1])) || !isDigit(rune(s[i+1])) {
			return false
		}
	}
	return true
}

var errNumberSyntax = errors.New("invalid numeric literal")

// ParseIntLiteral returns the value of an integer lexeme such as "-1_000" or "0xFF".
func ParseIntLiteral(lit string) (int64, error) {
	sign := ""
	if strings.HasPrefix(lit, "-") {
		sign, lit = "-", lit[1:]
	}
	base := 10
	if len(lit) > 2 && lit[0] == '0' {
		if b := basePrefix(rune(lit[1])); b != 0 {
			base, lit = b, lit[2:]
		}
	}
	if lit == "" {
		return 0, errNumberSyntax
	}
	return strconv.ParseInt(sign+strings.ReplaceAll(lit, "_", ""), base, 64)
}

// ParseRealLiteral returns the value of a real lexeme such as "1_000.5e-2".
// Values too small to represent are out of range like values too large.
func ParseRealLiteral(lit string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
	if err == nil && v == 0 && strings.ContainsAny(mantissa(lit), "123456789") {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: lit, Err: strconv.ErrRange}
	}
	return v, err
}

// mantissa returns lit without its exponent.
func mantissa(lit string) string {
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		return lit[:i]
	}
	return lit
}

func basePrefix(ch rune) int {
	switch ch {
	case 'x', 'X':
		return 16
	case 'b', 'B':
		return 2
	case 'o', 'O':
		return 8
	}
	return 0
}

// digitValue returns the numeric value of an alphanumeric digit, or 36 if ch is not one.
func digitValue(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'z':
		return int(ch-'a') + 10
	case 'A' <= ch && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return 36
}

func hexValue(ch rune) (rune, bool) {
	v := digitValue(ch)
	return rune(v), v < 16
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isSpace(ch rune) bool {
	return ch != '\n' && ch != eof && (unicode.IsSpace(ch) || ch == '\uFEFF')
}

// isIdentifierStart reports whether ch may begin an identifier. Unicode letters
// cover Hiragana, Katakana and Han; the Private Use Area is accepted for
// domain-specific symbols.
func isIdentifierStart(ch rune) bool {
	return ch == '_' ||
		unicode.IsLetter(ch) ||
		unicode.In(ch, unicode.Hiragana, unicode.Katakana, unicode.Han) ||
		(ch >= 0xE000 && ch <= 0xF8FF)
}

func isIdentifierContinue(ch rune) bool {
	return isIdentifierStart(ch) || unicode.IsDigit(ch) || unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch)
}
