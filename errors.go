package pseudo

import (
	"strconv"
	"strings"

	"github.com/soypat/go-pseudo/token"
)

// ErrorKind identifies a failure of any pipeline stage. An ErrorKind is itself an
// error so callers may write errors.Is(err, pseudo.NestingTooDeep).
type ErrorKind uint8

const (
	errUndefined ErrorKind = iota

	// Lexical errors.
	UnexpectedCharacter
	UnterminatedString
	UnterminatedComment
	InvalidEscapeSequence
	InvalidUnicodeEscape
	InvalidNumberFormat
	InvalidDigitForBase
	InvalidUnderscorePlacement

	// Expression errors.
	UnexpectedEndOfInput
	UnexpectedToken
	ExpectedPrimaryExpression
	ExpectedIdentifier
	ExpressionTooComplex

	// Statement errors.
	ExpectedTokens
	ExpectedDataType
	ExpectedToken
	InputTooLarge
	NestingTooDeep
	IdentifierTooLong

	// Semantic errors. The parser never produces these.
	InvalidArrayDimension
	InvalidFunctionArity
	UndeclaredVariable
	CyclicDependency
	numKinds
)

// Stage is the pipeline stage an [ErrorKind] belongs to.
type Stage uint8

const (
	StageLexical Stage = iota + 1
	StageExpression
	StageStatement
	StageSemantic
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexical"
	case StageExpression:
		return "expression"
	case StageStatement:
		return "statement"
	case StageSemantic:
		return "semantic"
	}
	return "unknown"
}

func (k ErrorKind) Error() string { return k.String() }

func (k ErrorKind) String() string {
	if k >= numKinds {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindTable[k].name
}

// Stage returns the stage that reports errors of kind k.
func (k ErrorKind) Stage() Stage {
	switch {
	case k >= UnexpectedCharacter && k <= InvalidUnderscorePlacement:
		return StageLexical
	case k >= UnexpectedEndOfInput && k <= ExpressionTooComplex:
		return StageExpression
	case k >= ExpectedTokens && k <= IdentifierTooLong:
		return StageStatement
	case k >= InvalidArrayDimension && k < numKinds:
		return StageSemantic
	}
	return 0
}

// LexError is returned by the tokenizer.
type LexError struct {
	Kind ErrorKind
	// Text is the offending character or lexeme.
	Text string
	// Detail adds context, such as the base of a malformed number.
	Detail string
	Pos    token.Position
}

func (e *LexError) Error() string {
	var b strings.Builder
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(kindTable[e.Kind].summary)
	if e.Text != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.Text))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *LexError) Is(target error) bool { return target == e.Kind }

// ExprError is returned by the expression parser.
type ExprError struct {
	Kind ErrorKind
	// Found is the offending token. Its position is Pos.
	Found TokenTuple
	// Expected describes what the parser wanted instead of Found.
	Expected string
	Pos      token.Position
}

func (e *ExprError) Error() string {
	var b strings.Builder
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(kindTable[e.Kind].summary)
	if e.Found.Tok != token.Undefined && e.Kind != UnexpectedEndOfInput {
		b.WriteString(" ")
		b.WriteString(e.Found.describe())
	}
	if e.Expected != "" {
		b.WriteString(", expected ")
		b.WriteString(e.Expected)
	}
	return b.String()
}

func (e *ExprError) Is(target error) bool { return target == e.Kind }

// StmtError is returned by the statement parser. Expression failures are wrapped
// and keep their kind; use errors.As to reach the underlying *ExprError.
type StmtError struct {
	Kind     ErrorKind
	Found    TokenTuple
	Expected []string
	Detail   string
	// Limit is the exceeded bound for limit errors.
	Limit int
	Pos   token.Position
	Err   error
	// Stack is the parser call stack at the time of the error. Only set
	// when tracing is enabled on the parser.
	Stack string
}

func (e *StmtError) Error() string {
	if e.Err != nil && e.Detail == "" {
		return e.Err.Error()
	}
	var b strings.Builder
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(kindTable[e.Kind].summary)
	if e.Found.Tok != token.Undefined && e.Kind != UnexpectedEndOfInput {
		b.WriteString(" ")
		b.WriteString(e.Found.describe())
	}
	if len(e.Expected) > 0 {
		b.WriteString(", expected ")
		b.WriteString(strings.Join(e.Expected, " or "))
	}
	if e.Limit > 0 {
		b.WriteString(" (limit ")
		b.WriteString(strconv.Itoa(e.Limit))
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StmtError) Unwrap() error { return e.Err }

func (e *StmtError) Is(target error) bool { return target == e.Kind }

// describe renders a token for error messages.
func (tt TokenTuple) describe() string {
	switch tt.Tok {
	case token.Identifier:
		return "identifier " + strconv.Quote(tt.Lit)
	case token.IntLit, token.RealLit:
		return "number " + tt.Lit
	case token.StringLit:
		return "string " + strconv.Quote(tt.Lit)
	case token.CharLit:
		return "character " + strconv.QuoteToGraphic(tt.Lit)
	case token.EOF:
		return "end of input"
	case token.NewLine:
		return "newline"
	}
	if tt.Tok.IsKeyword() && tt.Lit != "" {
		return "keyword " + strconv.Quote(tt.Lit)
	}
	return strconv.Quote(tt.Tok.String())
}

func tokenNames(toks []token.Token) []string {
	names := make([]string, len(toks))
	for i, t := range toks {
		names[i] = strconv.Quote(t.String())
	}
	return names
}
