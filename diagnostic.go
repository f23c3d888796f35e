package pseudo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/width"

	"github.com/soypat/go-pseudo/token"
)

// Pattern is the rendering shape shared by groups of error kinds.
type Pattern uint8

const (
	_ Pattern = iota
	// PatternToken errors point at one offending token or character.
	PatternToken
	// PatternMessage errors are a message plus optional detail text.
	PatternMessage
	// PatternKeyValue errors carry a list of named values, such as limits.
	PatternKeyValue
	// PatternEndOfInput errors happened because input ran out.
	PatternEndOfInput
	// PatternSemantic errors are reported by analyzers after parsing.
	PatternSemantic
)

func (p Pattern) String() string {
	switch p {
	case PatternToken:
		return "token"
	case PatternMessage:
		return "message"
	case PatternKeyValue:
		return "key-value"
	case PatternEndOfInput:
		return "end-of-input"
	case PatternSemantic:
		return "semantic"
	}
	return "unknown"
}

// Field is a named value attached to a [Diagnostic].
type Field struct {
	Key   string
	Value string
}

// Diagnostic is the stable structured form of any error produced by the
// pipeline or by an analyzer. Two equal errors always yield equal diagnostics.
type Diagnostic struct {
	Stage   Stage
	Kind    ErrorKind
	Name    string // stable kind name, e.g. "nestingTooDeep"
	Pattern Pattern
	Message string
	Detail  string
	Fields  []Field
	Hint    string
	Pos     token.Position
}

// Field returns the value of the field named key.
func (d Diagnostic) Field(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Diagnoser is implemented by errors that know their structured form.
type Diagnoser interface {
	Diagnostic() Diagnostic
}

type kindInfo struct {
	name    string
	summary string
	pattern Pattern
	// template is expanded with the diagnostic fields, {key} style.
	template string
}

var kindTable = [numKinds]kindInfo{
	errUndefined: {"undefined", "undefined error", PatternMessage, "undefined error"},

	UnexpectedCharacter:        {"unexpectedCharacter", "unexpected character", PatternToken, "unexpected character {text}"},
	UnterminatedString:         {"unterminatedString", "unterminated string", PatternMessage, "unterminated string literal"},
	UnterminatedComment:        {"unterminatedComment", "unterminated comment", PatternMessage, "unterminated block comment"},
	InvalidEscapeSequence:      {"invalidEscapeSequence", "invalid escape sequence", PatternToken, "invalid escape sequence {text}"},
	InvalidUnicodeEscape:       {"invalidUnicodeEscape", "invalid unicode escape", PatternToken, "invalid unicode escape {text}"},
	InvalidNumberFormat:        {"invalidNumberFormat", "invalid number format", PatternMessage, "invalid number format {text}"},
	InvalidDigitForBase:        {"invalidDigitForBase", "invalid digit for base", PatternKeyValue, "invalid digit in {text}"},
	InvalidUnderscorePlacement: {"invalidUnderscorePlacement", "invalid underscore placement", PatternToken, "invalid underscore placement in {text}"},

	UnexpectedEndOfInput:      {"unexpectedEndOfInput", "unexpected end of input", PatternEndOfInput, "unexpected end of input, expected {expected}"},
	UnexpectedToken:           {"unexpectedToken", "unexpected token", PatternToken, "unexpected {found}, expected {expected}"},
	ExpectedPrimaryExpression: {"expectedPrimaryExpression", "expected expression, found", PatternToken, "expected expression, found {found}"},
	ExpectedIdentifier:        {"expectedIdentifier", "expected identifier, found", PatternToken, "expected identifier, found {found}"},
	ExpressionTooComplex:      {"expressionTooComplex", "expression too complex", PatternKeyValue, "expression nested too deeply"},

	ExpectedTokens:    {"expectedTokens", "unexpected", PatternKeyValue, "expected {expected}, found {found}"},
	ExpectedDataType:  {"expectedDataType", "expected data type, found", PatternToken, "expected data type, found {found}"},
	ExpectedToken:     {"expectedToken", "unexpected", PatternToken, "expected {expected}, found {found}"},
	InputTooLarge:     {"inputTooLarge", "input too large", PatternKeyValue, "input of {count} tokens is too large"},
	NestingTooDeep:    {"nestingTooDeep", "nesting too deep", PatternKeyValue, "blocks nested too deeply"},
	IdentifierTooLong: {"identifierTooLong", "identifier too long", PatternKeyValue, "identifier {text} is too long"},

	InvalidArrayDimension: {"invalidArrayDimension", "invalid array dimension", PatternSemantic, "invalid array dimension {detail}"},
	InvalidFunctionArity:  {"invalidFunctionArity", "invalid function arity", PatternSemantic, "{name} expects {expected} arguments, got {found}"},
	UndeclaredVariable:    {"undeclaredVariable", "undeclared variable", PatternSemantic, "undeclared variable {name}"},
	CyclicDependency:      {"cyclicDependency", "cyclic dependency", PatternSemantic, "cyclic dependency {detail}"},
}

// NewDiagnostic builds a diagnostic for kind at pos, expanding the kind's
// message template with fields. Analyzers use it to report semantic errors.
func NewDiagnostic(kind ErrorKind, pos token.Position, fields ...Field) Diagnostic {
	if kind >= numKinds {
		kind = errUndefined
	}
	info := kindTable[kind]
	d := Diagnostic{
		Stage:   kind.Stage(),
		Kind:    kind,
		Name:    info.name,
		Pattern: info.pattern,
		Fields:  fields,
		Pos:     pos,
	}
	d.Message = expandTemplate(info.template, fields)
	if v, ok := d.Field("detail"); ok {
		d.Detail = v
	}
	return d
}

func expandTemplate(tmpl string, fields []Field) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	oldnew := make([]string, 0, 2*len(fields))
	for _, f := range fields {
		oldnew = append(oldnew, "{"+f.Key+"}", f.Value)
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}

// Diagnose converts err into its structured form. It returns false if no error
// in err's chain implements [Diagnoser].
func Diagnose(err error) (Diagnostic, bool) {
	var dg Diagnoser
	if err == nil || !errors.As(err, &dg) {
		return Diagnostic{}, false
	}
	return dg.Diagnostic(), true
}

func (e *LexError) Diagnostic() Diagnostic {
	fields := []Field{{"text", strconv.Quote(e.Text)}}
	if e.Detail != "" {
		fields = append(fields, Field{"detail", e.Detail})
	}
	return NewDiagnostic(e.Kind, e.Pos, fields...)
}

func (e *ExprError) Diagnostic() Diagnostic {
	d := NewDiagnostic(e.Kind, e.Pos, tokenFields(e.Found, e.Expected)...)
	if e.Found.Tok == token.EOF {
		d.Pattern = PatternEndOfInput
	}
	d.Hint = suggestKeyword(e.Found)
	if e.Kind == ExpressionTooComplex {
		d.Fields = append(d.Fields, Field{"limit", strconv.Itoa(MaxExpressionDepth)})
	}
	return d
}

func (e *StmtError) Diagnostic() Diagnostic {
	var inner Diagnoser
	if e.Err != nil && errors.As(e.Err, &inner) {
		return inner.Diagnostic()
	}
	fields := tokenFields(e.Found, strings.Join(e.Expected, " or "))
	switch e.Kind {
	case InputTooLarge:
		fields = append(fields, Field{"count", e.Detail})
	case IdentifierTooLong:
		fields = append(fields, Field{"text", strconv.Quote(e.Found.Lit)})
	default:
		if e.Detail != "" {
			fields = append(fields, Field{"detail", e.Detail})
		}
	}
	if e.Limit > 0 {
		fields = append(fields, Field{"limit", strconv.Itoa(e.Limit)})
	}
	d := NewDiagnostic(e.Kind, e.Pos, fields...)
	if e.Found.Tok == token.EOF && d.Pattern == PatternToken {
		d.Pattern = PatternEndOfInput
	}
	d.Hint = suggestKeyword(e.Found)
	return d
}

func tokenFields(found TokenTuple, expected string) []Field {
	var fields []Field
	if found.Tok != token.Undefined {
		fields = append(fields, Field{"found", found.describe()})
	}
	if expected != "" {
		fields = append(fields, Field{"expected", expected})
	}
	return fields
}

// suggestKeyword returns a hint naming the keyword closest to a misspelt identifier.
func suggestKeyword(found TokenTuple) string {
	if found.Tok != token.Identifier || found.Lit == "" {
		return ""
	}
	const maxDistance = 2
	best, bestDist := "", maxDistance+1
	for _, kw := range token.Keywords() {
		d := fuzzy.LevenshteinDistance(found.Lit, kw)
		if d < bestDist && d < utf8.RuneCountInString(kw) {
			best, bestDist = kw, d
		}
	}
	if best == "" {
		// Transposed or dropped letters, e.g. "edif".
		ranks := fuzzy.RankFindFold(found.Lit, token.Keywords())
		if len(ranks) > 0 && utf8.RuneCountInString(found.Lit) >= 3 {
			bestRank := ranks[0]
			for _, r := range ranks[1:] {
				if r.Distance < bestRank.Distance {
					bestRank = r
				}
			}
			if bestRank.Distance <= maxDistance {
				best = bestRank.Target
			}
		}
	}
	if best == "" {
		return ""
	}
	return "did you mean " + strconv.Quote(best) + "?"
}

// FormatError renders err for humans. name is the source name shown in the
// location line and src, when not empty, is used to show the offending line
// with a caret under the error column. Errors without a structured form are
// rendered with their Error method.
func FormatError(err error, name, src string) string {
	d, ok := Diagnose(err)
	if !ok {
		if err == nil {
			return ""
		}
		return "error: " + err.Error() + "\n"
	}
	return FormatDiagnostic(d, name, src)
}

// FormatDiagnostic renders d deterministically. Output layout:
//
//	error[statement/nestingTooDeep]: blocks nested too deeply
//	 --> main.pseudo:3:5
//	   2 | if a then
//	   3 |     if b then
//	     |     ^
//	 = limit: 100
func FormatDiagnostic(d Diagnostic, name, src string) string {
	var b strings.Builder
	b.WriteString("error")
	if d.Name != "" {
		b.WriteByte('[')
		if d.Stage != 0 {
			b.WriteString(d.Stage.String())
			b.WriteByte('/')
		}
		b.WriteString(d.Name)
		b.WriteByte(']')
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteByte('\n')
	if d.Pos.IsValid() {
		b.WriteString(" --> ")
		if name != "" {
			b.WriteString(name)
			b.WriteByte(':')
		}
		b.WriteString(d.Pos.String())
		b.WriteByte('\n')
		if src != "" {
			writeSnippet(&b, src, d.Pos.Line, d.Pos.Col)
		}
	}
	for _, f := range d.Fields {
		switch f.Key {
		case "found", "expected", "text", "name":
			continue // Already part of the message.
		}
		fmt.Fprintf(&b, " = %s: %s\n", f.Key, f.Value)
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, " = hint: %s\n", d.Hint)
	}
	return b.String()
}

// writeSnippet shows the previous and offending lines of src and places a caret
// under the 1-based rune column col. East Asian wide runes take two cells.
func writeSnippet(b *strings.Builder, src string, line, col int) {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	lineTxt := strings.TrimRight(lines[line-1], "\r")
	if line > 1 {
		fmt.Fprintf(b, "%4d | %s\n", line-1, strings.TrimRight(lines[line-2], "\r"))
	}
	fmt.Fprintf(b, "%4d | %s\n", line, lineTxt)
	b.WriteString("     | ")
	n := 0
	for _, r := range lineTxt {
		if n >= col-1 {
			break
		}
		n++
		switch {
		case r == '\t':
			b.WriteByte('\t')
		case isWide(r):
			b.WriteString("  ")
		default:
			b.WriteByte(' ')
		}
	}
	for ; n < col-1; n++ {
		b.WriteByte(' ') // Column past end of line.
	}
	b.WriteString("^\n")
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
