package token

import "strconv"

type Token int

// List of all tokens of the pseudocode language.
// When adding a new token add it in between blocks since we use comparison functions to check properties of tokens.
const (
	// Not to be used in code. Is to catch uninitialized tokens.
	Undefined Token = iota // <undefined>

	// ==================== KEYWORDS ====================

	// Statement keywords. Each begins a new statement.
	IF        // if
	WHILE     // while
	FOR       // for
	VARIABLE  // variable
	CONSTANT  // constant
	FUNCTION  // function
	PROCEDURE // procedure
	RETURN    // return
	BREAK     // break

	// Clause keywords. These never start a statement.
	THEN // then
	ELIF // elif
	ELSE // else
	DO   // do
	TO   // to
	STEP // step
	IN   // in

	// Block terminators.
	ENDIF        // endif
	ENDWHILE     // endwhile
	ENDFOR       // endfor
	ENDFUNCTION  // endfunction
	ENDPROCEDURE // endprocedure

	// Type keywords
	INTEGER   // integer
	REAL      // real
	CHARACTER // character
	STRING    // string
	BOOLEAN   // boolean
	ARRAY     // array
	OF        // of
	RECORD    // record

	// ==================== OPERATORS ====================

	// Logical operators
	AND // and
	OR  // or
	NOT // not

	// Arithmetic operators
	Plus     // +
	Minus    // -
	Asterisk // *
	Slash    // /
	Percent  // %

	// Relational operators
	Equal     // =
	NotEqual  // ≠
	Less      // <
	LessEq    // ≦
	Greater   // >
	GreaterEq // ≧

	Assign // ←

	// ==================== DELIMITERS / PUNCTUATION ====================

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Dot       // .
	Semicolon // ;
	Colon     // :

	// ==================== LITERALS ====================

	// Boolean constants
	TRUE  // true
	FALSE // false

	// User-defined literals
	Identifier // <identifier>
	IntLit     // <integer>
	RealLit    // <real>
	StringLit  // <string>
	CharLit    // <character>

	// ==================== SPECIAL TOKENS ====================

	Whitespace // <whitespace>
	Comment    // <comment>
	NewLine    // <newline>
	EOF        // <EOF>
	Illegal    // <illegal>
	numToks
)

var tokenNames = [numToks]string{
	Undefined:    "<undefined>",
	IF:           "if",
	WHILE:        "while",
	FOR:          "for",
	VARIABLE:     "variable",
	CONSTANT:     "constant",
	FUNCTION:     "function",
	PROCEDURE:    "procedure",
	RETURN:       "return",
	BREAK:        "break",
	THEN:         "then",
	ELIF:         "elif",
	ELSE:         "else",
	DO:           "do",
	TO:           "to",
	STEP:         "step",
	IN:           "in",
	ENDIF:        "endif",
	ENDWHILE:     "endwhile",
	ENDFOR:       "endfor",
	ENDFUNCTION:  "endfunction",
	ENDPROCEDURE: "endprocedure",
	INTEGER:      "integer",
	REAL:         "real",
	CHARACTER:    "character",
	STRING:       "string",
	BOOLEAN:      "boolean",
	ARRAY:        "array",
	OF:           "of",
	RECORD:       "record",
	AND:          "and",
	OR:           "or",
	NOT:          "not",
	Plus:         "+",
	Minus:        "-",
	Asterisk:     "*",
	Slash:        "/",
	Percent:      "%",
	Equal:        "=",
	NotEqual:     "≠",
	Less:         "<",
	LessEq:       "≦",
	Greater:      ">",
	GreaterEq:    "≧",
	Assign:       "←",
	LParen:       "(",
	RParen:       ")",
	LBracket:     "[",
	RBracket:     "]",
	LBrace:       "{",
	RBrace:       "}",
	Comma:        ",",
	Dot:          ".",
	Semicolon:    ";",
	Colon:        ":",
	TRUE:         "true",
	FALSE:        "false",
	Identifier:   "<identifier>",
	IntLit:       "<integer>",
	RealLit:      "<real>",
	StringLit:    "<string>",
	CharLit:      "<character>",
	Whitespace:   "<whitespace>",
	Comment:      "<comment>",
	NewLine:      "<newline>",
	EOF:          "<EOF>",
	Illegal:      "<illegal>",
}

func (tok Token) String() string {
	if tok < 0 || tok >= numToks {
		return "Token(" + strconv.Itoa(int(tok)) + ")"
	}
	return tokenNames[tok]
}

// IsKeyword returns true if the token is spelled as a word in either language.
// Keyword operators and boolean constants are included.
func (tok Token) IsKeyword() bool {
	return (tok >= IF && tok <= NOT) || tok == TRUE || tok == FALSE
}

// IsStatementKeyword returns true if the token begins a statement.
func (tok Token) IsStatementKeyword() bool {
	return tok >= IF && tok <= BREAK
}

// IsClauseKeyword returns true for keywords that continue an enclosing construct
// and so end any expression preceding them.
func (tok Token) IsClauseKeyword() bool {
	return tok >= THEN && tok <= IN
}

// IsEnd returns true if the token closes a keyword block.
func (tok Token) IsEnd() bool {
	return tok >= ENDIF && tok <= ENDPROCEDURE
}

// IsEndOrElse returns true if the token is a construct-ending keyword or an else branch.
func (tok Token) IsEndOrElse() bool {
	return tok.IsEnd() || tok == ELSE || tok == ELIF
}

// IsTypeKeyword returns true if the token starts a data type.
func (tok Token) IsTypeKeyword() bool {
	return tok >= INTEGER && tok <= RECORD && tok != OF
}

// IsOperator returns true if the token is an operator, assignment included.
func (tok Token) IsOperator() bool {
	return (tok >= AND && tok <= Assign)
}

// IsBinaryOperator returns true if the token may appear between two operands.
func (tok Token) IsBinaryOperator() bool {
	return tok.Precedence() > 0
}

// IsDelimiter returns true if the token is a delimiter or punctuation.
func (tok Token) IsDelimiter() bool {
	return tok >= LParen && tok <= Colon
}

// IsLiteral returns true if the token is a literal value (boolean constant or user-defined literal).
func (tok Token) IsLiteral() bool {
	return tok >= TRUE && tok <= CharLit && tok != Identifier
}

// IsTrivia returns true for tokens that carry no grammatical meaning.
func (tok Token) IsTrivia() bool {
	return tok == Whitespace || tok == Comment
}

// IsSeparator returns true for statement separators.
func (tok Token) IsSeparator() bool {
	return tok == NewLine || tok == Semicolon
}

// EndsOperand reports whether an expression may end on tok. A minus sign directly
// after such a token is always a binary operator.
func (tok Token) EndsOperand() bool {
	switch tok {
	case Identifier, IntLit, RealLit, StringLit, CharLit, TRUE, FALSE, RParen, RBracket:
		return true
	}
	return false
}

// Precedence levels of binary operators. Unary operators bind tighter than all of them.
const (
	PrecLowest     = 0
	PrecOr         = 1
	PrecAnd        = 2
	PrecComparison = 3
	PrecSum        = 4
	PrecProduct    = 5
	PrecUnary      = 6
)

// Precedence returns the binding power of tok as a binary operator.
// Returns 0 if tok is not a binary operator.
func (tok Token) Precedence() int {
	switch tok {
	case OR:
		return PrecOr
	case AND:
		return PrecAnd
	case Equal, NotEqual, Less, LessEq, Greater, GreaterEq:
		return PrecComparison
	case Plus, Minus:
		return PrecSum
	case Asterisk, Slash, Percent:
		return PrecProduct
	}
	return PrecLowest
}

// IsRightAssociative returns true for right-associative binary operators.
// All operators of the language associate to the left.
func (tok Token) IsRightAssociative() bool {
	return false
}

// IsUnaryOperator returns true if tok may prefix an operand.
func (tok Token) IsUnaryOperator() bool {
	return tok == Minus || tok == NOT
}

// Position is a location in source text. Line and Col are 1-based and Col counts
// Unicode scalars. Offset is the 0-based byte offset.
type Position struct {
	Line   int
	Col    int
	Offset int
}

// IsValid returns true if the position was set by a lexer.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}
