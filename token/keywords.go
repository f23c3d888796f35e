package token

// Language selects a keyword spelling.
type Language uint8

const (
	English Language = iota
	Japanese
)

// keyword spellings, primary spelling first.
type spelling struct {
	tok      Token
	english  []string
	japanese []string
}

var spellings = [...]spelling{
	{IF, []string{"if"}, []string{"もし"}},
	{THEN, []string{"then"}, []string{"ならば"}},
	{ELIF, []string{"elif", "elseif"}, []string{"そうでなくもし"}},
	{ELSE, []string{"else"}, []string{"そうでなければ"}},
	{ENDIF, []string{"endif"}, []string{"もし終わり"}},
	{WHILE, []string{"while"}, []string{"間"}},
	{DO, []string{"do"}, []string{"実行"}},
	{ENDWHILE, []string{"endwhile"}, []string{"間終わり"}},
	{FOR, []string{"for"}, []string{"繰り返し"}},
	{TO, []string{"to"}, []string{"まで"}},
	{STEP, []string{"step"}, []string{"増分"}},
	{IN, []string{"in"}, []string{"中"}},
	{ENDFOR, []string{"endfor"}, []string{"繰り返し終わり"}},
	{FUNCTION, []string{"function"}, []string{"関数"}},
	{ENDFUNCTION, []string{"endfunction"}, []string{"関数終わり"}},
	{PROCEDURE, []string{"procedure"}, []string{"手続き"}},
	{ENDPROCEDURE, []string{"endprocedure"}, []string{"手続き終わり"}},
	{RETURN, []string{"return"}, []string{"戻る", "返す"}},
	{BREAK, []string{"break"}, []string{"抜ける"}},
	{VARIABLE, []string{"variable"}, []string{"変数"}},
	{CONSTANT, []string{"constant"}, []string{"定数"}},
	{INTEGER, []string{"integer"}, []string{"整数型", "整数"}},
	{REAL, []string{"real"}, []string{"実数型", "実数"}},
	{CHARACTER, []string{"character"}, []string{"文字型", "文字"}},
	{STRING, []string{"string"}, []string{"文字列型", "文字列"}},
	{BOOLEAN, []string{"boolean"}, []string{"論理型", "論理"}},
	{ARRAY, []string{"array"}, []string{"配列"}},
	{OF, []string{"of"}, []string{"の"}},
	{RECORD, []string{"record"}, []string{"レコード"}},
	{AND, []string{"and"}, []string{"かつ"}},
	{OR, []string{"or"}, []string{"または"}},
	{NOT, []string{"not"}, []string{"否定"}},
	{TRUE, []string{"true"}, []string{"真"}},
	{FALSE, []string{"false"}, []string{"偽"}},
}

// keywords maps every accepted spelling to its token. Built once, never written after init.
var keywords = func() map[string]Token {
	m := make(map[string]Token, 2*len(spellings)+8)
	for _, s := range spellings {
		for _, w := range s.english {
			m[w] = s.tok
		}
		for _, w := range s.japanese {
			m[w] = s.tok
		}
	}
	return m
}()

// LookupKeyword returns [Identifier] or the token for keyword maybeKeyword represents if found.
// The whole identifier must match a spelling; lookup is case-sensitive.
func LookupKeyword(maybeKeyword string) Token {
	if tok, ok := keywords[maybeKeyword]; ok {
		return tok
	}
	return Identifier
}

// Spelling returns the canonical spelling of tok in the given language.
// Non-keyword tokens return their String representation.
func (tok Token) Spelling(lang Language) string {
	if lang == Japanese {
		for _, s := range spellings {
			if s.tok == tok {
				return s.japanese[0]
			}
		}
	}
	return tok.String()
}

// Keywords returns every accepted keyword spelling in table order.
// The returned slice is freshly allocated.
func Keywords() []string {
	var words []string
	for _, s := range spellings {
		words = append(words, s.english...)
		words = append(words, s.japanese...)
	}
	return words
}
