// Package lexer implements lexical analysis for Cedar source code.
// Lexing is line at a time: LexLine tokenizes one source line while a
// State value carries multi-line constructs (stream comments and raw
// string literals) across calls.
package lexer

// Lexeme identifies the lexical category of a token.
type Lexeme int

const (
	// Operators, ordered so that longest-match siblings stay adjacent.
	SlashEq Lexeme = iota
	Slash
	LeftShiftEq
	LeftShift
	Spaceship
	LessEq
	Less
	RightShiftEq
	RightShift
	GreaterEq
	Greater
	PlusPlus
	PlusEq
	Plus
	MinusMinus
	MinusEq
	Arrow
	Minus
	LogicalOrEq
	LogicalOr
	PipeEq
	Pipe
	LogicalAndEq
	LogicalAnd
	MultiplyEq
	Multiply
	ModuloEq
	Modulo
	AmpersandEq
	Ampersand
	CaretEq
	Caret
	TildeEq
	Tilde
	EqualComparison
	Assignment
	NotEqualComparison
	Not
	Ellipsis
	LeftBrace
	RightBrace
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	Scope
	Colon
	Semicolon
	Comma
	Dot
	QuestionMark
	At
	Dollar

	// Literals.
	FloatLiteral
	BinaryLiteral
	DecimalLiteral
	HexadecimalLiteral
	StringLiteral
	CharacterLiteral
	UserDefinedLiteralSuffix

	// Names.
	Keyword
	FixedType
	MultiKeyword
	Identifier

	None
)

var lexemeNames = map[Lexeme]string{
	SlashEq:                  "SlashEq",
	Slash:                    "Slash",
	LeftShiftEq:              "LeftShiftEq",
	LeftShift:                "LeftShift",
	Spaceship:                "Spaceship",
	LessEq:                   "LessEq",
	Less:                     "Less",
	RightShiftEq:             "RightShiftEq",
	RightShift:               "RightShift",
	GreaterEq:                "GreaterEq",
	Greater:                  "Greater",
	PlusPlus:                 "PlusPlus",
	PlusEq:                   "PlusEq",
	Plus:                     "Plus",
	MinusMinus:               "MinusMinus",
	MinusEq:                  "MinusEq",
	Arrow:                    "Arrow",
	Minus:                    "Minus",
	LogicalOrEq:              "LogicalOrEq",
	LogicalOr:                "LogicalOr",
	PipeEq:                   "PipeEq",
	Pipe:                     "Pipe",
	LogicalAndEq:             "LogicalAndEq",
	LogicalAnd:               "LogicalAnd",
	MultiplyEq:               "MultiplyEq",
	Multiply:                 "Multiply",
	ModuloEq:                 "ModuloEq",
	Modulo:                   "Modulo",
	AmpersandEq:              "AmpersandEq",
	Ampersand:                "Ampersand",
	CaretEq:                  "CaretEq",
	Caret:                    "Caret",
	TildeEq:                  "TildeEq",
	Tilde:                    "Tilde",
	EqualComparison:          "EqualComparison",
	Assignment:               "Assignment",
	NotEqualComparison:       "NotEqualComparison",
	Not:                      "Not",
	Ellipsis:                 "Ellipsis",
	LeftBrace:                "LeftBrace",
	RightBrace:               "RightBrace",
	LeftParen:                "LeftParen",
	RightParen:               "RightParen",
	LeftBracket:              "LeftBracket",
	RightBracket:             "RightBracket",
	Scope:                    "Scope",
	Colon:                    "Colon",
	Semicolon:                "Semicolon",
	Comma:                    "Comma",
	Dot:                      "Dot",
	QuestionMark:             "QuestionMark",
	At:                       "At",
	Dollar:                   "Dollar",
	FloatLiteral:             "FloatLiteral",
	BinaryLiteral:            "BinaryLiteral",
	DecimalLiteral:           "DecimalLiteral",
	HexadecimalLiteral:       "HexadecimalLiteral",
	StringLiteral:            "StringLiteral",
	CharacterLiteral:         "CharacterLiteral",
	UserDefinedLiteralSuffix: "UserDefinedLiteralSuffix",
	Keyword:                  "Keyword",
	FixedType:                "FixedType",
	MultiKeyword:             "MultiKeyword",
	Identifier:               "Identifier",
	None:                     "None",
}

// String returns the name of the lexeme for diagnostics and tree dumps.
func (l Lexeme) String() string {
	if name, ok := lexemeNames[l]; ok {
		return name
	}
	return "Unknown"
}

// IsLiteral reports whether the lexeme is a literal category.
func (l Lexeme) IsLiteral() bool {
	switch l {
	case FloatLiteral, BinaryLiteral, DecimalLiteral, HexadecimalLiteral,
		StringLiteral, CharacterLiteral, UserDefinedLiteralSuffix:
		return true
	}
	return false
}

// IsOperator reports whether the lexeme is a punctuation or operator symbol.
func (l Lexeme) IsOperator() bool {
	return l >= SlashEq && l <= Dollar
}

// CloseOf returns the matching closing lexeme for an opening bracket,
// or None when the lexeme does not open a bracketed region.
func CloseOf(l Lexeme) Lexeme {
	switch l {
	case LeftBrace:
		return RightBrace
	case LeftParen:
		return RightParen
	case LeftBracket:
		return RightBracket
	}
	return None
}

// operatorLexemes maps operator spellings to their lexemes. Matching is
// longest first, driven by the length-ordered tables below.
var operatorLexemes = map[string]Lexeme{
	"<<=": LeftShiftEq,
	">>=": RightShiftEq,
	"<=>": Spaceship,
	"...": Ellipsis,
	"||=": LogicalOrEq,
	"&&=": LogicalAndEq,
	"/=":  SlashEq,
	"<<":  LeftShift,
	"<=":  LessEq,
	">>":  RightShift,
	">=":  GreaterEq,
	"++":  PlusPlus,
	"+=":  PlusEq,
	"--":  MinusMinus,
	"-=":  MinusEq,
	"->":  Arrow,
	"||":  LogicalOr,
	"|=":  PipeEq,
	"&&":  LogicalAnd,
	"&=":  AmpersandEq,
	"*=":  MultiplyEq,
	"%=":  ModuloEq,
	"^=":  CaretEq,
	"~=":  TildeEq,
	"==":  EqualComparison,
	"!=":  NotEqualComparison,
	"::":  Scope,
	"/":   Slash,
	"<":   Less,
	">":   Greater,
	"+":   Plus,
	"-":   Minus,
	"|":   Pipe,
	"&":   Ampersand,
	"*":   Multiply,
	"%":   Modulo,
	"^":   Caret,
	"~":   Tilde,
	"=":   Assignment,
	"!":   Not,
	"{":   LeftBrace,
	"}":   RightBrace,
	"(":   LeftParen,
	")":   RightParen,
	"[":   LeftBracket,
	"]":   RightBracket,
	":":   Colon,
	";":   Semicolon,
	",":   Comma,
	".":   Dot,
	"?":   QuestionMark,
	"@":   At,
	"$":   Dollar,
}

// keywords is the set of reserved words. Passing styles and contextual
// declaration words are reserved too, the parser relies on their spelling.
var keywords = map[string]bool{
	"as": true, "assert": true, "break": true, "const": true,
	"continue": true, "copy": true, "do": true, "else": true,
	"false": true, "final": true, "for": true, "forward": true,
	"if": true, "implicit": true, "import": true, "in": true,
	"inout": true, "inspect": true, "is": true, "move": true,
	"namespace": true, "new": true, "next": true, "nullptr": true,
	"operator": true, "out": true, "override": true, "post": true,
	"pre": true, "private": true, "protected": true, "public": true,
	"requires": true, "return": true, "that": true, "this": true,
	"throws": true, "true": true, "type": true, "union": true,
	"using": true, "virtual": true, "while": true,
}

// fixedTypes is the set of sized builtin type names.
var fixedTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"f32": true, "f64": true, "usize": true, "isize": true, "bool": true,
}

// multiKeywordStart begins a legacy multi-word type keyword such as
// "unsigned long long int".
var multiKeywordStart = map[string]bool{
	"unsigned": true, "signed": true, "long": true, "short": true,
}

// multiKeywordPart may continue a legacy multi-word type keyword.
var multiKeywordPart = map[string]bool{
	"unsigned": true, "signed": true, "long": true, "short": true,
	"int": true, "char": true, "double": true, "float": true,
}
