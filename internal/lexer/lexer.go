package lexer

import (
	"strings"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// maxRawStringDelimiter bounds the delimiter of a raw string literal.
const maxRawStringDelimiter = 16

// RawString is a raw string literal still open at end of line. Text
// accumulates the literal across lines, starting at the opening R.
type RawString struct {
	Start             position.Pos
	Text              string
	OpeningSeq        string
	ClosingSeq        string
	ShouldInterpolate bool
}

// State carries lexer state across lines. A fresh zero value starts a
// new file. The caller checks the state after the last line, an open
// comment or raw string at end of input is an error.
type State struct {
	InComment           bool
	CurrentComment      string
	CurrentCommentStart position.Pos
	RawString           *RawString
}

// InMultiline reports whether a multi-line construct is still open.
func (s *State) InMultiline() bool {
	return s.InComment || s.RawString != nil
}

// LexLine tokenizes one source line, appending tokens and comments and
// reporting errors into errors. lineno is 1-based. Reports whether any
// token was produced for this line.
func LexLine(line string, lineno int, state *State, tokens *[]Token, comments *[]Comment, errors *diagnostic.List) bool {
	lx := &lineLexer{
		line:     line,
		lineno:   lineno,
		state:    state,
		tokens:   tokens,
		comments: comments,
		errors:   errors,
	}
	if state.RawString != nil {
		if !lx.continueRawString() {
			return false
		}
	}
	if state.InComment {
		if !lx.continueStreamComment() {
			return lx.produced
		}
	}
	lx.run()
	return lx.produced
}

type lineLexer struct {
	line     string
	lineno   int
	i        int
	state    *State
	tokens   *[]Token
	comments *[]Comment
	errors   *diagnostic.List
	produced bool
}

func (lx *lineLexer) pos() position.Pos {
	return position.Pos{Line: lx.lineno, Column: lx.i + 1}
}

func (lx *lineLexer) at(i int) byte {
	if i < len(lx.line) {
		return lx.line[i]
	}
	return 0
}

func (lx *lineLexer) emit(text string, pos position.Pos, kind Lexeme) {
	*lx.tokens = append(*lx.tokens, Token{Text: text, Pos: pos, Kind: kind})
	lx.produced = true
}

func (lx *lineLexer) error(pos position.Pos, msg string) {
	lx.errors.AddError(pos, msg)
}

// continueRawString absorbs a line into an open raw string literal.
// Reports whether the literal closed and lexing may resume on this line.
func (lx *lineLexer) continueRawString() bool {
	rs := lx.state.RawString
	idx := strings.Index(lx.line, rs.ClosingSeq)
	if idx < 0 {
		rs.Text += lx.line + "\n"
		return false
	}
	end := idx + len(rs.ClosingSeq)
	rs.Text += lx.line[:end]
	lx.finishRawString(rs)
	lx.state.RawString = nil
	lx.i = end
	return true
}

// finishRawString emits the token for a completed raw string literal.
func (lx *lineLexer) finishRawString(rs *RawString) {
	text := rs.Text
	if rs.ShouldInterpolate {
		body := text[len(rs.OpeningSeq) : len(text)-len(rs.ClosingSeq)]
		parts := ExpandRawStringLiteral(rs.OpeningSeq, rs.ClosingSeq, OnBothEnds, body, lx.errors, rs.Start)
		if parts.IsExpanded() {
			text = "(" + parts.Generate() + ")"
		}
	}
	lx.emit(text, rs.Start, StringLiteral)
}

// continueStreamComment absorbs a line into an open stream comment.
// Reports whether the comment closed on this line.
func (lx *lineLexer) continueStreamComment() bool {
	idx := strings.Index(lx.line, "*/")
	if idx < 0 {
		lx.state.CurrentComment += lx.line + "\n"
		return false
	}
	end := idx + 2
	*lx.comments = append(*lx.comments, Comment{
		Kind:  StreamComment,
		Start: lx.state.CurrentCommentStart,
		End:   position.Pos{Line: lx.lineno, Column: end + 1},
		Text:  lx.state.CurrentComment + lx.line[:end],
	})
	lx.state.InComment = false
	lx.state.CurrentComment = ""
	lx.i = end
	return true
}

func (lx *lineLexer) run() {
	for lx.i < len(lx.line) {
		c := lx.line[lx.i]
		switch {
		case c == ' ' || c == '\t':
			lx.i++
		case c == '/' && lx.at(lx.i+1) == '/':
			lx.lexLineComment()
			return
		case c == '/' && lx.at(lx.i+1) == '*':
			if !lx.lexStreamComment() {
				return
			}
		case c == 'R' && lx.at(lx.i+1) == '"':
			lx.lexRawString(false)
			if lx.state.RawString != nil {
				return
			}
		case c == '$' && lx.at(lx.i+1) == 'R' && lx.at(lx.i+2) == '"':
			lx.lexRawString(true)
			if lx.state.RawString != nil {
				return
			}
		case c == '"':
			lx.lexString()
		case c == '\'':
			lx.lexCharacter()
		case isDigit(c):
			lx.lexNumber()
		case isIdentStart(c):
			lx.lexIdentifier()
		default:
			lx.lexOperator()
		}
	}
}

func (lx *lineLexer) lexLineComment() {
	*lx.comments = append(*lx.comments, Comment{
		Kind:  LineComment,
		Start: lx.pos(),
		End:   position.Pos{Line: lx.lineno, Column: len(lx.line) + 1},
		Text:  lx.line[lx.i:],
	})
	lx.i = len(lx.line)
}

// lexStreamComment handles /* at the cursor. Reports whether the
// comment closed on this line.
func (lx *lineLexer) lexStreamComment() bool {
	start := lx.pos()
	idx := strings.Index(lx.line[lx.i+2:], "*/")
	if idx < 0 {
		lx.state.InComment = true
		lx.state.CurrentCommentStart = start
		lx.state.CurrentComment = lx.line[lx.i:] + "\n"
		lx.i = len(lx.line)
		return false
	}
	end := lx.i + 2 + idx + 2
	*lx.comments = append(*lx.comments, Comment{
		Kind:  StreamComment,
		Start: start,
		End:   position.Pos{Line: lx.lineno, Column: end + 1},
		Text:  lx.line[lx.i:end],
	})
	lx.i = end
	return true
}

func (lx *lineLexer) lexRawString(interpolate bool) {
	startPos := lx.pos()
	if interpolate {
		lx.i++ // past $
	}
	// cursor at R, R" already confirmed
	delimStart := lx.i + 2
	j := delimStart
	for j < len(lx.line) && lx.line[j] != '(' {
		if c := lx.line[j]; c == ' ' || c == ')' || c == '\\' {
			lx.error(startPos, "invalid character in raw string delimiter")
			lx.recoverRawString(startPos)
			return
		}
		j++
	}
	if j >= len(lx.line) {
		lx.error(startPos, "raw string delimiter is missing its opening (")
		lx.recoverRawString(startPos)
		return
	}
	if j-delimStart > maxRawStringDelimiter {
		lx.error(startPos, "raw string delimiter may be at most 16 characters")
	}
	opening := lx.line[lx.i : j+1]
	closing := ")" + lx.line[delimStart:j] + `"`

	idx := strings.Index(lx.line[j+1:], closing)
	if idx < 0 {
		lx.state.RawString = &RawString{
			Start:             startPos,
			Text:              lx.line[lx.i:] + "\n",
			OpeningSeq:        opening,
			ClosingSeq:        closing,
			ShouldInterpolate: interpolate,
		}
		lx.i = len(lx.line)
		return
	}
	end := j + 1 + idx + len(closing)
	text := lx.line[lx.i:end]
	if interpolate {
		body := lx.line[j+1 : j+1+idx]
		parts := ExpandRawStringLiteral(opening, closing, OnBothEnds, body, lx.errors, startPos)
		if parts.IsExpanded() {
			text = "(" + parts.Generate() + ")"
		}
	}
	lx.emit(text, startPos, StringLiteral)
	lx.i = end
	lx.maybeUDSuffix()
}

// recoverRawString stands in an empty literal for a raw string with a
// malformed delimiter and resumes at the statement terminator, leaving
// any following declaration to lex on its own.
func (lx *lineLexer) recoverRawString(start position.Pos) {
	lx.emit(`""`, start, StringLiteral)
	if idx := strings.IndexByte(lx.line[lx.i:], ';'); idx >= 0 {
		lx.i += idx
		return
	}
	lx.i = len(lx.line)
}

func (lx *lineLexer) lexString() {
	startPos := lx.pos()
	start := lx.i
	lx.i++ // past opening quote
	for lx.i < len(lx.line) {
		switch lx.line[lx.i] {
		case '\\':
			lx.i += 2
			continue
		case '"':
			lx.i++
			text := lx.line[start:lx.i]
			lx.emit(ExpandStringLiteral(text, lx.errors, startPos), startPos, StringLiteral)
			lx.maybeUDSuffix()
			return
		}
		lx.i++
	}
	lx.error(startPos, "string literal is missing its closing \"")
	lx.i = len(lx.line)
}

func (lx *lineLexer) lexCharacter() {
	startPos := lx.pos()
	start := lx.i
	lx.i++ // past opening quote
	if lx.i < len(lx.line) && lx.line[lx.i] == '\\' {
		lx.i += 2
	} else if lx.i < len(lx.line) {
		lx.i++
	}
	if lx.i >= len(lx.line) || lx.line[lx.i] != '\'' {
		lx.error(startPos, "character literal is missing its closing '")
		lx.i = min(lx.i, len(lx.line))
		return
	}
	lx.i++
	lx.emit(lx.line[start:lx.i], startPos, CharacterLiteral)
	lx.maybeUDSuffix()
}

// digitsWithSeparators consumes digits of the given class with embedded
// ' separators. A separator must sit between two digits. Returns the
// number of digits consumed.
func (lx *lineLexer) digitsWithSeparators(isClass func(byte) bool) int {
	n := 0
	for lx.i < len(lx.line) {
		c := lx.line[lx.i]
		if isClass(c) {
			n++
			lx.i++
			continue
		}
		if c == '\'' && n > 0 && isClass(lx.at(lx.i+1)) {
			lx.i++
			continue
		}
		break
	}
	return n
}

func (lx *lineLexer) lexNumber() {
	startPos := lx.pos()
	start := lx.i

	if lx.line[lx.i] == '0' && (lx.at(lx.i+1) == 'b' || lx.at(lx.i+1) == 'B') {
		lx.i += 2
		if lx.digitsWithSeparators(isBinDigit) == 0 {
			lx.error(startPos, "binary literal must contain at least one binary digit")
		}
		lx.emit(lx.line[start:lx.i], startPos, BinaryLiteral)
		lx.maybeUDSuffix()
		return
	}
	if lx.line[lx.i] == '0' && (lx.at(lx.i+1) == 'x' || lx.at(lx.i+1) == 'X') {
		lx.i += 2
		if lx.digitsWithSeparators(isHexDigit) == 0 {
			lx.error(startPos, "hexadecimal literal must contain at least one hexadecimal digit")
		}
		lx.emit(lx.line[start:lx.i], startPos, HexadecimalLiteral)
		lx.maybeUDSuffix()
		return
	}

	kind := DecimalLiteral
	lx.digitsWithSeparators(isDigit)
	if lx.at(lx.i) == '.' && isDigit(lx.at(lx.i+1)) {
		lx.i++
		lx.digitsWithSeparators(isDigit)
		kind = FloatLiteral
	}
	if c := lx.at(lx.i); c == 'e' || c == 'E' {
		j := lx.i + 1
		if lx.at(j) == '+' || lx.at(j) == '-' {
			j++
		}
		if isDigit(lx.at(j)) {
			lx.i = j
			lx.digitsWithSeparators(isDigit)
			kind = FloatLiteral
		}
	}
	lx.emit(lx.line[start:lx.i], startPos, kind)
	lx.maybeUDSuffix()
}

// maybeUDSuffix lexes an identifier glued to the end of a literal as a
// user-defined literal suffix.
func (lx *lineLexer) maybeUDSuffix() {
	if lx.i >= len(lx.line) || !isIdentStart(lx.line[lx.i]) {
		return
	}
	startPos := lx.pos()
	start := lx.i
	for lx.i < len(lx.line) && isIdentChar(lx.line[lx.i]) {
		lx.i++
	}
	lx.emit(lx.line[start:lx.i], startPos, UserDefinedLiteralSuffix)
}

// matchOperator finds the longest operator spelling at index i, or "".
func (lx *lineLexer) matchOperator(i int) string {
	for n := 3; n >= 1; n-- {
		if i+n <= len(lx.line) {
			if _, ok := operatorLexemes[lx.line[i:i+n]]; ok {
				return lx.line[i : i+n]
			}
		}
	}
	return ""
}

func (lx *lineLexer) lexOperator() {
	startPos := lx.pos()
	op := lx.matchOperator(lx.i)
	if op == "" {
		lx.error(startPos, "unexpected character '"+string(lx.line[lx.i])+"'")
		lx.i++
		return
	}
	lx.emit(op, startPos, operatorLexemes[op])
	lx.i += len(op)
}

func (lx *lineLexer) lexIdentifier() {
	startPos := lx.pos()
	start := lx.i
	for lx.i < len(lx.line) && isIdentChar(lx.line[lx.i]) {
		lx.i++
	}
	word := lx.line[start:lx.i]

	// operator names include the operator symbol, e.g. operator<=>
	if word == "operator" {
		if op := lx.matchOperator(lx.i); op != "" {
			lx.i += len(op)
			// operator() and operator[] span both brackets
			if (op == "(" && lx.at(lx.i) == ')') || (op == "[" && lx.at(lx.i) == ']') {
				op += string(lx.line[lx.i])
				lx.i++
			}
			lx.emit("operator"+op, startPos, Identifier)
			return
		}
	}

	if multiKeywordStart[word] {
		for {
			j := lx.i
			for j < len(lx.line) && lx.line[j] == ' ' {
				j++
			}
			k := j
			for k < len(lx.line) && isIdentChar(lx.line[k]) {
				k++
			}
			next := lx.line[j:k]
			if j == lx.i || !multiKeywordPart[next] {
				break
			}
			word += " " + next
			lx.i = k
		}
		lx.emit(word, startPos, MultiKeyword)
		return
	}

	kind := Identifier
	switch {
	case fixedTypes[word]:
		kind = FixedType
	case keywords[word]:
		kind = Keyword
	}
	lx.emit(word, startPos, kind)
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }
