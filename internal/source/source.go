// Package source loads Cedar source files and classifies each line by
// the syntax it carries. Cedar and legacy C-family code may be mixed in
// one file, only the Cedar sections are handed to the lexer.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// MaxLineLength is the longest supported source line in bytes.
const MaxLineLength = 90000

// LanguageVersion is the Cedar language version this front end provides.
// Sources may pin a compatible range with a //cedar:requires directive.
const LanguageVersion = "0.9.0"

const requiresDirective = "//cedar:requires"

// Category classifies one source line.
type Category int

const (
	CatEmpty Category = iota
	CatPreprocessor
	CatComment
	CatImport
	CatLegacy
	CatCedar
	CatRawstring
)

var categoryNames = map[Category]string{
	CatEmpty:        "empty",
	CatPreprocessor: "preprocessor",
	CatComment:      "comment",
	CatImport:       "import",
	CatLegacy:       "legacy",
	CatCedar:        "cedar",
	CatRawstring:    "rawstring",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Line is one classified source line, without its trailing newline.
type Line struct {
	Text string
	Cat  Category
}

// rawCarry is a raw string literal still open at end of line during
// classification. legacy records which syntax the literal started in.
type rawCarry struct {
	closing string
	legacy  bool
}

type loadState struct {
	inComment    bool // stream comment in a legacy or comment section
	inCedar      bool // inside a Cedar definition
	cedarComment bool // stream comment inside a Cedar definition
	cedarDepth   int  // bracket nesting inside the current definition
	raw          *rawCarry
}

// File is a loaded and classified source file.
type File struct {
	errors      *diagnostic.List
	lines       []Line
	legacyFound bool
	cedarFound  bool
}

// NewFile returns an empty file reporting into errors.
func NewFile(errors *diagnostic.List) *File {
	return &File{errors: errors}
}

// Lines returns the classified lines. Index 0 holds line number 1.
func (f *File) Lines() []Line { return f.lines }

// HasLegacy reports whether any legacy-syntax line was seen.
func (f *File) HasLegacy() bool { return f.legacyFound }

// HasCedar reports whether any Cedar-syntax line was seen.
func (f *File) HasCedar() bool { return f.cedarFound }

// LoadFile opens and loads path.
func (f *File) LoadFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		f.errors.AddError(position.Pos{}, "could not open source file: "+err.Error())
		return false
	}
	defer file.Close()
	return f.Load(file)
}

// Load reads and classifies all lines from r. Reports whether the input
// was structurally readable, syntax errors inside lines are left for
// the lexer and parser.
func (f *File) Load(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength+1)

	braces := NewBraceTracker(f.errors)
	st := loadState{}
	lineno := 0

	for scanner.Scan() {
		lineno++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if len(text) > MaxLineLength {
			f.errors.AddError(position.Pos{Line: lineno, Column: 1},
				fmt.Sprintf("line is longer than the maximum supported length of %d bytes", MaxLineLength))
			return false
		}
		cat := f.classify(text, lineno, &st, braces)
		f.lines = append(f.lines, Line{Text: text, Cat: cat})
	}
	if err := scanner.Err(); err != nil {
		f.errors.AddError(position.Pos{Line: lineno + 1, Column: 1}, "error reading source file: "+err.Error())
		return false
	}

	braces.FoundEOF(position.Pos{Line: lineno + 1, Column: 1})
	if st.inComment || st.cedarComment {
		f.errors.AddError(position.Pos{Line: lineno + 1, Column: 1}, "end of file reached inside a comment")
	}
	return true
}

func (f *File) classify(text string, lineno int, st *loadState, braces *BraceTracker) Category {
	// an open raw string literal swallows lines until its delimiter
	if st.raw != nil {
		idx := strings.Index(text, st.raw.closing)
		if idx < 0 {
			if st.raw.legacy {
				return CatLegacy
			}
			return CatRawstring
		}
		rest := idx + len(st.raw.closing)
		legacy := st.raw.legacy
		st.raw = nil
		if legacy {
			f.scanLegacy(text, rest, lineno, st, braces)
			return CatLegacy
		}
		f.scanCedar(text, rest, lineno, st, braces)
		return CatRawstring
	}

	if st.inComment {
		if idx := strings.Index(text, "*/"); idx >= 0 {
			st.inComment = false
		}
		return CatComment
	}

	if st.inCedar {
		if st.cedarComment {
			idx := strings.Index(text, "*/")
			if idx < 0 {
				return CatCedar
			}
			st.cedarComment = false
			f.scanCedar(text, idx+2, lineno, st, braces)
			return CatCedar
		}
		f.scanCedar(text, 0, lineno, st, braces)
		return CatCedar
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return CatEmpty

	case trimmed[0] == '#':
		directive := strings.TrimSpace(trimmed[1:])
		pos := position.Pos{Line: lineno, Column: 1}
		switch {
		case strings.HasPrefix(directive, "if"):
			braces.FoundPreIf(pos)
		case strings.HasPrefix(directive, "else"), strings.HasPrefix(directive, "elif"):
			braces.FoundPreElse(pos)
		case strings.HasPrefix(directive, "endif"):
			braces.FoundPreEndif(pos)
		}
		return CatPreprocessor

	case strings.HasPrefix(trimmed, requiresDirective):
		f.checkRequires(trimmed, lineno)
		return CatComment

	case strings.HasPrefix(trimmed, "//"):
		return CatComment

	case strings.HasPrefix(trimmed, "/*"):
		if !strings.Contains(trimmed[2:], "*/") {
			st.inComment = true
		}
		return CatComment

	case trimmed == "import" || strings.HasPrefix(trimmed, "import "):
		return CatImport

	case braces.CurrentDepth() == 0 && startsWithIdentifierColon(trimmed):
		f.cedarFound = true
		st.inCedar = true
		st.cedarDepth = 0
		f.scanCedar(text, 0, lineno, st, braces)
		return CatCedar

	default:
		f.legacyFound = true
		f.scanLegacy(text, 0, lineno, st, braces)
		return CatLegacy
	}
}

// checkRequires validates a //cedar:requires version directive against
// the version this front end provides.
func (f *File) checkRequires(trimmed string, lineno int) {
	spec := strings.TrimSpace(strings.TrimPrefix(trimmed, requiresDirective))
	pos := position.Pos{Line: lineno, Column: 1}
	constraint, err := semver.NewConstraint(spec)
	if err != nil {
		f.errors.AddError(pos, fmt.Sprintf("invalid language version constraint %q", spec))
		return
	}
	if !constraint.Check(semver.MustParse(LanguageVersion)) {
		f.errors.AddError(pos, fmt.Sprintf("source requires language version %q, this front end provides %s", spec, LanguageVersion))
	}
}

// startsWithIdentifierColon reports whether the line opens a Cedar
// definition: an identifier followed by a single colon.
func startsWithIdentifierColon(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	i := 0
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) || s[i] != ':' {
		return false
	}
	return i+1 >= len(s) || s[i+1] != ':'
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanCedar walks a Cedar-classified line from offset i, maintaining
// definition nesting so the classifier knows where the definition ends.
func (f *File) scanCedar(text string, i int, lineno int, st *loadState, braces *BraceTracker) {
	for i < len(text) {
		c := text[i]
		switch {
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			return

		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			idx := strings.Index(text[i+2:], "*/")
			if idx < 0 {
				st.cedarComment = true
				return
			}
			i += 2 + idx + 2

		case c == 'R' && i+1 < len(text) && text[i+1] == '"' && (i == 0 || !isIdentChar(text[i-1])):
			i = f.scanRawString(text, i, st, false)
			if st.raw != nil {
				return
			}

		case c == '"':
			i = skipQuoted(text, i, '"')

		case c == '\'':
			// a ' between digits is a separator, not a character literal
			if i > 0 && isDigit(text[i-1]) && i+1 < len(text) && isDigit(text[i+1]) {
				i++
				continue
			}
			i = skipQuoted(text, i, '\'')

		case c == '{':
			braces.FoundOpenBrace(position.Pos{Line: lineno, Column: i + 1})
			st.cedarDepth++
			i++

		case c == '}':
			braces.FoundCloseBrace(position.Pos{Line: lineno, Column: i + 1})
			if st.cedarDepth > 0 {
				st.cedarDepth--
			}
			if st.cedarDepth == 0 {
				st.inCedar = false
			}
			i++

		case c == '(' || c == '[':
			st.cedarDepth++
			i++

		case c == ')' || c == ']':
			if st.cedarDepth > 0 {
				st.cedarDepth--
			}
			i++

		case c == ';':
			if st.cedarDepth == 0 {
				st.inCedar = false
			}
			i++

		default:
			i++
		}
	}
}

// scanLegacy walks a legacy line from offset i, feeding braces to the
// tracker and carrying comment and raw string state.
func (f *File) scanLegacy(text string, i int, lineno int, st *loadState, braces *BraceTracker) {
	for i < len(text) {
		c := text[i]
		switch {
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			return

		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			idx := strings.Index(text[i+2:], "*/")
			if idx < 0 {
				st.inComment = true
				return
			}
			i += 2 + idx + 2

		case c == 'R' && i+1 < len(text) && text[i+1] == '"' && (i == 0 || !isIdentChar(text[i-1])):
			i = f.scanRawString(text, i, st, true)
			if st.raw != nil {
				return
			}

		case c == '"':
			i = skipQuoted(text, i, '"')

		case c == '\'':
			i = skipQuoted(text, i, '\'')

		case c == '{':
			braces.FoundOpenBrace(position.Pos{Line: lineno, Column: i + 1})
			i++

		case c == '}':
			braces.FoundCloseBrace(position.Pos{Line: lineno, Column: i + 1})
			i++

		default:
			i++
		}
	}
}

// scanRawString advances past a raw string literal starting at the R.
// When the literal does not close on this line, st.raw is set and the
// return value is the line length.
func (f *File) scanRawString(text string, i int, st *loadState, legacy bool) int {
	j := i + 2
	for j < len(text) && text[j] != '(' {
		j++
	}
	if j >= len(text) {
		return len(text)
	}
	closing := ")" + text[i+2:j] + `"`
	idx := strings.Index(text[j+1:], closing)
	if idx < 0 {
		st.raw = &rawCarry{closing: closing, legacy: legacy}
		return len(text)
	}
	return j + 1 + idx + len(closing)
}

// skipQuoted advances past a quoted section opened at index i.
func skipQuoted(text string, i int, quote byte) int {
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

// DebugPrint writes the classified lines to w.
func (f *File) DebugPrint(w io.Writer) {
	for idx, line := range f.lines {
		fmt.Fprintf(w, "%5d %-12s %s\n", idx+1, line.Cat, line.Text)
	}
}
