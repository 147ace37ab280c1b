package source

import (
	"fmt"

	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/position"
)

// BraceTracker tracks brace nesting across an entire file while lines
// are classified. Preprocessor conditionals are tracked too, because a
// #if / #else pair may legitimately open and close braces in only one
// branch. Only a genuine mismatch is reported.
type BraceTracker struct {
	errors *diagnostic.List
	open   []position.Pos
	preIf  []preIfRegion
}

type preIfRegion struct {
	pos       position.Pos
	depthAtIf int
	foundElse bool
}

// NewBraceTracker returns a tracker reporting into errors.
func NewBraceTracker(errors *diagnostic.List) *BraceTracker {
	return &BraceTracker{errors: errors}
}

// CurrentDepth returns the number of currently open braces.
func (bt *BraceTracker) CurrentDepth() int { return len(bt.open) }

// FoundOpenBrace records an open brace.
func (bt *BraceTracker) FoundOpenBrace(pos position.Pos) {
	bt.open = append(bt.open, pos)
}

// FoundCloseBrace records a close brace. A close with no matching open
// is an error unless a preprocessor conditional is active, the other
// branch may have supplied the open.
func (bt *BraceTracker) FoundCloseBrace(pos position.Pos) {
	if len(bt.open) > 0 {
		bt.open = bt.open[:len(bt.open)-1]
		return
	}
	if len(bt.preIf) == 0 {
		bt.errors.AddError(pos, "closing } does not match an earlier {")
	}
}

// FoundPreIf records a #if line.
func (bt *BraceTracker) FoundPreIf(pos position.Pos) {
	bt.preIf = append(bt.preIf, preIfRegion{pos: pos, depthAtIf: len(bt.open)})
}

// FoundPreElse records a #else or #elif line. Braces opened since the
// matching #if belong to the branch not taken, so nesting rolls back.
func (bt *BraceTracker) FoundPreElse(pos position.Pos) {
	if len(bt.preIf) == 0 {
		return
	}
	top := &bt.preIf[len(bt.preIf)-1]
	top.foundElse = true
	if top.depthAtIf < len(bt.open) {
		bt.open = bt.open[:top.depthAtIf]
	}
}

// FoundPreEndif records a #endif line.
func (bt *BraceTracker) FoundPreEndif(pos position.Pos) {
	if len(bt.preIf) > 0 {
		bt.preIf = bt.preIf[:len(bt.preIf)-1]
	}
}

// FoundEOF reports the innermost brace still open at end of input.
func (bt *BraceTracker) FoundEOF(pos position.Pos) {
	if len(bt.open) == 0 {
		return
	}
	unmatched := bt.open[len(bt.open)-1]
	bt.errors.AddError(pos, fmt.Sprintf("end of file reached before finding matching } for { at line %d", unmatched.Line))
}
