// Package context is the per-session collaborator of spec.md §4.10: an
// ASCII keystroke buffer with a codepoint cursor, a selection ledger of
// already-committed words, and on-demand decoding of whatever remains
// unselected between the committed prefix and the cursor.
package context

import (
	"strings"

	"github.com/fcitx/libime-sub001/decoder"
	"github.com/fcitx/libime-sub001/dict"
	"github.com/fcitx/libime-sub001/history"
	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/pinyin"
	"github.com/fcitx/libime-sub001/segment"
)

// word is one committed lattice node: its surface text and the byte
// range of the raw buffer it consumed.
type word struct {
	text     string
	from, to int
}

// selection is everything one Select call moved into the ledger.
type selection struct {
	words []word
}

// Context holds one typing session: the raw ASCII buffer, the cursor
// into it, the selection ledger, and the decoder/model/history needed
// to turn the unselected remainder into ranked candidates.
//
// After every edit that marks the context dirty, the next Candidates
// call re-parses and re-decodes the unselected window from scratch:
// pinyin.ParseUserPinyin always allocates a fresh segment.Graph, so
// there is no node identity for the decoder's match-state cache to
// recognize across keystrokes the way spec.md §4.8 describes, and that
// per-node cache is never hit. Reads on an unchanged buffer reuse the
// one decoded result through the dirty flag; Preedit does not decode at
// all. See DESIGN.md.
type Context struct {
	buffer       string
	cursor       int
	committedEnd int
	groups       []selection

	d     *dict.Dict
	model *decoder.UserModel
	hist  *history.Model
	dec   *decoder.Decoder
	flags pinyin.FuzzyFlag
	nbest int

	dirty      bool
	candidates []decoder.SentenceResult
	graph      *segment.Graph
}

// New constructs a Context decoding against d and model, mixing in
// hist, with up to nbest candidates and the given fuzzy-pinyin flags.
func New(d *dict.Dict, model lm.Model, hist *history.Model, flags pinyin.FuzzyFlag, nbest int) *Context {
	um := decoder.NewUserModel(model, hist)
	return &Context{
		d:     d,
		model: um,
		hist:  hist,
		dec:   decoder.New(d, um, 0),
		flags: flags,
		nbest: nbest,
	}
}

func (c *Context) markDirty() { c.dirty = true }

// UserInput is the raw, uncommitted-and-committed keystroke buffer.
func (c *Context) UserInput() string { return c.buffer }

// Cursor is the current byte offset into UserInput.
func (c *Context) Cursor() int { return c.cursor }

// Size is the length of UserInput.
func (c *Context) Size() int { return len(c.buffer) }

// Type inserts s (ASCII only) at the cursor.
func (c *Context) Type(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return ierr.ErrInvalidArgument
		}
	}
	c.buffer = c.buffer[:c.cursor] + s + c.buffer[c.cursor:]
	c.cursor += len(s)
	c.markDirty()
	return nil
}

// Erase removes buffer[from:to]. Erasing into already-committed text
// uncommits every selection that reaches past from.
func (c *Context) Erase(from, to int) error {
	if from < 0 || to > len(c.buffer) || from > to {
		return ierr.ErrOutOfRange
	}
	if from < c.committedEnd {
		c.uncommitPast(from)
	}
	c.buffer = c.buffer[:from] + c.buffer[to:]
	shift := to - from
	c.cursor = clampShift(c.cursor, from, to, shift)
	c.committedEnd = clampShift(c.committedEnd, from, to, shift)
	c.markDirty()
	return nil
}

// clampShift adjusts an offset after removing buffer[from:to) (length
// shift), leaving offsets before from untouched, dropping offsets
// inside the removed range to from, and sliding offsets after to back
// by shift.
func clampShift(offset, from, to, shift int) int {
	switch {
	case offset <= from:
		return offset
	case offset <= to:
		return from
	default:
		return offset - shift
	}
}

// Backspace erases the codepoint immediately before the cursor.
func (c *Context) Backspace() error {
	if c.cursor == 0 {
		return nil
	}
	return c.Erase(c.cursor-1, c.cursor)
}

// SetCursor moves the cursor, uncommitting any selection that now
// reaches past it.
func (c *Context) SetCursor(n int) error {
	if n < 0 || n > len(c.buffer) {
		return ierr.ErrOutOfRange
	}
	if n < c.committedEnd {
		c.uncommitPast(n)
	}
	c.cursor = n
	c.markDirty()
	return nil
}

// uncommitPast pops every selection group whose words reach past n,
// restoring committedEnd to the start of the first such group.
func (c *Context) uncommitPast(n int) {
	for len(c.groups) > 0 {
		g := c.groups[len(c.groups)-1]
		if len(g.words) == 0 || g.words[0].from >= n {
			c.groups = c.groups[:len(c.groups)-1]
			continue
		}
		if g.words[len(g.words)-1].to > n {
			c.groups = c.groups[:len(c.groups)-1]
			continue
		}
		break
	}
	c.committedEnd = 0
	if len(c.groups) > 0 {
		last := c.groups[len(c.groups)-1]
		c.committedEnd = last.words[len(last.words)-1].to
	}
}

// Clear resets the session to empty.
func (c *Context) Clear() {
	c.buffer = ""
	c.cursor = 0
	c.committedEnd = 0
	c.groups = nil
	c.markDirty()
}

// Selected reports whether the whole buffer has been committed.
func (c *Context) Selected() bool {
	return len(c.buffer) > 0 && c.committedEnd == len(c.buffer)
}

// decode lazily re-parses and re-decodes the unselected window
// [committedEnd, cursor) of the buffer.
func (c *Context) decode() {
	if !c.dirty {
		return
	}
	window := c.buffer[c.committedEnd:c.cursor]
	c.graph = pinyin.ParseUserPinyin(window, c.flags)
	l := decoder.NewLattice()
	c.dec.Decode(l, c.graph, c.nbest, c.model.Start(), maxFloat32, -maxFloat32, 0, 0, c.flags)
	c.candidates = nil
	for i := 0; i < l.SentenceSize(); i++ {
		c.candidates = append(c.candidates, l.Sentence(i))
	}
	c.dirty = false
}

const maxFloat32 = 3.4e38

// Candidates returns the ranked sentence candidates covering the
// unselected window up to the cursor (equivalent to the upstream
// library's candidatesToCursor, since this implementation never
// decodes past the cursor in the first place).
func (c *Context) Candidates() []decoder.SentenceResult {
	c.decode()
	return c.candidates
}

// Select commits candidate i's words and covered range into the
// selection ledger, consuming the whole decode window up to the
// cursor. Whatever is typed afterward is decoded fresh.
func (c *Context) Select(i int) error {
	cands := c.Candidates()
	if i < 0 || i >= len(cands) {
		return ierr.ErrOutOfRange
	}
	sel := selection{}
	for _, n := range cands[i].Sentence {
		sel.words = append(sel.words, word{
			text: n.Word,
			from: c.committedEnd + n.From().Start(),
			to:   c.committedEnd + n.To().Start(),
		})
	}
	c.groups = append(c.groups, sel)
	c.committedEnd = c.cursor
	c.markDirty()
	return nil
}

// Cancel undoes the most recent Select, reporting whether there was
// one to undo.
func (c *Context) Cancel() bool {
	if len(c.groups) == 0 {
		return false
	}
	c.groups = c.groups[:len(c.groups)-1]
	c.committedEnd = 0
	if len(c.groups) > 0 {
		prev := c.groups[len(c.groups)-1]
		c.committedEnd = prev.words[len(prev.words)-1].to
	}
	c.markDirty()
	return true
}

func (c *Context) committedText() string {
	var b strings.Builder
	for _, g := range c.groups {
		for _, w := range g.words {
			b.WriteString(w.text)
		}
	}
	return b.String()
}

func (c *Context) committedWords() []string {
	var out []string
	for _, g := range c.groups {
		for _, w := range g.words {
			out = append(out, w.text)
		}
	}
	return out
}

// Preedit is the visible string: committed text followed by the raw
// keystrokes not yet committed.
func (c *Context) Preedit() string {
	return c.committedText() + c.buffer[c.committedEnd:]
}

// PreeditWithCursor is Preedit plus the visual cursor's byte offset
// within it.
func (c *Context) PreeditWithCursor() (string, int) {
	return c.Preedit(), len(c.committedText()) + (c.cursor - c.committedEnd)
}

// Sentence is the committed prefix plus the best candidate's text, or
// just the raw decode window if nothing has matched yet.
func (c *Context) Sentence() string {
	cands := c.Candidates()
	if len(cands) == 0 {
		return c.committedText() + c.buffer[c.committedEnd:c.cursor]
	}
	var b strings.Builder
	b.WriteString(c.committedText())
	for _, n := range cands[0].Sentence {
		b.WriteString(n.Word)
	}
	return b.String()
}

// Learn feeds the current sentence's words into the history bigram, so
// future predictions and decodes favor it.
func (c *Context) Learn() {
	words := c.committedWords()
	cands := c.Candidates()
	if len(cands) > 0 {
		for _, n := range cands[0].Sentence {
			words = append(words, n.Word)
		}
	}
	if len(words) > 0 {
		c.hist.Add(words)
	}
}
