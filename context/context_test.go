package context

import (
	"testing"

	"github.com/fcitx/libime-sub001/dict"
	"github.com/fcitx/libime-sub001/history"
	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/pinyin"
)

func mustEncode(t *testing.T, spelling string) []byte {
	t.Helper()
	code, err := pinyin.EncodeFullPinyin(spelling)
	if err != nil {
		t.Fatalf("EncodeFullPinyin(%q): %v", spelling, err)
	}
	return code
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	d := dict.New()
	d.AddWord(dict.SystemDict, mustEncode(t, "ni'hao"), "你好", 1.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "ni"), "你", 5.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "hao"), "好", 5.0)

	b := lm.NewBuilder(nil, "", "")
	b.AddNgram(nil, "你好", -0.1, 0)
	b.AddNgram(nil, "你", -1.0, 0)
	b.AddNgram(nil, "好", -1.0, 0)
	b.AddNgram(nil, "</s>", -0.01, 0)
	m := b.DumpHashed(1.0)

	h := history.New(history.DefaultConfig())
	return New(d, m, h, pinyin.FuzzyNone, 5)
}

func TestTypeThenCandidatesFindsWholeWord(t *testing.T) {
	c := newTestContext(t)
	if err := c.Type("nihao"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	cands := c.Candidates()
	if len(cands) == 0 {
		t.Fatalf("expected candidates for nihao")
	}
	if len(cands[0].Sentence) != 1 || cands[0].Sentence[0].Word != "你好" {
		t.Fatalf("top candidate = %v, want single word 你好", cands[0].Sentence)
	}
}

func TestTypeRejectsNonASCII(t *testing.T) {
	c := newTestContext(t)
	if err := c.Type("你"); err == nil {
		t.Fatalf("expected error typing non-ASCII")
	} else if err != ierr.ErrInvalidArgument {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestSelectCommitsAndPreeditReflectsIt(t *testing.T) {
	c := newTestContext(t)
	c.Type("nihao")
	if err := c.Select(0); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !c.Selected() {
		t.Fatalf("expected Selected() after committing the whole buffer")
	}
	if got := c.Preedit(); got != "你好" {
		t.Fatalf("Preedit = %q, want 你好", got)
	}
}

func TestCancelUndoesSelect(t *testing.T) {
	c := newTestContext(t)
	c.Type("nihao")
	c.Select(0)
	if !c.Cancel() {
		t.Fatalf("Cancel = false, want true")
	}
	if c.Selected() {
		t.Fatalf("expected Selected() false after Cancel")
	}
	if got := c.Preedit(); got != "nihao" {
		t.Fatalf("Preedit after Cancel = %q, want raw nihao back", got)
	}
}

func TestBackspaceRemovesLastKeystroke(t *testing.T) {
	c := newTestContext(t)
	c.Type("nihaoo")
	c.Backspace()
	if c.UserInput() != "nihao" {
		t.Fatalf("UserInput after Backspace = %q, want nihao", c.UserInput())
	}
}

func TestLearnFeedsHistory(t *testing.T) {
	c := newTestContext(t)
	c.Type("nihao")
	c.Select(0)
	c.Learn()
	if c.hist.IsUnknown("你好") {
		t.Fatalf("expected history to have learned 你好")
	}
}

func TestSetCursorUncommitsPastSelections(t *testing.T) {
	c := newTestContext(t)
	c.Type("nihao")
	c.Select(0)
	if err := c.SetCursor(0); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if c.Selected() {
		t.Fatalf("expected selection to be undone by moving cursor before it")
	}
}
