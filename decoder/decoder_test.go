package decoder

import (
	"testing"

	"github.com/fcitx/libime-sub001/dict"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/pinyin"
	"github.com/fcitx/libime-sub001/segment"
)

func mustEncode(t *testing.T, spelling string) []byte {
	t.Helper()
	code, err := pinyin.EncodeFullPinyin(spelling)
	if err != nil {
		t.Fatalf("EncodeFullPinyin(%q): %v", spelling, err)
	}
	return code
}

func buildModel(t *testing.T) *lm.Hashed {
	t.Helper()
	b := lm.NewBuilder(nil, "", "")
	b.AddNgram(nil, "你好", -0.1, 0)
	b.AddNgram(nil, "你", -1.0, 0)
	b.AddNgram(nil, "好", -1.0, 0)
	b.AddNgram([]string{"你"}, "好", -2.0, 0)
	b.AddNgram(nil, "</s>", -0.01, 0)
	return b.DumpHashed(1.0)
}

func TestDecodePrefersLowerCostWholeWord(t *testing.T) {
	d := dict.New()
	d.AddWord(dict.SystemDict, mustEncode(t, "ni'hao"), "你好", 1.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "ni"), "你", 5.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "hao"), "好", 5.0)

	m := buildModel(t)
	dec := New(d, m, 0)
	g := pinyin.ParseUserPinyin("nihao", pinyin.FuzzyNone)

	l := NewLattice()
	dec.Decode(l, g, 5, m.Start(), 1e9, -1e9, 0, 0, pinyin.FuzzyNone)

	if l.SentenceSize() == 0 {
		t.Fatalf("expected at least one sentence")
	}
	top := l.Sentence(0)
	if len(top.Sentence) != 1 || top.Sentence[0].Word != "你好" {
		t.Fatalf("top sentence = %v, want single word 你好", top.Sentence)
	}
}

func TestDecodeOrdersSentencesDescendingByScore(t *testing.T) {
	d := dict.New()
	d.AddWord(dict.SystemDict, mustEncode(t, "ni'hao"), "你好", 1.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "ni"), "你", 5.0)
	d.AddWord(dict.SystemDict, mustEncode(t, "hao"), "好", 5.0)

	m := buildModel(t)
	dec := New(d, m, 0)
	g := pinyin.ParseUserPinyin("nihao", pinyin.FuzzyNone)

	l := NewLattice()
	dec.Decode(l, g, 5, m.Start(), 1e9, -1e9, 0, 0, pinyin.FuzzyNone)

	for i := 1; i < l.SentenceSize(); i++ {
		if l.Sentence(i-1).Score < l.Sentence(i).Score {
			t.Fatalf("sentences not sorted descending by score")
		}
	}
}

func TestDiscardNodeInvalidatesCacheAndLattice(t *testing.T) {
	d := dict.New()
	d.AddWord(dict.SystemDict, mustEncode(t, "ni"), "你", 1.0)

	m := buildModel(t)
	dec := New(d, m, 0)
	g := pinyin.ParseUserPinyin("ni", pinyin.FuzzyNone)

	l := NewLattice()
	dec.Decode(l, g, 1, m.Start(), 1e9, -1e9, 0, 0, pinyin.FuzzyNone)
	if l.SentenceSize() == 0 {
		t.Fatalf("expected a decoded sentence before discard")
	}

	removed := map[*segment.Node]bool{g.End(): true}
	dec.DiscardNode(l, removed)
	if len(l.Nodes(g.End())) != 0 {
		t.Fatalf("expected DiscardNode to drop lattice nodes ending at the removed node")
	}
}
