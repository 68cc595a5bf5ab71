package dict

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fcitx/libime-sub001/ierr"
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

func TestAddWordMatchWords(t *testing.T) {
	d := New()
	code := mustEncode(t, "ni'hao")
	if err := d.AddWord(SystemDict, code, "你好", 1.5); err != nil {
		t.Fatalf("AddWord: %v", err)
	}

	var got []string
	d.MatchWords(code, func(word string, cost float32, layer int) {
		got = append(got, word)
		if layer != SystemDict {
			t.Errorf("layer = %d, want %d", layer, SystemDict)
		}
		if cost != 1.5 {
			t.Errorf("cost = %v, want 1.5", cost)
		}
	})
	if len(got) != 1 || got[0] != "你好" {
		t.Fatalf("MatchWords = %v, want [你好]", got)
	}
}

func TestRemoveWord(t *testing.T) {
	d := New()
	code := mustEncode(t, "ni'hao")
	d.AddWord(UserDict, code, "你好", 0)

	ok, err := d.RemoveWord(UserDict, code, "你好")
	if err != nil || !ok {
		t.Fatalf("RemoveWord = %v, %v, want true, nil", ok, err)
	}

	var got []string
	d.MatchWords(code, func(word string, cost float32, layer int) { got = append(got, word) })
	if len(got) != 0 {
		t.Fatalf("expected no matches after removal, got %v", got)
	}

	ok, err = d.RemoveWord(UserDict, code, "你好")
	if err != nil || ok {
		t.Fatalf("second RemoveWord = %v, %v, want false, nil", ok, err)
	}
}

func TestRemoveUserDictGuarded(t *testing.T) {
	d := New()
	if err := d.Remove(UserDict); err == nil {
		t.Fatalf("expected error removing UserDict")
	} else if !errors.Is(err, ierr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRemoveAllKeepsSystemAndUser(t *testing.T) {
	d := New()
	d.AddLayer()
	d.AddLayer()
	if d.NumLayers() != 4 {
		t.Fatalf("NumLayers = %d, want 4", d.NumLayers())
	}
	d.RemoveAll()
	if d.NumLayers() != 2 {
		t.Fatalf("NumLayers after RemoveAll = %d, want 2", d.NumLayers())
	}
}

func TestDictionaryChangedSignal(t *testing.T) {
	d := New()
	var firedLayer = -1
	d.OnChange(func(layer int) { firedLayer = layer })
	d.AddWord(SystemDict, mustEncode(t, "a"), "啊", 0)
	if firedLayer != SystemDict {
		t.Fatalf("firedLayer = %d, want %d", firedLayer, SystemDict)
	}
}

func TestMatchWordsPrefixFindsContinuations(t *testing.T) {
	d := New()
	zhong := mustEncode(t, "zhong")
	zhongguo := mustEncode(t, "zhong'guo")
	d.AddWord(SystemDict, zhongguo, "中国", 0)

	var words []string
	d.MatchWordsPrefix(zhong, func(word string, full []byte, cost float32, layer int) {
		words = append(words, word)
	})
	if len(words) != 1 || words[0] != "中国" {
		t.Fatalf("MatchWordsPrefix(zhong) = %v, want [中国]", words)
	}
}

func TestMatchPrefixOverSegmentGraph(t *testing.T) {
	d := New()
	d.AddWord(SystemDict, mustEncode(t, "ni'hao"), "你好", 2.0)
	d.AddWord(SystemDict, mustEncode(t, "ni"), "你", 5.0)

	g := pinyin.ParseUserPinyin("nihao", pinyin.FuzzyNone)

	var matches []Match
	d.MatchPrefix(g, pinyin.FuzzyNone, func(m Match) { matches = append(matches, m) })

	foundFull, foundPrefix := false, false
	for _, m := range matches {
		if m.Word == "你好" && m.Start == 0 && m.End == 5 {
			foundFull = true
		}
		if m.Word == "你" && m.Start == 0 {
			foundPrefix = true
		}
	}
	if !foundFull {
		t.Errorf("expected a full match for 你好 covering [0,5), got %v", matches)
	}
	if !foundPrefix {
		t.Errorf("expected a match for 你, got %v", matches)
	}
}

func TestMatchPrefixZeroFinalWildcard(t *testing.T) {
	d := New()
	d.AddWord(SystemDict, mustEncode(t, "hao"), "好", 1.0)

	g := segment.New("h")
	g.AddNext(0, 1)

	var matches []Match
	d.MatchPrefix(g, pinyin.FuzzyNone, func(m Match) { matches = append(matches, m) })
	if len(matches) != 1 || matches[0].Word != "好" || !matches[0].Fuzzy {
		t.Fatalf("expected fuzzy zero-final match for 好, got %v", matches)
	}
}

func TestTextSaveLoadRoundTrip(t *testing.T) {
	d := New()
	d.AddWord(SystemDict, mustEncode(t, "ni'hao"), "你好", 1.25)
	d.AddWord(SystemDict, mustEncode(t, "zhong'guo"), "中国", 0)

	var buf bytes.Buffer
	if err := d.Save(SystemDict, &buf, Text); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d2 := New()
	if err := d2.Load(SystemDict, strings.NewReader(buf.String()), Text); err != nil {
		t.Fatalf("Load: %v\n%s", err, buf.String())
	}

	var words []string
	d2.MatchWords(mustEncode(t, "ni'hao"), func(word string, cost float32, layer int) {
		words = append(words, word)
		if cost != 1.25 {
			t.Errorf("cost = %v, want 1.25", cost)
		}
	})
	if len(words) != 1 || words[0] != "你好" {
		t.Fatalf("round-tripped MatchWords(ni'hao) = %v", words)
	}
}

func TestBinarySaveLoadRoundTrip(t *testing.T) {
	d := New()
	d.AddWord(SystemDict, mustEncode(t, "ni'hao"), "你好", 0.5)

	var buf bytes.Buffer
	if err := d.Save(SystemDict, &buf, Binary); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d2 := New()
	if err := d2.Load(SystemDict, &buf, Binary); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var words []string
	d2.MatchWords(mustEncode(t, "ni'hao"), func(word string, cost float32, layer int) { words = append(words, word) })
	if len(words) != 1 || words[0] != "你好" {
		t.Fatalf("round-tripped binary MatchWords = %v", words)
	}
}
