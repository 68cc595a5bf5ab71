package pinyin

import (
	"testing"

	"github.com/fcitx/libime-sub001/segment"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{"ni'hao", "zhong'guo", "xi'an", "a"}
	for _, c := range cases {
		code, err := EncodeFullPinyin(c)
		if err != nil {
			t.Fatalf("EncodeFullPinyin(%q): %v", c, err)
		}
		got, err := DecodeFullPinyin(code)
		if err != nil {
			t.Fatalf("DecodeFullPinyin after encoding %q: %v", c, err)
		}
		if got != c {
			t.Errorf("round trip %q -> %q, want %q", c, got, c)
		}
	}
}

func TestEncodeFullPinyinBytes(t *testing.T) {
	code, err := EncodeFullPinyin("ni'hao")
	if err != nil {
		t.Fatalf("EncodeFullPinyin: %v", err)
	}
	want := []byte{byte(InitialN), byte(FinalI), byte(InitialH), byte(FinalAO)}
	if len(code) != len(want) {
		t.Fatalf("code = %v, want %v", code, want)
	}
	for i := range want {
		if code[i] != want[i] {
			t.Fatalf("code = %v, want %v", code, want)
		}
	}
}

func TestDecodeFullPinyinOddLength(t *testing.T) {
	if _, err := DecodeFullPinyin([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for odd-length input")
	}
}

func TestEncodeFullPinyinRejectsUnknown(t *testing.T) {
	if _, err := EncodeFullPinyin("xxx"); err == nil {
		t.Fatalf("expected error for unknown syllable")
	}
}

// reachability walks g forward from start, returning the set of offsets
// reached, and separately whether every node (besides isolated dead
// ends the algorithm never produces) can still reach end.
func reachableOffsets(g *segment.Graph) map[int]bool {
	seen := map[*segment.Node]bool{}
	offsets := map[int]bool{}
	var walk func(n *segment.Node)
	walk = func(n *segment.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		offsets[n.Start()] = true
		for _, next := range n.Next() {
			walk(next)
		}
	}
	walk(g.Start())
	return offsets
}

func canReachEnd(g *segment.Graph, n *segment.Node, memo map[*segment.Node]bool) bool {
	if n == g.End() {
		return true
	}
	if v, ok := memo[n]; ok {
		return v
	}
	memo[n] = false // break cycles defensively; graph is a DAG so this never triggers
	for _, next := range n.Next() {
		if canReachEnd(g, next, memo) {
			memo[n] = true
			return true
		}
	}
	return memo[n]
}

func TestParseUserPinyinWellFormed(t *testing.T) {
	for _, text := range []string{"nihao", "jinan", "xian", "zhongguo", "ni'hao"} {
		g := ParseUserPinyin(text, FuzzyNone)

		reached := reachableOffsets(g)
		if !reached[len(text)] {
			t.Errorf("%q: end offset %d not reachable from start", text, len(text))
		}

		memo := map[*segment.Node]bool{}
		for offset := range reached {
			for _, n := range g.Nodes(offset) {
				if !canReachEnd(g, n, memo) {
					t.Errorf("%q: node at offset %d cannot reach end", text, offset)
				}
			}
		}

		for offset := range reached {
			for _, n := range g.Nodes(offset) {
				for _, next := range n.Next() {
					if next.Start() <= n.Start() {
						t.Errorf("%q: edge %d->%d does not strictly increase offset", text, n.Start(), next.Start())
					}
				}
			}
		}
	}
}

func TestParseUserPinyinGreedySplit(t *testing.T) {
	g := ParseUserPinyin("jinan", FuzzyNone)
	found := false
	for _, n := range g.Nodes(0) {
		for _, next := range n.Next() {
			if next.Start() == 3 { // "jin"
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected jinan to contain the jin|an split")
	}
}

func TestParseUserPinyinInnerSegmentation(t *testing.T) {
	g := ParseUserPinyin("xian", FuzzyInner)
	var offsets []int
	for _, n := range g.Nodes(0) {
		for _, next := range n.Next() {
			offsets = append(offsets, next.Start())
		}
	}
	sawWhole, sawSplit := false, false
	for _, o := range offsets {
		if o == 4 {
			sawWhole = true
		}
		if o == 2 {
			sawSplit = true
		}
	}
	if !sawWhole {
		t.Errorf("expected whole-syllable edge 0->4 for xian")
	}
	if !sawSplit {
		t.Errorf("expected inner-segmentation edge 0->2 for xian (xi|an)")
	}
}

func TestIsValidInitialFinal(t *testing.T) {
	if !IsValidInitialFinal(InitialN, FinalI) {
		t.Errorf("n+i should be valid (ni)")
	}
	if IsValidInitialFinal(InitialB, FinalIONG) {
		t.Errorf("b+iong should not be valid")
	}
	if IsValidInitialFinal(InitialInvalid, FinalA) {
		t.Errorf("Invalid initial should never be valid")
	}
}

func TestStringToSyllablesFuzzy(t *testing.T) {
	none := StringToSyllables("hui", FuzzyNone)
	if len(none) != 1 || none[0].Initial != InitialH {
		t.Fatalf("StringToSyllables(hui, none) = %v", none)
	}

	fuzzy := StringToSyllables("lan", FuzzyL_N)
	var initials []Initial
	for _, c := range fuzzy {
		initials = append(initials, c.Initial)
	}
	if len(initials) != 2 {
		t.Fatalf("expected L_N fuzzy to surface both L and N initials, got %v", initials)
	}
}
