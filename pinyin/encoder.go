package pinyin

import (
	"fmt"
	"strings"

	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/segment"
)

// maxSyllableLength bounds how far longestMatch looks ahead; no
// syllable spelling in the table exceeds this.
const maxSyllableLength = 6

// innerSegment is the hand-tuned "a long syllable can also be read as
// two short ones" table consulted when FuzzyInner is set, generalizing
// spec.md's named example (xian -> xi + an) to every consonant+ian
// syllable where the "cons+i" prefix is itself a valid syllable.
var innerSegment = map[string][2]string{
	"bian": {"bi", "an"}, "pian": {"pi", "an"}, "mian": {"mi", "an"},
	"dian": {"di", "an"}, "tian": {"ti", "an"}, "nian": {"ni", "an"},
	"lian": {"li", "an"}, "jian": {"ji", "an"}, "qian": {"qi", "an"},
	"xian": {"xi", "an"},
}

// longestMatch finds the longest prefix of s recognized as a syllable
// (ignoring trailing incompleteness of m/n/r) and reports whether that
// prefix is usable as a complete syllable on its own.
func longestMatch(s string, flags FuzzyFlag) (match string, complete bool) {
	limit := len(s)
	if limit > maxSyllableLength {
		limit = maxSyllableLength
	}
	for n := limit; n > 0; n-- {
		candidate := s[:n]
		if sylls, ok := bySpelling[candidate]; ok {
			for _, syl := range sylls {
				if flags.Test(requiredFlagFor(syl)) {
					complete := candidate != "m" && candidate != "n" && candidate != "r"
					return candidate, complete
				}
			}
		}
		if n <= 2 && StringToInitial(candidate) != InitialInvalid {
			return candidate, false
		}
	}
	return s[:1], false
}

// requiredFlagFor is FuzzyNone for every compiled-in table entry: this
// module's table only stores canonical spellings, with fuzzy
// equivalence computed algorithmically in StringToSyllables rather than
// baked into extra table rows.
func requiredFlagFor(Syllable) FuzzyFlag { return FuzzyNone }

// endsInSplittable reports whether c is one of the letters a segment
// boundary may legally fall after when considering the greedy-vs-split
// ambiguity (pinyin syllables ending in these letters are the ones
// whose truncation-by-one is itself sometimes a valid syllable).
func endsInSplittable(c byte) bool {
	switch c {
	case 'a', 'e', 'g', 'n', 'o', 'r':
		return true
	}
	return false
}

// ParseUserPinyin segments raw keystrokes into a segment.Graph. See
// longestMatch for the core greedy rule and the endsInSplittable branch
// in the body for the ambiguity-preserving split.
func ParseUserPinyin(text string, flags FuzzyFlag) *segment.Graph {
	g := segment.New(text)
	queue := []int{0}
	queued := map[int]bool{0: true}
	visited := map[int]bool{}

	for len(queue) > 0 {
		top := queue[0]
		queue = queue[1:]
		if visited[top] || top >= len(text) {
			continue
		}
		visited[top] = true

		if text[top] == Separator {
			next := top
			for next < len(text) && text[next] == Separator {
				next++
			}
			g.AddNext(top, next)
			if next < len(text) && !queued[next] {
				queue = append(queue, next)
				queued[next] = true
			}
			continue
		}

		rest := text[top:]
		str, complete := longestMatch(rest, flags)

		if !complete {
			g.AddNext(top, top+len(str))
			if !queued[top+len(str)] {
				queue = append(queue, top+len(str))
				queued[top+len(str)] = true
			}
			continue
		}

		var splitLens []int
		if len(str) > 1 && top+len(str) < len(text) && text[top+len(str)] != Separator &&
			endsInSplittable(str[len(str)-1]) {
			if _, ok := bySpelling[str[:len(str)-1]]; ok {
				nextMatch, nextComplete := longestMatch(text[top+len(str):], flags)
				nextMatchAlt, nextCompleteAlt := longestMatch(text[top+len(str)-1:], flags)
				matchSize := len(str) + len(nextMatch)
				matchSizeAlt := len(str) - 1 + len(nextMatchAlt)

				if better(matchSize, nextComplete, matchSizeAlt, nextCompleteAlt) >= 0 {
					g.AddNext(top, top+len(str))
					splitLens = append(splitLens, len(str))
				}
				if better(matchSize, nextComplete, matchSizeAlt, nextCompleteAlt) <= 0 {
					g.AddNext(top, top+len(str)-1)
					splitLens = append(splitLens, len(str)-1)
				}
			} else {
				g.AddNext(top, top+len(str))
				splitLens = append(splitLens, len(str))
			}
		} else {
			g.AddNext(top, top+len(str))
			splitLens = append(splitLens, len(str))
		}

		for _, n := range splitLens {
			end := top + n
			if !queued[end] {
				queue = append(queue, end)
				queued[end] = true
			}
			if n >= 4 && flags.Test(FuzzyInner) {
				if parts, ok := innerSegment[text[top:end]]; ok {
					mid := top + len(parts[0])
					g.AddNext(top, mid)
					g.AddNext(mid, end)
					if !queued[mid] {
						queue = append(queue, mid)
						queued[mid] = true
					}
				}
			}
		}
	}
	return g
}

// better compares (size, complete) pairs lexicographically, complete
// sorting after incomplete, returning >0, 0, or <0 the way bytes.Compare
// does.
func better(sizeA int, completeA bool, sizeB int, completeB bool) int {
	if sizeA != sizeB {
		if sizeA > sizeB {
			return 1
		}
		return -1
	}
	if completeA == completeB {
		return 0
	}
	if completeA {
		return 1
	}
	return -1
}

// EncodeFullPinyin converts a '-joined sequence of canonical (non-fuzzy)
// syllable spellings into its 2-byte-per-syllable wire form.
func EncodeFullPinyin(text string) ([]byte, error) {
	parts := strings.Split(text, string(Separator))
	out := make([]byte, 0, len(parts)*2)
	for _, p := range parts {
		sylls, ok := bySpelling[p]
		if !ok || len(sylls) == 0 {
			return nil, fmt.Errorf("%w: invalid full pinyin syllable %q in %q", ierr.ErrInvalidArgument, p, text)
		}
		syl := sylls[0]
		out = append(out, byte(syl.Initial), byte(syl.Final))
	}
	return out, nil
}

// DecodeFullPinyin is the inverse of EncodeFullPinyin.
func DecodeFullPinyin(code []byte) (string, error) {
	if len(code)%2 != 0 {
		return "", fmt.Errorf("%w: odd-length encoded pinyin (%d bytes)", ierr.ErrInvalidArgument, len(code))
	}
	var b strings.Builder
	for i := 0; i < len(code); i += 2 {
		if i > 0 {
			b.WriteByte(Separator)
		}
		syl := Syllable{Initial(code[i]), Final(code[i+1])}
		b.WriteString(spellingOf(syl))
	}
	return b.String(), nil
}
