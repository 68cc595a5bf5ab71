// Package pinyin is the syllable codec of spec.md §3/§4.3: a bijection
// between human pinyin spellings and a compact 2-byte-per-syllable wire
// form, plus the fuzzy-matching and segmentation machinery the decoder
// front end needs to turn raw keystrokes into a segment.Graph.
package pinyin

// Initial is one of the ~24 consonant-or-empty onsets a syllable can
// start with.
type Initial int8

// Final is one of the ~36 vowel-or-nasal codas a syllable can end with.
type Final int8

const (
	InitialInvalid Initial = 0
)

const (
	InitialB Initial = iota + 1
	InitialP
	InitialM
	InitialF
	InitialD
	InitialT
	InitialN
	InitialL
	InitialG
	InitialK
	InitialH
	InitialJ
	InitialQ
	InitialX
	InitialZH
	InitialCH
	InitialSH
	InitialR
	InitialZ
	InitialC
	InitialS
	InitialY
	InitialW
	InitialZero
)

const (
	FinalInvalid Final = 0
)

const (
	FinalA Final = iota + 1
	FinalAI
	FinalAN
	FinalANG
	FinalAO
	FinalE
	FinalEI
	FinalEN
	FinalENG
	FinalER
	FinalO
	FinalONG
	FinalOU
	FinalI
	FinalIA
	FinalIE
	FinalIAO
	FinalIU
	FinalIAN
	FinalIN
	FinalIANG
	FinalING
	FinalIONG
	FinalU
	FinalUA
	FinalUO
	FinalUAI
	FinalUI
	FinalUAN
	FinalUN
	FinalUANG
	FinalV
	FinalVE
	FinalUE
	FinalNG
	FinalZero
)

// FirstInitial/LastInitial and FirstFinal/LastFinal bound the valid
// non-Invalid range, for bitmap indexing.
const (
	FirstInitial = InitialB
	LastInitial  = InitialZero
	FirstFinal   = FinalA
	LastFinal    = FinalZero
)

// Separator is the human-form delimiter between syllables.
const Separator = '\''

var initialNames = [...]string{
	InitialB: "b", InitialP: "p", InitialM: "m", InitialF: "f",
	InitialD: "d", InitialT: "t", InitialN: "n", InitialL: "l",
	InitialG: "g", InitialK: "k", InitialH: "h",
	InitialJ: "j", InitialQ: "q", InitialX: "x",
	InitialZH: "zh", InitialCH: "ch", InitialSH: "sh", InitialR: "r",
	InitialZ: "z", InitialC: "c", InitialS: "s",
	InitialY: "y", InitialW: "w", InitialZero: "",
}

var finalNames = [...]string{
	FinalA: "a", FinalAI: "ai", FinalAN: "an", FinalANG: "ang", FinalAO: "ao",
	FinalE: "e", FinalEI: "ei", FinalEN: "en", FinalENG: "eng", FinalER: "er",
	FinalO: "o", FinalONG: "ong", FinalOU: "ou",
	FinalI: "i", FinalIA: "ia", FinalIE: "ie", FinalIAO: "iao", FinalIU: "iu",
	FinalIAN: "ian", FinalIN: "in", FinalIANG: "iang", FinalING: "ing", FinalIONG: "iong",
	FinalU: "u", FinalUA: "ua", FinalUO: "uo", FinalUAI: "uai", FinalUI: "ui",
	FinalUAN: "uan", FinalUN: "un", FinalUANG: "uang",
	FinalV: "v", FinalVE: "ve", FinalUE: "ue", FinalNG: "ng", FinalZero: "",
}

var stringToInitialMap, stringToFinalMap = buildReverseMaps()

func buildReverseMaps() (map[string]Initial, map[string]Final) {
	is := make(map[string]Initial, len(initialNames))
	for i := FirstInitial; i <= LastInitial; i++ {
		is[initialNames[i]] = i
	}
	fs := make(map[string]Final, len(finalNames))
	for f := FirstFinal; f <= LastFinal; f++ {
		fs[finalNames[f]] = f
	}
	return is, fs
}

// InitialToString renders initial in its plain-ASCII form ("" for
// Zero/Invalid).
func InitialToString(initial Initial) string {
	if initial >= FirstInitial && initial <= LastInitial {
		return initialNames[initial]
	}
	return ""
}

// StringToInitial parses a bare initial spelling, or InitialInvalid.
func StringToInitial(s string) Initial {
	if i, ok := stringToInitialMap[s]; ok {
		return i
	}
	return InitialInvalid
}

// FinalToString renders final in its plain-ASCII form.
func FinalToString(final Final) string {
	if final >= FirstFinal && final <= LastFinal {
		return finalNames[final]
	}
	return ""
}

// StringToFinal parses a bare final spelling, or FinalInvalid.
func StringToFinal(s string) Final {
	if f, ok := stringToFinalMap[s]; ok {
		return f
	}
	return FinalInvalid
}

// Syllable is the in-memory (initial, final) pair a 2-byte code
// serializes.
type Syllable struct {
	Initial Initial
	Final   Final
}

// String renders the syllable's plain spelling (initial concatenated
// with final, no orthographic y/w/ü substitution).
func (s Syllable) String() string {
	return InitialToString(s.Initial) + FinalToString(s.Final)
}

// IsValidInitial reports whether c is in the encoded initial range.
func IsValidInitial(c Initial) bool { return c >= FirstInitial && c <= LastInitial }

// IsValidFinal reports whether c is in the encoded final range.
func IsValidFinal(c Final) bool { return c >= FirstFinal && c <= LastFinal }
