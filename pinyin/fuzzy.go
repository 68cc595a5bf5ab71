package pinyin

// FuzzyFlag is one independently togglable fuzzy-pinyin equivalence
// class a user's input profile may enable to tolerate a regional
// typing habit (e.g. not distinguishing "n" and "l").
type FuzzyFlag uint32

const (
	FuzzyNone FuzzyFlag = 0

	FuzzyNG_GN FuzzyFlag = 1 << iota
	FuzzyV_U
	FuzzyAN_ANG
	FuzzyEN_ENG
	FuzzyIAN_IANG
	FuzzyIN_ING
	FuzzyU_OU
	FuzzyUAN_UANG
	FuzzyC_CH
	FuzzyF_H
	FuzzyL_N
	FuzzyS_SH
	FuzzyZ_ZH
	FuzzyVE_UE
	// FuzzyInner enables the "inner segmentation" table (xian -> xi+an).
	FuzzyInner
)

// Test reports whether every bit in required is set in f. FuzzyNone
// always passes: a syllable with no fuzzy requirement is always a
// candidate regardless of which flags the caller enabled.
func (f FuzzyFlag) Test(required FuzzyFlag) bool {
	return required == FuzzyNone || f&required == required
}

type initialFuzzyPair struct {
	a, b Initial
	flag FuzzyFlag
}

var initialFuzzies = []initialFuzzyPair{
	{InitialC, InitialCH, FuzzyC_CH},
	{InitialS, InitialSH, FuzzyS_SH},
	{InitialZ, InitialZH, FuzzyZ_ZH},
	{InitialF, InitialH, FuzzyF_H},
	{InitialL, InitialN, FuzzyL_N},
}

type finalFuzzyPair struct {
	a, b Final
	flag FuzzyFlag
}

var finalFuzzies = []finalFuzzyPair{
	{FinalV, FinalU, FuzzyV_U},
	{FinalAN, FinalANG, FuzzyAN_ANG},
	{FinalEN, FinalENG, FuzzyEN_ENG},
	{FinalIAN, FinalIANG, FuzzyIAN_IANG},
	{FinalIN, FinalING, FuzzyIN_ING},
	{FinalU, FinalOU, FuzzyU_OU},
	{FinalUAN, FinalUANG, FuzzyUAN_UANG},
	{FinalVE, FinalUE, FuzzyVE_UE},
}

// SyllableCandidate is one (initial, [final...]) group StringToSyllables
// produces: all finals sharing an initial, each tagged with whether it
// was reached only via a fuzzy substitution.
type SyllableCandidate struct {
	Initial Initial
	Finals  []FuzzyFinal
}

// FuzzyFinal pairs a final with whether reaching it required a fuzzy
// rule (as opposed to being the literal typed spelling).
type FuzzyFinal struct {
	Final   Final
	IsFuzzy bool
}

// StringToSyllables enumerates every (initial, final) pair consistent
// with a single already-segmented syllable spelling under flags,
// including zero-final (initial-only, e.g. the user has only typed "h"
// so far) and fuzzy-expanded variants.
func StringToSyllables(spelling string, flags FuzzyFlag) []SyllableCandidate {
	var result []SyllableCandidate

	// m/n/r alone are ambiguous between "the nasal syllable" and "an
	// incomplete initial"; prefer the initial-only reading so every final
	// starting with that initial remains reachable.
	if spelling != "m" && spelling != "n" && spelling != "r" {
		for _, syl := range bySpelling[spelling] {
			addFuzzy(&result, syl, flags)
		}
	}
	if initial := StringToInitial(spelling); initial != InitialInvalid {
		addFuzzy(&result, Syllable{initial, FinalInvalid}, flags)
	}
	if len(result) == 0 {
		result = append(result, SyllableCandidate{InitialInvalid, []FuzzyFinal{{FinalInvalid, false}}})
	}
	return result
}

func addFuzzy(result *[]SyllableCandidate, syl Syllable, flags FuzzyFlag) {
	initials := []Initial{syl.Initial}
	finals := []Final{syl.Final}

	// s/z/c with no final fuzzily reach their retroflex twins even
	// without the caller asking, mirroring the zero-final ambiguity the
	// encoder must tolerate while the user is still mid-syllable.
	if syl.Final == FinalInvalid {
		switch syl.Initial {
		case InitialC:
			flags |= FuzzyC_CH
		case InitialZ:
			flags |= FuzzyZ_ZH
		case InitialS:
			flags |= FuzzyS_SH
		}
	}

	for _, p := range initialFuzzies {
		if (syl.Initial == p.a || syl.Initial == p.b) && flags&p.flag != 0 {
			if syl.Initial == p.a {
				initials = append(initials, p.b)
			} else {
				initials = append(initials, p.a)
			}
			break
		}
	}
	for _, p := range finalFuzzies {
		if (syl.Final == p.a || syl.Final == p.b) && flags&p.flag != 0 {
			if syl.Final == p.a {
				finals = append(finals, p.b)
			} else {
				finals = append(finals, p.a)
			}
			break
		}
	}

	for i, initial := range initials {
		for j, final := range finals {
			isFuzzy := i > 0 || j > 0
			if !(i == 0 && j == 0) && final != FinalInvalid && !IsValidInitialFinal(initial, final) {
				continue
			}
			addCandidate(result, initial, final, isFuzzy)
		}
	}
}

func addCandidate(result *[]SyllableCandidate, initial Initial, final Final, isFuzzy bool) {
	for i := range *result {
		if (*result)[i].Initial == initial {
			for _, f := range (*result)[i].Finals {
				if f.Final == final {
					return
				}
			}
			(*result)[i].Finals = append((*result)[i].Finals, FuzzyFinal{final, isFuzzy})
			return
		}
	}
	*result = append(*result, SyllableCandidate{initial, []FuzzyFinal{{final, isFuzzy}}})
}
