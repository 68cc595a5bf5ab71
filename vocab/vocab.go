// Package vocab is the shared word/index identity space used by the
// language model and the dictionary tries: a word node (spec.md §3) is
// the tuple (text, word-index), and the word-index is assigned here.
package vocab

// Word is the index of a word in a Vocab. The language model's
// vocabulary assigns these; dictionaries look words up in the same
// space so that a lattice node's word-index always means the same
// thing to both the decoder and the scorer.
type Word uint32

// Reserved indices. A freshly constructed Vocab always has these three
// at positions 0, 1, 2 in that order.
const (
	UNK Word = 0
	BOS Word = 1
	EOS Word = 2
)

// Vocab is the mapping between word text and Word indices. Must be
// constructed with New so that UNK, BOS, and EOS are populated.
type Vocab struct {
	Unk, BOS, EOS string // For obvious reasons, callers should not modify these.
	id2str        []string
	str2id        map[string]Word
}

// New constructs a Vocab whose reserved words are unk, bos, eos (which
// must be pairwise distinct).
func New(unk, bos, eos string) *Vocab {
	if unk == bos || unk == eos || bos == eos {
		panic("vocab.New: unk, bos, and eos can not be the same")
	}
	id2str := []string{UNK: unk, BOS: bos, EOS: eos}
	str2id := map[string]Word{unk: UNK, bos: BOS, eos: EOS}
	return &Vocab{unk, bos, eos, id2str, str2id}
}

// Copy returns a new Vocab that can be modified without changing v.
func (v *Vocab) Copy() *Vocab {
	c := *v
	c.id2str = make([]string, len(v.id2str))
	copy(c.id2str, v.id2str)
	c.str2id = make(map[string]Word, len(v.str2id))
	for k, id := range v.str2id {
		c.str2id[k] = id
	}
	return &c
}

// Bound returns the largest Word + 1.
func (v *Vocab) Bound() Word { return Word(len(v.id2str)) }

// IdOf looks up the Word of s. If s is not present, UNK is returned.
func (v *Vocab) IdOf(s string) Word {
	if id, ok := v.str2id[s]; ok {
		return id
	}
	return UNK
}

// Contains reports whether s has been assigned a Word (the unknown-word
// symbol itself included).
func (v *Vocab) Contains(s string) bool {
	_, ok := v.str2id[s]
	return ok
}

// StringOf looks up the string of the given Word. Only safe when i is
// UNK, BOS, EOS, or was returned from IdOf or IdOrAdd.
func (v *Vocab) StringOf(i Word) string { return v.id2str[i] }

// IdOrAdd looks up s and assigns it a fresh Word if not present. Not
// thread-safe: it may append to the vocabulary. The returned Word is
// UNK if and only if s == v.Unk.
func (v *Vocab) IdOrAdd(s string) Word {
	i, ok := v.str2id[s]
	if !ok {
		i = v.Bound()
		v.id2str = append(v.id2str, s)
		v.str2id[s] = i
	}
	return i
}
