package lm

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/vocab"
)

// Sorted is a finite-state n-gram model whose per-state transitions are
// kept sorted by word and looked up with binary search: smaller than
// Hashed (no empty buckets) at the cost of O(log n) lookups. Useful for
// memory-constrained hosts (spec.md doesn't mandate one representation
// over the other; this module keeps both the way the teacher does).
type Sorted struct {
	vocab        *vocab.Vocab
	bos, eos     string
	bosId, eosId vocab.Word
	// transitions[p] is sorted by Word ascending, with the back-off
	// transition (Word == nilWord) always last.
	transitions [][]WordStateWeight
}

func (m *Sorted) Start() StateId { return stateStart }

func (m *Sorted) findNext(p StateId, x vocab.Word) *WordStateWeight {
	next := m.transitions[p]
	l, h := 0, len(next)
	for l < h {
		mid := l + (h-l)>>1
		switch {
		case next[mid].Word < x:
			l = mid + 1
		case next[mid].Word > x:
			h = mid
		default:
			return &next[mid]
		}
	}
	return &next[len(next)-1]
}

func (m *Sorted) NextI(p StateId, x vocab.Word) (q StateId, w Weight) {
	if x == vocab.UNK {
		return stateEmpty, WeightLog0
	}
	next := m.findNext(p, x)
	for next.Word == nilWord && p != stateEmpty {
		p = next.State
		w += next.Weight
		next = m.findNext(p, x)
	}
	if next.Word != nilWord {
		q = next.State
		w += next.Weight
	} else {
		q = stateEmpty
		w = WeightLog0
	}
	return
}

func (m *Sorted) NextS(p StateId, s string) (q StateId, w Weight) { return m.NextI(p, m.vocab.IdOf(s)) }

func (m *Sorted) Final(p StateId) Weight { _, w := m.NextI(p, m.eosId); return w }

func (m *Sorted) BackOff(p StateId) (StateId, Weight) {
	if p == stateEmpty {
		return StateNil, 0
	}
	next := m.transitions[p]
	bo := next[len(next)-1]
	return bo.State, bo.Weight
}

func (m *Sorted) Vocab() (*vocab.Vocab, string, string, vocab.Word, vocab.Word) {
	return m.vocab, m.bos, m.eos, m.bosId, m.eosId
}

func (m *Sorted) NumStates() int { return len(m.transitions) }

func (m *Sorted) Transitions(p StateId) []WordStateWeight {
	next := m.transitions[p]
	return append([]WordStateWeight(nil), next[:len(next)-1]...)
}

type byWord []WordStateWeight

func (s byWord) Len() int           { return len(s) }
func (s byWord) Less(i, j int) bool { return s[i].Word < s[j].Word }
func (s byWord) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func (m *Sorted) MarshalBinary() (data []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []interface{}{m.vocab, m.bos, m.eos, m.transitions} {
		if err = enc.Encode(v); err != nil {
			return
		}
	}
	return buf.Bytes(), nil
}

func (m *Sorted) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	for _, v := range []interface{}{&m.vocab, &m.bos, &m.eos, &m.transitions} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	return m.resolveBoundary()
}

func (m *Sorted) resolveBoundary() error {
	if !m.vocab.Contains(m.bos) {
		return fmt.Errorf("%w: %s not in vocabulary", ierr.ErrInvalidFormat, m.bos)
	}
	if !m.vocab.Contains(m.eos) {
		return fmt.Errorf("%w: %s not in vocabulary", ierr.ErrInvalidFormat, m.eos)
	}
	m.bosId = m.vocab.IdOf(m.bos)
	m.eosId = m.vocab.IdOf(m.eos)
	return nil
}

// WriteBinary mirrors Hashed.WriteBinary: magic, gob header (vocab +
// boundary + per-state transition counts), then the raw WordStateWeight
// entries, with no alignment padding, for mmap loading.
func (m *Sorted) WriteBinary(path string) (err error) {
	w, err := os.Create(path)
	if err != nil {
		return
	}
	defer w.Close()
	if _, err = w.Write([]byte(MagicSorted)); err != nil {
		return
	}
	var hbuf bytes.Buffer
	enc := gob.NewEncoder(&hbuf)
	for _, v := range []interface{}{m.vocab, m.bos, m.eos} {
		if err = enc.Encode(v); err != nil {
			return
		}
	}
	counts := make([]int, len(m.transitions))
	for i, t := range m.transitions {
		counts[i] = len(t)
	}
	if err = enc.Encode(counts); err != nil {
		return
	}
	header := hbuf.Bytes()
	headerLenBytes := make([]byte, binary.MaxVarintLen64)
	binary.PutUvarint(headerLenBytes, uint64(len(header)))
	if _, err = w.Write(headerLenBytes); err != nil {
		return
	}
	if _, err = w.Write(header); err != nil {
		return
	}
	for _, t := range m.transitions {
		if err = binary.Write(w, binary.LittleEndian, t); err != nil {
			return
		}
	}
	return nil
}

func (m *Sorted) unsafeParseBinary(raw []byte) error {
	if string(raw[:len(MagicSorted)]) != MagicSorted {
		return fmt.Errorf("%w: not a libime LM binary file", ierr.ErrInvalidFormat)
	}
	read := uintptr(len(MagicSorted))
	headerLen, n := binary.Uvarint(raw[read : read+binary.MaxVarintLen64])
	if n <= 0 {
		return fmt.Errorf("%w: error reading header size", ierr.ErrInvalidFormat)
	}
	read += binary.MaxVarintLen64
	dec := gob.NewDecoder(bytes.NewReader(raw[read : read+uintptr(headerLen)]))
	var counts []int
	for _, v := range []interface{}{&m.vocab, &m.bos, &m.eos} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	if err := m.resolveBoundary(); err != nil {
		return err
	}
	if err := dec.Decode(&counts); err != nil {
		return err
	}
	read += uintptr(headerLen)
	size := unsafe.Sizeof(WordStateWeight{})
	entryBytes := raw[read:]
	var entries []WordStateWeight
	srcHdr := (*reflect.SliceHeader)(unsafe.Pointer(&entryBytes))
	dstHdr := (*reflect.SliceHeader)(unsafe.Pointer(&entries))
	dstHdr.Data = srcHdr.Data
	dstHdr.Len = srcHdr.Len / int(size)
	dstHdr.Cap = dstHdr.Len
	m.transitions = make([][]WordStateWeight, len(counts))
	low := 0
	for i, c := range counts {
		m.transitions[i] = entries[low : low+c]
		low += c
	}
	return nil
}

// FromSortedBinary mmaps path and parses a Sorted model directly out of
// the mapped bytes, valid only while the MappedFile stays open.
func FromSortedBinary(path string) (*Sorted, *MappedFile, error) {
	mf, err := OpenMappedFile(path)
	if err != nil {
		return nil, nil, err
	}
	var m Sorted
	if err := m.unsafeParseBinary(mf.data); err != nil {
		mf.Close()
		return nil, nil, err
	}
	return &m, mf, nil
}
