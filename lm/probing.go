package lm

// Open-addressed probing hash table over (word -> StateWeight), directly
// grounded on the teacher's xqwMap/xqwBuckets (probing_impl.go,
// probing_params.go), retargeted from the unseen github.com/kho/word
// package onto this module's vocab.Word.

import (
	"bytes"
	"encoding/gob"

	"github.com/fcitx/libime-sub001/vocab"
)

// wordHash is the teacher's fast-hash mix function
// (https://code.google.com/p/fast-hash), unchanged.
func wordHash(k vocab.Word) uint {
	h := uint64(k)
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return uint(h)
}

type xqwEntry struct {
	Key   vocab.Word
	Value StateWeight
}

type xqwBuckets []xqwEntry

func xqwInitBuckets(n int) xqwBuckets {
	s := make(xqwBuckets, n)
	for i := range s {
		s[i].Key = nilWord
	}
	return s
}

func (b xqwBuckets) Size() (n int) {
	for _, e := range b {
		if e.Key != nilWord {
			n++
		}
	}
	return
}

func (b xqwBuckets) start(k vocab.Word) int { return int(wordHash(k) % uint(len(b))) }

// FindEntry returns the bucket holding k, or (if k is absent) the bucket
// holding the back-off transition (key == nilWord). Spec.md §4.8/§4.9's
// back-off walk relies on this never returning nil.
func (b xqwBuckets) FindEntry(k vocab.Word) *xqwEntry {
	i := b.start(k)
	for {
		e := &b[i]
		if e.Key == k || e.Key == nilWord {
			return e
		}
		i++
		if i == len(b) {
			i = 0
		}
	}
}

func (b xqwBuckets) nextAvailable(k vocab.Word) *xqwEntry {
	i := b.start(k)
	for {
		e := &b[i]
		if e.Key == nilWord {
			return e
		}
		i++
		if i == len(b) {
			i = 0
		}
	}
}

func (b xqwBuckets) Range() []xqwEntry {
	out := make([]xqwEntry, 0, b.Size())
	for _, e := range b {
		if e.Key != nilWord {
			out = append(out, e)
		}
	}
	return out
}

// xqwMap is the growable construction-time map used by Builder; it is
// folded down into a fixed xqwBuckets per state once the model is built.
type xqwMap struct {
	buckets               xqwBuckets
	numEntries, threshold int
}

func newXqwMap(initNumBuckets int, maxUsed float64) *xqwMap {
	if initNumBuckets == 0 {
		initNumBuckets = 4
	} else if initNumBuckets < 2 {
		initNumBuckets = 2
	}
	if maxUsed <= 0 || maxUsed >= 1 {
		maxUsed = 0.8
	}
	threshold := int(float64(initNumBuckets) * maxUsed)
	if threshold < 1 {
		threshold = 1
	}
	if threshold > initNumBuckets-1 {
		threshold = initNumBuckets - 1
	}
	return &xqwMap{xqwInitBuckets(initNumBuckets), 0, threshold}
}

func (m *xqwMap) Size() int { return m.numEntries }

func (m *xqwMap) Find(k vocab.Word) *StateWeight {
	e := m.buckets.FindEntry(k)
	if e.Key != k {
		return nil
	}
	return &e.Value
}

func (m *xqwMap) FindOrInsert(k vocab.Word) *StateWeight {
	e := m.buckets.FindEntry(k)
	if e.Key == k {
		return &e.Value
	}
	if m.numEntries >= m.threshold {
		m.Resize(len(m.buckets) * 2)
		e = m.buckets.nextAvailable(k)
	}
	*e = xqwEntry{Key: k}
	m.numEntries++
	return &e.Value
}

func (m *xqwMap) Resize(numBuckets int) {
	if numBuckets < m.numEntries+1 {
		numBuckets = m.numEntries + 1
	}
	buckets := xqwInitBuckets(numBuckets)
	for _, e := range m.buckets {
		if e.Key != nilWord {
			*buckets.nextAvailable(e.Key) = e
		}
	}
	oldNumBuckets := len(m.buckets)
	m.buckets = buckets
	m.threshold = m.threshold * numBuckets / oldNumBuckets
	if m.threshold < m.numEntries {
		m.threshold = m.numEntries
	}
}

func (m *xqwMap) Range() []xqwEntry { return m.buckets.Range() }

func (m *xqwMap) MarshalBinary() (data []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err = enc.Encode(m.buckets); err != nil {
		return
	}
	if err = enc.Encode(m.numEntries); err != nil {
		return
	}
	if err = enc.Encode(m.threshold); err != nil {
		return
	}
	return buf.Bytes(), nil
}

func (m *xqwMap) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m.buckets); err != nil {
		return err
	}
	if err := dec.Decode(&m.numEntries); err != nil {
		return err
	}
	return dec.Decode(&m.threshold)
}
