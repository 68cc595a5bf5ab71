package lm

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"reflect"
	"syscall"
	"unsafe"

	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/vocab"
)

// Hashed is a finite-state n-gram model backed by an open-addressed
// probing hash table per state (O(1) expected lookup). Usually loaded
// from file or built with Builder.DumpHashed.
type Hashed struct {
	vocab        *vocab.Vocab
	bos, eos     string
	bosId, eosId vocab.Word
	// transitions[p] holds every lexical transition out of state p, plus
	// (in the bucket keyed by nilWord) the back-off transition.
	transitions []xqwBuckets
}

func (m *Hashed) Start() StateId { return stateStart }

func (m *Hashed) NextI(p StateId, x vocab.Word) (q StateId, w Weight) {
	if x == vocab.UNK {
		return stateEmpty, WeightLog0
	}
	next := m.transitions[p].FindEntry(x)
	for next.Key == nilWord && p != stateEmpty {
		p = next.Value.State
		w += next.Value.Weight
		next = m.transitions[p].FindEntry(x)
	}
	if next.Key != nilWord {
		q = next.Value.State
		w += next.Value.Weight
	} else {
		q = stateEmpty
		w = WeightLog0
	}
	return
}

func (m *Hashed) NextS(p StateId, s string) (q StateId, w Weight) { return m.NextI(p, m.vocab.IdOf(s)) }

func (m *Hashed) Final(p StateId) Weight { _, w := m.NextI(p, m.eosId); return w }

func (m *Hashed) BackOff(p StateId) (StateId, Weight) {
	if p == stateEmpty {
		return StateNil, 0
	}
	bo := m.transitions[p].FindEntry(nilWord).Value
	return bo.State, bo.Weight
}

func (m *Hashed) Vocab() (*vocab.Vocab, string, string, vocab.Word, vocab.Word) {
	return m.vocab, m.bos, m.eos, m.bosId, m.eosId
}

func (m *Hashed) NumStates() int { return len(m.transitions) }

func (m *Hashed) Transitions(p StateId) []WordStateWeight {
	es := m.transitions[p].Range()
	out := make([]WordStateWeight, 0, len(es))
	for _, e := range es {
		if e.Key != nilWord {
			out = append(out, WordStateWeight{e.Key, e.Value.State, e.Value.Weight})
		}
	}
	return out
}

// MarshalBinary uses gob. Slow, but only used for the non-mmap path
// (tests, small models); WriteBinary/FromBinary below are the fast path.
func (m *Hashed) MarshalBinary() (data []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []interface{}{m.vocab, m.bos, m.eos, m.transitions} {
		if err = enc.Encode(v); err != nil {
			return
		}
	}
	return buf.Bytes(), nil
}

func (m *Hashed) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	for _, v := range []interface{}{&m.vocab, &m.bos, &m.eos, &m.transitions} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	return m.resolveBoundary()
}

func (m *Hashed) resolveBoundary() error {
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

func (m *Hashed) header() (header []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []interface{}{m.vocab, m.bos, m.eos} {
		if err = enc.Encode(v); err != nil {
			return
		}
	}
	numBuckets := make([]int, len(m.transitions))
	for i, t := range m.transitions {
		numBuckets[i] = len(t)
	}
	if err = enc.Encode(numBuckets); err != nil {
		return
	}
	return buf.Bytes(), nil
}

func (m *Hashed) parseHeader(header []byte) (numBuckets []int, err error) {
	dec := gob.NewDecoder(bytes.NewReader(header))
	for _, v := range []interface{}{&m.vocab, &m.bos, &m.eos} {
		if err = dec.Decode(v); err != nil {
			return
		}
	}
	if err = m.resolveBoundary(); err != nil {
		return
	}
	err = dec.Decode(&numBuckets)
	return
}

// WriteBinary writes the little-endian on-disk image described by
// spec.md §6: magic, a gob header (vocab + boundary symbols + per-state
// bucket counts), then the raw, alignment-padded bucket entries so the
// file can be mmap'd back in directly (see FromBinary).
func (m *Hashed) WriteBinary(path string) (err error) {
	w, err := os.Create(path)
	if err != nil {
		return
	}
	defer w.Close()
	if _, err = w.Write([]byte(MagicHashed)); err != nil {
		return
	}
	header, err := m.header()
	if err != nil {
		return
	}
	headerLenBytes := make([]byte, binary.MaxVarintLen64)
	binary.PutUvarint(headerLenBytes, uint64(len(header)))
	if _, err = w.Write(headerLenBytes); err != nil {
		return
	}
	if _, err = w.Write(header); err != nil {
		return
	}
	written, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	align := unsafe.Alignof(xqwEntry{})
	if _, err = w.Write(make([]byte, uintptr(align)-uintptr(written)%uintptr(align))); err != nil {
		return
	}
	size := unsafe.Sizeof(xqwEntry{})
	for _, t := range m.transitions {
		hdr := (*reflect.SliceHeader)(unsafe.Pointer(&t))
		var raw []byte
		rawHdr := (*reflect.SliceHeader)(unsafe.Pointer(&raw))
		rawHdr.Data = hdr.Data
		rawHdr.Len = int(uintptr(hdr.Len) * size)
		rawHdr.Cap = rawHdr.Len
		if _, err = w.Write(raw); err != nil {
			return
		}
	}
	return nil
}

func (m *Hashed) unsafeParseBinary(raw []byte) error {
	if string(raw[:len(MagicHashed)]) != MagicHashed {
		return fmt.Errorf("%w: not a libime LM binary file", ierr.ErrInvalidFormat)
	}
	read := uintptr(len(MagicHashed))
	headerLen, n := binary.Uvarint(raw[read : read+binary.MaxVarintLen64])
	if n <= 0 {
		return fmt.Errorf("%w: error reading header size", ierr.ErrInvalidFormat)
	}
	read += binary.MaxVarintLen64
	numBuckets, err := m.parseHeader(raw[read : read+uintptr(headerLen)])
	if err != nil {
		return err
	}
	read += uintptr(headerLen)
	align, size := uintptr(unsafe.Alignof(xqwEntry{})), unsafe.Sizeof(xqwEntry{})
	read += align - read%align
	if (uintptr(len(raw))-read)%size != 0 {
		return fmt.Errorf("%w: number of left-over bytes are not a multiple of %d", ierr.ErrInvalidFormat, size)
	}
	entryBytes := raw[read:]
	var entries []xqwEntry
	srcHdr := (*reflect.SliceHeader)(unsafe.Pointer(&entryBytes))
	dstHdr := (*reflect.SliceHeader)(unsafe.Pointer(&entries))
	dstHdr.Data = srcHdr.Data
	dstHdr.Len = srcHdr.Len / int(size)
	dstHdr.Cap = dstHdr.Len
	m.transitions = make([]xqwBuckets, len(numBuckets))
	low := 0
	for i, n := range numBuckets {
		m.transitions[i] = xqwBuckets(entries[low : low+n])
		low += n
	}
	return nil
}

// MappedFile is a read-only mmap handle; Close unmaps and closes it.
type MappedFile struct {
	file *os.File
	data []byte
}

func OpenMappedFile(path string) (m *MappedFile, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	stat, err := f.Stat()
	if err != nil {
		return
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(stat.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return
	}
	return &MappedFile{f, data}, nil
}

func (m *MappedFile) Close() error {
	err1 := syscall.Munmap(m.data)
	err2 := m.file.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// FromBinary mmaps path and parses a Hashed model directly out of the
// mapped bytes; the returned model is only valid while the MappedFile is
// open. This is the fast path the §5 concurrency model counts on: many
// Contexts can share one mmap'd model read-only.
func FromBinary(path string) (*Hashed, *MappedFile, error) {
	mf, err := OpenMappedFile(path)
	if err != nil {
		return nil, nil, err
	}
	var m Hashed
	if err := m.unsafeParseBinary(mf.data); err != nil {
		mf.Close()
		return nil, nil, err
	}
	return &m, mf, nil
}
