// Package dat is a double-array trie over byte keys supporting live
// mutation (spec.md §4.1): unlike the bulk-build-only reference
// implementations this is grounded on, Set/Update/Erase work directly
// against an already-built trie without a full rebuild, because the
// match-state cache (decoder/) and dictionary_changed contract assume
// edits are cheap.
//
// Node identity doubles as array index the classic way: a "state" is
// just a position in base/check. A byte key's final node additionally
// owns a reserved "terminal" transition (codeTerminal, one past the
// valid byte range) whose base field holds -value; that lets a key also
// be a strict prefix of longer keys without any separate presence flag,
// and keeps the persisted image to exactly the two arrays spec.md §6
// describes.
package dat

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/fcitx/libime-sub001/ierr"
)

const (
	codeTerminal = 256
	numCodes     = 257
)

// Result is the outcome of Traverse.
type Result int

const (
	NoPath Result = iota
	Intermediate
	Leaf
)

// Cursor is an opaque traversal position; the zero value is Root.
type Cursor int32

const (
	Root    Cursor = 0
	Invalid Cursor = -1
)

// Trie is a mutable double-array trie. The zero value is not usable;
// construct with New or Load.
type Trie struct {
	base, check []int32
	parent      []int32
	parentCode  []int16
	children    [][]int16
	hint        int32
}

// New returns an empty trie.
func New() *Trie {
	t := &Trie{hint: 1}
	t.grow(1)
	t.check[0] = -1
	t.parent[0] = -1
	return t
}

func (t *Trie) grow(n int) {
	if n <= len(t.base) {
		return
	}
	base := make([]int32, n)
	check := make([]int32, n)
	parent := make([]int32, n)
	parentCode := make([]int16, n)
	children := make([][]int16, n)
	copy(base, t.base)
	copy(check, t.check)
	copy(parent, t.parent)
	copy(parentCode, t.parentCode)
	copy(children, t.children)
	t.base, t.check, t.parent, t.parentCode, t.children = base, check, parent, parentCode, children
}

func (t *Trie) ensure(addr int32) {
	if int(addr) < len(t.base) {
		return
	}
	n := int(addr) + 1
	if n < len(t.base)*2 {
		n = len(t.base) * 2
	}
	t.grow(n)
}

// transition ensures a child exists from s on code, relocating whichever
// of s or the conflicting owner has fewer children, and returns the
// child's address.
func (t *Trie) transition(s int32, code int16) int32 {
	addr := t.base[s] + int32(code)
	t.ensure(addr)
	if t.check[addr] == 0 {
		t.claim(s, code, addr)
		return addr
	}
	if t.check[addr] == s+1 {
		return addr
	}
	u := t.check[addr] - 1
	sCodes := append(append([]int16(nil), t.children[s]...), code)
	uCodes := t.children[u]
	if len(sCodes) <= len(uCodes) {
		t.relocate(s, sCodes)
	} else {
		sParent, sCode := t.parent[s], t.parentCode[s]
		t.relocate(u, uCodes)
		if sParent == u {
			// s is one of u's children and has just moved with them.
			s = t.base[u] + int32(sCode)
		}
	}
	addr = t.base[s] + int32(code)
	t.ensure(addr)
	if t.check[addr] != s+1 {
		t.claim(s, code, addr)
	}
	return addr
}

func (t *Trie) claim(s int32, code int16, addr int32) {
	t.check[addr] = s + 1
	t.parent[addr] = s
	t.parentCode[addr] = code
	t.children[s] = append(t.children[s], code)
}

// relocate moves every existing child of s (the codes in allCodes that
// are already claimed) to a fresh base chosen so all of allCodes fit,
// fixing up each moved child's own children (s's grandchildren) to point
// at the new address.
func (t *Trie) relocate(s int32, allCodes []int16) {
	newBase := t.findFreeBase(allCodes)
	oldCodes := t.children[s]
	for _, c := range oldCodes {
		oldAddr := t.base[s] + int32(c)
		newAddr := newBase + int32(c)
		t.ensure(newAddr)
		t.check[newAddr] = s + 1
		t.base[newAddr] = t.base[oldAddr]
		t.parent[newAddr] = s
		t.parentCode[newAddr] = c
		t.children[newAddr] = t.children[oldAddr]
		for _, gc := range t.children[newAddr] {
			gaddr := t.base[newAddr] + int32(gc)
			t.check[gaddr] = newAddr + 1
			t.parent[gaddr] = newAddr
		}
		t.check[oldAddr] = 0
		t.base[oldAddr] = 0
		t.parent[oldAddr] = 0
		t.parentCode[oldAddr] = 0
		t.children[oldAddr] = nil
	}
	t.base[s] = newBase
}

func (t *Trie) findFreeBase(codes []int16) int32 {
	var maxCode int16
	for _, c := range codes {
		if c > maxCode {
			maxCode = c
		}
	}
	for b := t.hint; ; b++ {
		t.ensure(b + int32(maxCode))
		ok := true
		for _, c := range codes {
			if t.check[b+int32(c)] != 0 {
				ok = false
				break
			}
		}
		if ok {
			t.hint = b
			return b
		}
	}
}

func (t *Trie) hasTerminal(s int32) bool {
	addr := t.base[s] + int32(codeTerminal)
	return addr >= 0 && int(addr) < len(t.check) && t.check[addr] == s+1
}

// Set inserts or overwrites key's value. Storing 0 is equivalent to
// never having stored a value at all (spec.md §4.1: "value 0 is treated
// as absent").
func (t *Trie) Set(key []byte, value int32) {
	s := int32(0)
	for _, b := range key {
		s = t.transition(s, int16(b))
	}
	term := t.transition(s, codeTerminal)
	t.base[term] = -value
}

// Update reads the current value (0 if absent), passes it to f, and
// stores the result.
func (t *Trie) Update(key []byte, f func(int32) int32) {
	t.Set(key, f(t.Get(key)))
}

// Get returns key's value, or 0 if absent.
func (t *Trie) Get(key []byte) int32 {
	s := int32(0)
	for _, b := range key {
		addr := t.base[s] + int32(b)
		if addr < 0 || int(addr) >= len(t.check) || t.check[addr] != s+1 {
			return 0
		}
		s = addr
	}
	addr := t.base[s] + int32(codeTerminal)
	if addr < 0 || int(addr) >= len(t.check) || t.check[addr] != s+1 {
		return 0
	}
	return -t.base[addr]
}

// Erase removes key, pruning any now-empty ancestor chain. Reports
// whether key was present.
func (t *Trie) Erase(key []byte) bool {
	s := int32(0)
	for _, b := range key {
		addr := t.base[s] + int32(b)
		if addr < 0 || int(addr) >= len(t.check) || t.check[addr] != s+1 {
			return false
		}
		s = addr
	}
	addr := t.base[s] + int32(codeTerminal)
	if addr < 0 || int(addr) >= len(t.check) || t.check[addr] != s+1 {
		return false
	}
	t.detach(addr)
	return true
}

// EraseAt removes the key ending at cursor pos, same pruning behavior as
// Erase. Reports whether pos actually named a stored key.
func (t *Trie) EraseAt(pos Cursor) bool {
	s := int32(pos)
	if s < 0 || int(s) >= len(t.check) || !t.hasTerminal(s) {
		return false
	}
	t.detach(t.base[s] + int32(codeTerminal))
	return true
}

func (t *Trie) detach(addr int32) {
	for {
		s := t.parent[addr]
		c := t.parentCode[addr]
		t.removeChild(s, c)
		t.check[addr] = 0
		t.base[addr] = 0
		t.parent[addr] = 0
		t.parentCode[addr] = 0
		t.children[addr] = nil
		if s == 0 || len(t.children[s]) > 0 {
			return
		}
		addr = s
	}
}

func (t *Trie) removeChild(s int32, c int16) {
	cs := t.children[s]
	for i, x := range cs {
		if x == c {
			cs[i] = cs[len(cs)-1]
			t.children[s] = cs[:len(cs)-1]
			return
		}
	}
}

// Traverse advances cur by the bytes in step, one at a time, starting
// from wherever cur currently points (Root to start fresh); it is safe
// to reuse cur across calls sharing a prefix, which is the whole point
// for the decoder's match-state cache.
func (t *Trie) Traverse(cur *Cursor, step []byte) Result {
	if *cur == Invalid {
		return NoPath
	}
	s := int32(*cur)
	for _, b := range step {
		addr := t.base[s] + int32(b)
		if addr < 0 || int(addr) >= len(t.check) || t.check[addr] != s+1 {
			*cur = Invalid
			return NoPath
		}
		s = addr
	}
	*cur = Cursor(s)
	if t.hasTerminal(s) {
		return Leaf
	}
	return Intermediate
}

// Foreach calls f for every stored key in byte-lexicographic order, with
// the value, the key length, and a cursor suitable for Suffix.
func (t *Trie) Foreach(f func(value int32, keyLen int, pos Cursor)) {
	t.foreach(0, 0, f)
}

// ForeachFrom calls f for every key stored under cursor from, i.e. every
// key reachable by appending bytes to the prefix from already names.
// keyLen counts only the appended suffix, so Suffix(pos, keyLen) recovers
// just that suffix, not the whole key. Used by dictionary lookups that
// have already matched a pinyin code prefix and want every word sharing
// it.
func (t *Trie) ForeachFrom(from Cursor, f func(value int32, keyLen int, pos Cursor)) {
	if from == Invalid {
		return
	}
	t.foreach(int32(from), 0, f)
}

func (t *Trie) foreach(s int32, depth int, f func(int32, int, Cursor)) {
	if t.hasTerminal(s) {
		addr := t.base[s] + int32(codeTerminal)
		f(-t.base[addr], depth, Cursor(s))
	}
	codes := append([]int16(nil), t.children[s]...)
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		if c == codeTerminal {
			continue
		}
		t.foreach(t.base[s]+int32(c), depth+1, f)
	}
}

// Suffix reconstructs the length-byte key ending at pos, as produced by
// Foreach or a Leaf-returning Traverse.
func (t *Trie) Suffix(pos Cursor, length int) []byte {
	buf := make([]byte, length)
	s := int32(pos)
	for i := length - 1; i >= 0; i-- {
		buf[i] = byte(t.parentCode[s])
		s = t.parent[s]
	}
	return buf
}

// Save writes the little-endian on-disk image of spec.md §6: base-array
// length, check-array length, entry count, then the two raw arrays.
// parent/parentCode/children are not persisted; Load rebuilds them from
// check alone.
func (t *Trie) Save(w io.Writer) error {
	var n int
	t.Foreach(func(int32, int, Cursor) { n++ })
	for _, v := range []uint32{uint32(len(t.base)), uint32(len(t.check)), uint32(n)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, t.base); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.check); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
	}
	return nil
}

// Load parses the image Save writes.
func Load(r io.Reader) (*Trie, error) {
	var baseLen, checkLen, entryCount uint32
	for _, p := range []*uint32{&baseLen, &checkLen, &entryCount} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidFormat, err)
		}
	}
	if baseLen != checkLen {
		return nil, fmt.Errorf("%w: base/check length mismatch", ierr.ErrInvalidFormat)
	}
	t := &Trie{base: make([]int32, baseLen), check: make([]int32, checkLen), hint: 1}
	if err := binary.Read(r, binary.LittleEndian, t.base); err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidFormat, err)
	}
	if err := binary.Read(r, binary.LittleEndian, t.check); err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidFormat, err)
	}
	t.rebuildIndexes()
	var n uint32
	t.Foreach(func(int32, int, Cursor) { n++ })
	if n != entryCount {
		return nil, fmt.Errorf("%w: entry count mismatch (header %d, found %d)", ierr.ErrInvalidFormat, entryCount, n)
	}
	return t, nil
}

func (t *Trie) rebuildIndexes() {
	n := len(t.base)
	t.parent = make([]int32, n)
	t.parentCode = make([]int16, n)
	t.children = make([][]int16, n)
	for addr := 0; addr < n; addr++ {
		if addr == 0 || t.check[addr] == 0 {
			t.parent[addr] = -1
			continue
		}
		s := t.check[addr] - 1
		t.parent[addr] = s
		code := int16(int32(addr) - t.base[s])
		t.parentCode[addr] = code
		t.children[s] = append(t.children[s], code)
	}
}

// Size returns the allocated array length (not the number of keys).
func (t *Trie) Size() int { return len(t.base) }
