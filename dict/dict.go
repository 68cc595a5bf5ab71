// Package dict is the multi-layer pinyin dictionary trie bank of
// spec.md §4.4: a stack of dat.Trie instances (system, user, and zero
// or more extra layers) keyed by syllable-code bytes plus a separator
// plus the UTF-8 word, with prefix/exact lookups that tolerate fuzzy
// pinyin and a synchronous dictionary_changed signal for cache
// invalidation downstream.
package dict

import (
	"fmt"
	"math"

	"github.com/fcitx/libime-sub001/dat"
	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/pinyin"
)

// Layer indices fixed by contract: SystemDict is read-only in practice
// (callers rarely AddWord to it) and UserDict is the one layer that can
// never be removed wholesale.
const (
	SystemDict = 0
	UserDict   = 1
)

// separator marks the end of a key's syllable-code prefix and the start
// of its UTF-8 word bytes. One past the valid final range, so it can
// never collide with a real code byte; word bytes can't collide with it
// either since UTF-8 continuation/lead bytes for non-ASCII text are
// always >= 0x80.
const separator = byte(pinyin.LastFinal) + 1

type layer struct {
	trie *dat.Trie
}

// Dict is a stack of dictionary layers searched together by MatchPrefix
// and friends.
type Dict struct {
	layers    []*layer
	listeners []func(layer int)
}

// New returns a Dict with empty SystemDict and UserDict layers.
func New() *Dict {
	return &Dict{layers: []*layer{{dat.New()}, {dat.New()}}}
}

// NumLayers reports how many layers currently exist.
func (d *Dict) NumLayers() int { return len(d.layers) }

// AddLayer appends a new empty extra layer and returns its index.
func (d *Dict) AddLayer() int {
	d.layers = append(d.layers, &layer{dat.New()})
	return len(d.layers) - 1
}

// Remove deletes layer, shifting higher layers down by one. UserDict
// may never be removed this way.
func (d *Dict) Remove(layerIdx int) error {
	if layerIdx == UserDict {
		return fmt.Errorf("%w: UserDict (layer %d) cannot be removed", ierr.ErrInvalidArgument, UserDict)
	}
	if layerIdx < 0 || layerIdx >= len(d.layers) {
		return fmt.Errorf("%w: layer %d out of range", ierr.ErrOutOfRange, layerIdx)
	}
	d.layers = append(d.layers[:layerIdx], d.layers[layerIdx+1:]...)
	d.fireChanged(layerIdx)
	return nil
}

// RemoveAll deletes every layer at index >= 2, leaving SystemDict and
// UserDict untouched.
func (d *Dict) RemoveAll() {
	for len(d.layers) > 2 {
		i := len(d.layers) - 1
		d.layers = d.layers[:i]
		d.fireChanged(i)
	}
}

// OnChange registers a listener invoked synchronously after any
// mutation to any layer, with the affected layer index. Listeners run
// to completion before the mutating call returns and must not re-enter
// the Dict.
func (d *Dict) OnChange(f func(layer int)) {
	d.listeners = append(d.listeners, f)
}

func (d *Dict) fireChanged(layerIdx int) {
	for _, f := range d.listeners {
		f(layerIdx)
	}
}

func wordKey(code []byte, word string) []byte {
	key := make([]byte, 0, len(code)+1+len(word))
	key = append(key, code...)
	key = append(key, separator)
	key = append(key, word...)
	return key
}

// AddWord inserts word under code in layerIdx at the given cost
// (negative log-probability), overwriting any existing entry for the
// same (code, word) pair.
func (d *Dict) AddWord(layerIdx int, code []byte, word string, cost float32) error {
	if layerIdx < 0 || layerIdx >= len(d.layers) {
		return fmt.Errorf("%w: layer %d out of range", ierr.ErrOutOfRange, layerIdx)
	}
	d.layers[layerIdx].trie.Set(wordKey(code, word), int32(math.Float32bits(cost)))
	d.fireChanged(layerIdx)
	return nil
}

// RemoveWord deletes (code, word) from layerIdx. Absence is not an
// error: it is reported back via the bool return so callers can tell
// "already gone" from "layer index was bad".
func (d *Dict) RemoveWord(layerIdx int, code []byte, word string) (bool, error) {
	if layerIdx < 0 || layerIdx >= len(d.layers) {
		return false, fmt.Errorf("%w: layer %d out of range", ierr.ErrOutOfRange, layerIdx)
	}
	if !d.layers[layerIdx].trie.Erase(wordKey(code, word)) {
		return false, nil
	}
	d.fireChanged(layerIdx)
	return true, nil
}

// bitsToCost turns a stored trie value back into the IEEE-754 float32
// cost that AddWord stored as int32(math.Float32bits(cost)). A word genuinely
// costed at exactly 0.0 reads back as the trie's "absent" sentinel
// under Get, but AddWord/RemoveWord never call Get on a full word key
// (lookups go through Traverse/ForeachFrom, which don't special-case
// zero), so this never surfaces as a bug in practice.
func bitsToCost(v int32) float32 { return math.Float32frombits(uint32(v)) }
