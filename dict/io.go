package dict

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fcitx/libime-sub001/dat"
	"github.com/fcitx/libime-sub001/ierr"
	"github.com/fcitx/libime-sub001/pinyin"
	"github.com/kho/stream"
)

// Format selects the on-disk encoding Load/Save use.
type Format int

const (
	Text Format = iota
	Binary
)

var binaryMagic = [4]byte{'P', 'Y', 'D', 'Z'}

const binaryVersion = 1

// Save writes layerIdx's entries to w in the given format.
func (d *Dict) Save(layerIdx int, w io.Writer, format Format) error {
	if layerIdx < 0 || layerIdx >= len(d.layers) {
		return fmt.Errorf("%w: layer %d out of range", ierr.ErrOutOfRange, layerIdx)
	}
	switch format {
	case Binary:
		return d.saveBinary(layerIdx, w)
	case Text:
		return d.saveText(layerIdx, w)
	default:
		return fmt.Errorf("%w: unknown dictionary format %d", ierr.ErrInvalidArgument, format)
	}
}

// Load replaces layerIdx's contents by reading r in the given format,
// then fires dictionary_changed(layerIdx).
func (d *Dict) Load(layerIdx int, r io.Reader, format Format) error {
	if layerIdx < 0 || layerIdx >= len(d.layers) {
		return fmt.Errorf("%w: layer %d out of range", ierr.ErrOutOfRange, layerIdx)
	}
	switch format {
	case Binary:
		if err := d.loadBinary(layerIdx, r); err != nil {
			return err
		}
	case Text:
		if err := d.loadText(layerIdx, r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown dictionary format %d", ierr.ErrInvalidArgument, format)
	}
	d.fireChanged(layerIdx)
	return nil
}

func (d *Dict) saveBinary(layerIdx int, w io.Writer) error {
	if _, err := w.Write(binaryMagic[:]); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
	}
	if _, err := w.Write([]byte{binaryVersion}); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
	}
	if err := d.layers[layerIdx].trie.Save(w); err != nil {
		return err
	}
	return nil
}

func (d *Dict) loadBinary(layerIdx int, r io.Reader) error {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("%w: reading dictionary binary header: %v", ierr.ErrIOError, err)
	}
	if !bytes.Equal(header[:4], binaryMagic[:]) {
		return fmt.Errorf("%w: not a pinyin dictionary binary file", ierr.ErrInvalidFormat)
	}
	if header[4] != binaryVersion {
		return fmt.Errorf("%w: unsupported dictionary binary version %d", ierr.ErrInvalidFormat, header[4])
	}
	trie, err := dat.Load(r)
	if err != nil {
		return err
	}
	d.layers[layerIdx].trie = trie
	return nil
}

// saveText writes one "WORD PINYIN1'PINYIN2'... COST" line per entry,
// in trie order (byte-lexicographic over the code+word key).
func (d *Dict) saveText(layerIdx int, w io.Writer) error {
	bw := bufio.NewWriter(w)
	var werr error
	d.layers[layerIdx].trie.Foreach(func(value int32, keyLen int, pos dat.Cursor) {
		if werr != nil {
			return
		}
		key := d.layers[layerIdx].trie.Suffix(pos, keyLen)
		code, word := splitCodeWord(key)
		spelling, err := pinyin.DecodeFullPinyin(code)
		if err != nil {
			werr = err
			return
		}
		cost := bitsToCost(value)
		if _, err := fmt.Fprintf(bw, "%s %s %s\n", word, spelling, strconv.FormatFloat(float64(cost), 'g', -1, 32)); err != nil {
			werr = fmt.Errorf("%w: %v", ierr.ErrIOError, err)
		}
	})
	if werr != nil {
		return werr
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIOError, err)
	}
	return nil
}

type dictTextLine struct {
	dict     *Dict
	layerIdx int
}

func (it dictTextLine) Final() error { return nil }
func (it dictTextLine) Next(line []byte) (stream.Iteratee, bool, error) {
	if err := it.dict.addTextLine(it.layerIdx, line); err != nil {
		return nil, false, err
	}
	return it, true, nil
}

func (d *Dict) loadText(layerIdx int, r io.Reader) error {
	old := d.layers[layerIdx].trie
	d.layers[layerIdx].trie = dat.New()
	if err := stream.Run(stream.EnumRead(r, lineSplit), dictTextLine{d, layerIdx}); err != nil {
		d.layers[layerIdx].trie = old
		return err
	}
	return nil
}

// addTextLine parses "WORD PINYIN1'PINYIN2'... COST?" (missing cost
// defaults to 0; '#' is ordinary text, never a comment marker) and
// inserts it.
func (d *Dict) addTextLine(layerIdx int, line []byte) error {
	word, rest := tokenSplit(line)
	if word == "" {
		return fmt.Errorf("%w: missing word in dictionary line %q", ierr.ErrInvalidFormat, line)
	}
	spelling, rest := tokenSplit(rest)
	if spelling == "" {
		return fmt.Errorf("%w: missing pinyin in dictionary line %q", ierr.ErrInvalidFormat, line)
	}
	var cost float32
	if costTok, extra := tokenSplit(rest); costTok != "" {
		f, err := strconv.ParseFloat(costTok, 32)
		if err != nil {
			return fmt.Errorf("%w: bad cost %q in dictionary line %q", ierr.ErrInvalidFormat, costTok, line)
		}
		cost = float32(f)
		if len(extra) != 0 {
			return fmt.Errorf("%w: trailing data in dictionary line %q", ierr.ErrInvalidFormat, line)
		}
	}
	code, err := pinyin.EncodeFullPinyin(spelling)
	if err != nil {
		return err
	}
	d.layers[layerIdx].trie.Set(wordKey(code, word), int32(math.Float32bits(cost)))
	return nil
}

func isSpace(b byte) bool {
	switch b {
	case '\t', '\v', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

// lineSplit is a bufio.SplitFunc identical in shape to the teacher's
// ARPA line splitter: skip blank lines, trim leading/trailing space.
func lineSplit(data []byte, atEOF bool) (int, []byte, error) {
	l, r, n := -1, -1, 0
	for i, b := range data {
		if !isSpace(b) && b != '\n' {
			l = i
			break
		}
	}
	if l < 0 {
		if atEOF && len(data) > 0 {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	for i, b := range data[l+1:] {
		if b == '\n' {
			r, n = l+i, l+i+2
			break
		}
	}
	if r < 0 {
		if !atEOF {
			return l, nil, nil
		}
		r, n = len(data)-1, len(data)
	}
	for isSpace(data[r]) {
		r--
	}
	return n, data[l : r+1], nil
}

func tokenSplit(line []byte) (string, []byte) {
	r := -1
	for i, b := range line {
		if isSpace(b) {
			r = i
			break
		}
	}
	if r < 0 {
		r = len(line)
	}
	token := string(line[:r])
	for i, b := range line[r:] {
		if !isSpace(b) {
			return token, line[r+i:]
		}
	}
	return token, nil
}
