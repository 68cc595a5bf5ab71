package lm

// ARPA file parsing, directly grounded on the teacher's arpa.go: a small
// iteratee grammar built out of github.com/kho/stream combinators.

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/kho/stream"
)

type arpaTop struct {
	builder *Builder
}

func (it arpaTop) Final() error { return stream.Match(`\data\`).Final() }
func (it arpaTop) Next(line []byte) (stream.Iteratee, bool, error) {
	return stream.Seq{
		stream.Match(`\data\`),
		skipNgramCounts{},
		stream.Star{ngramSection{it.builder}},
		stream.Match(`\end\`),
		stream.EOF}, false, nil
}

type skipNgramCounts struct{}

func (skipNgramCounts) Final() error { return nil }
func (it skipNgramCounts) Next(line []byte) (stream.Iteratee, bool, error) {
	if line[0] == '\\' {
		return nil, false, nil
	}
	return it, true, nil
}

type ngramSection struct {
	builder *Builder
}

func (it ngramSection) Final() error { return stream.ErrExpect(`\N-grams: ...`) }
func (it ngramSection) Next(line []byte) (stream.Iteratee, bool, error) {
	if line[0] != '\\' || !bytes.HasSuffix(line, []byte("-grams:")) {
		return nil, false, stream.ErrExpect(`section header "\N-grams:"`)
	}
	n, err := strconv.Atoi(string(line[1 : len(line)-len("-grams:")]))
	if err != nil || n <= 0 {
		return nil, false, stream.ErrExpect(`positive integer in section header "\N-grams:"`)
	}
	return newNgramEntries(n, it.builder), true, nil
}

type ngramEntries struct {
	builder *Builder
	n       int
	p, bow  Weight
	context []string
	word    string
}

func newNgramEntries(n int, b *Builder) *ngramEntries {
	return &ngramEntries{b, n, 0, 0, make([]string, n-1), ""}
}

func (it *ngramEntries) Final() error { return nil }
func (it *ngramEntries) Next(line []byte) (stream.Iteratee, bool, error) {
	if line[0] == '\\' {
		if glog.V(2) {
			glog.Infof("%d-gram section done", it.n)
		}
		return nil, false, nil
	}
	if err := it.setParts(line); err != nil {
		return nil, false, err
	}
	it.builder.AddNgram(it.context, it.word, it.p, it.bow)
	return it, true, nil
}

func (it *ngramEntries) setParts(line []byte) error {
	x, xs := tokenSplit(line)
	if x == "" {
		return stream.ErrExpect("log-probability")
	}
	f, err := strconv.ParseFloat(x, WeightSize)
	if err != nil {
		return err
	}
	it.p = Weight(f)
	for i := 1; i < it.n; i++ {
		x, xs = tokenSplit(xs)
		if x == "" {
			return stream.ErrExpect(fmt.Sprintf("%d context word(s)", it.n))
		}
		it.context[i-1] = x
	}
	x, xs = tokenSplit(xs)
	if x == "" {
		return stream.ErrExpect("word")
	}
	it.word = x
	x, xs = tokenSplit(xs)
	if x == "" {
		it.bow = 0
	} else if f, err := strconv.ParseFloat(x, WeightSize); err == nil {
		it.bow = Weight(f)
	} else {
		return err
	}
	if len(xs) != 0 {
		return stream.ErrExpect("end of line")
	}
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

// lineSplit is a bufio.SplitFunc: it skips blank lines and trims
// leading/trailing space from each returned line.
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
