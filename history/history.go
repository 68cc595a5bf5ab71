// Package history is the online-learned unigram/bigram companion to the
// static n-gram model in lm: three recency pools (recent, middle, long)
// that age bigram chains from one pool into the next as they are pushed
// out by newer data, mixed at score time by a per-pool weight.
//
// The per-pool storage is a plain map pair (unigram/bigram counts) plus
// an insertion-ordered key slice for oldest-first eviction; unlike
// lm/probing.go it does no open addressing of its own: history pools
// stay small enough that a map is the right tool.
package history

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strings"
)

// Config exposes the pool sizes, weights, and smoothing constants that
// spec.md leaves unparameterized in places; construction-time
// configuration per REDESIGN FLAGS (b).
type Config struct {
	RecentCapacity, MiddleCapacity, LongCapacity int
	RecentWeight, MiddleWeight, LongWeight       float64
	// Smoothing is the additive weight given to a word's raw unigram
	// count (within a pool) when mixing in the bigram estimate.
	Smoothing float64
	// UnknownPenalty is the probability mass floor/bonus applied when
	// the word has never been seen in any pool.
	UnknownPenalty float64
	// MaxSentences bounds how many past sentences Save/Load round-trips;
	// older sentences are dropped once the pools have aged their counts
	// out anyway.
	MaxSentences int
}

// DefaultConfig matches the priority ordering spec.md §4.6 requires
// (recent > middle > long) without claiming to match any particular
// upstream tuning.
func DefaultConfig() Config {
	return Config{
		RecentCapacity: 128, MiddleCapacity: 512, LongCapacity: 4096,
		RecentWeight: 0.6, MiddleWeight: 0.3, LongWeight: 0.1,
		Smoothing:      0.01,
		UnknownPenalty: 1e-7,
		MaxSentences:   4096,
	}
}

type bigramKey struct{ Prev, Word string }

type pool struct {
	capacity int
	weight   float64
	order    []bigramKey
	unigram  map[string]int
	bigram   map[bigramKey]int
}

func newPool(capacity int, weight float64) *pool {
	return &pool{capacity: capacity, weight: weight, unigram: map[string]int{}, bigram: map[bigramKey]int{}}
}

func (p *pool) touch(prev, word string) {
	k := bigramKey{prev, word}
	if _, ok := p.bigram[k]; !ok {
		p.order = append(p.order, k)
	}
	p.bigram[k]++
	p.unigram[word]++
}

// evictOldest pops the oldest chain once the pool is over capacity,
// returning it (and its count) so the caller can promote it onward.
func (p *pool) evictOldest() (k bigramKey, count int, ok bool) {
	if p.capacity <= 0 || len(p.order) <= p.capacity {
		return
	}
	k = p.order[0]
	p.order = p.order[1:]
	count = p.bigram[k]
	delete(p.bigram, k)
	p.unigram[k.Word] -= count
	if p.unigram[k.Word] <= 0 {
		delete(p.unigram, k.Word)
	}
	return k, count, true
}

func (p *pool) bulkAdd(k bigramKey, count int) {
	if _, ok := p.bigram[k]; !ok {
		p.order = append(p.order, k)
	}
	p.bigram[k] += count
	p.unigram[k.Word] += count
}

func (p *pool) forget(word string) {
	delete(p.unigram, word)
	kept := p.order[:0]
	for _, k := range p.order {
		if k.Prev == word || k.Word == word {
			delete(p.bigram, k)
		} else {
			kept = append(kept, k)
		}
	}
	p.order = kept
}

// Model is the online history bigram of spec.md §4.6.
type Model struct {
	cfg       Config
	pools     [3]*pool // recent, middle, long, in priority order
	sentences [][]string
}

// New constructs an empty Model.
func New(cfg Config) *Model {
	return &Model{
		cfg: cfg,
		pools: [3]*pool{
			newPool(cfg.RecentCapacity, cfg.RecentWeight),
			newPool(cfg.MiddleCapacity, cfg.MiddleWeight),
			newPool(cfg.LongCapacity, cfg.LongWeight),
		},
	}
}

// Add records one committed sentence. The empty string is used as the
// synthetic predecessor of the first word, so Score("", w) queries the
// same structure a real bigram lookup would.
func (m *Model) Add(sentence []string) {
	if len(sentence) == 0 {
		return
	}
	prev := ""
	for _, w := range sentence {
		m.insert(prev, w)
		prev = w
	}
	m.sentences = append(m.sentences, append([]string(nil), sentence...))
	if m.cfg.MaxSentences > 0 && len(m.sentences) > m.cfg.MaxSentences {
		m.sentences = m.sentences[len(m.sentences)-m.cfg.MaxSentences:]
	}
}

func (m *Model) insert(prev, word string) {
	m.pools[0].touch(prev, word)
	for i := range m.pools {
		k, count, ok := m.pools[i].evictOldest()
		if !ok {
			break
		}
		if i+1 < len(m.pools) {
			m.pools[i+1].bulkAdd(k, count)
		}
		// falling off the long pool means the chain is permanently forgotten.
	}
}

// Score mixes the three pools' bigram estimates, weighted, plus a floor
// for words never seen anywhere (spec.md §4.6's "unknown_penalty").
func (m *Model) Score(prev, word string) float64 {
	var mass float64
	for _, p := range m.pools {
		bc := float64(p.bigram[bigramKey{prev, word}])
		uc := float64(p.unigram[word])
		mass += p.weight * (bc + m.cfg.Smoothing*uc)
	}
	if mass <= 0 || m.IsUnknown(word) {
		mass += m.cfg.UnknownPenalty
	}
	return math.Log10(mass)
}

// IsUnknown reports whether word appears in none of the three pools.
func (m *Model) IsUnknown(word string) bool {
	for _, p := range m.pools {
		if p.unigram[word] > 0 {
			return false
		}
	}
	return true
}

// Forget purges word (as either half of a bigram) from every pool.
func (m *Model) Forget(word string) {
	for _, p := range m.pools {
		p.forget(word)
	}
}

// FillPredict returns up to max continuations of the last word in
// prefixWords, ranked by pool priority then by count then lexically.
func (m *Model) FillPredict(prefixWords []string, max int) []string {
	if len(prefixWords) == 0 || max <= 0 {
		return nil
	}
	prev := prefixWords[len(prefixWords)-1]
	type cand struct {
		word     string
		priority int
		count    int
	}
	best := map[string]cand{}
	for pi, p := range m.pools {
		for k, c := range p.bigram {
			if k.Prev != prev {
				continue
			}
			if cur, ok := best[k.Word]; !ok || pi < cur.priority || (pi == cur.priority && c > cur.count) {
				best[k.Word] = cand{k.Word, pi, c}
			}
		}
	}
	cands := make([]cand, 0, len(best))
	for _, c := range best {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].priority != cands[j].priority {
			return cands[i].priority < cands[j].priority
		}
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].word < cands[j].word
	})
	if len(cands) > max {
		cands = cands[:max]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.word
	}
	return out
}

// Save writes the recorded sentences most-recent-first, one per line,
// words whitespace-separated, per spec.md §6.
func (m *Model) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := len(m.sentences) - 1; i >= 0; i-- {
		if _, err := bw.WriteString(strings.Join(m.sentences[i], " ")); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load replays a most-recent-first sentence dump written by Save,
// oldest line first so Add sees the original chronological order.
func (m *Model) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue
		}
		m.Add(fields)
	}
	return nil
}
