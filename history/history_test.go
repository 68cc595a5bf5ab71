package history

import (
	"bytes"
	"strings"
	"testing"
)

func smallConfig() Config {
	return Config{
		RecentCapacity: 2, MiddleCapacity: 2, LongCapacity: 2,
		RecentWeight: 0.6, MiddleWeight: 0.3, LongWeight: 0.1,
		Smoothing: 0.01, UnknownPenalty: 1e-7, MaxSentences: 100,
	}
}

func TestMonotoneLearning(t *testing.T) {
	m := New(DefaultConfig())
	sentence := []string{"你好", "世界"}
	before := m.Score("", "你好")
	m.Add(sentence)
	after := m.Score("", "你好")
	if after <= before {
		t.Fatalf("expected score to increase after Add: before=%g after=%g", before, after)
	}
}

func TestForget(t *testing.T) {
	m := New(DefaultConfig())
	m.Add([]string{"我", "爱", "北京"})
	if m.IsUnknown("爱") {
		t.Fatalf("expected 爱 to be known after Add")
	}
	m.Forget("爱")
	if !m.IsUnknown("爱") {
		t.Fatalf("expected 爱 to be unknown immediately after Forget")
	}
}

func TestPoolPromotionCascade(t *testing.T) {
	m := New(smallConfig())
	// Push enough distinct bigrams through the tiny pools to force
	// recent -> middle -> long promotion, then off the end entirely.
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i := 0; i+1 < len(words); i++ {
		m.Add([]string{words[i], words[i+1]})
	}
	// The earliest pair should eventually be forgotten once it falls off
	// the long pool; the most recent one must still be known.
	if m.IsUnknown(words[len(words)-1]) {
		t.Fatalf("expected most recent word to remain known")
	}
}

func TestFillPredict(t *testing.T) {
	m := New(DefaultConfig())
	m.Add([]string{"中国", "庆"})
	m.Add([]string{"中国", "旗"})
	m.Add([]string{"中国", "庆"})
	got := m.FillPredict([]string{"中国"}, 5)
	if len(got) == 0 || got[0] != "庆" {
		t.Fatalf("expected 庆 ranked first, got %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := New(DefaultConfig())
	m.Add([]string{"我", "爱", "北京"})
	m.Add([]string{"天安门"})

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("save error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "天安门" {
		t.Fatalf("expected most-recent-first dump, got %q", lines)
	}

	m2 := New(DefaultConfig())
	if err := m2.Load(strings.NewReader(buf.String())); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if m2.IsUnknown("天安门") || m2.IsUnknown("北京") {
		t.Fatalf("expected reloaded model to recognize both sentences")
	}
}
