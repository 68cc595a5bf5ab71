package lm

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestSortedSimple(t *testing.T) { sortedTest(simpleTrigramLM, simpleTrigramSents, t) }
func TestSortedSparse(t *testing.T) { sortedTest(sparseFivegramLM, sparseFivegramSents, t) }
func TestSortedTrickyBackOff(t *testing.T) { sortedTest(trickyBackOffLM, trickyBackOffSents, t) }

func sortedTest(lm []ngram, sents [][]token, t *testing.T) {
	builder := readyBuilder(lm)

	var buf bytes.Buffer
	buf.WriteString("builder LM:\n")
	builder.Graphviz(&buf)
	model := builder.DumpSorted()

	buf.WriteString("model LM:\n")
	Graphviz(model, &buf)
	t.Log(buf.String())

	if err := checkSorted(model); err != nil {
		t.Errorf("check sorted model failed with error %v", err)
	}
	if err := checkModel(model); err != nil {
		t.Errorf("check model failed with error %v", err)
	}
	sentTest(model, sents, t)
}

func checkSorted(m *Sorted) error {
	for _, next := range m.transitions {
		if len(next) == 0 {
			return errors.New("empty transition slice")
		}
		if next[len(next)-1].Word != nilWord {
			return errors.New("last transition is not back-off")
		}
		for i, cur := range next[1:] {
			if next[i].Word >= cur.Word {
				return errors.New("not uniquely sorted by word")
			}
		}
	}
	return nil
}

func TestSortedBinaryRoundTrip(t *testing.T) {
	model := readyBuilder(simpleTrigramLM).DumpSorted()

	f, err := os.CreateTemp("", "sorted.")
	if err != nil {
		t.Fatalf("error creating temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := model.WriteBinary(path); err != nil {
		t.Fatalf("error writing binary: %v", err)
	}

	loaded, backing, err := FromSortedBinary(path)
	if err != nil {
		t.Fatalf("error loading binary: %v", err)
	}
	defer backing.Close()

	sentTest(loaded, simpleTrigramSents, t)
}
