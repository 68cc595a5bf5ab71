package lm

import (
	"bytes"
	"testing"
)

func TestGobRoundTrip(t *testing.T) {
	model := readyBuilder(simpleTrigramLM).DumpHashed(0)

	data, err := model.MarshalBinary()
	if err != nil {
		t.Fatalf("error marshaling: %v", err)
	}

	loaded, err := FromGob(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("error decoding gob: %v", err)
	}
	sentTest(loaded, simpleTrigramSents, t)
}
