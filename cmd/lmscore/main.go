// Command lmscore scores a corpus (one sentence per line, whitespace
// tokenized) against a compiled language model, reporting log10
// probability and perplexity, mirroring the teacher's scoring tool.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/fcitx/libime-sub001/decoder"
	"github.com/fcitx/libime-sub001/history"
	"github.com/fcitx/libime-sub001/lm"
	"github.com/fcitx/libime-sub001/vocab"
	"github.com/golang/glog"
	"github.com/kho/easy"
)

var unkScore lm.Weight

func init() {
	flag.Var(&unkScore, "unk", "score charged for each out-of-vocabulary word")
}

func main() {
	var args struct {
		Model   string `name:"model" usage:"language model binary (hashed representation unless -lm.sorted is set)"`
		History string `name:"history" usage:"optional history model snapshot; when set, also reports the history-mixed score"`
	}
	sorted := flag.Bool("lm.sorted", false, "the model file is the sorted representation")
	cpuprofile := flag.String("cpuprofile", "", "path to write CPU profile")
	memprofile := flag.String("memprofile", "", "path to write memory profile")
	easy.ParseFlagsAndArgs(&args)

	if *cpuprofile != "" {
		w := easy.MustCreate(*cpuprofile)
		pprof.StartCPUProfile(w)
		defer func() {
			pprof.StopCPUProfile()
			w.Close()
		}()
	}
	if *memprofile != "" {
		defer func() {
			w := easy.MustCreate(*memprofile)
			pprof.WriteHeapProfile(w)
			w.Close()
		}()
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	var model lm.Model
	if *sorted {
		m, backing, err := lm.FromSortedBinary(args.Model)
		if err != nil {
			glog.Fatal("error loading model: ", err)
		}
		defer backing.Close()
		model = m
	} else {
		m, backing, err := lm.FromBinary(args.Model)
		if err != nil {
			glog.Fatal("error loading model: ", err)
		}
		defer backing.Close()
		model = m
	}
	runtime.GC()
	runtime.ReadMemStats(&after)
	glog.Infof("LM memory overhead: %.2fMB", float64(after.Alloc-before.Alloc)/float64(1<<20))

	var corpus [][]vocab.Word
	var numWords, numSents int

	glog.Info("loading corpus took ", easy.Timed(func() { corpus = loadCorpus(os.Stdin, model) }))

	numSents = len(corpus)
	for _, sent := range corpus {
		numWords += len(sent)
	}

	var score float64
	var numOOVs int
	elapsed := easy.Timed(func() { score, numOOVs = scoreCorpus(model, corpus) })
	glog.Infof("scoring took %v; %g sents+words/sec", elapsed,
		float64(numSents+numWords)*float64(time.Second)/float64(elapsed))

	if numWords > 0 {
		fmt.Printf("%d sents, %d words, %d OOVs\n", numSents, numWords, numOOVs)
		fmt.Printf("logprob=%g ppl=%g ppl1=%g\n",
			score,
			math.Exp(-score/float64(numSents+numWords)*math.Log(10)),
			math.Exp(-score/float64(numWords)*math.Log(10)))
	}

	if args.History != "" {
		hist := history.New(history.DefaultConfig())
		r, err := os.Open(args.History)
		if err != nil {
			glog.Fatal("error opening history model: ", err)
		}
		if err := hist.Load(r); err != nil {
			glog.Fatal("error loading history model: ", err)
		}
		r.Close()

		um := decoder.NewUserModel(model, hist)
		var mixed float64
		elapsed := easy.Timed(func() { mixed, _ = scoreCorpus(um, corpus) })
		glog.Infof("history-mixed scoring took %v", elapsed)
		if numWords > 0 {
			fmt.Printf("mixed logprob=%g ppl=%g ppl1=%g\n",
				mixed,
				math.Exp(-mixed/float64(numSents+numWords)*math.Log(10)),
				math.Exp(-mixed/float64(numWords)*math.Log(10)))
		}
	}
}

func loadCorpus(r io.Reader, model lm.Model) (sents [][]vocab.Word) {
	in := bufio.NewScanner(r)
	v, _, _, _, _ := model.Vocab()
	for in.Scan() {
		var sent []vocab.Word
		for _, tok := range bytes.Fields(in.Bytes()) {
			sent = append(sent, v.IdOf(string(tok)))
		}
		sents = append(sents, sent)
	}
	if err := in.Err(); err != nil {
		glog.Fatal("when loading corpus: ", err)
	}
	return
}

func scoreCorpus(model lm.Model, corpus [][]vocab.Word) (total float64, numOOVs int) {
	for _, sent := range corpus {
		p := model.Start()
		for _, x := range sent {
			var w lm.Weight
			p, w = model.NextI(p, x)
			if w == lm.WeightLog0 {
				w = unkScore
				numOOVs++
			}
			total += float64(w)
		}
		total += float64(model.Final(p))
	}
	return
}
