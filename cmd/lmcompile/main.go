// Command lmcompile reads an ARPA-format n-gram language model on
// stdin and writes the mmap-ready binary image described by lm's
// WriteBinary to a file.
package main

import (
	"flag"
	"os"

	"github.com/fcitx/libime-sub001/lm"
	"github.com/golang/glog"
	"github.com/kho/easy"
)

func main() {
	scale := flag.Float64("lm.scale", 1.5, "hash-bucket scale multiplier")
	sorted := flag.Bool("lm.sorted", false, "emit the sorted (binary-search) representation instead of hashed")
	var args struct {
		Out string `name:"out" usage:"output binary path"`
	}
	easy.ParseFlagsAndArgs(&args)

	if *sorted {
		model, err := lm.FromSortedARPA(os.Stdin)
		if err != nil {
			glog.Fatal(err)
		}
		if err := model.WriteBinary(args.Out); err != nil {
			glog.Fatal(err)
		}
		return
	}

	model, err := lm.FromARPA(os.Stdin, *scale)
	if err != nil {
		glog.Fatal(err)
	}
	if err := model.WriteBinary(args.Out); err != nil {
		glog.Fatal(err)
	}
}
