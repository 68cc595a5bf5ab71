// Command dictconv converts a pinyin dictionary between its text and
// binary forms, mirroring the teacher tooling's load-then-save shape:
// read source in one format, write dest in the other.
package main

import (
	"flag"
	"os"

	"github.com/fcitx/libime-sub001/dict"
	"github.com/golang/glog"
	"github.com/kho/easy"
)

func main() {
	dump := flag.Bool("d", false, "dump binary to text instead of compiling text to binary")
	var args struct {
		Source string `name:"source" usage:"input dictionary path"`
		Dest   string `name:"dest" usage:"output dictionary path, or - for stdout"`
	}
	easy.ParseFlagsAndArgs(&args)

	inFormat, outFormat := dict.Text, dict.Binary
	if *dump {
		inFormat, outFormat = dict.Binary, dict.Text
	}

	in, err := os.Open(args.Source)
	if err != nil {
		glog.Fatal(err)
	}
	defer in.Close()

	d := dict.New()
	if err := d.Load(dict.SystemDict, in, inFormat); err != nil {
		glog.Fatal("error loading dictionary: ", err)
	}

	out := os.Stdout
	if args.Dest != "-" {
		f, err := os.Create(args.Dest)
		if err != nil {
			glog.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	if err := d.Save(dict.SystemDict, out, outFormat); err != nil {
		glog.Fatal("error saving dictionary: ", err)
	}
}
