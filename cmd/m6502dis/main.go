// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/m6502/disasm"
)

func main() {
	var base uint
	var skip bool
	var verbose bool

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [-b base] [-skip] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.UintVar(&base, "b", 0, "Address of the first byte")
	flag.BoolVar(&skip, "skip", false, "Show illegal opcodes as data, and continue")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	err := flag.CommandLine.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	if base > 0xffff {
		log.Fatalf("%v: base $%x out of range", os.Args[0], base)
	}

	file := flag.Arg(0)
	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("%v: %v", file, err)
	}

	dis := &disasm.Disassembler{
		Verbose: verbose,
		Base:    uint16(base),
	}
	if skip {
		dis.Policy = disasm.POLICY_SKIP
	}

	out := bufio.NewWriter(os.Stdout)
	err = dis.Write(out, data)
	out.Flush()
	if err != nil {
		log.Fatalf("%v: %v", file, err)
	}
}
