// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/disasm"
	"github.com/ezrec/m6502/emulator"
	"github.com/ezrec/m6502/statsview"
)

// stepper pauses before each instruction until a key is pressed.
type stepper struct {
	fd    int
	state *term.State
}

func newStepper() (st *stepper, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = fmt.Errorf("-step requires a terminal")
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	st = &stepper{fd: fd, state: state}
	return
}

// Wait shows the next instruction, and returns false if the user quits.
func (st *stepper) Wait(emu *emulator.Emulator) bool {
	line := disasm.At(&emu.Rom, emu.Cpu.PC)
	fmt.Printf("%-24v %v\r\n", line, emu.Cpu)

	var key [1]byte
	_, err := os.Stdin.Read(key[:])
	if err != nil {
		return false
	}

	switch key[0] {
	case 'q', 0x03, 0x04:
		return false
	}

	return true
}

func (st *stepper) Close() {
	if st.state != nil {
		_ = term.Restore(st.fd, st.state)
		st.state = nil
	}
}

func run() (err error) {
	var compile string
	var base uint
	var steps int
	var nop bool
	var step bool
	var input string
	var output string
	var verbose bool
	var stats bool
	var rom string

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.UintVar(&base, "b", uint(emulator.ORIGIN_DEFAULT), "Load address of a binary")
	flag.IntVar(&steps, "n", 0, "Maximum instructions to run, 0 for unlimited")
	flag.BoolVar(&nop, "nop", false, "Treat illegal opcodes as NOP")
	flag.BoolVar(&step, "step", false, "Single step, one key per instruction")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics")
	flag.StringVar(&rom, "rom", "", "ROM image, mapped at the top of memory")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	if nop {
		emu.Cpu.Policy = cpu.POLICY_NOP
	}

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			err = fmt.Errorf("unknown arguments: %v", flag.Args())
			return
		}

		var inf *os.File
		inf, err = os.Open(compile)
		if err != nil {
			return
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose, Origin: emulator.ORIGIN_DEFAULT}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			err = fmt.Errorf("%v: %w", compile, err)
			return
		}
	case flag.NArg() == 1:
		if base > 0xffff {
			err = fmt.Errorf("base $%x out of range", base)
			return
		}

		var data []byte
		data, err = os.ReadFile(flag.Arg(0))
		if err != nil {
			return
		}

		err = emu.LoadBinary(uint16(base), data)
		if err != nil {
			err = fmt.Errorf("%v: %w", flag.Arg(0), err)
			return
		}
	default:
		err = fmt.Errorf("usage: %v [options] (-c file.s | file.bin)", os.Args[0])
		return
	}

	if len(rom) != 0 {
		var data []byte
		data, err = os.ReadFile(rom)
		if err != nil {
			return
		}

		err = emu.LoadRom(data)
		if err != nil {
			err = fmt.Errorf("%v: %w", rom, err)
			return
		}
	}

	switch {
	case input == "-" && step:
		// stdin is the keyboard
	case input == "-":
		emu.Tape.Input = os.Stdin
	default:
		var inf *os.File
		inf, err = os.Open(input)
		if err != nil {
			return
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		var f *os.File
		f, err = os.Create(output)
		if err != nil {
			return
		}
		defer f.Close()
		ouf = f
	}
	emu.Tape.Output = ouf

	if stats {
		statsview.Launch(os.Stderr)
	}

	var st *stepper
	if step {
		st, err = newStepper()
		if err != nil {
			return
		}
		defer st.Close()
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	for n := 0; steps == 0 || n < steps; n++ {
		if st != nil && !st.Wait(emu) {
			break
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	if st != nil {
		st.Close()
	}

	fmt.Fprintf(os.Stderr, "%v ticks=%v reads=%v writes=%v\n",
		emu.Cpu, emu.Cpu.Ticks, emu.Trace.Reads, emu.Trace.Writes)

	return
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
