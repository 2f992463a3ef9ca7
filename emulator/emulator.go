// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/internal"
	"github.com/ezrec/m6502/io"
)

const (
	ORIGIN_DEFAULT = uint16(0x0600) // Load address of binaries, by convention.
)

var _emulator_defines = map[string]string{
	"ORIGIN_DEFAULT": fmt.Sprintf("0x%x", ORIGIN_DEFAULT),
	"MEMORY_SIZE":    fmt.Sprintf("0x%x", io.MEMORY_SIZE),
}

var opcodeBrk, _ = cpu.Encode(cpu.Instruction{Mnemonic: cpu.OP_BRK, Mode: cpu.MODE_IMPLICIT})

// Emulator state. CPU + memory + tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Memory io.Memory // 64KiB of RAM.
	Rom    io.Rom    // Read-only image over RAM.
	Tape   io.Tape   // Tape mapped at io.TAPE_BASE.
	Trace  io.Trace  // Bus as seen by the CPU.

	StopOnBrk bool // If set, a BRK instruction ends the run.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program:   &cpu.Program{Origin: ORIGIN_DEFAULT},
		StopOnBrk: true,
	}

	emu.Rom.Bus = &emu.Memory
	emu.Tape.Bus = &emu.Rom
	emu.Tape.Base = io.TAPE_BASE
	emu.Trace.Bus = &emu.Tape
	emu.Cpu = cpu.NewCpu(&emu.Trace)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Tape.Defines(),
	)
}

// LoadBinary replaces the program with a flat binary image.
func (emu *Emulator) LoadBinary(base uint16, data []uint8) (err error) {
	if int(base)+len(data) > io.MEMORY_SIZE {
		err = &io.ErrLoadOverflow{Base: base, Length: len(data)}
		return
	}

	emu.Program = &cpu.Program{
		Origin: base,
		Opcodes: []cpu.Opcode{
			{Address: base, Bytes: data},
		},
	}

	return
}

// LoadRom maps a read-only image that ends at the top of memory, so that
// it supplies the interrupt vectors.
func (emu *Emulator) LoadRom(data []uint8) (err error) {
	base := io.MEMORY_SIZE - len(data)
	if base < 0 {
		err = &io.ErrLoadOverflow{Base: 0, Length: len(data)}
		return
	}

	err = emu.Rom.Load(uint16(base), data)
	return
}

// Reset clears memory, loads the program, and resets the CPU.
// If the program does not set the reset vector, it is pointed at the
// program origin.
func (emu *Emulator) Reset() (err error) {
	emu.Memory.Reset()
	emu.Tape.Rewind()
	emu.Program.Load(&emu.Memory)

	if io.ReadWord(&emu.Rom, cpu.VECTOR_RESET) == 0 {
		io.WriteWord(&emu.Memory, cpu.VECTOR_RESET, emu.Program.Origin)
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Rom.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Trace.Reset()

	if emu.Verbose {
		log.Printf("emulator: reset, origin %04x", emu.Program.Origin)
	}

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// A run is done at a BRK, if StopOnBrk is set, or at an instruction that
// jumps to itself.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.StopOnBrk && emu.Rom.Read(pc) == opcodeBrk {
		if emu.Verbose {
			log.Printf("emulator: brk at %04x", pc)
		}
		done = true
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	if emu.Tape.Err != nil {
		err = emu.Tape.Err
		return
	}

	if emu.Cpu.PC == pc {
		if emu.Verbose {
			log.Printf("emulator: trapped at %04x", pc)
		}
		done = true
	}

	return
}

// Run ticks until done, or until limit instructions have executed.
// A limit of zero is unlimited.
func (emu *Emulator) Run(limit int) (done bool, err error) {
	for n := 0; limit == 0 || n < limit; n++ {
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	return
}
