// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
	"github.com/ezrec/rvsim/listing"
)

var (
	ErrInputMissing   = errors.New("one of -c or -r is required")
	ErrInputExclusive = errors.New("-c and -r are mutually exclusive")
)

// checkInputs requires exactly one of a source file or a listing.
func checkInputs(compile string, run string) (err error) {
	switch {
	case len(compile) == 0 && len(run) == 0:
		err = ErrInputMissing
	case len(compile) != 0 && len(run) != 0:
		err = ErrInputExclusive
	}
	return
}

// create opens an output path, with "-" as stdout.
func create(path string) (w io.WriteCloser, err error) {
	if path == "-" {
		w = os.Stdout
		return
	}

	w, err = os.Create(path)
	return
}

func main() {
	var compile string
	var output string
	var run string
	var save bool
	var limit int
	var verbose bool

	predefine := map[string]string{}

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&output, "o", "-", "Listing output")
	flag.StringVar(&run, "r", "", "Listing file to execute")
	flag.BoolVar(&save, "s", false, "Save listing, do not execute")
	flag.IntVar(&limit, "l", cpu.CYCLE_LIMIT, "Maximum clock cycles, 0 for no limit")
	flag.Func("D", "Predefine an equate, as NAME=VALUE", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return cpu.ErrEquateSyntax
		}
		predefine[name] = value
		return nil
	})
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	err := checkInputs(compile, run)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Limit = limit

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range predefine {
			asm.Predefine(name, value)
		}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if save || output != "-" {
			ouf, err := create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			err = listing.Write(ouf, prog)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			if ouf != os.Stdout {
				err = ouf.Close()
				if err != nil {
					log.Fatalf("%v: %v", output, err)
				}
			}
		}

		emu.LoadProgram(prog)
	}

	// Load a previously saved listing.
	if len(run) != 0 {
		inf, err := os.Open(run)
		if err != nil {
			log.Fatalf("%v: %v", run, err)
		}
		defer inf.Close()

		img, err := listing.Read(inf)
		if err != nil {
			log.Fatalf("%v: %v", run, err)
		}

		emu.Load(img)
	}

	if save {
		return
	}

	halt, err := emu.Run()
	if verbose {
		log.Printf("halt: %v, %d cycles", halt, emu.Ticks())
	}

	derr := emu.Dump(os.Stdout)
	if derr != nil {
		log.Fatal(derr)
	}

	if err != nil {
		log.Fatal(err)
	}
}
