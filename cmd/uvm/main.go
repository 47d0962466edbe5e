// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ezrec/uvm/asm"
	"github.com/ezrec/uvm/dump"
	"github.com/ezrec/uvm/harness"
	"github.com/ezrec/uvm/server"
	"github.com/ezrec/uvm/vm"
)

func main() {
	var compile string
	var binary string
	var save bool
	var memory int
	var registers int
	var xml string
	var xmlRange string
	var testDir string
	var listen string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".csv file to assemble")
	flag.StringVar(&binary, "b", "", ".bin file to execute (or write, with -s)")
	flag.BoolVar(&save, "s", false, "Save binary, do not execute")
	flag.IntVar(&memory, "m", vm.MEMORY_SIZE, "Memory size, in words")
	flag.IntVar(&registers, "r", vm.REGISTER_COUNT, "Register count")
	flag.StringVar(&xml, "x", "", "XML memory dump output ('-' for stdout)")
	flag.StringVar(&xmlRange, "range", "100-220", "Memory dump range, start-end")
	flag.StringVar(&testDir, "t", "", "Run all .csv scripts in a directory")
	flag.StringVar(&listen, "l", "", "Serve the HTTP API on this address")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(testDir) != 0 {
		runner := &harness.Runner{
			Verbose:       verbose,
			MemorySize:    memory,
			RegisterCount: registers,
		}
		passed, failed, err := runner.RunDir(testDir)
		log.Printf("%v: %v passed, %v failed", testDir, passed, failed)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(listen) != 0 {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()

		err = server.New(logger).Listen(listen)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var bin []byte

	// Assemble a new binary, or load an existing one.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		bin, err = asm.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else if len(binary) != 0 && !save {
		var err error
		bin, err = os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	} else {
		log.Fatalf("%v: Nothing to do; need -c or -b", os.Args[0])
	}

	if save {
		if len(binary) == 0 {
			log.Fatalf("%v: -s needs a -b output file", os.Args[0])
		}
		err := os.WriteFile(binary, bin, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		return
	}

	m, err := vm.NewMachine(memory, registers)
	if err != nil {
		log.Fatal(err)
	}
	m.Verbose = verbose

	err = m.Load(bin)
	if err != nil {
		log.Fatal(err)
	}

	err = m.Run()
	if err != nil {
		log.Fatal(err)
	}

	if verbose {
		log.Printf("%v", m)
	}

	if len(xml) != 0 {
		start, end, err := dump.ParseRange(xmlRange)
		if err != nil {
			log.Fatalf("%v: %v", xmlRange, err)
		}

		doc, err := dump.New(m, start, end)
		if err != nil {
			log.Fatal(err)
		}

		ouf := os.Stdout
		if xml != "-" {
			ouf, err = os.Create(xml)
			if err != nil {
				log.Fatalf("%v: %v", xml, err)
			}
			defer ouf.Close()
		}

		_, err = doc.WriteTo(ouf)
		if err != nil {
			log.Fatal(err)
		}
	}
}
