// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/codegen"
	"github.com/g10cpu/gog10/pkg/env"
	"github.com/g10cpu/gog10/pkg/object"
	"github.com/g10cpu/gog10/pkg/parser"
)

var helpvar bool
var debugvar bool
var outvar string

const usage = "gog10-asm [-debug] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Prints the sections, symbols and relocations of the generated "+
			"object image after assembly",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

type positioned interface {
	GetPosition() ast.Cursor
}

// printSourceError underlines the offending source text below the error
// message, re-reading the line from the input by its recorded offset.
func printSourceError(input io.ReadSeeker, err error) {
	cursor := ast.Cursor{}

	if positionedErr, ok := err.(positioned); ok {
		cursor = positionedErr.GetPosition()
	}

	if cursor.Line == 0 || input == nil {
		log.Println(err)
		return
	}

	if _, seekErr := input.Seek(cursor.LineByte, io.SeekStart); seekErr != nil {
		log.Println(err)
		return
	}

	line, _ := bufio.NewReader(input).ReadString('\n')
	line = strings.TrimSuffix(line, "\n")

	underline := "^"

	if cursor.Size > 1 {
		underline += strings.Repeat("~", int(cursor.Size)-1)
	}

	log.Printf(
		"%s\n%s\n\033[31m%*s\033[0m",
		err,
		line,
		cursor.Column-1+len(underline),
		underline,
	)
}

func printImage(obj *object.Object) {
	for i, sec := range obj.Sections {
		fmt.Printf(
			"section %d %-16s base=%08x size=%6d kind=%d flags=%04b\n",
			i, sec.Name, sec.Base, sec.Size, sec.Kind, sec.Flags,
		)
	}

	for i, sym := range obj.Symbols {
		fmt.Printf(
			"symbol %3d %-24s value=%08x section=%2d binding=%d\n",
			i, sym.Name, sym.Value, sym.Section, sym.Binding,
		)
	}

	for i, rel := range obj.Relocations {
		fmt.Printf(
			"reloc %3d section=%2d offset=%08x symbol=%2d kind=%d addend=%d\n",
			i, rel.Section, rel.Offset, rel.Symbol, rel.Kind, rel.Addend,
		)
	}
}

func gog10_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		infile = "<stdin>"
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.g10o"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid G10 assembly file", filename)
				return 1
			}
		}

		input = file
		infile = filename
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = strings.ReplaceAll(
				filename, filepath.Ext(filename), ".g10o",
			)
		}
	}

	prog, errs := parser.Parse(input, infile)

	if len(errs) > 0 {
		for _, err := range errs {
			if input == os.Stdin {
				log.Println(err)
			} else {
				printSourceError(input, err)
			}
		}

		return 1
	}

	obj := object.New()

	if err := codegen.Generate(prog, env.New(), obj); err != nil {
		if input == os.Stdin {
			log.Println(err)
		} else {
			printSourceError(input, err)
		}

		return 1
	}

	file, err := os.OpenFile(outvar, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)

	if err != nil {
		log.Println("Error creating output file")
		log.Println(err)
		return 1
	}

	defer file.Close()

	if err := gob.NewEncoder(file).Encode(obj); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		printImage(obj)
	}

	return 0
}

func main() {
	os.Exit(gog10_asm())
}
