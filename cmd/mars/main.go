// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/ezrec/mars/internal"
	"github.com/ezrec/mars/library"
	"github.com/ezrec/mars/mars"
	"github.com/ezrec/mars/redcode"
)

const (
	WIN_POINTS    = 3  // Points for a win.
	TIE_POINTS    = 1  // Points for a tie.
	DEFAULT_WIDTH = 64 // Core map width when stdout is not a terminal.
)

// defines collects '-D NAME=VALUE' equates.
type defines map[string]string

func (d defines) String() string {
	var parts []string
	for name, value := range d {
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, ",")
}

func (d defines) Set(text string) (err error) {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		err = errors.Errorf("%v: expected NAME=VALUE", text)
		return
	}
	d[name] = value
	return
}

// source is a Redcode file to load.
type source struct {
	filesys fs.FS
	name    string
	path    string
}

// findSources expands the arguments into Redcode files.
func findSources(args []string) (sources []source, err error) {
	for _, arg := range args {
		var info fs.FileInfo
		info, err = os.Stat(arg)
		if err != nil {
			return
		}

		if !info.IsDir() {
			sources = append(sources, source{
				filesys: os.DirFS(filepath.Dir(arg)),
				name:    filepath.Base(arg),
				path:    arg,
			})
			continue
		}

		filesys := os.DirFS(arg)
		var names []string
		names, err = library.Find(filesys)
		if err != nil {
			err = errors.Wrapf(err, "%v", arg)
			return
		}
		for _, name := range names {
			sources = append(sources, source{
				filesys: filesys,
				name:    name,
				path:    filepath.Join(arg, filepath.FromSlash(name)),
			})
		}
	}

	return
}

// coreMap renders the owner of every cell, 'width' cells per line.
func coreMap(m *mars.Mars, width int) string {
	var sb strings.Builder
	for index, cell := range m.Core.Cells() {
		if index != 0 && index%width == 0 {
			sb.WriteByte('\n')
		}
		switch {
		case cell.Owner < 0:
			sb.WriteByte('.')
		case cell.Instruction.Opcode == redcode.OP_DAT:
			sb.WriteByte(byte('a' + int(cell.Owner)%26))
		default:
			sb.WriteByte(byte('A' + int(cell.Owner)%26))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// mapWidth returns the core map width for stdout.
func mapWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		width, _, err := term.GetSize(fd)
		if err == nil && width > 0 {
			return width
		}
	}
	return DEFAULT_WIDTH
}

func main() {
	config := mars.DefaultConfig()
	equates := defines{}

	var rounds int
	var listing string
	var dump bool
	var verbose bool

	flag.IntVar(&config.MemorySize, "s", config.MemorySize, "Core size")
	flag.IntVar(&config.MaxCycles, "c", config.MaxCycles, "Cycles until a tie")
	flag.IntVar(&config.MaxProcesses, "p", config.MaxProcesses, "Maximum processes per warrior")
	flag.IntVar(&config.MinDistance, "d", config.MinDistance, "Minimum distance between warriors")
	flag.Int64Var(&config.Seed, "S", 0, "Placement seed, 0 for a random seed")
	flag.IntVar(&rounds, "r", 1, "Rounds to play")
	flag.StringVar(&listing, "l", "", "Directory to write warrior listings to")
	flag.BoolVar(&dump, "m", false, "Show the core map after each round")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(equates, "D", "Predefine an equate, as NAME=VALUE")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("%v: no warriors", os.Args[0])
	}

	sources, err := findSources(flag.Args())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if len(sources) == 0 {
		log.Fatalf("%v: no warriors in %v", os.Args[0], flag.Args())
	}

	config.WarriorCount = len(sources)

	m, err := mars.NewMars(config)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	m.Verbose = verbose

	if verbose {
		log.Printf("mars: seed %v", m.Seed)
	}

	lib := &library.Library{
		Verbose:   verbose,
		Predefine: maps.Collect(internal.IterSeq2Concat(m.Defines(), maps.All(equates))),
	}

	var programs []*redcode.Program
	for _, src := range sources {
		prog, err := lib.Assemble(src.filesys, src.name)
		if err != nil {
			log.Fatalf("%v: %v", src.path, err)
		}
		lib.Add(strings.TrimSuffix(src.name, filepath.Ext(src.name)), prog)
		programs = append(programs, prog)
	}

	if len(listing) != 0 {
		err = lib.Marshal(library.DirFS(listing))
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wins := make([]int, len(programs))
	ties := make([]int, len(programs))

	for round := 1; round <= rounds; round++ {
		m.Reset()
		for _, prog := range programs {
			_, err = m.Load(prog)
			if err != nil {
				log.Fatalf("%v: %v", prog.Name, err)
			}
		}

		event, err := m.Run(ctx)
		if err != nil {
			log.Fatalf("round %d: %v", round, err)
		}

		fmt.Printf("round %d: %v\n", round, event)

		switch event.Kind {
		case mars.EVENT_WIN:
			wins[event.Winner.Id]++
		case mars.EVENT_TIE:
			for _, w := range event.Alive {
				ties[w.Id]++
			}
		}

		if dump {
			fmt.Print(coreMap(m, mapWidth()))
		}
	}

	fmt.Printf("%-24s %6s %6s %6s\n", "warrior", "wins", "ties", "score")
	for n, prog := range programs {
		score := wins[n]*WIN_POINTS + ties[n]*TIE_POINTS
		fmt.Printf("%-24s %6d %6d %6d\n", prog.Name, wins[n], ties[n], score)
	}
}
