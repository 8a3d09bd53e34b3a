// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package library loads Redcode warriors from, and writes their listings to,
// a file system.
package library

import (
	"io/fs"
	"log"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/ezrec/mars/redcode"
)

// EXTENSION is the file extension of Redcode source files.
const EXTENSION = ".red"

var reRedcode = regexp.MustCompile(`(?i)\.red$`)

// Library is a collection of assembled warriors, by name.
type Library struct {
	Verbose   bool                        // If set, enables verbose logging.
	Predefine map[string]string           // Equates predefined for every warrior.
	Warriors  map[string]*redcode.Program // Warriors, by their path without extension.
}

// Add adds a program to the library, replacing any of the same name.
func (lib *Library) Add(name string, prog *redcode.Program) {
	if lib.Warriors == nil {
		lib.Warriors = make(map[string]*redcode.Program)
	}
	lib.Warriors[name] = prog
}

// Names returns the sorted warrior names.
func (lib *Library) Names() []string {
	return slices.Sorted(maps.Keys(lib.Warriors))
}

// Get returns a warrior by name.
func (lib *Library) Get(name string) (prog *redcode.Program, ok bool) {
	prog, ok = lib.Warriors[name]
	return
}

// Assemble assembles a single file of a file system.
func (lib *Library) Assemble(filesys fs.FS, name string) (prog *redcode.Program, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &redcode.Assembler{Verbose: lib.Verbose}
	for equ, value := range lib.Predefine {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = errors.Wrapf(err, "%v", name)
		return
	}

	if len(prog.Name) == 0 {
		prog.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}

	if lib.Verbose {
		log.Printf("library: %v: %v, %d instructions", name, prog.Name, prog.Len())
	}

	return
}

// Find returns the names of every Redcode file in a file system, in
// lexical order.
func Find(filesys fs.FS) (names []string, err error) {
	err = fs.WalkDir(filesys, ".", func(name string, d fs.DirEntry, err_in error) (err error) {
		if err_in != nil {
			err = errors.Wrapf(err_in, "%v", name)
			return
		}
		if d.IsDir() || !reRedcode.MatchString(d.Name()) {
			return
		}

		names = append(names, name)
		return
	})

	return
}

// Unmarshal assembles every Redcode file found in a file system.
func (lib *Library) Unmarshal(filesys fs.FS) (err error) {
	names, err := Find(filesys)
	if err != nil {
		return
	}

	for _, name := range names {
		var prog *redcode.Program
		prog, err = lib.Assemble(filesys, name)
		if err != nil {
			return
		}
		lib.Add(strings.TrimSuffix(name, path.Ext(name)), prog)
	}

	return
}

// Marshal writes a listing of every warrior to a file system, creating
// directories as needed.
func (lib *Library) Marshal(filesys CreateFS) (err error) {
	for _, name := range lib.Names() {
		dir, base := path.Split(name)

		subsys := filesys
		if len(dir) != 0 {
			subsys, err = mkdirAll(filesys, strings.TrimSuffix(dir, "/"))
			if err != nil {
				return
			}
		}

		err = marshal(subsys, base+EXTENSION, lib.Warriors[name])
		if err != nil {
			err = errors.Wrapf(err, "%v", name)
			return
		}
	}

	return
}

// mkdirAll returns the subdirectory, creating each missing directory.
func mkdirAll(filesys CreateFS, dir string) (sub CreateFS, err error) {
	sub = filesys
	for _, part := range strings.Split(dir, "/") {
		var next CreateFS
		next, err = sub.Sub(part)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return
			}
			// Create the directory
			err = sub.Mkdir(part, 0755)
			if err != nil {
				return
			}
			next, err = sub.Sub(part)
			if err != nil {
				return
			}
		}
		sub = next
	}

	return
}

func marshal(filesys CreateFS, name string, prog *redcode.Program) (err error) {
	ouf, err := filesys.Create(name)
	if err != nil {
		return
	}

	_, err = ouf.Write([]byte(prog.String()))
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}

	return
}
