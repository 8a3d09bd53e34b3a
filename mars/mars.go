// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mars

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
	"time"

	"github.com/ezrec/mars/core"
	"github.com/ezrec/mars/cpu"
	"github.com/ezrec/mars/internal"
	"github.com/ezrec/mars/redcode"
)

const (
	VERSION = 100 // Simulator version, as reported to warriors.
)

var _mars_defines = map[string]string{
	"VERSION": fmt.Sprintf("%v", VERSION),
}

// Mars is a match between warriors in a shared core.
type Mars struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Execution engine, and its core.

	Config   Config     // Match configuration.
	Seed     int64      // Seed in use for warrior placement.
	Warriors []*Warrior // Loaded warriors, in load order.
	Cycle    int        // Cycles executed since the match started.

	alive []*Warrior // Warriors still in the rotation.
	turn  int        // Index into 'alive' of the warrior to run next.
	over  bool
	rand  *rand.Rand
}

// NewMars creates a match for a configuration.
func NewMars(config Config) (m *Mars, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	mem, err := core.NewCore(config.MemorySize)
	if err != nil {
		err = errors.Join(ErrInvalidConfiguration, err)
		return
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m = &Mars{
		Cpu:    cpu.NewCpu(mem),
		Config: config,
		Seed:   seed,
		rand:   rand.New(rand.NewSource(seed)),
	}

	return
}

// Defines returns an iterator over the assembler equates for the match.
func (m *Mars) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_mars_defines),
		m.Config.Defines(),
	)
}

// Reset clears the core and unloads all warriors.
// The placement random stream is not reseeded, so successive rounds
// place warriors differently.
func (m *Mars) Reset() {
	m.Core.Reset()
	m.Warriors = nil
	m.alive = nil
	m.turn = 0
	m.Cycle = 0
	m.over = false
}

// Alive returns the warriors still in the match, in rotation order.
func (m *Mars) Alive() []*Warrior {
	return m.alive
}

// Over returns true once the match has ended.
func (m *Mars) Over() bool {
	return m.over
}

// fits returns true if a program of 'length' cells at 'base' keeps at
// least the minimum distance from every loaded warrior.
func (m *Mars) fits(base int, length int) bool {
	size := m.Core.Size()
	for _, w := range m.Warriors {
		d := m.Core.Normalize(base - w.Base)
		if d < w.Program.Len()+m.Config.MinDistance {
			return false
		}
		if size-d < length+m.Config.MinDistance {
			return false
		}
	}
	return true
}

// check returns an error if the program cannot be added to the match.
func (m *Mars) check(prog *redcode.Program) (err error) {
	switch {
	case prog == nil || prog.Len() == 0:
		err = redcode.ErrProgramEmpty
	case m.Cycle > 0 || m.over:
		err = ErrMatchOver
	case len(m.Warriors) >= m.Config.WarriorCount:
		err = ErrTooManyWarriors
	case prog.Len() > m.Core.Size():
		err = ErrNoRoom
	}
	return
}

// Load places a program at a random base address that keeps the minimum
// distance from the warriors already loaded.
func (m *Mars) Load(prog *redcode.Program) (w *Warrior, err error) {
	err = m.check(prog)
	if err != nil {
		return
	}

	var bases []int
	for base := range m.Core.Size() {
		if m.fits(base, prog.Len()) {
			bases = append(bases, base)
		}
	}

	if len(bases) == 0 {
		err = ErrNoRoom
		return
	}

	return m.LoadAt(prog, bases[m.rand.Intn(len(bases))])
}

// LoadAt places a program at the base address, without distance checks.
func (m *Mars) LoadAt(prog *redcode.Program, base int) (w *Warrior, err error) {
	err = m.check(prog)
	if err != nil {
		return
	}

	id := core.Owner(len(m.Warriors))
	base = m.Core.Normalize(base)

	name := prog.Name
	if name == "" {
		name = f("warrior %d", int(id)+1)
	}

	w = &Warrior{
		Id:         id,
		Name:       name,
		Author:     prog.Author,
		Program:    prog,
		Base:       base,
		Queue:      Queue{Limit: m.Config.MaxProcesses},
		Eliminated: -1,
	}

	m.Core.Load(base, prog.Instructions, id)
	w.Queue.Push(m.Core.Normalize(base + prog.Start))

	m.Warriors = append(m.Warriors, w)
	m.alive = append(m.alive, w)

	if m.Verbose {
		log.Printf("mars: load %v at %d, start %d", w, base, prog.Start)
	}

	return
}

// Tick executes one instruction of the next warrior in the rotation.
func (m *Mars) Tick() (event Event, err error) {
	if m.over {
		err = ErrMatchOver
		return
	}

	if len(m.alive) == 0 {
		err = ErrNoWarriors
		return
	}

	m.Cpu.Verbose = m.Verbose

	if m.turn >= len(m.alive) {
		m.turn = 0
	}

	w := m.alive[m.turn]
	ip, _ := w.Queue.Pop()

	step, err := m.Cpu.Execute(w.Id, ip)
	if err != nil {
		m.over = true
		err = &ErrRuntime{Warrior: w.Name, Cycle: m.Cycle, Ip: ip, Err: err}
		return
	}

	if !step.Terminated {
		for _, next := range step.Next {
			if !w.Queue.Push(next) && m.Verbose {
				log.Printf("mars: %v process limit, dropped %d", w, next)
			}
		}
	}

	m.Cycle++
	event = Event{Kind: EVENT_CONTINUE, Cycle: m.Cycle}

	if w.Alive() {
		m.turn++
	} else {
		w.Eliminated = m.Cycle
		m.alive = append(m.alive[:m.turn], m.alive[m.turn+1:]...)
		event.Kind = EVENT_ELIMINATED
		event.Warrior = w
		if m.Verbose {
			log.Printf("mars: %v eliminated at cycle %d", w, m.Cycle)
		}
	}

	if m.turn >= len(m.alive) {
		m.turn = 0
	}

	switch {
	case len(m.alive) == 0:
		event.Kind = EVENT_LOSS
		m.over = true
	case len(m.Warriors) > 1 && len(m.alive) == 1:
		event.Kind = EVENT_WIN
		event.Winner = m.alive[0]
		m.over = true
	case m.Cycle >= m.Config.MaxCycles:
		event.Kind = EVENT_TIE
		event.Alive = m.alive
		m.over = true
	}

	if m.over && m.Verbose {
		log.Printf("mars: %v", event)
	}

	return
}

// Run ticks the match until it is over, an error occurs, or the context
// is done.
func (m *Mars) Run(ctx context.Context) (event Event, err error) {
	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		event, err = m.Tick()
		if err != nil || event.Over() {
			return
		}
	}
}
