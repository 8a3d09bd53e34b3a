package mars

import (
	"github.com/ezrec/mars/core"
	"github.com/ezrec/mars/redcode"
)

// Warrior is a loaded program and its processes.
type Warrior struct {
	Id      core.Owner       // Identifier, also the owner of the cells it writes.
	Name    string           // Name of the warrior.
	Author  string           // Author of the warrior.
	Program *redcode.Program // Program the warrior was loaded from.
	Base    int              // Absolute address the program was loaded at.
	Queue   Queue            // Process queue.

	Eliminated int // Cycle the warrior was eliminated at, or -1 while alive.
}

// Alive returns true while the warrior has at least one process.
func (w *Warrior) Alive() bool {
	return !w.Queue.Empty()
}

func (w *Warrior) String() string {
	return w.Name
}
