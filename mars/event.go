package mars

// EventKind is the kind of outcome of a tick.
type EventKind int

const (
	EVENT_CONTINUE   = EventKind(iota) // The match continues.
	EVENT_ELIMINATED                   // A warrior lost its last process; the match continues.
	EVENT_WIN                          // One warrior remains; the match is over.
	EVENT_TIE                          // Cycles are exhausted; the match is over.
	EVENT_LOSS                         // The only warrior of a solo match died; the match is over.
)

var _event_kind_string = map[EventKind]string{
	EVENT_CONTINUE:   "continue",
	EVENT_ELIMINATED: "eliminated",
	EVENT_WIN:        "win",
	EVENT_TIE:        "tie",
	EVENT_LOSS:       "loss",
}

func (kind EventKind) String() string {
	str, ok := _event_kind_string[kind]
	if !ok {
		return f("event(%d)", int(kind))
	}
	return str
}

// Event is the outcome of a tick.
type Event struct {
	Kind    EventKind
	Cycle   int        // Cycle count after the tick.
	Warrior *Warrior   // Eliminated warrior, for EVENT_ELIMINATED and EVENT_LOSS.
	Winner  *Warrior   // Winning warrior, for EVENT_WIN.
	Alive   []*Warrior // Surviving warriors, for EVENT_TIE.
}

// Over returns true if the event ends the match.
func (event Event) Over() bool {
	switch event.Kind {
	case EVENT_WIN, EVENT_TIE, EVENT_LOSS:
		return true
	}
	return false
}

func (event Event) String() string {
	switch event.Kind {
	case EVENT_ELIMINATED:
		return f("cycle %d: %v eliminated", event.Cycle, event.Warrior)
	case EVENT_WIN:
		return f("cycle %d: %v wins", event.Cycle, event.Winner)
	case EVENT_TIE:
		return f("cycle %d: tie between %d warriors", event.Cycle, len(event.Alive))
	case EVENT_LOSS:
		return f("cycle %d: %v died", event.Cycle, event.Warrior)
	}
	return f("cycle %d: %v", event.Cycle, event.Kind)
}
