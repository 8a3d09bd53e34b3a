package mars

import (
	"errors"

	"github.com/ezrec/mars/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New(f("invalid configuration"))
	ErrMemorySize           = errors.New(f("memory size must be positive"))
	ErrMaxCycles            = errors.New(f("maximum cycles must be positive"))
	ErrWarriorCount         = errors.New(f("warrior count must be positive"))
	ErrMaxProcesses         = errors.New(f("maximum processes must be positive"))
	ErrMinDistance          = errors.New(f("minimum distance must not be negative"))

	// Load errors
	ErrTooManyWarriors = errors.New(f("too many warriors"))
	ErrNoRoom          = errors.New(f("no room in core for warrior"))

	// Match errors
	ErrNoWarriors = errors.New(f("no warriors loaded"))
	ErrMatchOver  = errors.New(f("match is over"))
)

// ErrRuntime locates a fatal engine error in the match.
type ErrRuntime struct {
	Warrior string
	Cycle   int
	Ip      int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("%v cycle %d at %d %v", err.Warrior, err.Cycle, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
