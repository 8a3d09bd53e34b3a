package mars

import (
	"errors"
	"fmt"
	"iter"
	"maps"
)

// Config is the configuration of a match.
type Config struct {
	MemorySize   int   // Cells in the core.
	MaxCycles    int   // Cycles before the match is a tie.
	WarriorCount int   // Maximum number of warriors loaded.
	MaxProcesses int   // Maximum processes per warrior.
	MinDistance  int   // Minimum cells between loaded warriors.
	Seed         int64 // Seed for warrior placement, or 0 to seed from the clock.
}

// DefaultConfig returns the customary settings for a two warrior match.
func DefaultConfig() Config {
	return Config{
		MemorySize:   8000,
		MaxCycles:    80000,
		WarriorCount: 2,
		MaxProcesses: 8000,
		MinDistance:  100,
	}
}

// Validate checks the configuration.
func (config Config) Validate() (err error) {
	switch {
	case config.MemorySize <= 0:
		err = ErrMemorySize
	case config.MaxCycles <= 0:
		err = ErrMaxCycles
	case config.WarriorCount <= 0:
		err = ErrWarriorCount
	case config.MaxProcesses <= 0:
		err = ErrMaxProcesses
	case config.MinDistance < 0:
		err = ErrMinDistance
	}

	if err != nil {
		err = errors.Join(ErrInvalidConfiguration, err)
	}

	return
}

// Defines returns the assembler equates describing the configuration.
func (config Config) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"CORESIZE":     fmt.Sprintf("%d", config.MemorySize),
		"MAXCYCLES":    fmt.Sprintf("%d", config.MaxCycles),
		"WARRIORS":     fmt.Sprintf("%d", config.WarriorCount),
		"MAXPROCESSES": fmt.Sprintf("%d", config.MaxProcesses),
		"MINDISTANCE":  fmt.Sprintf("%d", config.MinDistance),
	}
	return maps.All(defines)
}
