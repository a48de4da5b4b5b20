package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayMode selects which temperature series a heatmap shows.
type DisplayMode string

const (
	ModeMax  DisplayMode = "max"
	ModeMin  DisplayMode = "min"
	ModeBoth DisplayMode = "both"
)

// ParseDisplayMode accepts the short names and the CSV column names.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "max_temperature":
		return ModeMax, nil
	case "min", "min_temperature":
		return ModeMin, nil
	case "both":
		return ModeBoth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ShowsMax reports whether the max series is visible in this mode.
func (m DisplayMode) ShowsMax() bool { return m == ModeMax || m == ModeBoth }

// ShowsMin reports whether the min series is visible in this mode.
func (m DisplayMode) ShowsMin() bool { return m == ModeMin || m == ModeBoth }

// Level is a visualization variant.
type Level int

const (
	// Level1 is the monthly aggregate heatmap.
	Level1 Level = 1
	// Level2 adds a daily line chart inside each cell.
	Level2 Level = 2
)

// Levels lists every level in display order.
var Levels = []Level{Level1, Level2}

// ParseLevel parses "1" or "2".
func ParseLevel(s string) (Level, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || (Level(n) != Level1 && Level(n) != Level2) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return Level(n), nil
}

// Modes returns the display modes the level supports.
func (l Level) Modes() []DisplayMode {
	if l == Level2 {
		return []DisplayMode{ModeMax, ModeMin, ModeBoth}
	}
	return []DisplayMode{ModeMax, ModeMin}
}

// DefaultMode is the mode a level starts in.
func (l Level) DefaultMode() DisplayMode {
	if l == Level2 {
		return ModeBoth
	}
	return ModeMax
}

// Validate returns ErrInvalidMode when m is not usable at this level.
func (l Level) Validate(m DisplayMode) error {
	for _, allowed := range l.Modes() {
		if m == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q at level %d", ErrInvalidMode, m, l)
}

func (l Level) String() string {
	return "level" + strconv.Itoa(int(l))
}
