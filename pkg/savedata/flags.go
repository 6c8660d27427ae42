package savedata

import (
	"fmt"
	"strings"
)

// SaveFlag names a bit in the header flag word.
type SaveFlag int

const (
	TimeLocked SaveFlag = iota
	WeatherLocked
	AboardShip
	// Saved at a game prompt such as a chapter end.
	Intermission
	Dlc4
	// Mid-run gauntlet data exists.
	Gauntlet
)

var AllFlags = []SaveFlag{TimeLocked, WeatherLocked, AboardShip, Intermission, Dlc4, Gauntlet}

var flagNames = map[SaveFlag]string{
	TimeLocked:    "time_locked",
	WeatherLocked: "weather_locked",
	AboardShip:    "aboard_ship",
	Intermission:  "intermission",
	Dlc4:          "dlc4",
	Gauntlet:      "gauntlet",
}

func (f SaveFlag) String() string {
	if n, ok := flagNames[f]; ok {
		return n
	}
	return fmt.Sprintf("SaveFlag(%d)", int(f))
}

func ParseSaveFlag(s string) (SaveFlag, error) {
	s = strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for f, n := range flagNames {
		if n == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("savedata: unknown flag %q", s)
}
