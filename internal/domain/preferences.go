package domain

// Preferences are per-installation display and entry defaults.
type Preferences struct {
	DefaultCategory     string
	ShowSeconds         bool
	ClockFormat         string
	RoundManualToMinute bool
}

// DefaultPreferences returns the preferences used before any are saved.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultCategory: DefaultCategory,
		ShowSeconds:     true,
		ClockFormat:     "clock",
	}
}
