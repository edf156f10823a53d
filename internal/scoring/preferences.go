package scoring

// Preferences are the user's toggles for which dimensions affect the score.
// They are read on every scoring call and never cached.
type Preferences struct {
	ConsiderTemperature bool `json:"considerTemperature"`
	ConsiderWind        bool `json:"considerWind"`
	ConsiderRain        bool `json:"considerRain"`
}

// DefaultPreferences has every dimension enabled.
func DefaultPreferences() Preferences {
	return Preferences{
		ConsiderTemperature: true,
		ConsiderWind:        true,
		ConsiderRain:        true,
	}
}
