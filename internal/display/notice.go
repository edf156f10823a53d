package display

import (
	"errors"

	"github.com/i474232898/runnability/internal/weather"
)

// Notice returns the user-visible message for a failed user action.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, weather.ErrNoResultFound):
		return "Location not found. Please try another search."
	case weather.IsGeolocation(err):
		return "Unable to get your location. Please try searching instead."
	case errors.Is(err, weather.ErrSearchFailure):
		return "Error searching for location. Please try again."
	case errors.Is(err, weather.ErrNetworkFailure):
		return "Error updating weather data. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
