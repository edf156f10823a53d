package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure covers transport errors and any non-success status from an upstream API.
	ErrNetworkFailure = errors.New("network failure")
	// ErrNoResultFound is returned when a geocoding query has no match.
	ErrNoResultFound = errors.New("no result found")
	// ErrSearchFailure marks a failed geocoding request, as opposed to a query without a match.
	ErrSearchFailure = errors.New("location search failed")

	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation position unavailable")
	ErrGeolocationTimeout     = errors.New("geolocation timed out")
)

// GeolocationError maps a browser PositionError code to the matching sentinel.
// Codes: 1 permission denied, 2 position unavailable, 3 timeout.
func GeolocationError(code int) error {
	switch code {
	case 1:
		return ErrGeolocationDenied
	case 2:
		return ErrGeolocationUnavailable
	case 3:
		return ErrGeolocationTimeout
	default:
		return fmt.Errorf("%w: code %d", ErrGeolocationUnavailable, code)
	}
}

// IsGeolocation reports whether err is one of the geolocation failures.
func IsGeolocation(err error) bool {
	return errors.Is(err, ErrGeolocationDenied) ||
		errors.Is(err, ErrGeolocationUnavailable) ||
		errors.Is(err, ErrGeolocationTimeout)
}
