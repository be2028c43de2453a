package progression

import (
	"strconv"
	"strings"

	"github.com/sterrysx/gymai/internal/workout"
)

// ParseRepTarget accepts only a plain non-negative integer descriptor.
// Ranges ("6-10"), "Failure" and durations ("30s") are malformed.
func ParseRepTarget(exercise, descriptor string) (int, error) {
	d := strings.TrimSpace(descriptor)
	if d == "" {
		return 0, &workout.MalformedRepTargetError{Exercise: exercise, Descriptor: descriptor}
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return 0, &workout.MalformedRepTargetError{Exercise: exercise, Descriptor: descriptor}
		}
	}

	target, err := strconv.Atoi(d)
	if err != nil {
		return 0, &workout.MalformedRepTargetError{Exercise: exercise, Descriptor: descriptor}
	}
	return target, nil
}
