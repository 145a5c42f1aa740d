package megasena

import (
	"fmt"
	"sort"
	"time"
)

// History is an immutable, date-ordered sequence of draws with unique ids
type History struct {
	draws []Draw
}

// NewHistory validates draws and returns them as a History sorted ascending by date.
// Each draw's numbers are stored sorted; the input slice is not modified.
func NewHistory(draws []Draw) (History, error) {
	var errs []ValidationError
	seen := make(map[int]bool, len(draws))
	sorted := make([]Draw, 0, len(draws))

	for _, d := range draws {
		if err := ValidateDraw(d); err != nil {
			if ve, ok := err.(ValidationErrors); ok {
				errs = append(errs, ve.Errors...)
				continue
			}
			return History{}, err
		}
		if seen[d.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("draw[%d]", d.ID),
				Message: ErrDuplicateDraw.Error(),
			})
			continue
		}
		seen[d.ID] = true
		sorted = append(sorted, Draw{ID: d.ID, Date: d.Date, Numbers: NewTicket(d.Numbers...)})
	}

	if len(errs) > 0 {
		return History{}, ValidationErrors{Errors: errs}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	return History{draws: sorted}, nil
}

// Len returns the number of draws
func (h History) Len() int {
	return len(h.draws)
}

// Draws returns a copy of the draws in chronological order
func (h History) Draws() []Draw {
	out := make([]Draw, len(h.draws))
	for i, d := range h.draws {
		out[i] = Draw{ID: d.ID, Date: d.Date, Numbers: append([]int(nil), d.Numbers...)}
	}
	return out
}

// Latest returns the most recent draw
func (h History) Latest() (Draw, bool) {
	if len(h.draws) == 0 {
		return Draw{}, false
	}
	d := h.draws[len(h.draws)-1]
	return Draw{ID: d.ID, Date: d.Date, Numbers: append([]int(nil), d.Numbers...)}, true
}

// Last returns a History holding the n most recent draws (all of them if n <= 0 or n > Len)
func (h History) Last(n int) History {
	if n <= 0 || n >= len(h.draws) {
		return h
	}
	return History{draws: h.draws[len(h.draws)-n:]}
}

// FilterByYears keeps draws dated within the last years*365 days before now.
// years <= 0 keeps the whole history.
func (h History) FilterByYears(years int, now time.Time) History {
	if years <= 0 {
		return h
	}
	limit := now.AddDate(0, 0, -years*365)

	// Draws are sorted, so the window is a suffix
	start := sort.Search(len(h.draws), func(i int) bool {
		return !h.draws[i].Date.Before(limit)
	})
	return History{draws: h.draws[start:]}
}

// DateRange returns the first and last draw dates
func (h History) DateRange() (first, last time.Time) {
	if len(h.draws) == 0 {
		return time.Time{}, time.Time{}
	}
	return h.draws[0].Date, h.draws[len(h.draws)-1].Date
}
