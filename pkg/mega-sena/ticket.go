package megasena

import (
	"sort"
	"strconv"
	"strings"
)

// Ticket is a sorted set of distinct numbers in [1,60]. Generated tickets hold exactly six
// numbers except for the documented short-pool cases.
type Ticket []int

// NewTicket returns a sorted copy of numbers as a Ticket
func NewTicket(numbers ...int) Ticket {
	t := make(Ticket, len(numbers))
	copy(t, numbers)
	sort.Ints(t)
	return t
}

// Valid reports whether the ticket is exactly six distinct, sorted numbers in range
func (t Ticket) Valid() bool {
	if len(t) != TicketSize {
		return false
	}
	for i, n := range t {
		if !inRange(n) {
			return false
		}
		if i > 0 && t[i-1] >= n {
			return false
		}
	}
	return true
}

// Complete reports whether the ticket has all six numbers
func (t Ticket) Complete() bool {
	return len(t) == TicketSize
}

// Contains reports whether n is on the ticket
func (t Ticket) Contains(n int) bool {
	i := sort.SearchInts(t, n)
	return i < len(t) && t[i] == n
}

// Evens counts the even numbers on the ticket
func (t Ticket) Evens() int {
	evens := 0
	for _, n := range t {
		if n%2 == 0 {
			evens++
		}
	}
	return evens
}

// Sum adds up the ticket numbers
func (t Ticket) Sum() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}

// Key is the duplicate-detection signature of the ticket
func (t Ticket) Key() string {
	return t.String()
}

func (t Ticket) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// mask returns the ticket as a bit set over [1,60]
func (t Ticket) mask() uint64 {
	var m uint64
	for _, n := range t {
		m |= 1 << uint(n)
	}
	return m
}

// band returns the index of the 20-wide band [1,20], [21,40], [41,60] holding n
func band(n int) int {
	return (n - 1) / 20
}

// quadrant returns the index of the 15-wide band [1,15] .. [46,60] holding n
func quadrant(n int) int {
	return (n - 1) / 15
}

// isBalanced reports whether the ticket has exactly three even numbers and
// between one and three numbers in each 20-wide band
func isBalanced(t Ticket) bool {
	if t.Evens() != 3 {
		return false
	}
	var bands [3]int
	for _, n := range t {
		bands[band(n)]++
	}
	for _, c := range bands {
		if c < 1 || c > 3 {
			return false
		}
	}
	return true
}

func inRange(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}
