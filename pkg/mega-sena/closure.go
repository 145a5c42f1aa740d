package megasena

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"
)

// MaxPoolSize is the largest pool a closure can be built from
const MaxPoolSize = 15

// closureReference holds published ticket counts per pool size, for display only
var closureReference = map[int]ClosureInfo{
	7:  {PoolSize: 7, Total: 7, Quadra: 4, Quina: 6, Sena: 7},
	8:  {PoolSize: 8, Total: 28, Quadra: 6, Quina: 12, Sena: 28},
	9:  {PoolSize: 9, Total: 84, Quadra: 9, Quina: 30, Sena: 84},
	10: {PoolSize: 10, Total: 210, Quadra: 14, Quina: 50, Sena: 210},
	11: {PoolSize: 11, Total: 462, Quadra: 20, Quina: 77, Sena: 462},
	12: {PoolSize: 12, Total: 924, Quadra: 27, Quina: 132, Sena: 924},
	13: {PoolSize: 13, Total: 1716, Quadra: 35, Quina: 210, Sena: 1716},
	14: {PoolSize: 14, Total: 3003, Quadra: 45, Quina: 315, Sena: 3003},
	15: {PoolSize: 15, Total: 5005, Quadra: 56, Quina: 455, Sena: 5005},
	16: {PoolSize: 16, Total: 8008, Quadra: 70, Quina: 640, Sena: 8008},
}

// ClosureReference returns the reference ticket counts for a pool size. Sizes outside the
// table report only the number of 6-combinations and false.
func ClosureReference(poolSize int) (ClosureInfo, bool) {
	if info, ok := closureReference[poolSize]; ok {
		return info, true
	}
	info := ClosureInfo{PoolSize: poolSize}
	if poolSize >= TicketSize {
		info.Total = combin.Binomial(poolSize, TicketSize)
	}
	return info, false
}

// ClosureReferenceTable returns every reference row ordered by pool size
func ClosureReferenceTable() []ClosureInfo {
	rows := make([]ClosureInfo, 0, len(closureReference))
	for _, info := range closureReference {
		rows = append(rows, info)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PoolSize < rows[j].PoolSize })
	return rows
}

// BuildClosure returns tickets drawn from pool such that every guarantee-sized subset of the
// pool lies inside at least one ticket. Guarantee 6 returns every 6-combination; 4 and 5 use a
// greedy pass over the 6-combinations in lexicographic order, which covers every target but is
// not always minimal. Pools of six or fewer numbers come back as a single ticket.
func BuildClosure(pool []int, guarantee int) ([]Ticket, error) {
	if guarantee < 4 || guarantee > TicketSize {
		return nil, fmt.Errorf("%w: %d (want 4, 5 or 6)", ErrInvalidGuarantee, guarantee)
	}
	if len(pool) == 0 || len(pool) > MaxPoolSize {
		return nil, fmt.Errorf("%w: %d (want 1 to %d numbers)", ErrInvalidPoolSize, len(pool), MaxPoolSize)
	}
	if err := validatePool(pool); err != nil {
		return nil, err
	}

	sorted := NewTicket(pool...)
	log := componentLogger(nil, "closure").WithFields(logrus.Fields{
		"pool":      len(sorted),
		"guarantee": guarantee,
	})

	var tickets []Ticket
	switch {
	case len(sorted) <= TicketSize:
		tickets = []Ticket{sorted}
	case guarantee == TicketSize:
		for _, idx := range combin.Combinations(len(sorted), TicketSize) {
			tickets = append(tickets, pick(sorted, idx))
		}
	default:
		tickets = greedyCover(sorted, guarantee)
	}

	closureTickets.WithLabelValues(strconv.Itoa(guarantee)).Observe(float64(len(tickets)))
	entry := log.WithField("tickets", len(tickets))
	if ref, ok := ClosureReference(len(sorted)); ok {
		entry = entry.WithField("reference", ref.Tickets(guarantee))
	}
	entry.Info("closure built")
	return tickets, nil
}

// greedyCover accepts a 6-combination whenever it covers a target not yet covered.
// Targets are bit sets over pool indices, so pools are limited to 16 numbers.
func greedyCover(pool Ticket, guarantee int) []Ticket {
	n := len(pool)
	uncovered := make(map[uint16]bool, combin.Binomial(n, guarantee))
	for _, idx := range combin.Combinations(n, guarantee) {
		uncovered[indexMask(idx)] = true
	}

	// Positions of each guarantee-sized subset within a six-number ticket
	inner := combin.Combinations(TicketSize, guarantee)
	sub := make([]int, guarantee)

	var tickets []Ticket
	for _, idx := range combin.Combinations(n, TicketSize) {
		if len(uncovered) == 0 {
			break
		}
		var covers []uint16
		for _, positions := range inner {
			for i, p := range positions {
				sub[i] = idx[p]
			}
			if m := indexMask(sub); uncovered[m] {
				covers = append(covers, m)
			}
		}
		if len(covers) == 0 {
			continue
		}
		for _, m := range covers {
			delete(uncovered, m)
		}
		tickets = append(tickets, pick(pool, idx))
	}
	return tickets
}

// ClosureCovers reports whether every guarantee-sized subset of pool is contained in at
// least one of the tickets
func ClosureCovers(pool []int, tickets []Ticket, guarantee int) bool {
	sorted := NewTicket(uniqueInRange(pool)...)
	if guarantee <= 0 || len(sorted) < guarantee {
		return true
	}
	masks := make([]uint64, len(tickets))
	for i, t := range tickets {
		masks[i] = t.mask()
	}
	for _, idx := range combin.Combinations(len(sorted), guarantee) {
		target := pick(sorted, idx).mask()
		covered := false
		for _, m := range masks {
			if m&target == target {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func pick(pool Ticket, idx []int) Ticket {
	t := make(Ticket, len(idx))
	for i, j := range idx {
		t[i] = pool[j]
	}
	return t
}

func indexMask(idx []int) uint16 {
	var m uint16
	for _, i := range idx {
		m |= 1 << uint(i)
	}
	return m
}

// Tickets returns the reference count for a guarantee level
func (c ClosureInfo) Tickets(guarantee int) int {
	switch guarantee {
	case 4:
		return c.Quadra
	case 5:
		return c.Quina
	case 6:
		return c.Sena
	}
	return 0
}
