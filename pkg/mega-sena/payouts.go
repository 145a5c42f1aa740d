package megasena

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePayouts parses prize expressions like "4:1000|5:50000|6:50000000", meaning a quadra
// pays 1000, a quina 50000 and the sena 50000000. Match counts must lie in [0,6].
func ParsePayouts(expr string) (map[int]float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty payout expression")
	}

	payouts := make(map[int]float64)
	for _, part := range strings.Split(expr, "|") {
		tokens := strings.Split(strings.TrimSpace(part), ":")
		if len(tokens) != 2 {
			return nil, fmt.Errorf("invalid payout format: %q", part)
		}

		k, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
		if err != nil || k < 0 || k > TicketSize {
			return nil, fmt.Errorf("invalid match count in payout %q", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(tokens[1]), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid prize in payout %q", part)
		}
		if _, dup := payouts[k]; dup {
			return nil, fmt.Errorf("match count %d listed twice", k)
		}
		payouts[k] = v
	}
	return payouts, nil
}

// FormatPayouts is the inverse of ParsePayouts, ordered by match count
func FormatPayouts(payouts map[int]float64) string {
	keys := make([]int, 0, len(payouts))
	for k := range payouts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d:%s", k, strconv.FormatFloat(payouts[k], 'f', -1, 64))
	}
	return strings.Join(parts, "|")
}
