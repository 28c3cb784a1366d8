// Package evaluator scores poker hands. A hand of 5 to 7 cards is reduced
// to a Score, a short vector of ints ordered most-significant first, such
// that lexicographic comparison of two Scores agrees with standard poker
// hand rankings. Equal hands compare equal.
package evaluator

import (
	"sort"

	"github.com/josephklwork-hash/headsup/internal/deck"
)

// Category is the leading element of every Score
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score is a totally ordered hand strength vector. Element 0 is the
// Category; the remaining elements break ties within the category.
type Score []int

// Category returns the hand category encoded in the score.
func (s Score) Category() Category {
	if len(s) == 0 {
		return 0
	}
	return Category(s[0])
}

// Compare returns -1, 0 or 1 as a sorts before, equal to or after b.
// Vectors of different length compare as if the shorter were zero-padded.
func Compare(a, b Score) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Beats returns true if s strictly outranks other.
func (s Score) Beats(other Score) bool {
	return Compare(s, other) > 0
}

// Ties returns true if s and other rank equal.
func (s Score) Ties(other Score) bool {
	return Compare(s, other) == 0
}

// Evaluate scores a hand of 5 to 7 cards. With more than 5 cards the best
// 5-card combination determines the score.
func Evaluate(cards []deck.Card) Score {
	counts := countRanks(cards)
	values := distinctValuesDesc(counts)

	// Straight flush: any suit with 5+ cards that forms a straight
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		suited := suitValues(cards, suit)
		if len(suited) >= 5 {
			if high := straightHigh(suited); high > 0 {
				return Score{int(StraightFlush), high}
			}
		}
	}

	if quad := highestWithCount(counts, values, 4); quad > 0 {
		kicker := highestExcept(values, quad)
		return Score{int(FourOfAKind), quad, kicker}
	}

	if trips := highestWithCount(counts, values, 3); trips > 0 {
		if pair := highestPairExcept(counts, values, trips); pair > 0 {
			// Ties break on the trip and pair rank values
			return Score{int(FullHouse), trips, pair}
		}
	}

	// Flush: top 5 suited values by descending rank
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		suited := suitValues(cards, suit)
		if len(suited) >= 5 {
			return append(Score{int(Flush)}, suited[:5]...)
		}
	}

	if high := straightHigh(values); high > 0 {
		return Score{int(Straight), high}
	}

	if trips := highestWithCount(counts, values, 3); trips > 0 {
		kickers := kickersExcept(values, 2, trips)
		return append(Score{int(ThreeOfAKind), trips}, kickers...)
	}

	pairs := pairsDesc(counts, values)
	if len(pairs) >= 2 {
		// Three pairs are possible with 6+ cards; the two highest play
		hi, lo := pairs[0], pairs[1]
		kicker := highestExcept(values, hi, lo)
		return Score{int(TwoPair), hi, lo, kicker}
	}

	if len(pairs) == 1 {
		kickers := kickersExcept(values, 3, pairs[0])
		return append(Score{int(Pair), pairs[0]}, kickers...)
	}

	top := values
	if len(top) > 5 {
		top = top[:5]
	}
	return append(Score{int(HighCard)}, top...)
}

// BestFive returns the exact 5 cards forming the strongest hand, and
// their score. For more than 5 cards every 5-card combination is scored
// and the maximum kept; the first maximum in combination order wins, so
// the selection is deterministic for duplicate-rank cards.
func BestFive(cards []deck.Card) ([]deck.Card, Score) {
	if len(cards) <= 5 {
		picked := make([]deck.Card, len(cards))
		copy(picked, cards)
		return picked, Evaluate(cards)
	}

	var (
		best      []deck.Card
		bestScore Score
	)
	combo := make([]deck.Card, 5)
	enumerateCombos(len(cards), 5, func(idx []int) {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		score := Evaluate(combo)
		if bestScore == nil || score.Beats(bestScore) {
			bestScore = score
			best = make([]deck.Card, 5)
			copy(best, combo)
		}
	})
	return best, bestScore
}

// enumerateCombos invokes fn with every k-subset of indices 0..n-1 in
// lexicographic order.
func enumerateCombos(n, k int, fn func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func countRanks(cards []deck.Card) map[int]int {
	counts := make(map[int]int, len(cards))
	for _, c := range cards {
		counts[c.Value()]++
	}
	return counts
}

func distinctValuesDesc(counts map[int]int) []int {
	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}

func suitValues(cards []deck.Card, suit deck.Suit) []int {
	var values []int
	for _, c := range cards {
		if c.Suit == suit {
			values = append(values, c.Value())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}

// straightHigh returns the highest straight top card present in the
// descending distinct values, or 0. The wheel (A-5) counts as five-high.
func straightHigh(valuesDesc []int) int {
	present := make(map[int]bool, len(valuesDesc)+1)
	for _, v := range valuesDesc {
		present[v] = true
	}
	if present[int(deck.Ace)] {
		present[1] = true // ace plays low for the wheel only
	}

	for high := int(deck.Ace); high >= 5; high-- {
		run := true
		for v := high; v > high-5; v-- {
			if !present[v] {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	return 0
}

func highestWithCount(counts map[int]int, valuesDesc []int, n int) int {
	for _, v := range valuesDesc {
		if counts[v] == n {
			return v
		}
	}
	return 0
}

// highestPairExcept finds the highest rank with at least a pair,
// excluding the given trips rank. A second set of trips counts as the
// pair of a full house.
func highestPairExcept(counts map[int]int, valuesDesc []int, excluded int) int {
	for _, v := range valuesDesc {
		if v != excluded && counts[v] >= 2 {
			return v
		}
	}
	return 0
}

func pairsDesc(counts map[int]int, valuesDesc []int) []int {
	var pairs []int
	for _, v := range valuesDesc {
		if counts[v] == 2 {
			pairs = append(pairs, v)
		}
	}
	return pairs
}

func highestExcept(valuesDesc []int, excluded ...int) int {
	for _, v := range valuesDesc {
		if !contains(excluded, v) {
			return v
		}
	}
	return 0
}

func kickersExcept(valuesDesc []int, n int, excluded ...int) []int {
	kickers := make([]int, 0, n)
	for _, v := range valuesDesc {
		if contains(excluded, v) {
			continue
		}
		kickers = append(kickers, v)
		if len(kickers) == n {
			break
		}
	}
	return kickers
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
