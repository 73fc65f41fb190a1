package analysis

import "sort"

// keyCount pairs a counted key with its count.
type keyCount[K comparable] struct {
	Key   K
	Count int
}

// counter is a frequency counter that remembers first-seen order, so
// MostCommon breaks count ties deterministically by insertion order
// rather than map iteration order.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) Add(key K) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter[K]) Len() int {
	return len(c.counts)
}

// Counts returns the raw key -> count mapping.
func (c *counter[K]) Counts() map[K]int {
	return c.counts
}

// MostCommon returns up to n entries sorted by descending count, ties
// by first-seen order. n < 0 returns all entries.
func (c *counter[K]) MostCommon(n int) []keyCount[K] {
	entries := make([]keyCount[K], 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, keyCount[K]{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
