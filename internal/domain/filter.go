package domain

// FilterByInjured keeps collisions whose total injured count is at least
// threshold. Collisions with a blank total are excluded.
func FilterByInjured(records []Collision, threshold int) []Collision {
	return filter(records, func(c Collision) bool {
		return atLeast(c.Injured.Persons, threshold)
	})
}

// FilterByHour keeps collisions whose timestamp falls in the given hour of day.
func FilterByHour(records []Collision, hour int) []Collision {
	return filter(records, func(c Collision) bool {
		return c.CrashTime.Hour() == hour
	})
}

// FilterByCategory keeps collisions with at least one injured person of the
// category. Callers pass the base dataset so the result is independent of
// every other filter.
func FilterByCategory(records []Collision, cat Category) []Collision {
	return filter(records, func(c Collision) bool {
		return atLeast(cat.Count(c), 1)
	})
}

func filter(records []Collision, keep func(Collision) bool) []Collision {
	out := make([]Collision, 0, len(records)/4)
	for _, c := range records {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func atLeast(n *int, threshold int) bool {
	return n != nil && *n >= threshold
}
