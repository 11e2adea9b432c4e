package core

// OrderCategories flattens an aggregated set into its final sequence. The
// Latest category always comes first. Categories in the manual order follow,
// then any remaining ones in aggregation order. Resulting order values are
// contiguous, starting at 1.
func OrderCategories(set *CategorySet, manual []int) []*Category {
	ordered := make([]*Category, 0, set.Len())

	hasLatest := 0
	if latest, ok := set.Get(LatestCategoryID); ok {
		latest.Order = 1
		hasLatest = 1
		ordered = append(ordered, latest)
	}

	seen := map[int]bool{LatestCategoryID: true}
	next := 1

	for _, id := range manual {
		if id == LatestCategoryID || seen[id] {
			continue
		}

		category, ok := set.Get(id)
		if !ok {
			continue
		}

		category.Order = next + hasLatest
		ordered = append(ordered, category)
		seen[id] = true
		next++
	}

	for _, category := range set.Categories() {
		if seen[category.ID] {
			continue
		}

		category.Order = next + hasLatest
		ordered = append(ordered, category)
		seen[category.ID] = true
		next++
	}

	return ordered
}
