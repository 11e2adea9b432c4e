package core

import "time"

// RecentArticles exports the posts published strictly before the given time.
// A positive categoryID restricts the list to that category; the Latest
// category (0) spans the whole active set. Requests for an inactive category
// yield an empty list. Every article is credited to a single visible
// category; posts without one are skipped.
func (co *Core) RecentArticles(before time.Time, categoryID, limit, descriptionLength int) ([]Article, error) {
	articles := []Article{}

	if categoryID != LatestCategoryID {
		sc, ok := co.cfg.category(categoryID)
		if !ok || co.cfg.inactiveCategory(sc.ID) {
			return articles, nil
		}

		posts := co.Posts(&PostQuery{Limit: limit, Before: before, Category: sc.Name})
		for _, p := range posts {
			a, err := co.FormatPost(p, descriptionLength, false)
			if err != nil {
				return nil, err
			}

			a.CategoryID = sc.ID
			a.CategoryName = sc.Name
			articles = append(articles, a)
		}

		return articles, nil
	}

	q := &PostQuery{Limit: limit, Before: before}
	if len(co.cfg.App.InactiveCategories) > 0 {
		for _, sc := range co.activeCategories() {
			q.Categories = append(q.Categories, sc.Name)
		}
	}

	for _, p := range co.Posts(q) {
		ref := co.ResolveVisibleCategory(p)
		if ref == nil {
			continue
		}

		a, err := co.FormatPost(p, descriptionLength, false)
		if err != nil {
			return nil, err
		}

		a.CategoryID = ref.ID
		a.CategoryName = ref.Name
		articles = append(articles, a)
	}

	return articles, nil
}
