package core

// LatestCategoryID identifies the synthesized category that aggregates the
// most recent articles across all active categories.
const LatestCategoryID = 0

// CategorySet is a map of categories keyed by ID that remembers insertion
// order, so aggregation output stays deterministic.
type CategorySet struct {
	ids  []int
	byID map[int]*Category
}

func NewCategorySet() *CategorySet {
	return &CategorySet{byID: map[int]*Category{}}
}

func (s *CategorySet) Add(c *Category) {
	if _, ok := s.byID[c.ID]; !ok {
		s.ids = append(s.ids, c.ID)
	}
	s.byID[c.ID] = c
}

func (s *CategorySet) Get(id int) (*Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

func (s *CategorySet) Len() int {
	return len(s.ids)
}

// Categories returns the categories in insertion order.
func (s *CategorySet) Categories() []*Category {
	cc := make([]*Category, 0, len(s.ids))
	for _, id := range s.ids {
		cc = append(cc, s.byID[id])
	}
	return cc
}

// CategoryRef is the category a post is credited to in article exports.
type CategoryRef struct {
	ID   int
	Name string
}

// ResolveVisibleCategory returns the first category of the post, in front
// matter order, that is declared and not inactive. Posts whose categories
// are all hidden resolve to nil and must not be exported.
func (co *Core) ResolveVisibleCategory(e *Entry) *CategoryRef {
	for _, name := range e.Categories() {
		sc, ok := co.cfg.categoryByName(name)
		if !ok || co.cfg.inactiveCategory(sc.ID) {
			continue
		}

		return &CategoryRef{ID: sc.ID, Name: sc.Name}
	}

	return nil
}

func (co *Core) activeCategories() []SiteCategory {
	var active []SiteCategory
	for _, sc := range co.cfg.Site.Categories {
		if !co.cfg.inactiveCategory(sc.ID) {
			active = append(active, sc)
		}
	}
	return active
}

// Aggregate builds the per-category article lists: up to limit recent posts
// for every active category, plus the Latest pseudo-category when at least
// two real categories have articles. Categories without articles are
// excluded from the result.
func (co *Core) Aggregate(limit, descriptionLength int) (*CategorySet, error) {
	set := NewCategorySet()

	active := co.activeCategories()
	if len(active) == 0 {
		return set, nil
	}

	for _, sc := range active {
		posts := co.Posts(&PostQuery{Limit: limit, Category: sc.Name})
		if len(posts) == 0 {
			continue
		}

		category := &Category{
			ID:   sc.ID,
			Name: sc.Name,
			Slug: sc.Slug,
			Link: co.cfg.categoryLink(sc),
		}

		for _, p := range posts {
			a, err := co.FormatPost(p, descriptionLength, false)
			if err != nil {
				return nil, err
			}

			a.CategoryID = sc.ID
			a.CategoryName = sc.Name

			// The category inherits the image of its first illustrated article.
			if category.Image.IsZero() && !a.Image.IsZero() {
				category.Image = a.Image
			}

			category.Articles = append(category.Articles, a)
		}

		set.Add(category)
	}

	if set.Len() > 1 {
		latest, err := co.aggregateLatest(active, limit, descriptionLength)
		if err != nil {
			return nil, err
		}

		if latest != nil {
			set.Add(latest)
		}
	}

	return set, nil
}

func (co *Core) aggregateLatest(active []SiteCategory, limit, descriptionLength int) (*Category, error) {
	names := make([]string, 0, len(active))
	for _, sc := range active {
		names = append(names, sc.Name)
	}

	posts := co.Posts(&PostQuery{Limit: limit, Categories: names})

	latest := &Category{
		ID:   LatestCategoryID,
		Name: "Latest",
		Slug: "Latest",
	}

	for _, p := range posts {
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

		if latest.Image.IsZero() && !a.Image.IsZero() {
			latest.Image = a.Image
		}

		latest.Articles = append(latest.Articles, a)
	}

	if len(latest.Articles) == 0 {
		return nil, nil
	}

	return latest, nil
}
