package offline

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

// Article is one catalog entry. Only the fields the gateway exposes or
// matches against are kept.
type Article struct {
	ID         string
	Title      string
	Abstract   string
	Category   string
	URL        string
	Popularity float64
}

// Catalog is an in-memory, concurrency-safe article store.
type Catalog struct {
	byID     map[string]int
	articles []Article
	mu       sync.RWMutex
}

// NewCatalog creates a catalog holding articles. Later duplicates of an id
// are ignored.
func NewCatalog(articles []Article) *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	c.Add(articles...)
	return c
}

// Add appends articles whose ids are not yet present and reports how many
// were added.
func (c *Catalog) Add(articles ...Article) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, a := range articles {
		if a.ID == "" {
			continue
		}
		if _, ok := c.byID[a.ID]; ok {
			continue
		}
		c.byID[a.ID] = len(c.articles)
		c.articles = append(c.articles, a)
		added++
	}
	return added
}

// Len returns the number of articles.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}

// Lookup returns the article with id.
func (c *Catalog) Lookup(id string) (Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}

// Popular returns every article ordered by popularity, most popular first.
// Ties keep catalog order.
func (c *Catalog) Popular() []Article {
	c.mu.RLock()
	out := slices.Clone(c.articles)
	c.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity > out[j].Popularity
	})
	return out
}

// Categories returns the distinct lower-case categories, sorted.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range c.articles {
		cat := strings.ToLower(strings.TrimSpace(a.Category))
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// SeedArticles is the built-in demo catalog.
func SeedArticles() []Article {
	return []Article{
		{ID: "n101", Category: "sports", Popularity: 0.97, Title: "Underdogs clinch the championship in overtime thriller", Abstract: "A last-second goal sealed a season nobody predicted."},
		{ID: "n102", Category: "health", Popularity: 0.95, Title: "Study links daily walks to better sleep", Abstract: "Researchers followed 4,000 adults for two years."},
		{ID: "n103", Category: "finance", Popularity: 0.94, Title: "Central bank holds rates steady for third month", Abstract: "Policy makers signalled patience as inflation cools."},
		{ID: "n104", Category: "news", Popularity: 0.93, Title: "City council approves new transit corridor", Abstract: "The line will connect three districts by 2028."},
		{ID: "n105", Category: "entertainment", Popularity: 0.92, Title: "Indie film sweeps festival awards", Abstract: "A first-time director took home four prizes."},
		{ID: "n106", Category: "technology", Popularity: 0.90, Title: "Chipmakers race to expand capacity", Abstract: "New fabs are planned on three continents."},
		{ID: "n107", Category: "sports", Popularity: 0.88, Title: "Marathon record falls on a cool morning", Abstract: "Ideal conditions helped the field run fast."},
		{ID: "n108", Category: "health", Popularity: 0.87, Title: "Hospitals trial shorter emergency wait times", Abstract: "A triage pilot cut waits by a third."},
		{ID: "n109", Category: "finance", Popularity: 0.86, Title: "Small businesses report stronger holiday sales", Abstract: "Retail surveys beat analyst expectations."},
		{ID: "n110", Category: "travel", Popularity: 0.85, Title: "Night trains return to popular routes", Abstract: "Operators expand sleeper services across the region."},
		{ID: "n111", Category: "news", Popularity: 0.83, Title: "Flood defences hold after record rainfall", Abstract: "Engineers credit upgrades finished last year."},
		{ID: "n112", Category: "entertainment", Popularity: 0.82, Title: "Streaming series renewed for final season", Abstract: "The cast confirmed the news at a fan event."},
		{ID: "n113", Category: "technology", Popularity: 0.80, Title: "Open-source tools gain ground in government IT", Abstract: "Agencies cite cost and transparency."},
		{ID: "n114", Category: "sports", Popularity: 0.78, Title: "Young goalkeeper earns national team call-up", Abstract: "The 19-year-old impressed in the cup run."},
		{ID: "n115", Category: "health", Popularity: 0.77, Title: "Nutrition labels get a clearer design", Abstract: "Regulators simplify serving sizes and sugar warnings."},
		{ID: "n116", Category: "finance", Popularity: 0.75, Title: "Housing market shows signs of cooling", Abstract: "Listings rose while prices flattened."},
		{ID: "n117", Category: "news", Popularity: 0.73, Title: "Library extends weekend opening hours", Abstract: "Volunteers help staff the new Sunday shifts."},
		{ID: "n118", Category: "travel", Popularity: 0.71, Title: "Coastal towns prepare for a busy summer", Abstract: "Local guides expect record visitor numbers."},
		{ID: "n119", Category: "entertainment", Popularity: 0.70, Title: "Orchestra announces free outdoor concerts", Abstract: "Performances will tour five city parks."},
		{ID: "n120", Category: "technology", Popularity: 0.68, Title: "Battery startup unveils faster charging cells", Abstract: "Prototype packs charge to 80 percent in ten minutes."},
		{ID: "n205", Category: "sports", Popularity: 0.66, Title: "Cycling league adds women's stage race", Abstract: "Organisers promise equal prize money."},
		{ID: "n206", Category: "health", Popularity: 0.64, Title: "Clinics expand mental health support for students", Abstract: "Counselling hours double on campuses."},
		{ID: "n207", Category: "finance", Popularity: 0.62, Title: "Savings rates tick higher at online banks", Abstract: "Competition for deposits intensifies."},
		{ID: "n208", Category: "news", Popularity: 0.60, Title: "Volunteers plant ten thousand trees in a weekend", Abstract: "The project aims to cool the city centre."},
	}
}
