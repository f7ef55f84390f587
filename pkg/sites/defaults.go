package sites

// Built-in site definitions, used when no sites file is present.
const (
	BDPratidinID   = "bd-pratidin"
	BanglaNews24ID = "banglanews24"
)

// Boilerplate sentences that close banglanews24 article bodies.
const (
	markerBangladeshTime = "বাংলাদেশ সময়:"
	markerCourtesy       = "সৌজন্যে:"
	updatedPrefix        = "আপডেট:"
)

// BDPratidin is the daily "first page" archive of bd-pratidin.com.
func BDPratidin() Site {
	return Site{
		ID:         BDPratidinID,
		Name:       "Bangladesh Pratidin",
		Type:       TypeDailyArchive,
		ArchiveURL: "https://www.bd-pratidin.com/first-page/{date}/{day}",
		LinkBase:   "https://www.bd-pratidin.com/",
		LinkRule: LinkRule{
			Segments: 5,
			Prefixes: map[int]string{1: "20"},
		},
		Fields: FieldSet{
			Title:    FieldSelector{Selector: "h1"},
			Date:     FieldSelector{Selector: "div.row.p-3", Child: "span"},
			Author:   FieldSelector{Selector: "div.news-info.ps-3.my-3", Child: "h2"},
			Content:  ContentSelector{Paragraph: "p", Join: "\n"},
			Category: FieldSelector{Selector: "ol.breadcrumb", Child: "li", Index: -2},
		},
	}
}

// BanglaNews24 browses banglanews24.com per category with a date query.
func BanglaNews24() Site {
	return Site{
		ID:               BanglaNews24ID,
		Name:             "BanglaNews24",
		Type:             TypeCategoryArchive,
		ArchiveURL:       "{category}?date={date}",
		CategoryIndexURL: "https://www.banglanews24.com/",
		CategorySelector: "li.dropdown",
		LinkRule: LinkRule{
			Segments: 7,
			Tokens:   map[int]string{4: "news", 5: "bd"},
		},
		Fields: FieldSet{
			Title: FieldSelector{Selector: "img.lazy-load", Attr: "alt"},
			Date:  FieldSelector{Selector: "span.time", Remove: []string{updatedPrefix}},
			Author: FieldSelector{
				Selector: "div.row.news-source",
				Child:    "span",
				Split:    "|",
			},
			Content: ContentSelector{
				Container:   "article",
				Paragraph:   "p",
				Markers:     []string{markerBangladeshTime, markerCourtesy},
				MarkerScope: MarkerScopeArticle,
			},
			Category: FieldSelector{Selector: "div.section-page-title", Child: "h1"},
		},
	}
}

// DefaultSites returns the built-in site definitions.
func DefaultSites() []Site {
	return []Site{BDPratidin(), BanglaNews24()}
}

// DefaultRegistry builds a registry from DefaultSites.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultSites()...)
}
