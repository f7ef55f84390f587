package domain

// Unknown is stored in any record field whose markup anchor could not be found.
const Unknown = "Unknown"

// ArticleRecord is one normalized news article. Field values are kept as the
// site renders them; dates in particular are not parsed.
type ArticleRecord struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// NewArticleRecord returns a record with every extracted field set to Unknown.
func NewArticleRecord() ArticleRecord {
	return ArticleRecord{
		Title:    Unknown,
		Date:     Unknown,
		Author:   Unknown,
		Content:  Unknown,
		Category: Unknown,
	}
}
