package model

// Post is a blog post generated from an Article.
// JSON field names are the on-disk format of data/posts/{id}.json.
type Post struct {
	ID               string   `json:"id" firestore:"id"`
	Title            string   `json:"title" firestore:"title"`
	Content          string   `json:"content" firestore:"content"`
	Excerpt          string   `json:"excerpt" firestore:"excerpt"`
	FeaturedImage    string   `json:"featured_image,omitempty" firestore:"featured_image"`
	FeaturedImageURL string   `json:"featured_image_url,omitempty" firestore:"featured_image_url"`
	Category         string   `json:"category" firestore:"category"`
	Tags             []string `json:"tags" firestore:"tags"`
	OriginalURL      string   `json:"original_url" firestore:"original_url"`
	CreatedAt        string   `json:"created_at" firestore:"created_at"`

	WordPressID  int64  `json:"wordpress_id,omitempty" firestore:"wordpress_id"`
	WordPressURL string `json:"wordpress_url,omitempty" firestore:"wordpress_url"`
	PublishedAt  string `json:"published_at,omitempty" firestore:"published_at"`
}

// IsPublished reports whether the post has been accepted by WordPress
func (p *Post) IsPublished() bool {
	return p.WordPressID != 0
}

// GenerateReport summarizes a generate step
type GenerateReport struct {
	Posts   []*Post
	Skipped []string // Categories whose news file could not be loaded
}

// PublishReport summarizes a publish step
type PublishReport struct {
	Published []*Post
	Skipped   int // Already in the ledger
	Failed    int // Rejected or errored
}
