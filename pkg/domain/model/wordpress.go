package model

// WordPressStatusPublish is the post status sent when creating posts
const WordPressStatusPublish = "publish"

// WordPressPost is the payload for POST /wp/v2/posts
type WordPressPost struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       string  `json:"excerpt"`
	Status        string  `json:"status"`
	Categories    []int64 `json:"categories"`
	Tags          []int64 `json:"tags"`
	FeaturedMedia int64   `json:"featured_media,omitempty"`
}

// WordPressCreated is the subset of a WordPress REST response used after creation
type WordPressCreated struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

// WordPressTerm is a category or tag as returned by the WordPress REST API
type WordPressTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
