package model

// Article represents a news item collected from a source.
// JSON field names are the on-disk format of data/{category}_news.json.
type Article struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Published  string `json:"published"`
	Summary    string `json:"summary"`
	ImageURL   string `json:"image_url,omitempty"`
	Source     string `json:"source"`
	LocalImage string `json:"local_image,omitempty"`
}

// FetchReport summarizes a fetch step
type FetchReport struct {
	Counts map[string]int // Number of articles per category
	Images int            // Number of images stored locally
}

// Total returns the number of articles across all categories
func (r *FetchReport) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}
