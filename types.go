package genblog

// BlogPost is one entry of the feed. Posts held by a Store are shared by
// pointer and must be treated as read-only.
type BlogPost struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Content  string `json:"content" yaml:"content"` // line breaks are significant
	Author   string `json:"author" yaml:"author"`
	Date     string `json:"date" yaml:"date"`         // display string, fixed at creation
	ReadTime string `json:"readTime" yaml:"readTime"` // display string
	Category string `json:"category" yaml:"category"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Views    int    `json:"views" yaml:"views"`
}

// CreateForm carries the create surface's input back into the template so a
// failed generation never loses what the user typed.
type CreateForm struct {
	Topic string
	Tone  string
	Error string
}
