package dto

type BlogPostMeta struct {
	Date  string `json:"date"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type BlogPost struct {
	BlogPostMeta
	Contents string `json:"contents"`
}
