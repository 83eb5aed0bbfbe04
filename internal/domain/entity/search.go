package entity

type SearchResult struct {
	Position int
	Title    string
	Link     string
	Snippet  string
}
