package views

// Site carries the site-wide settings every page shell needs.
type Site struct {
	Name        string
	Description string
}

// PostPage is everything the post template needs beyond the manifest row.
type PostPage struct {
	Title          string
	Description    string
	CreatedDisplay string
	UpdatedDisplay string
	ReadTime       string
	JSONLD         string // optional BlogPosting document
}
