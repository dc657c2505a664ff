package domain

// Bookmark is a named URL with an optional one-letter shortcut.
// Name is the soft-unique key; uniqueness is enforced by the add path,
// not by storage.
type Bookmark struct {
	URL      string `json:"url" validate:"required,url"`
	Name     string `json:"name" validate:"required,max=64"`
	Shortcut string `json:"shortcut,omitempty" validate:"max=16"`
}

// Matches reports whether q refers to this bookmark by name or shortcut.
func (b Bookmark) Matches(q string) bool {
	return b.Name == q || (b.Shortcut != "" && b.Shortcut == q)
}
