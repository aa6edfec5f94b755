package ports

// URLOpener opens a card link in the user's browser
type URLOpener interface {
	// OpenURL accepts only absolute http(s) URLs
	OpenURL(rawURL string) error
}
