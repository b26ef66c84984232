package catalog

// NavItem is one navigation link, optionally with a dropdown.
type NavItem struct {
	Label    string    `json:"label"`
	URL      string    `json:"url"`
	Children []NavItem `json:"children,omitempty"`
}

// Navigation is a named menu (header, footer).
type Navigation struct {
	UID      string    `json:"uid,omitempty"`
	Title    string    `json:"title,omitempty"`
	Location string    `json:"location,omitempty"`
	Items    []NavItem `json:"items,omitempty"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SiteSettings carries the global chrome of the storefront.
type SiteSettings struct {
	UID              string       `json:"uid,omitempty"`
	SiteName         string       `json:"site_name"`
	Tagline          string       `json:"tagline,omitempty"`
	Logo             *Asset       `json:"logo,omitempty"`
	FooterText       string       `json:"footer_text,omitempty"`
	ContactEmail     string       `json:"contact_email,omitempty"`
	AnnouncementText string       `json:"announcement_text,omitempty"`
	AnnouncementURL  string       `json:"announcement_url,omitempty"`
	SocialLinks      []SocialLink `json:"social_links,omitempty"`
}
