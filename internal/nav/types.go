package nav

import (
	"github.com/ziadkadry99/sitenav/internal/flyout"
)

// Logo is one entry of the brand logo strip.
type Logo struct {
	Title   string `json:"title"`
	Href    string `json:"href"`
	ImgSrc  string `json:"img_src"`
	Picture string `json:"-"`
}

// Brand is the site logo link in the bar.
type Brand struct {
	Title   string `json:"title"`
	Href    string `json:"href"`
	ImgSrc  string `json:"img_src"`
	Picture string `json:"-"`
}

// Account is the sign-in or my-account link.
type Account struct {
	LoggedIn bool   `json:"logged_in"`
	Initials string `json:"initials,omitempty"`
	Label    string `json:"label"`
	Href     string `json:"href"`
}

// Quote is the quote cart link and its item badge.
type Quote struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Count   int    `json:"count"`
	ShowDot bool   `json:"show_dot"`
}

// NavItem is a top-level navigation entry. Expandable items open the
// flyout panel at Path instead of following Href.
type NavItem struct {
	Label      string          `json:"label"`
	Href       string          `json:"href"`
	Expandable bool            `json:"expandable"`
	Path       flyout.MenuPath `json:"path,omitempty"`
}

// PanelLink is one link of a flyout panel. Links with a Submenu open
// that panel.
type PanelLink struct {
	Label   string          `json:"label"`
	Href    string          `json:"href"`
	Submenu flyout.MenuPath `json:"submenu,omitempty"`
}

// Panel is one flyout menu.
type Panel struct {
	Path       flyout.MenuPath `json:"path"`
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	ExploreAll string          `json:"explore_all,omitempty"`
	ShowBack   bool            `json:"show_back"`
	Links      []PanelLink     `json:"links"`
}

// Header is the assembled site header.
type Header struct {
	Logos    []Logo    `json:"logos"`
	Brand    Brand     `json:"brand"`
	Account  Account   `json:"account"`
	Quote    Quote     `json:"quote"`
	NavItems []NavItem `json:"nav_items"`
	Panels   []Panel   `json:"panels"`
	// Inert counts the empty sections after the bar.
	Inert int `json:"inert"`
}
