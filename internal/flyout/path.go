// Package flyout models the nested flyout menus of the site header as
// an explicit visibility map keyed by panel identifier.
package flyout

import "strings"

// Separator joins the labels of a MenuPath.
const Separator = "|"

// RootPath is the path of the top-level menu panel.
const RootPath MenuPath = "Menu"

// MenuPath is a |-joined sequence of menu labels, e.g. Menu|Products.
type MenuPath string

// Join appends a label to p.
func (p MenuPath) Join(label string) MenuPath {
	return MenuPath(string(p) + Separator + label)
}

// Segments splits p into its labels.
func (p MenuPath) Segments() []string {
	return strings.Split(string(p), Separator)
}

// ID derives the panel identifier: segments joined with "--", lowercased,
// spaces replaced with "-".
func (p MenuPath) ID() string {
	id := strings.ToLower(strings.Join(p.Segments(), "--"))
	return strings.ReplaceAll(id, " ", "-")
}

// Parent returns p without its last segment. The root has no parent and
// returns itself.
func (p MenuPath) Parent() MenuPath {
	i := strings.LastIndex(string(p), Separator)
	if i < 0 {
		return p
	}
	return p[:i]
}

// Title is the last segment of p.
func (p MenuPath) Title() string {
	segs := p.Segments()
	return segs[len(segs)-1]
}

// IsRoot reports whether p names the top-level panel.
func (p MenuPath) IsRoot() bool {
	return p == RootPath
}
