// Package nav builds the site header from the navigation fragment
// authored in the CMS.
package nav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/sitenav/internal/commerce"
	"github.com/ziadkadry99/sitenav/internal/flyout"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/session"
)

const (
	// FragmentPath is where the CMS publishes the header fragment.
	FragmentPath = "/fragments/header/master.plain.html"
	// AccountPath is the signed-in account dashboard.
	AccountPath = "/us/en/signin/dashboard.html"
	// AccountLabel is the link text shown to signed-in users.
	AccountLabel = "My Account"
	// RootBrandHref replaces the brand link on the site root.
	RootBrandHref = "https://danaher.com/?utm_source=dhls_website&utm_medium=referral&utm_content=header"
)

// ErrFragmentUnavailable means the fragment could not be fetched; the
// page keeps its minimal header.
var ErrFragmentUnavailable = errors.New("navigation fragment unavailable")

// QuoteCounter reads the visitor's quote cart size.
type QuoteCounter interface {
	QuoteCount(ctx context.Context, auth http.Header) (int, error)
}

// Assembler fetches the fragment and restructures it into a Header.
type Assembler struct {
	contentBase string
	http        *http.Client
	quotes      QuoteCounter
}

// NewAssembler creates an assembler reading fragments from contentBase.
// quotes may be nil, in which case the quote badge is never filled.
func NewAssembler(contentBase string, httpClient *http.Client, quotes QuoteCounter) *Assembler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Assembler{
		contentBase: strings.TrimRight(contentBase, "/"),
		http:        httpClient,
		quotes:      quotes,
	}
}

// Fetch downloads the raw fragment HTML.
func (a *Assembler) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.contentBase+FragmentPath, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFragmentUnavailable, err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFragmentUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrFragmentUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrFragmentUnavailable, err)
	}
	return string(body), nil
}

// Assemble builds the header for the visitor on pagePath. A fragment
// failure returns ErrFragmentUnavailable. The quote badge is filled on a
// best-effort basis.
func (a *Assembler) Assemble(ctx context.Context, sess session.Session, pagePath string) (*Header, error) {
	raw, err := a.Fetch(ctx)
	if err != nil {
		logging.FromContext(ctx).Info("skipping header decoration", "error", err.Error())
		return nil, err
	}
	h, err := Parse(raw, sess, pagePath)
	if err != nil {
		return nil, err
	}
	a.fillQuote(ctx, sess, h)
	return h, nil
}

func (a *Assembler) fillQuote(ctx context.Context, sess session.Session, h *Header) {
	if a.quotes == nil {
		return
	}
	auth := sess.Authorization()
	if !session.HasCredentials(auth) {
		return
	}
	n, err := a.quotes.QuoteCount(ctx, auth)
	switch {
	case errors.Is(err, commerce.ErrNoCart):
		return
	case err != nil:
		logging.FromContext(ctx).Info("Failed to load quote cart", "error", err.Error())
		return
	}
	if n > 0 {
		h.Quote.Count = n
		h.Quote.ShowDot = true
	}
}

// Parse restructures the fragment. Its top-level sections are, in order:
// the logo list, the bar with brand, account and quote links, then one
// flyout panel per non-empty section.
func Parse(raw string, sess session.Session, pagePath string) (*Header, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing navigation fragment: %w", err)
	}
	sections := doc.Find("body").Children()

	h := &Header{}
	if sections.Length() > 0 {
		h.Logos = parseLogos(sections.Eq(0))
	}
	if sections.Length() > 1 {
		parseBar(sections.Eq(1), h, sess, pagePath)
	}
	sections.Slice(min(2, sections.Length()), sections.Length()).Each(func(_ int, s *goquery.Selection) {
		if inner, _ := s.Html(); strings.TrimSpace(inner) == "" {
			h.Inert++
			return
		}
		p := s.ChildrenFiltered("p").First()
		path := flyout.MenuPath(strings.TrimSpace(p.Text()))
		if path == "" {
			h.Inert++
			return
		}
		if path == flyout.RootPath {
			h.NavItems = append(h.NavItems, parseNavItems(s)...)
		}
		h.Panels = append(h.Panels, parsePanel(s, p, path))
	})
	return h, nil
}

func parseLogos(s *goquery.Selection) []Logo {
	var logos []Logo
	s.Find("ul").First().ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a").First()
		pic := li.Find("picture").First()
		picture, _ := goquery.OuterHtml(pic)
		src, _ := pic.Find("img").Attr("src")
		href, _ := link.Attr("href")
		logos = append(logos, Logo{
			Title:   strings.TrimSpace(link.Text()),
			Href:    href,
			ImgSrc:  src,
			Picture: picture,
		})
	})
	return logos
}

func parseBar(s *goquery.Selection, h *Header, sess session.Session, pagePath string) {
	brandPara := s.ChildrenFiltered("p")
	pic := brandPara.ChildrenFiltered("picture").First()
	link := brandPara.ChildrenFiltered("a").First()
	picture, _ := goquery.OuterHtml(pic)
	src, _ := pic.Find("img").Attr("src")
	href, _ := link.Attr("href")
	if pagePath == "/" {
		href = RootBrandHref
	}
	h.Brand = Brand{Title: strings.TrimSpace(link.Text()), Href: href, ImgSrc: src, Picture: picture}

	links := s.ChildrenFiltered("ul").ChildrenFiltered("li").ChildrenFiltered("a")
	if links.Length() > 0 {
		account := links.Eq(0)
		accountHref, _ := account.Attr("href")
		h.Account = Account{Label: strings.TrimSpace(account.Text()), Href: accountHref}
	}
	if user := sess.User(); sess.LoggedIn() && user != nil {
		h.Account = Account{
			LoggedIn: true,
			Initials: user.Initials(),
			Label:    AccountLabel,
			Href:     AccountPath,
		}
	}
	if links.Length() > 1 {
		quote := links.Eq(1)
		quoteHref, _ := quote.Attr("href")
		h.Quote = Quote{Label: strings.TrimSpace(quote.Text()), Href: quoteHref}
	}
}

func parseNavItems(s *goquery.Selection) []NavItem {
	var items []NavItem
	s.ChildrenFiltered("ul").ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		label := strings.TrimSpace(li.Text())
		href, ok := li.Find("a").First().Attr("href")
		if !ok || href == "" {
			href = "#"
		}
		item := NavItem{Label: label, Href: href}
		if li.Find("span.icon-arrow-right").Length() > 0 {
			item.Expandable = true
			item.Path = flyout.RootPath.Join(label)
		}
		items = append(items, item)
	})
	return items
}

func parsePanel(s, p *goquery.Selection, path flyout.MenuPath) Panel {
	panel := Panel{
		Path:     path,
		ID:       path.ID(),
		Title:    path.Title(),
		ShowBack: path.Title() != string(flyout.RootPath),
	}
	if explore, ok := p.ChildrenFiltered("a").First().Attr("href"); ok {
		panel.ExploreAll = explore
	}
	s.ChildrenFiltered("ul").ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		label := strings.TrimSpace(li.Text())
		if li.Find("span.icon-arrow-right").Length() > 0 {
			panel.Links = append(panel.Links, PanelLink{Label: label, Href: "#", Submenu: path.Join(label)})
			return
		}
		href, _ := li.Find("a").First().Attr("href")
		panel.Links = append(panel.Links, PanelLink{Label: label, Href: href})
	})
	return panel
}

// Flyouts registers every panel of h with a new flyout controller.
// Panels whose id collides with an earlier one are skipped and reported.
func (h *Header) Flyouts() (*flyout.Controller, error) {
	c := flyout.NewController()
	var errs []error
	for _, p := range h.Panels {
		if err := c.Register(p.Path); err != nil {
			errs = append(errs, err)
		}
	}
	return c, errors.Join(errs...)
}

// PagePath extracts the path of a page URL, "" when it cannot be parsed.
func PagePath(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Path
}
