package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/sitenav/internal/site"
)

// PublicOrigin replaces the content root in canonical links.
const PublicOrigin = "https://lifesciences.danaher.com/"

// Metadata is the page metadata emitted as the trailing metadata block.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Robots      string `json:"robots,omitempty"`

	AuthorName  string `json:"author_name,omitempty"`
	AuthorTitle string `json:"author_title,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	AuthorImage string `json:"author_image,omitempty"`
	Brand       string `json:"brand,omitempty"`
	ReadingTime int    `json:"reading_time,omitempty"`

	CreationDate string `json:"creation_date,omitempty"`
	UpdateDate   string `json:"update_date,omitempty"`
}

// Row is one key/value line of the metadata block.
type Row struct {
	Key   string
	Value string
	Image bool
}

// Rows lists the non-empty fields in block order.
func (m Metadata) Rows() []Row {
	var rows []Row
	add := func(key, value string, image bool) {
		if value != "" {
			rows = append(rows, Row{Key: key, Value: value, Image: image})
		}
	}
	add("Title", m.Title, false)
	add("canonical", m.Canonical, false)
	add("keywords", m.Keywords, false)
	add("Description", m.Description, false)
	add("Image", m.Image, true)
	add("Robots", m.Robots, false)
	add("authorName", m.AuthorName, false)
	add("authorTitle", m.AuthorTitle, false)
	add("publishDate", m.PublishDate, false)
	add("authorImage", m.AuthorImage, true)
	add("brand", m.Brand, false)
	if m.ReadingTime > 0 {
		add("readingTime", strconv.Itoa(m.ReadingTime), false)
	}
	add("creationDate", m.CreationDate, false)
	add("updateDate", m.UpdateDate, false)
	return rows
}

// ExtractMetadata reads the page metadata from doc. Header and footer
// fragments are marked noindex and lose their title.
func ExtractMetadata(doc *goquery.Document) Metadata {
	var m Metadata
	if title := doc.Find("title").First(); title.Length() > 0 {
		m.Title = strings.NewReplacer("\n", "", "\t", "").Replace(title.Text())
	}
	if href, ok := doc.Find(`[rel="canonical"]`).First().Attr("href"); ok {
		m.Canonical = strings.Replace(href, ContentRoot+"/", PublicOrigin, 1)
		if strings.HasPrefix(m.Canonical, PublicOrigin) {
			m.Canonical = site.MakePublicURL(context.Background(), m.Canonical, true)
		}
	}
	m.Keywords = doc.Find(`[name="keywords"]`).First().AttrOr("content", "")
	m.Description = doc.Find(`[property="og:description"]`).First().AttrOr("content", "")
	if img := doc.Find(`[property="og:image"]`).First().AttrOr("content", ""); img != "" {
		if u, err := url.Parse(img); err == nil {
			m.Image = u.Path
		}
	}
	if m.Title == "Header" || m.Title == "Footer" {
		m.Robots = "noindex, nofollow"
		m.Title = ""
	}

	articleMeta(doc, &m)
	dataLayerMeta(doc, &m)
	return m
}

func articleMeta(doc *goquery.Document, m *Metadata) {
	info := doc.Find("div.articleinfo articleinfo").First()
	if info.Length() == 0 {
		return
	}
	if v, ok := info.Attr("articlename"); ok {
		m.AuthorName = v
	}
	if v, ok := info.Attr("title"); ok {
		m.AuthorTitle = v
	}
	if v, ok := info.Attr("postdate"); ok {
		m.PublishDate = utcString(v)
	}
	if v, ok := info.Attr("articleimage"); ok {
		m.AuthorImage = v
	}
	if v, ok := info.Attr("opco"); ok {
		m.Brand = v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(info.AttrOr("time", ""))); err == nil {
		m.ReadingTime = n
	}
}

type dataLayerPage struct {
	Page struct {
		CreationDate string `json:"creationDate"`
		UpdateDate   string `json:"updateDate"`
	} `json:"page"`
}

// dataLayerMeta reads the page dates from the inline analytics data
// layer, an array whose second element describes the page. Pages without
// one are left alone.
func dataLayerMeta(doc *goquery.Document, m *Metadata) {
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, "dataLayer") {
			return true
		}
		_, value, ok := strings.Cut(text, "=")
		if !ok {
			return true
		}
		value = strings.TrimSpace(strings.ReplaceAll(value, "\n", ""))
		value = strings.TrimSuffix(value, ";")
		value = strings.ReplaceAll(value, "'", `"`)

		var layer []dataLayerPage
		if err := json.Unmarshal([]byte(value), &layer); err != nil || len(layer) < 2 {
			return true
		}
		m.CreationDate = utcString(layer[1].Page.CreationDate)
		m.UpdateDate = utcString(layer[1].Page.UpdateDate)
		return false
	})
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon Jan 2 15:04:05 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// utcString renders a date read as UTC in HTTP date format, e.g.
// "Tue, 09 May 2023 00:00:00 GMT". Unparseable dates yield "".
func utcString(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC().Format(http.TimeFormat)
		}
	}
	return ""
}
