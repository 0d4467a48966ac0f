package folio

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/eringen/folio/dates"
	"github.com/eringen/folio/manifest"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

func rssDate(iso string) string {
	t, err := time.Parse(dates.ISOLayout, iso)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC1123Z)
}

// renderRSS encodes an RSS 2.0 feed of posts, newest first as given. The
// channel's lastBuildDate is the most recent post update.
func renderRSS(site SiteConfig, posts []manifest.Post) ([]byte, error) {
	base := site.URL
	items := make([]rssItem, 0, len(posts))
	latest := ""
	for _, p := range posts {
		if dates.SortKey(p.UpdatedAt) > dates.SortKey(latest) {
			latest = p.UpdatedAt
		}
		postURL := BuildURL(base, "posts", p.Href)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     rssDate(p.CreatedAt),
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         site.Name,
			Link:          BuildURL(base),
			Description:   site.Description,
			LastBuildDate: rssDate(latest),
			Items:         items,
		},
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
