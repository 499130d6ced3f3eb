// Package feed encodes Atom documents for issue lists.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

const (
	AtomNamespace  = "http://www.w3.org/2005/Atom"
	MediaNamespace = "http://search.yahoo.com/mrss/"

	// TimeFormat is the timestamp layout used in <updated>.
	TimeFormat = "2006-01-02T15:04:05Z"
)

// Feed is an Atom <feed> document.
type Feed struct {
	XMLName xml.Name `xml:"feed"`
	Xmlns   string   `xml:"xmlns,attr"`
	Media   string   `xml:"xmlns:media,attr"`
	Title   string   `xml:"title"`
	Links   []Link   `xml:"link"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Entries []Entry  `xml:"entry"`
}

// Entry is a single Atom <entry>.
type Entry struct {
	ID        string    `xml:"id"`
	Link      Link      `xml:"link"`
	Title     string    `xml:"title"`
	Updated   string    `xml:"updated"`
	Thumbnail Thumbnail `xml:"media:thumbnail"`
	Author    Author    `xml:"author"`
	Summary   string    `xml:"summary"`
}

type Link struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

// Thumbnail is a Media RSS thumbnail, used for the author avatar.
type Thumbnail struct {
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	URL    string `xml:"url,attr"`
}

type Author struct {
	Name  string `xml:"name"`
	Email string `xml:"email"`
}

// New creates an empty feed with both namespaces declared.
func New(title, id, selfURL, alternateURL string, updated time.Time) *Feed {
	return &Feed{
		Xmlns: AtomNamespace,
		Media: MediaNamespace,
		Title: title,
		ID:    id,
		Links: []Link{
			{Href: selfURL, Rel: "self", Type: "application/atom+xml"},
			{Href: alternateURL, Rel: "alternate", Type: "text/html"},
		},
		Updated: FormatTime(updated),
	}
}

// FormatTime formats t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Encode writes the XML declaration followed by the indented document.
func (f *Feed) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return enc.Close()
}
