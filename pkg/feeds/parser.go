package feeds

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

// ErrNotRSS is returned when the body is not an RSS document.
var ErrNotRSS = errors.New("document is not an rss feed")

// ErrNoChannel is returned for an RSS root that carries no channel element.
var ErrNoChannel = errors.New("rss document has no channel")

// Parser turns raw bytes into a FeedDocument. The zero value is ready to use.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser { return &Parser{} }

// Parse decodes an RSS document. Parsing identical bytes always yields an
// identical document.
func (p *Parser) Parse(raw []byte) (*domain.FeedDocument, error) {
	if typ := gofeed.DetectFeedType(bytes.NewReader(raw)); typ != gofeed.FeedTypeRSS {
		return nil, fmt.Errorf("%w (detected %s)", ErrNotRSS, feedTypeName(typ))
	}

	fp := rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}
	// gofeed hands back an empty feed when <channel> is missing.
	if !hasChannel(raw) {
		return nil, ErrNoChannel
	}

	return buildDocument(feed), nil
}

// hasChannel scans the tag stream for a channel element using the same pull
// parser gofeed decodes with.
func hasChannel(raw []byte) bool {
	p := xpp.NewXMLPullParser(bytes.NewReader(raw), false, charset.NewReaderLabel)
	for {
		ev, err := p.Next()
		if err != nil || ev == xpp.EndDocument {
			return false
		}
		if ev == xpp.StartTag && strings.EqualFold(p.Name, "channel") {
			return true
		}
	}
}

func buildDocument(feed *rss.Feed) *domain.FeedDocument {
	doc := &domain.FeedDocument{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Language:    feed.Language,
		PublishDate: feed.PubDate,
		ImageURL:    channelImage(feed),
		Episodes:    make([]domain.Episode, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		doc.Episodes = append(doc.Episodes, buildEpisode(item))
	}
	return doc
}

func buildEpisode(item *rss.Item) domain.Episode {
	ep := domain.Episode{
		Title:       item.Title,
		Description: item.Description,
		Summary:     plainText(item.Description),
		PublishDate: item.PubDate,
	}
	if item.GUID != nil {
		ep.GUID = item.GUID.Value
	}
	if item.ITunesExt != nil {
		ep.Duration = strings.TrimSpace(item.ITunesExt.Duration)
	}
	if enc := item.Enclosure; enc != nil && strings.TrimSpace(enc.URL) != "" {
		ep.Enclosure = &domain.Enclosure{
			URL:    strings.TrimSpace(enc.URL),
			Type:   strings.TrimSpace(enc.Type),
			Length: strings.TrimSpace(enc.Length),
		}
	}
	return ep
}

// channelImage prefers the RSS <image> and falls back to itunes:image.
func channelImage(feed *rss.Feed) string {
	var rssImage, itunesImage string
	if feed.Image != nil {
		rssImage = feed.Image.URL
	}
	if feed.ITunesExt != nil {
		itunesImage = feed.ITunesExt.Image
	}
	return firstNonEmpty(rssImage, itunesImage)
}

// ResolvePublishDate returns the channel pubDate if declared, otherwise the
// first episode's pubDate. Later episodes are never consulted. A date that is
// blank after trimming counts as undeclared, so a whitespace-only channel date
// falls through to the first episode.
func ResolvePublishDate(doc *domain.FeedDocument) (string, bool) {
	if doc == nil {
		return "", false
	}
	if date := strings.TrimSpace(doc.PublishDate); date != "" {
		return date, true
	}
	if len(doc.Episodes) == 0 {
		return "", false
	}
	date := strings.TrimSpace(doc.Episodes[0].PublishDate)
	return date, date != ""
}

func feedTypeName(t gofeed.FeedType) string {
	switch t {
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	case gofeed.FeedTypeRSS:
		return "rss"
	default:
		return "unknown"
	}
}
