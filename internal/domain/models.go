package domain

// Domain contains core models and interfaces.

// FeedSource is the URL of a single feed to harvest.
type FeedSource string

// FeedDocument is a parsed podcast feed.
type FeedDocument struct {
	Title       string
	Description string
	Link        string
	Language    string
	ImageURL    string
	// PublishDate is the channel-level pubDate exactly as declared, or empty.
	PublishDate string
	Episodes    []Episode
}

// Episode is one item of a feed, kept in document order.
type Episode struct {
	Title       string
	GUID        string
	Description string
	Summary     string
	PublishDate string
	Duration    string
	Enclosure   *Enclosure
}

// Enclosure is the media file attached to an episode.
type Enclosure struct {
	URL    string
	Type   string
	Length string
}

// Outcome is the terminal result of harvesting one FeedSource.
// Exactly one of Feed or Err is set.
type Outcome struct {
	Source FeedSource
	Feed   *FeedDocument
	Err    *FeedError
}

// Success wraps a parsed feed.
func Success(src FeedSource, doc *FeedDocument) Outcome {
	return Outcome{Source: src, Feed: doc}
}

// Failure wraps a per-feed error.
func Failure(src FeedSource, err *FeedError) Outcome {
	return Outcome{Source: src, Err: err}
}

// Succeeded reports whether the outcome carries a feed.
func (o Outcome) Succeeded() bool { return o.Err == nil && o.Feed != nil }
