package feed

import "fmt"

// InvalidXMLError reports a feed body that could not be parsed as XML.
type InvalidXMLError struct {
	URL string
	Err error
}

func (e *InvalidXMLError) Error() string {
	return fmt.Sprintf("invalid XML for %s: %v", e.URL, e.Err)
}

func (e *InvalidXMLError) Unwrap() error { return e.Err }

// UnsupportedFeedRootError reports a well-formed XML document whose
// root element is none of the known feed dialects and which contains
// no nested feed element either.
type UnsupportedFeedRootError struct {
	URL string
	Tag string
}

func (e *UnsupportedFeedRootError) Error() string {
	return fmt.Sprintf("unsupported feed root tag %q for %s", e.Tag, e.URL)
}

// DiscoveryError reports that an HTML page yielded no usable feed:
// either no alternate feed URL was found, or the discovered URL did
// not serve feed XML.
type DiscoveryError struct {
	PageURL string
	FeedURL string // empty when no alternate was found at all
}

func (e *DiscoveryError) Error() string {
	if e.FeedURL == "" {
		return fmt.Sprintf("%s is not a feed and no alternate feed was discovered", e.PageURL)
	}
	return fmt.Sprintf("discovered feed URL %s is not feed XML", e.FeedURL)
}
