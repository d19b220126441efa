package qrbatch

import (
	"errors"
	"fmt"

	"github.com/prasetyowira/qrbatch/constant"
)

var ErrUnknownPage = errors.New(constant.ErrUnknownPage)

// Page identifies one static page of the site.
type Page string

const (
	PageBackground Page = "background"
	PageMethods    Page = "methods"
	PageResults    Page = "results"
	PageFuture     Page = "future"
)

var pages = []Page{PageBackground, PageMethods, PageResults, PageFuture}

// Pages returns the page ids in generation order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// LookupPage returns the page named id.
func LookupPage(id string) (Page, error) {
	for _, p := range pages {
		if string(p) == id {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, id)
}

// URL returns the address encoded for p. baseURL is used verbatim.
func (p Page) URL(baseURL string) string {
	return baseURL + "/" + string(p) + constant.PageExtension
}

// ImageName returns the file name of p's QR image.
func (p Page) ImageName() string {
	return string(p) + constant.ImageSuffix
}
