package pagination

import (
	"net/url"
	"strconv"
)

// PerPage is the fixed window size for every list endpoint.
const PerPage = 20

type Links struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
}

// ParsePage reads the 1-based page number from the query, defaulting to 1.
func ParsePage(q url.Values) int {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func Offset(page int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * PerPage
}

// BuildLinks computes the link descriptors for a page. The last page is
// count/PerPage with floor semantics, which drops the trailing partial
// page from the count; the quirk is kept on purpose.
func BuildLinks(baseURL string, query url.Values, page, count int) Links {
	totalPages := count / PerPage

	prev := page - 1
	if page == 1 {
		prev = 1
	}
	next := page + 1
	if page == totalPages {
		next = page
	}

	return Links{
		First: pageURL(baseURL, query, 1),
		Last:  pageURL(baseURL, query, totalPages),
		Prev:  pageURL(baseURL, query, prev),
		Next:  pageURL(baseURL, query, next),
	}
}

func pageURL(baseURL string, query url.Values, page int) string {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	return baseURL + "?" + q.Encode()
}
