package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CrawlerDisallow lists the path prefixes crawlers are told to skip.
var CrawlerDisallow = []string{"/api/", "/admin/", "/dashboard/"}

// Robots serves the crawler policy with a sitemap under baseURL.
func Robots(baseURL string) echo.HandlerFunc {
	body := robotsBody(baseURL)
	return func(c echo.Context) error {
		return c.Blob(http.StatusOK, contentTypeText, []byte(body))
	}
}

func robotsBody(baseURL string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, prefix := range CrawlerDisallow {
		b.WriteString("Disallow: " + prefix + "\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimRight(baseURL, "/") + sitemapPath + "\n")
	return b.String()
}
