package handler

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"

	templatePage = "page.html"

	contentTypeText = "text/plain; charset=utf-8"
	sitemapPath     = "/sitemap.xml"
)

const (
	msgSignedOut        = "signed out"
	msgSignOutFailed    = "could not sign out"
	msgSessionRevokeErr = "session revoke failed"
	msgPageWithoutGuard = "page rendered without route guard"
)
