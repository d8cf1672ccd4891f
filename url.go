package stylemanual

import (
	"net/url"
	"strings"
)

// BaseURL is the canonical origin of the Style Manual website.
const BaseURL = "https://www.stylemanual.gov.au"

// AllowedDomain is the only host content is fetched from, bare or www-prefixed.
const AllowedDomain = "stylemanual.gov.au"

// IsValidURL reports whether rawURL is an absolute http(s) URL whose host is
// exactly the allowed domain or its www. form. Subdomains are rejected.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == AllowedDomain || host == "www."+AllowedDomain
}

// ValidateURL returns an EINVALID error if rawURL fails IsValidURL.
func ValidateURL(rawURL string) error {
	if !IsValidURL(rawURL) {
		return Errorf(EINVALID, "Invalid URL: must be from %s domain: %s", AllowedDomain, rawURL)
	}
	return nil
}

// ValidateURLs checks every URL and reports all rejected ones in a single error.
func ValidateURLs(urls []string) error {
	var invalid []string
	for _, u := range urls {
		if !IsValidURL(u) {
			invalid = append(invalid, u)
		}
	}
	if len(invalid) > 0 {
		return Errorf(EINVALID, "Invalid URLs (must be from %s): %s", AllowedDomain, strings.Join(invalid, ", "))
	}
	return nil
}

// FullURL joins a site-relative path onto BaseURL.
func FullURL(path string) string {
	if path == "" {
		return BaseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return BaseURL + path
}
