package stylemanual

import "strings"

// Topic is a named page of the Style Manual.
type Topic struct {
	Key  string
	Path string
}

// FocusArea groups topic keys under a name used for targeted downloads.
type FocusArea struct {
	Name   string
	Topics []string
}

// Catalog is the static table of known pages, focus areas and search defaults.
type Catalog struct {
	BaseURL           string
	Topics            []Topic
	FocusAreas        []FocusArea
	DefaultSearch     []string
	DefaultFocusAreas []string
}

// Validate returns an error if any focus area or default names an unknown
// topic or focus area.
func (c *Catalog) Validate() error {
	if c.BaseURL != "" && !IsValidURL(c.BaseURL) {
		return Errorf(EINVALID, "catalog base URL %q is outside %s", c.BaseURL, AllowedDomain)
	}

	known := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if t.Key == "" || !strings.HasPrefix(t.Path, "/") {
			return Errorf(EINVALID, "catalog topic %q has invalid path %q", t.Key, t.Path)
		}
		if known[t.Key] {
			return Errorf(EINVALID, "catalog topic %q is defined twice", t.Key)
		}
		known[t.Key] = true
	}

	areas := make(map[string]bool, len(c.FocusAreas))
	for _, fa := range c.FocusAreas {
		for _, key := range fa.Topics {
			if !known[key] {
				return Errorf(EINVALID, "focus area %q names unknown topic %q", fa.Name, key)
			}
		}
		areas[fa.Name] = true
	}

	for _, key := range c.DefaultSearch {
		if !known[key] {
			return Errorf(EINVALID, "default search names unknown topic %q", key)
		}
	}
	for _, name := range c.DefaultFocusAreas {
		if !areas[name] {
			return Errorf(EINVALID, "default focus areas name unknown focus area %q", name)
		}
	}
	return nil
}

// URL returns the absolute URL of the topic with the given key.
func (c *Catalog) URL(key string) (string, error) {
	for _, t := range c.Topics {
		if t.Key == key {
			return c.fullURL(t.Path), nil
		}
	}
	return "", Errorf(ENOTFOUND, "Unknown topic: %s", key)
}

// URLs returns the absolute URL of every topic in catalog order.
func (c *Catalog) URLs() []string {
	urls := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		urls = append(urls, c.fullURL(t.Path))
	}
	return urls
}

// FocusAreaNames returns the focus area names in catalog order.
func (c *Catalog) FocusAreaNames() []string {
	names := make([]string, 0, len(c.FocusAreas))
	for _, fa := range c.FocusAreas {
		names = append(names, fa.Name)
	}
	return names
}

// FocusAreaURLs returns the URLs of the named focus areas, de-duplicated in
// first-seen order.
func (c *Catalog) FocusAreaURLs(names ...string) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)
	for _, name := range names {
		fa, ok := c.focusArea(name)
		if !ok {
			return nil, Errorf(ENOTFOUND, "Unknown focus area: %s", name)
		}
		for _, key := range fa.Topics {
			u, err := c.URL(key)
			if err != nil {
				return nil, err
			}
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

// DefaultFocusAreaURLs returns the URLs covered by the default focus areas.
func (c *Catalog) DefaultFocusAreaURLs() ([]string, error) {
	return c.FocusAreaURLs(c.DefaultFocusAreas...)
}

// DefaultSearchURLs returns the pages searched live when nothing is cached.
func (c *Catalog) DefaultSearchURLs() []string {
	urls := make([]string, 0, len(c.DefaultSearch))
	for _, key := range c.DefaultSearch {
		if u, err := c.URL(key); err == nil {
			urls = append(urls, u)
		}
	}
	return urls
}

func (c *Catalog) focusArea(name string) (FocusArea, bool) {
	for _, fa := range c.FocusAreas {
		if fa.Name == name {
			return fa, true
		}
	}
	return FocusArea{}, false
}

func (c *Catalog) fullURL(path string) string {
	base := c.BaseURL
	if base == "" {
		base = BaseURL
	}
	return strings.TrimSuffix(base, "/") + path
}
