// Package yaml loads the page catalog from YAML.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/stylemanual"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalogFile mirrors catalog.yaml. Topics and focus areas stay as nodes so
// their declaration order survives decoding.
type catalogFile struct {
	BaseURL           string    `yaml:"base_url"`
	Topics            yaml.Node `yaml:"topics"`
	FocusAreas        yaml.Node `yaml:"focus_areas"`
	DefaultSearch     []string  `yaml:"default_search"`
	DefaultFocusAreas []string  `yaml:"default_focus_areas"`
}

// DefaultCatalog returns the built-in catalog of Style Manual pages.
func DefaultCatalog() (*stylemanual.Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog decodes and validates a catalog.
func LoadCatalog(r io.Reader) (*stylemanual.Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stylemanual.Errorf(stylemanual.EINVALID, "catalog is empty")
		}
		return nil, stylemanual.Errorf(stylemanual.EINVALID, "decode catalog: %v", err)
	}

	c := &stylemanual.Catalog{
		BaseURL:           f.BaseURL,
		DefaultSearch:     f.DefaultSearch,
		DefaultFocusAreas: f.DefaultFocusAreas,
	}

	err := eachPair(&f.Topics, "topics", func(key string, value *yaml.Node) error {
		var path string
		if err := value.Decode(&path); err != nil {
			return fmt.Errorf("topic %s: %w", key, err)
		}
		c.Topics = append(c.Topics, stylemanual.Topic{Key: key, Path: path})
		return nil
	})
	if err != nil {
		return nil, stylemanual.Errorf(stylemanual.EINVALID, "decode catalog: %v", err)
	}

	err = eachPair(&f.FocusAreas, "focus_areas", func(key string, value *yaml.Node) error {
		var topics []string
		if err := value.Decode(&topics); err != nil {
			return fmt.Errorf("focus area %s: %w", key, err)
		}
		c.FocusAreas = append(c.FocusAreas, stylemanual.FocusArea{Name: key, Topics: topics})
		return nil
	})
	if err != nil {
		return nil, stylemanual.Errorf(stylemanual.EINVALID, "decode catalog: %v", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// eachPair calls fn for every key of a mapping node in document order. An
// absent node is treated as an empty mapping.
func eachPair(n *yaml.Node, field string, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", n.Line, field)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
