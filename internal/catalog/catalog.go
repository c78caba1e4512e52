// Package catalog loads the product definition shown on the storefront.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/pkg/validator"
)

//go:embed socks.yaml
var defaultCatalog []byte

// Default returns the built-in socks product.
func Default() (domain.ProductInfo, error) {
	return Parse(defaultCatalog)
}

// Load reads a product definition from path. An empty path yields Default.
func Load(path string) (domain.ProductInfo, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	info, err := Parse(data)
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return info, nil
}

// Parse decodes and validates a YAML product definition.
func Parse(data []byte) (domain.ProductInfo, error) {
	var info domain.ProductInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return domain.ProductInfo{}, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validator.Validate(info); err != nil {
		return domain.ProductInfo{}, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[int]struct{}, len(info.Variants))
	for _, v := range info.Variants {
		if _, ok := seen[v.ID]; ok {
			return domain.ProductInfo{}, fmt.Errorf("invalid catalog: duplicate variant id %d", v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	return info, nil
}
