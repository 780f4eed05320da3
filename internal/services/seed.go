package services

import (
	"bytes"
	_ "embed"
	"errors"
	"io"

	"github.com/terraincognita07/labcheck/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// ParseCatalogYAML decodes a catalog document and rejects unknown fields.
func ParseCatalogYAML(raw []byte) (models.CatalogDocument, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var document models.CatalogDocument
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return models.CatalogDocument{}, withDetail(ErrInvalidDocument, "empty document")
		}
		return models.CatalogDocument{}, withDetail(ErrInvalidDocument, err.Error())
	}
	return NormalizeCatalogDocument(document)
}

func DefaultCatalog() (models.CatalogDocument, error) {
	return ParseCatalogYAML(defaultCatalogYAML)
}

// SeedDefaults loads seed, or the built-in department catalog when seed is
// empty, into a catalog that has never been filled. seeded is false when the
// catalog already had entries.
func (service *CatalogService) SeedDefaults(seed []byte) (seeded bool, err error) {
	empty, err := service.IsEmpty()
	if err != nil || !empty {
		return false, err
	}

	if len(bytes.TrimSpace(seed)) == 0 {
		seed = defaultCatalogYAML
	}
	document, err := ParseCatalogYAML(seed)
	if err != nil {
		return false, err
	}
	if _, err := service.ApplyCatalog(document, "", false); err != nil {
		return false, err
	}
	return true, nil
}
