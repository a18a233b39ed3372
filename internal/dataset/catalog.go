package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultDatasetID is the catalog's fallback when an unknown id is requested.
const DefaultDatasetID = "sales"

// Catalog is a read-only provider of datasets. The engine never mutates a
// Dataset after it enters the catalog.
type Catalog struct {
	order []*Dataset
	byID  map[string]*Dataset
}

// NewCatalog returns a catalog seeded with the built-in datasets.
func NewCatalog() *Catalog {
	c := &Catalog{byID: make(map[string]*Dataset)}
	for _, ds := range builtinDatasets() {
		c.add(ds)
	}
	return c
}

func (c *Catalog) add(ds *Dataset) {
	if _, exists := c.byID[ds.ID]; !exists {
		c.order = append(c.order, ds)
	}
	c.byID[ds.ID] = ds
}

// List returns all datasets in registration order.
func (c *Catalog) List() []*Dataset {
	return c.order
}

// Get returns the dataset for id, or the default dataset when id is unknown.
func (c *Catalog) Get(id string) *Dataset {
	if ds, ok := c.byID[id]; ok {
		return ds
	}
	return c.byID[DefaultDatasetID]
}

// datasetFile is the on-disk descriptor shape for user-provided datasets.
type datasetFile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Metrics       []Metric `json:"metrics"`
	DefaultMetric string   `json:"defaultMetric"`
	Rows          []Row    `json:"rows"`
}

// LoadDir merges every *.json dataset descriptor found in dir into the
// catalog. Malformed files are logged and skipped; a missing directory is
// not an error.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read dataset directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ds, err := loadDatasetFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping malformed dataset file")
			continue
		}
		c.add(ds)
		log.Info().Str("dataset", ds.ID).Int("rows", len(ds.Rows)).Msg("Loaded dataset from file")
	}
	return nil
}

func loadDatasetFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var file datasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}
	if file.ID == "" {
		return nil, fmt.Errorf("dataset file %s has no id", filepath.Base(path))
	}
	if len(file.Metrics) == 0 {
		return nil, fmt.Errorf("dataset %q declares no metrics", file.ID)
	}

	return New(file.ID, file.Name, file.Description, file.Metrics, file.DefaultMetric, file.Rows), nil
}
