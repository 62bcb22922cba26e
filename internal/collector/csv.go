package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/dietopt/diet-optimizer/internal/logging"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// CatalogLeadingColumns is the number of positional columns before the
// nutrient columns of a food catalog: identity, category, price, weight.
const CatalogLeadingColumns = 4

// CSVSource loads a food catalog and a single-row requirement table from CSV files.
type CSVSource struct {
	FoodsPath       string
	RequirementPath string
}

// NewCSVSource creates a CSVSource.
func NewCSVSource(foodsPath, requirementPath string) *CSVSource {
	return &CSVSource{FoodsPath: foodsPath, RequirementPath: requirementPath}
}

// Name implements CatalogSource.
func (s *CSVSource) Name() string { return "csv" }

// Load implements CatalogSource.
func (s *CSVSource) Load(ctx context.Context) (*Snapshot, error) {
	logger := logr.FromContextOrDiscard(ctx)

	catalog, err := readFile(s.FoodsPath, ParseCatalog)
	if err != nil {
		return nil, err
	}
	requirement, err := readFile(s.RequirementPath, ParseRequirement)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Source:      s.Name(),
		LoadedAt:    time.Now(),
		Catalog:     catalog,
		Requirement: requirement,
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	logger.V(logging.DEBUG).Info("Loaded catalog",
		"foodsPath", s.FoodsPath,
		"requirementPath", s.RequirementPath,
		"foods", len(catalog.Foods),
		"nutrients", len(catalog.Nutrients))
	return snapshot, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", path, err)
	}
	return v, nil
}

// ParseCatalog reads a food catalog. The header row names the columns; the
// first four are identity, category, price and weight in that order, and
// every further column is a nutrient.
func ParseCatalog(r io.Reader) (*core.Catalog, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	header := records[0]
	if len(header) <= CatalogLeadingColumns {
		return nil, core.NewSchemaError("catalog needs %d leading columns and at least one nutrient column, got %d columns",
			CatalogLeadingColumns, len(header))
	}
	nutrients := core.Nutrients(trimAll(header[CatalogLeadingColumns:]))
	if err := nutrients.Validate(); err != nil {
		return nil, err
	}

	catalog := &core.Catalog{Nutrients: nutrients, Foods: make([]core.FoodItem, 0, len(records)-1)}
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != len(header) {
			return nil, core.NewSchemaError("line %d: expected %d columns, got %d", line, len(header), len(record))
		}
		price, err := parseNumber(record[2], line, header[2])
		if err != nil {
			return nil, err
		}
		weight, err := parseNumber(record[3], line, header[3])
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(nutrients))
		for n := range nutrients {
			if values[n], err = parseNumber(record[CatalogLeadingColumns+n], line, nutrients[n]); err != nil {
				return nil, err
			}
		}
		catalog.Foods = append(catalog.Foods, core.FoodItem{
			Name:     strings.TrimSpace(record[0]),
			Category: strings.TrimSpace(record[1]),
			Price:    price,
			Weight:   weight,
			Content:  core.NutrientVector{Nutrients: nutrients, Values: values},
		})
	}
	return catalog, nil
}

// ParseRequirement reads a requirement table: a header of nutrient names and
// exactly one row of baseline amounts.
func ParseRequirement(r io.Reader) (core.NutrientVector, error) {
	records, err := readRecords(r)
	if err != nil {
		return core.NutrientVector{}, err
	}
	if len(records) != 2 {
		return core.NutrientVector{}, core.NewSchemaError("requirement table must have exactly one data row, got %d", len(records)-1)
	}
	nutrients := core.Nutrients(trimAll(records[0]))
	if err := nutrients.Validate(); err != nil {
		return core.NutrientVector{}, err
	}
	row := records[1]
	if len(row) != len(nutrients) {
		return core.NutrientVector{}, core.NewSchemaError("requirement row has %d values for %d columns", len(row), len(nutrients))
	}
	values := make([]float64, len(nutrients))
	for n := range nutrients {
		if values[n], err = parseNumber(row[n], 2, nutrients[n]); err != nil {
			return core.NutrientVector{}, err
		}
	}
	return core.NewNutrientVector(nutrients, values)
}

func readRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, core.WrapSchemaError(err, "malformed csv")
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, core.NewSchemaError("csv has no header row")
	}
	// spreadsheet exports often start with a UTF-8 byte order mark
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	return records, nil
}

func parseNumber(raw string, line int, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, core.WrapSchemaError(err, fmt.Sprintf("line %d, column %q: not a number", line, column))
	}
	return v, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
