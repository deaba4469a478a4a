// Package catalog loads the rule catalog: the accepted vocabulary for every
// validated contract field plus the list of columns a contract must carry.
//
// The catalog is read once at startup and is read-only afterwards, so a single
// *Catalog is shared by every dataset and every file validated in a run.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingCatalogKey is returned when a required key is absent or empty.
var ErrMissingCatalogKey = errors.New("catalog key missing")

// Catalog keys as they appear in the catalog document.
const (
	KeyFrequency          = "frequency"
	KeySplitLogic         = "splitLogic"
	KeyFormat             = "format"
	KeyAttributeBool      = "attributeBool"
	KeyClassification     = "classification"
	KeyDataTypes          = "dataTypes"
	KeyNumberDataTypeSize = "numberDataTypeSize"
	KeyDateFormat         = "dateformat"
	KeyConnectivity       = "connectivity"
	KeyConnectivityDesc   = "connectivityDesc"
	KeyLanguage           = "language"
	KeyHeader             = "header"
	KeyIngestionType      = "ingestionType"
	KeyDataContractType   = "dataContractType"
)

// requiredKeys must be present and non-empty for Load to succeed.
var requiredKeys = []string{
	KeyFrequency,
	KeySplitLogic,
	KeyFormat,
	KeyAttributeBool,
	KeyClassification,
	KeyDataTypes,
	KeyNumberDataTypeSize,
	KeyDateFormat,
	KeyConnectivity,
	KeyConnectivityDesc,
	KeyLanguage,
	KeyHeader,
}

// DefaultDataContractTypes applies when the catalog has no dataContractType key.
var DefaultDataContractTypes = []string{"New", "Revised"}

// Catalog is the typed rule catalog.
type Catalog struct {
	frequency          Vocabulary
	splitLogic         Vocabulary
	format             Vocabulary
	attributeBool      Vocabulary
	classification     Vocabulary
	dataTypes          Vocabulary
	numberDataTypeSize Vocabulary
	dateFormat         Vocabulary
	connectivity       Vocabulary
	connectivityDesc   Vocabulary
	language           Vocabulary
	ingestionType      Vocabulary
	dataContractType   Vocabulary
	header             []string
}

func (c *Catalog) Frequency() Vocabulary          { return c.frequency }
func (c *Catalog) SplitLogic() Vocabulary         { return c.splitLogic }
func (c *Catalog) Format() Vocabulary             { return c.format }
func (c *Catalog) AttributeBool() Vocabulary      { return c.attributeBool }
func (c *Catalog) Classification() Vocabulary     { return c.classification }
func (c *Catalog) DataTypes() Vocabulary          { return c.dataTypes }
func (c *Catalog) NumberDataTypeSize() Vocabulary { return c.numberDataTypeSize }
func (c *Catalog) DateFormat() Vocabulary         { return c.dateFormat }
func (c *Catalog) Connectivity() Vocabulary       { return c.connectivity }
func (c *Catalog) ConnectivityDesc() Vocabulary   { return c.connectivityDesc }
func (c *Catalog) Language() Vocabulary           { return c.language }
func (c *Catalog) DataContractType() Vocabulary   { return c.dataContractType }

// IngestionType is optional. An empty vocabulary means any declared
// ingestion logic is accepted.
func (c *Catalog) IngestionType() Vocabulary { return c.ingestionType }

// Header returns the column names a contract must contain, in catalog order.
func (c *Catalog) Header() []string {
	return append([]string(nil), c.header...)
}

// Load reads a catalog file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON builds a catalog from a JSON document.
func ParseJSON(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog json: %w", err)
	}
	return FromMap(raw)
}

// ParseYAML builds a catalog from a YAML document.
func ParseYAML(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	return FromMap(raw)
}

// FromMap builds a catalog from a decoded document. Every required key must
// be a non-empty list; all missing keys are reported together.
func FromMap(raw map[string]any) (*Catalog, error) {
	lists := make(map[string][]string, len(raw))
	var errs []string

	for key, v := range raw {
		items, err := toStrings(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		lists[key] = items
	}

	for _, key := range requiredKeys {
		if len(lists[key]) == 0 {
			errs = append(errs, fmt.Sprintf("%s: %v", key, ErrMissingCatalogKey))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w:\n  - %s", ErrMissingCatalogKey, strings.Join(errs, "\n  - "))
	}

	dct := lists[KeyDataContractType]
	if len(dct) == 0 {
		dct = DefaultDataContractTypes
	}

	return &Catalog{
		frequency:          NewVocabulary(lists[KeyFrequency]),
		splitLogic:         NewVocabulary(lists[KeySplitLogic]),
		format:             NewVocabulary(lists[KeyFormat]),
		attributeBool:      NewVocabulary(lists[KeyAttributeBool]),
		classification:     NewVocabulary(lists[KeyClassification]),
		dataTypes:          NewVocabulary(lists[KeyDataTypes]),
		numberDataTypeSize: NewVocabulary(lists[KeyNumberDataTypeSize]),
		dateFormat:         NewVocabulary(lists[KeyDateFormat]),
		connectivity:       NewVocabulary(lists[KeyConnectivity]),
		connectivityDesc:   NewVocabulary(lists[KeyConnectivityDesc]),
		language:           NewVocabulary(lists[KeyLanguage]),
		ingestionType:      NewVocabulary(lists[KeyIngestionType]),
		dataContractType:   NewVocabulary(dct),
		header:             lists[KeyHeader],
	}, nil
}

// toStrings converts a decoded list into strings. Numbers are accepted
// because YAML readers turn unquoted tokens like 10 into ints.
func toStrings(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case int, int64, float64, bool:
			out = append(out, fmt.Sprint(x))
		default:
			return nil, fmt.Errorf("unsupported list item %T", item)
		}
	}
	return out, nil
}
