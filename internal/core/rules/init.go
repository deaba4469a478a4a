// Package rules registers the contract field validators with the core
// rule registry. Import this package to ensure all rules are registered.
//
// Each file registers one family of rules from init():
//
//	membership.go     - values drawn from a catalog vocabulary
//	attributes.go     - attribute names, sizes and date/time formats
//	dataset.go        - dataset name and dataset classification
//	merged.go         - fields declared once per dataset
//	keys.go           - primary key rules
package rules

import (
	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/core"
)

// Execution order. Rules run in this order for every row.
const (
	orderIngestion = (iota + 1) * 10
	orderDatasetName
	orderAttribute
	orderNullability
	orderPrimaryKey
	orderUniqueness
	orderFormat
	orderSplitLogic
	orderDataContractType
	orderFrequencySource
	orderFrequencySDP
	orderLanguage
	orderAttributeClassification
	orderDataType
	orderDataTypeSize
	orderDateFormat
	orderConnectivity
	orderConnectivityDescription
	orderEncoding
	orderDelimiter
	orderService
	orderCategory
	orderEntity
	orderDatasetClassification
)

// vocabularyFunc selects one vocabulary of the catalog.
type vocabularyFunc func(*catalog.Catalog) catalog.Vocabulary

// issue builds an error-level issue.
func issue(value, expected, actual, location, desc string) core.Issue {
	return core.Issue{
		Type:          core.SeverityError,
		IssueValue:    value,
		ExpectedValue: expected,
		ActualValue:   actual,
		Location:      location,
		IssueDesc:     desc,
	}
}
