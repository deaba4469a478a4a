package rules

import (
	"strconv"
	"unicode/utf8"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

// maxDatasetNameLength is the longest dataset name accepted, in characters.
const maxDatasetNameLength = 50

// Classification levels that constrain the dataset classification.
const (
	classSensitive    = "sensitive"
	classConfidential = "confidential"
)

func init() {
	core.Register(core.Rule{
		Name:   "dataset_name",
		Order:  orderDatasetName,
		Column: core.ColDatasetName,
		Check:  checkDatasetName,
	})
	core.Register(core.Rule{
		Name:   "dataset_classification",
		Order:  orderDatasetClassification,
		Column: core.ColDataClassificationType,
		Check:  checkDatasetClassification,
	})
}

// checkDatasetName reports the first bad dataset name of a dataset; the
// name repeats on every row, so later rows are not reported again.
func checkDatasetName(vc *core.ValidationContext, row core.RowView) {
	name := row.Value(core.ColDatasetName).String()
	location := row.Locate(core.ColDatasetName)

	if n := utf8.RuneCountInString(name); n > maxDatasetNameLength {
		vc.AddOnce(core.CategoryDatasetName, "dataset-name", issue(
			"The issue in the Dataset Length",
			"Dataset Length should not be greater than "+strconv.Itoa(maxDatasetNameLength)+".",
			name+" has length: "+strconv.Itoa(n),
			location,
			"Dataset name should be at most "+strconv.Itoa(maxDatasetNameLength)+" characters.",
		))
		return
	}
	if !namePattern.MatchString(name) {
		vc.AddOnce(core.CategoryDatasetName, "dataset-name", issue(
			"The issue in the Dataset Name",
			"Dataset Name should contain English letters, digits, spaces and underscores only.",
			name,
			location,
			"Dataset Name should be English only.",
		))
	}
}

// requiredClassification returns the classification the dataset must carry
// given its attribute classifications, or "" when any level is accepted.
func requiredClassification(attrs []string) string {
	confidential := false
	for _, a := range attrs {
		switch core.LowerTrim(a) {
		case classSensitive:
			return classSensitive
		case classConfidential:
			confidential = true
		}
	}
	if confidential {
		return classConfidential
	}
	return ""
}

func checkDatasetClassification(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColDataClassificationType)
	vc.Accumulate(core.ColDataClassificationType, cell)

	accepted := vc.Catalog.Classification()
	location := row.Locate(core.ColDataClassificationType)

	if cell.IsAbsent() {
		vc.DeferMerge(core.ColDataClassificationType, core.CategoryDatasetClassification, issue(
			"The issue in the Classification.",
			"Classification should be one of: "+accepted.String(),
			core.MandatoryValue,
			location,
			"Data Classification Type should be declared for the dataset.",
		))
		return
	}
	if !accepted.Contains(cell.String()) {
		vc.Add(core.CategoryDatasetClassification, issue(
			"The issue in the Classification.",
			"Classification should be one of: "+accepted.String(),
			cell.String(),
			location,
			"Data Classification Type should match an accepted value.",
		))
		return
	}

	required := requiredClassification(vc.Dataset.AttributeClassifications)
	if required == "" || core.LowerTrim(cell.String()) == required {
		return
	}
	vc.AddOnce(core.CategoryDatasetClassification, "classification-hierarchy", issue(
		"The issue in the Classification.",
		"Classification is not matching with the attribute level classification: expected "+required,
		cell.String(),
		location,
		"Dataset classification must be at least as strict as its most restricted attribute.",
	))
}
