package rules

import (
	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/core"
)

// membership checks that a column's value belongs to a catalog vocabulary.
type membership struct {
	name     string
	order    int
	column   string
	label    string
	category core.Category
	vocab    vocabularyFunc

	// optional fields accept an absent value.
	optional bool
}

func init() {
	for _, m := range []membership{
		{
			name: "attribute_nullability", order: orderNullability,
			column: core.ColAttributeNullability, label: "Attribute Nullability",
			category: core.CategoryAttributeNullability, vocab: (*catalog.Catalog).AttributeBool,
		},
		{
			name: "attribute_uniqueness", order: orderUniqueness,
			column: core.ColAttributeUniqueness, label: "Attribute Uniqueness",
			category: core.CategoryAttributeUniqueness, vocab: (*catalog.Catalog).AttributeBool,
		},
		{
			name: "format", order: orderFormat,
			column: core.ColFormat, label: "Format",
			category: core.CategoryFormat, vocab: (*catalog.Catalog).Format,
		},
		{
			name: "split_logic", order: orderSplitLogic,
			column: core.ColSplitLogic, label: "Split Logic",
			category: core.CategorySplitLogic, vocab: (*catalog.Catalog).SplitLogic,
		},
		{
			name: "data_contract_type", order: orderDataContractType,
			column: core.ColDataContractType, label: "DataContract Type",
			category: core.CategoryDataContractType, vocab: (*catalog.Catalog).DataContractType,
		},
		{
			name: "frequency_source", order: orderFrequencySource,
			column: core.ColFrequencySource, label: core.ColFrequencySource,
			category: core.CategoryFrequency, vocab: (*catalog.Catalog).Frequency,
		},
		{
			name: "frequency_sdp", order: orderFrequencySDP,
			column: core.ColFrequencySDP, label: core.ColFrequencySDP,
			category: core.CategoryFrequency, vocab: (*catalog.Catalog).Frequency,
		},
		{
			name: "language", order: orderLanguage,
			column: core.ColLanguage, label: "Language",
			category: core.CategoryLanguage, vocab: (*catalog.Catalog).Language,
			optional: true,
		},
		{
			name: "attribute_classification", order: orderAttributeClassification,
			column: core.ColAttributeClassification, label: "Attribute Classification",
			category: core.CategoryAttributeClassification, vocab: (*catalog.Catalog).Classification,
		},
		{
			name: "data_type", order: orderDataType,
			column: core.ColAttributeDataType, label: "Data Type",
			category: core.CategoryDataType, vocab: (*catalog.Catalog).DataTypes,
		},
		{
			name: "connectivity_option", order: orderConnectivity,
			column: core.ColConnectivityOption, label: "Connectivity Option",
			category: core.CategoryConnectivity, vocab: (*catalog.Catalog).Connectivity,
			optional: true,
		},
	} {
		registerMembership(m)
	}
}

func registerMembership(m membership) {
	core.Register(core.Rule{
		Name:   m.name,
		Order:  m.order,
		Column: m.column,
		Check: func(vc *core.ValidationContext, row core.RowView) {
			cell := row.Value(m.column)
			if cell.IsAbsent() && m.optional {
				return
			}
			v := m.vocab(vc.Catalog)
			if cell.IsPresent() && v.Contains(cell.String()) {
				return
			}
			vc.Add(m.category, issue(
				"The issue in the "+m.label,
				m.label+" should be one of: "+v.String(),
				core.Actual(cell),
				row.Locate(m.column),
				membershipDesc(m),
			))
		},
	})
}

func membershipDesc(m membership) string {
	if m.optional {
		return m.label + " may be left empty; when filled it must match an accepted value."
	}
	return m.label + " is mandatory and must match an accepted value."
}
