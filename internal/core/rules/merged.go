package rules

import (
	"strings"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

// Merged fields are declared once per dataset, usually in a merged cell, and
// left blank on the rows below. A blank is only an issue when no row of the
// dataset declares the field.

// delimiterOther selects the free-text delimiter column.
const delimiterOther = "Other"

func init() {
	registerMerged("service", orderService, core.ColService, "Service", core.CategoryService)
	registerMerged("category", orderCategory, core.ColCategory, "Category", core.CategoryCategory)
	registerMerged("entity", orderEntity, core.ColEntity, "Entity", core.CategoryEntity)

	core.Register(core.Rule{
		Name:   "encoding",
		Order:  orderEncoding,
		Column: core.ColCodePage,
		Check:  checkEncoding,
	})
	core.Register(core.Rule{
		Name:   "delimiter",
		Order:  orderDelimiter,
		Column: core.ColAttributeDelimiter,
		Check:  checkDelimiter,
	})
	core.Register(core.Rule{
		Name:   "ingestion_logic",
		Order:  orderIngestion,
		Column: core.ColIngestionLogic,
		Check:  checkIngestion,
	})
	core.Register(core.Rule{
		Name:   "connectivity_description",
		Order:  orderConnectivityDescription,
		Column: core.ColConnectivityDescription,
		Check:  checkConnectivityDescription,
	})
}

// mergeIssue describes a merged field left blank on every row.
func mergeIssue(label, location string) core.Issue {
	return issue(
		"The issue in the "+label+".",
		label+" is mandatory. If "+label+" spans several rows, merge the "+label+" cells",
		core.MandatoryValue,
		location,
		label+" should be merged for the dataset, it should be a single value.",
	)
}

func registerMerged(name string, order int, column, label string, cat core.Category) {
	core.Register(core.Rule{
		Name:   name,
		Order:  order,
		Column: column,
		Check: func(vc *core.ValidationContext, row core.RowView) {
			cell := row.Value(column)
			vc.Accumulate(column, cell)
			if cell.IsAbsent() {
				vc.DeferMerge(column, cat, mergeIssue(label, row.Locate(column)))
			}
		},
	})
}

func checkEncoding(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColCodePage)
	vc.Accumulate(core.ColCodePage, cell)

	if cell.IsAbsent() {
		vc.DeferMerge(core.ColCodePage, core.CategoryEncoding, mergeIssue("Encoding", row.Locate(core.ColCodePage)))
		return
	}
	if cell.EqualFold("utf-8") {
		return
	}
	vc.AddOnce(core.CategoryEncoding, "encoding-utf8", issue(
		"The issue in the Encoding.",
		"Encoding should be UTF-8",
		cell.String(),
		row.Locate(core.ColCodePage),
		"Code Page should be UTF-8 without spaces.",
	))
}

// checkDelimiter records the dataset's resolved delimiter: the first declared
// value, or the Other column when the declared value is "Other".
func checkDelimiter(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColAttributeDelimiter)
	vc.Accumulate(core.ColAttributeDelimiter, cell)

	if cell.IsAbsent() {
		vc.DeferMerge(core.ColAttributeDelimiter, core.CategoryDelimiter, mergeIssue("Delimiter", row.Locate(core.ColAttributeDelimiter)))
		return
	}

	resolved := cell.String()
	if strings.TrimSpace(resolved) == delimiterOther {
		resolved = row.Value(core.ColAttributeDelimiterOther).String()
	}
	vc.SetDelimiter(resolved)
}

// checkIngestion validates Ingestion Logic against the catalog when the
// catalog defines ingestion types, and feeds the primary key rule.
func checkIngestion(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColIngestionLogic)
	vc.Accumulate(core.ColIngestionLogic, cell)

	types := vc.Catalog.IngestionType()
	expected := "Ingestion Logic is mandatory"
	if !types.Empty() {
		expected = "Ingestion Logic should be one of: " + types.String()
	}

	if cell.IsAbsent() {
		vc.DeferMerge(core.ColIngestionLogic, core.CategoryIngestion, issue(
			"The issue in the Ingestion Type",
			expected,
			core.MandatoryValue,
			row.Locate(core.ColIngestionLogic),
			"Ingestion Logic should be declared for the dataset.",
		))
		return
	}
	if types.Empty() || types.Contains(cell.String()) {
		return
	}
	vc.Add(core.CategoryIngestion, issue(
		"The issue in the Ingestion Type",
		expected,
		cell.String(),
		row.Locate(core.ColIngestionLogic),
		"Ingestion Logic should match an accepted value.",
	))
}

func checkConnectivityDescription(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColConnectivityDescription)
	vc.Accumulate(core.ColConnectivityDescription, cell)

	accepted := vc.Catalog.ConnectivityDesc()
	expected := "Connectivity Description should be one of: " + accepted.String()

	if cell.IsAbsent() {
		vc.DeferMerge(core.ColConnectivityDescription, core.CategoryConnectivityDescription, issue(
			"The issue in the Connectivity Description.",
			expected,
			core.MandatoryValue,
			row.Locate(core.ColConnectivityDescription),
			"Connectivity Description should be declared for the dataset.",
		))
		return
	}
	if accepted.Contains(cell.String()) {
		return
	}
	vc.Add(core.CategoryConnectivityDescription, issue(
		"The issue in the Connectivity Description.",
		expected,
		cell.String(),
		row.Locate(core.ColConnectivityDescription),
		"Connectivity Description should match an accepted value.",
	))
}
