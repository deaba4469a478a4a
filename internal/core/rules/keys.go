package rules

import "github.com/JonMunkholm/contractcheck/internal/core"

// ingestionUpsert is the ingestion logic that requires a primary key.
const ingestionUpsert = "INSUPD"

func init() {
	core.Register(core.Rule{
		Name:     "attribute_primary_key",
		Order:    orderPrimaryKey,
		Column:   core.ColAttributePrimaryKey,
		Check:    checkPrimaryKey,
		Finalize: finalizePrimaryKey,
	})
}

func checkPrimaryKey(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColAttributePrimaryKey)
	vc.Accumulate(core.ColAttributePrimaryKey, cell)

	if cell.IsPresent() && vc.Catalog.AttributeBool().Contains(cell.String()) {
		return
	}
	vc.Add(core.CategoryAttributePrimaryKey, issue(
		"The issue in the Attribute Primary Key",
		"Attribute Primary Key should be either Yes or No",
		core.Actual(cell),
		row.Locate(core.ColAttributePrimaryKey),
		"Attribute Primary Key is mandatory and must be Yes or No.",
	))
}

// finalizePrimaryKey requires at least one key attribute when any row of the
// dataset is ingested with upsert semantics. One issue per dataset at most.
func finalizePrimaryKey(vc *core.ValidationContext) {
	if !vc.AnyEqualFold(core.ColIngestionLogic, ingestionUpsert) {
		return
	}
	if vc.AnyEqualFold(core.ColAttributePrimaryKey, "Yes") {
		return
	}
	last := vc.LastRow()
	vc.Add(core.CategoryAttributePrimaryKeyLogic, issue(
		"Issue in Attribute Primary Key",
		"Attribute Primary Key is mandatory for "+ingestionUpsert,
		core.Actual(last.Value(core.ColAttributePrimaryKey)),
		last.Locate(core.ColAttributePrimaryKey),
		"At least one attribute must be a primary key when the ingestion logic is "+ingestionUpsert+".",
	))
}
