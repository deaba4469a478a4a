package core_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/core"
	_ "github.com/JonMunkholm/contractcheck/internal/core/rules"
	"github.com/JonMunkholm/contractcheck/internal/table"
)

// row is one contract row keyed by column name; missing keys are absent.
type row map[string]string

// validRow returns a row that passes every rule.
func validRow(dataset, attribute string) row {
	return row{
		core.ColDatasetName:             dataset,
		core.ColAttribute:               attribute,
		core.ColAttributeNullability:    "Yes",
		core.ColAttributePrimaryKey:     "No",
		core.ColAttributeUniqueness:     "No",
		core.ColFormat:                  "text/csv",
		core.ColSplitLogic:              "None",
		core.ColDataContractType:        "New",
		core.ColFrequencySource:         "Daily",
		core.ColFrequencySDP:            "Daily",
		core.ColLanguage:                "English",
		core.ColAttributeClassification: "Open",
		core.ColAttributeDataType:       "varchar",
		core.ColAttributeSize:           "50",
		core.ColConnectivityOption:      "SFTP",
		core.ColConnectivityDescription: "Push",
		core.ColCodePage:                "utf-8",
		core.ColAttributeDelimiter:      ",",
		core.ColService:                 "Sales",
		core.ColCategory:                "Orders",
		core.ColEntity:                  "ACME",
		core.ColDataClassificationType:  "Open",
		core.ColIngestionLogic:          "INSERT",
	}
}

// with returns a copy of r with the given column/value pairs set.
func (r row) with(kv ...string) row {
	out := make(row, len(r)+len(kv)/2)
	for k, v := range r {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

func buildDoc(rows ...row) *table.Document {
	columns := catalog.Default().Header()
	doc := table.NewDocument(columns, table.DefaultHeaderRow)
	for _, r := range rows {
		cells := make([]table.Cell, len(columns))
		for i, c := range columns {
			cells[i] = table.ParseCell(r[c])
		}
		doc.AppendRow(cells)
	}
	return doc
}

func validate(t *testing.T, rows ...row) []core.DatasetIssueReport {
	t.Helper()
	engine := core.NewEngine(catalog.Default())
	reports, err := engine.Validate(context.Background(), buildDoc(rows...), "ACME")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return reports
}

// countIssues counts issues in the category across all reports.
func countIssues(reports []core.DatasetIssueReport, cat core.Category) int {
	n := 0
	for _, r := range reports {
		if issues, ok := r.Category(cat.Label()); ok {
			n += len(issues)
		}
	}
	return n
}

func TestEngine_ValidContractHasNoIssues(t *testing.T) {
	reports := validate(t,
		validRow("orders", "id"),
		validRow("orders", "total"),
		validRow("customers", "email"),
	)
	if len(reports) != 0 {
		t.Errorf("got %d reports, want none: %+v", len(reports), reports)
	}
}

func TestEngine_BooleanFields(t *testing.T) {
	fields := []struct {
		column string
		cat    core.Category
	}{
		{core.ColAttributeNullability, core.CategoryAttributeNullability},
		{core.ColAttributeUniqueness, core.CategoryAttributeUniqueness},
		{core.ColAttributePrimaryKey, core.CategoryAttributePrimaryKey},
	}
	values := []struct {
		value string
		want  int
	}{
		{"Yes", 0},
		{"no", 0},
		{"YES", 0},
		{"Maybe", 1},
		{"Y", 1},
		{"", 1},
	}

	for _, f := range fields {
		for _, v := range values {
			t.Run(f.column+"="+v.value, func(t *testing.T) {
				reports := validate(t, validRow("orders", "id").with(f.column, v.value))
				if got := countIssues(reports, f.cat); got != v.want {
					t.Errorf("got %d issues, want %d", got, v.want)
				}
			})
		}
	}
}

func TestEngine_PrimaryKeyLogic(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			rows := make([]row, n)
			for i := range rows {
				rows[i] = validRow("orders", "attr").with(core.ColIngestionLogic, "")
			}
			rows[n-1] = rows[n-1].with(core.ColIngestionLogic, "insupd")

			reports := validate(t, rows...)
			if got := countIssues(reports, core.CategoryAttributePrimaryKeyLogic); got != 1 {
				t.Errorf("%d rows: got %d primary key logic issues, want 1", n, got)
			}
		})
	}

	t.Run("key declared", func(t *testing.T) {
		reports := validate(t,
			validRow("orders", "id").with(core.ColIngestionLogic, "INSUPD", core.ColAttributePrimaryKey, "yes"),
			validRow("orders", "total").with(core.ColIngestionLogic, "INSUPD"),
		)
		if got := countIssues(reports, core.CategoryAttributePrimaryKeyLogic); got != 0 {
			t.Errorf("got %d primary key logic issues, want 0", got)
		}
	})
}

func TestEngine_MergedField(t *testing.T) {
	base := validRow("orders", "id").with(core.ColService, "")

	t.Run("declared once", func(t *testing.T) {
		reports := validate(t,
			base,
			base.with(core.ColAttribute, "total", core.ColService, "Sales"),
			base.with(core.ColAttribute, "created"),
		)
		if got := countIssues(reports, core.CategoryService); got != 0 {
			t.Errorf("got %d service issues, want 0", got)
		}
	})

	t.Run("never declared", func(t *testing.T) {
		reports := validate(t, base, base.with(core.ColAttribute, "total"))
		if got := countIssues(reports, core.CategoryService); got == 0 {
			t.Error("want service issues when no row declares the service")
		}
	})
}

func TestEngine_DatasetClassification(t *testing.T) {
	tests := []struct {
		name    string
		dataset string
		want    int
	}{
		{"open under sensitive attributes", "Open", 1},
		{"confidential under sensitive attributes", "Confidential", 1},
		{"sensitive under sensitive attributes", "Sensitive", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := validate(t,
				validRow("orders", "id").with(core.ColAttributeClassification, "Sensitive", core.ColDataClassificationType, tt.dataset),
				validRow("orders", "ssn").with(core.ColAttributeClassification, "Sensitive", core.ColDataClassificationType, tt.dataset),
				validRow("orders", "total").with(core.ColAttributeClassification, "Open", core.ColDataClassificationType, tt.dataset),
			)
			if got := countIssues(reports, core.CategoryDatasetClassification); got != tt.want {
				t.Errorf("got %d classification issues, want %d", got, tt.want)
			}
		})
	}

	t.Run("confidential attribute requires confidential", func(t *testing.T) {
		reports := validate(t,
			validRow("orders", "email").with(core.ColAttributeClassification, "Confidential", core.ColDataClassificationType, "Confidential"),
		)
		if got := countIssues(reports, core.CategoryDatasetClassification); got != 0 {
			t.Errorf("got %d classification issues, want 0", got)
		}
	})
}

func TestEngine_AttributeSize(t *testing.T) {
	tests := []struct {
		name     string
		dataType string
		size     string
		want     int
	}{
		{"absent for date", "date", "", 0},
		{"absent for timestamp", "timestamp", "", 0},
		{"absent for int", "int", "", 0},
		{"absent for varchar", "varchar", "", 1},
		{"zero", "int", "0", 1},
		{"zero scale", "decimal", "12,0", 1},
		{"zero precision", "decimal", "0,5", 1},
		{"precision and scale", "decimal", "12,5", 0},
		{"fractional suffix", "varchar", "10.0", 0},
		{"letters", "varchar", "ten", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRow("orders", "id").with(core.ColAttributeDataType, tt.dataType, core.ColAttributeSize, tt.size)
			if tt.dataType == "date" || tt.dataType == "timestamp" {
				r = r.with(core.ColAttributeRange, "YYYY-MM-DD")
			}
			reports := validate(t, r)
			if got := countIssues(reports, core.CategoryDataTypeSize); got != tt.want {
				t.Errorf("got %d size issues, want %d", got, tt.want)
			}
		})
	}
}

func TestEngine_DateFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   int
	}{
		{"accepted", "yyyy-mm-dd", 0},
		{"unknown", "YY/MM", 1},
		{"missing", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := validate(t, validRow("orders", "created").with(
				core.ColAttributeDataType, "datetime",
				core.ColAttributeSize, "",
				core.ColAttributeRange, tt.format,
			))
			if got := countIssues(reports, core.CategoryDateTimeFormat); got != tt.want {
				t.Errorf("got %d date format issues, want %d", got, tt.want)
			}
		})
	}
}

func TestEngine_DatasetNameReportedOnce(t *testing.T) {
	bad := "orders (v2)"
	reports := validate(t,
		validRow(bad, "id"),
		validRow(bad, "total"),
		validRow(bad, "created"),
	)
	if got := countIssues(reports, core.CategoryDatasetName); got != 1 {
		t.Errorf("got %d dataset name issues, want 1", got)
	}
}

func TestEngine_AttributeName(t *testing.T) {
	reports := validate(t,
		validRow("orders", "total_%"),
		validRow("orders", "created at"),
	)
	if got := countIssues(reports, core.CategoryAttribute); got != 1 {
		t.Errorf("got %d attribute issues, want 1", got)
	}
}

func TestEngine_Encoding(t *testing.T) {
	reports := validate(t,
		validRow("orders", "id").with(core.ColCodePage, "latin-1"),
		validRow("orders", "total").with(core.ColCodePage, "latin-1"),
	)
	if got := countIssues(reports, core.CategoryEncoding); got != 1 {
		t.Errorf("got %d encoding issues, want 1", got)
	}
}

func TestEngine_LanguageOptional(t *testing.T) {
	reports := validate(t, validRow("orders", "id").with(core.ColLanguage, ""))
	if got := countIssues(reports, core.CategoryLanguage); got != 0 {
		t.Errorf("absent language: got %d issues, want 0", got)
	}

	reports = validate(t, validRow("orders", "id").with(core.ColLanguage, "Klingon"))
	if got := countIssues(reports, core.CategoryLanguage); got != 1 {
		t.Errorf("unknown language: got %d issues, want 1", got)
	}
}

func TestEngine_IssueLocation(t *testing.T) {
	reports := validate(t,
		validRow("orders", "id"),
		validRow("orders", "total").with(core.ColFormat, "text/html"),
	)
	issues, ok := reports[0].Category(core.CategoryFormat.Label())
	if !ok || len(issues) != 1 {
		t.Fatalf("format issues = %+v", issues)
	}
	// Format (MIME) is column F; the second data row sits on sheet row 5.
	if got := issues[0].Location; got != "F5" {
		t.Errorf("location = %q, want F5", got)
	}
}

func TestEngine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := core.NewEngine(catalog.Default())
	_, err := engine.Validate(ctx, buildDoc(validRow("orders", "id")), "ACME")
	if err == nil {
		t.Error("want error from cancelled context")
	}
}
