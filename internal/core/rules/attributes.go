package rules

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/table"
)

var (
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9_ ]*$`)
	sizePattern     = regexp.MustCompile(`^[0-9,]*$`)
	dateTimePattern = regexp.MustCompile(`^(date|time)`)
)

func init() {
	core.Register(core.Rule{
		Name:   "attribute",
		Order:  orderAttribute,
		Column: core.ColAttribute,
		Check:  checkAttribute,
	})
	core.Register(core.Rule{
		Name:   "attribute_size",
		Order:  orderDataTypeSize,
		Column: core.ColAttributeSize,
		Check:  checkAttributeSize,
	})
	core.Register(core.Rule{
		Name:   "date_format",
		Order:  orderDateFormat,
		Column: core.ColAttributeRange,
		Check:  checkDateFormat,
	})
}

func checkAttribute(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColAttribute)
	if cell.IsAbsent() || namePattern.MatchString(cell.String()) {
		return
	}
	vc.Add(core.CategoryAttribute, issue(
		"The issue exists in the Attribute Name",
		"Special characters like ( ) % $ ^ are not allowed. Allowed characters are 0-9, a-z, A-Z, space and underscore",
		cell.String(),
		row.Locate(core.ColAttribute),
		"Attribute names may only contain letters, digits, spaces and underscores.",
	))
}

// isDateTime reports whether a data type names a date or time type.
func isDateTime(dataType table.Cell) bool {
	return dataType.IsPresent() && dateTimePattern.MatchString(strings.ToLower(dataType.String()))
}

func checkAttributeSize(vc *core.ValidationContext, row core.RowView) {
	cell := row.Value(core.ColAttributeSize)
	dataType := row.Value(core.ColAttributeDataType)
	location := row.Locate(core.ColAttributeSize)

	if cell.IsAbsent() {
		if isDateTime(dataType) || vc.Catalog.NumberDataTypeSize().Contains(dataType.String()) {
			return
		}
		vc.Add(core.CategoryDataTypeSize, issue(
			"The issue in the Data Type Size",
			"Size is required for every data type except date/time and sized numeric types. DataType is: "+dataType.String()+" but the size is empty.",
			core.MandatoryValue,
			location,
			"Size is required for every data type except date/time and sized numeric types.",
		))
		return
	}

	size, _, _ := strings.Cut(cell.String(), ".")
	if !sizePattern.MatchString(size) {
		vc.Add(core.CategoryDataTypeSize, issue(
			"The issue in the Data Type Size",
			"Only digits and commas are allowed. DataType is: "+dataType.String()+" but the size has other characters",
			cell.String(),
			location,
			"Size should be numeric, with a comma separating precision and scale.",
		))
		return
	}

	if zeroPrecision(size) {
		vc.Add(core.CategoryDataTypeSize, issue(
			"The issue in the Data Type Size",
			"Precision cannot be zero(0)",
			size,
			location,
			"Size should be numeric, with a comma separating precision and scale.",
		))
	}
}

// zeroPrecision reports whether a size is "0" or has a zero component
// ("0,5", "12,0"). At most one issue is raised per value.
func zeroPrecision(size string) bool {
	if strings.TrimSpace(size) == "0" {
		return true
	}
	if !strings.Contains(size, ",") {
		return false
	}
	for _, part := range strings.Split(size, ",") {
		if part == "0" {
			return true
		}
	}
	return false
}

func checkDateFormat(vc *core.ValidationContext, row core.RowView) {
	if !isDateTime(row.Value(core.ColAttributeDataType)) {
		return
	}
	cell := row.Value(core.ColAttributeRange)
	if cell.IsPresent() && vc.Catalog.DateFormat().Contains(cell.String()) {
		return
	}
	vc.Add(core.CategoryDateTimeFormat, issue(
		"The issue in the Date/Time Format",
		"Date/Time Format should be one of: "+vc.Catalog.DateFormat().String(),
		core.Actual(cell),
		row.Locate(core.ColAttributeRange),
		"Date/Time Format does not match an accepted format.",
	))
}
