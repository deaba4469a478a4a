package core

// Category groups issues in a dataset report. The numeric order is the
// order categories appear in a report.
type Category int

const (
	CategoryIngestion Category = iota
	CategoryDatasetName
	CategoryAttribute
	CategoryAttributeNullability
	CategoryAttributePrimaryKey
	CategoryAttributePrimaryKeyLogic
	CategoryAttributeUniqueness
	CategoryFormat
	CategorySplitLogic
	CategoryDataContractType
	CategoryFrequency
	CategoryLanguage
	CategoryAttributeClassification
	CategoryDataType
	CategoryDataTypeSize
	CategoryDateTimeFormat
	CategoryConnectivity
	CategoryConnectivityDescription
	CategoryEncoding
	CategoryDelimiter
	CategoryService
	CategoryCategory
	CategoryEntity
	CategoryDatasetClassification
	CategorySampleFiles

	categoryCount
)

var categoryLabels = [categoryCount]string{
	CategoryIngestion:                "Ingestion Issue",
	CategoryDatasetName:              "DatasetName",
	CategoryAttribute:                "Attribute",
	CategoryAttributeNullability:     "Attribute Nullability",
	CategoryAttributePrimaryKey:      "Attribute Primary Key",
	CategoryAttributePrimaryKeyLogic: "Attribute Primary Key Logic",
	CategoryAttributeUniqueness:      "Attribute Uniqueness",
	CategoryFormat:                   "Format",
	CategorySplitLogic:               "Split Logic Key",
	CategoryDataContractType:         "DataContract Type",
	CategoryFrequency:                "Frequency",
	CategoryLanguage:                 "Language",
	CategoryAttributeClassification:  "Attribute Classification",
	CategoryDataType:                 "Data Type",
	CategoryDataTypeSize:             "DataType Size",
	CategoryDateTimeFormat:           "DateTime Format",
	CategoryConnectivity:             "Connectivity Issue",
	CategoryConnectivityDescription:  "Connectivity Description Issue",
	CategoryEncoding:                 "Encoding Issue",
	CategoryDelimiter:                "Delimiter Issue",
	CategoryService:                  "Service Issue",
	CategoryCategory:                 "Category Issue",
	CategoryEntity:                   "Entity Issue",
	CategoryDatasetClassification:    "Dataset Classification Issue",
	CategorySampleFiles:              "Sample Files",
}

// Label is the category name shown in reports.
func (c Category) Label() string {
	if c < 0 || c >= categoryCount {
		return "Unknown"
	}
	return categoryLabels[c]
}

func (c Category) String() string { return c.Label() }

// Categories returns every category in report order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}
