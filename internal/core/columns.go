package core

// Contract column names.
const (
	ColDatasetName             = "Dataset Name"
	ColAttribute               = "Attribute"
	ColAttributeNullability    = "Attribute Nullability"
	ColAttributePrimaryKey     = "Attribute Primary Key"
	ColAttributeUniqueness     = "Attribute Uniqueness"
	ColFormat                  = "Format (MIME)"
	ColSplitLogic              = "Split Logic"
	ColDataContractType        = "DataContract Type"
	ColFrequencySource         = "Frequency of Update on Source"
	ColFrequencySDP            = "Frequency of Update to SDP"
	ColLanguage                = "Language"
	ColAttributeClassification = "Attribute Classification"
	ColAttributeDataType       = "Attribute DataType"
	ColAttributeSize           = "Attribute Size"
	ColAttributeRange          = "Attribute Range of Values"
	ColConnectivityOption      = "Connectivity Option"
	ColConnectivityDescription = "Description for Connectivity"
	ColCodePage                = "Code Page"
	ColAttributeDelimiter      = "Attribute Delimiter"
	ColAttributeDelimiterOther = "Attribute Delimiter- Other"
	ColService                 = "Service"
	ColCategory                = "Category"
	ColEntity                  = "Entity"
	ColDataClassificationType  = "Data Classification Type"
	ColIngestionLogic          = "Ingestion Logic"
)
