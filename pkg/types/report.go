// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sentinel values substituted when a metadata field cannot be determined.
// The model is also instructed to use them, so they may arrive verbatim
// in a reply.
const (
	Unknown           = "Unknown"
	UnknownDepartment = "Unknown Department"
	Unviable          = "Unviable"
)

// ReportMetadata holds the five fields mined from one inspection report.
// Fields are trimmed but otherwise unvalidated: the year formats and the
// "Department" suffix are instructions to the model, not local constraints.
type ReportMetadata struct {
	// State is the Indian state named in the report.
	State string `json:"state" yaml:"state"`

	// Location is the town/city/taluka name, after address cleanup.
	Location string `json:"location" yaml:"location"`

	// Department is the overall department, expected to end with "Department".
	Department string `json:"department" yaml:"department"`

	// AuditConductedYear is the Date of Audit from the Scope of Audit section.
	AuditConductedYear string `json:"audit_conducted_year" yaml:"audit_conducted_year"`

	// FinancialYear is the Period of Audit / Reporting Period.
	FinancialYear string `json:"financial_year" yaml:"financial_year"`
}

// DefaultMetadata returns the all-sentinel tuple used when a document has
// no readable content or the model reply cannot be parsed.
func DefaultMetadata() ReportMetadata {
	return ReportMetadata{
		State:              Unknown,
		Location:           Unknown,
		Department:         UnknownDepartment,
		AuditConductedYear: Unknown,
		FinancialYear:      Unknown,
	}
}

// ReportRecord is one row of the results workbook: a document identified
// by filename plus its mined metadata.
type ReportRecord struct {
	Filename       string `json:"filename" yaml:"filename"`
	ReportMetadata `yaml:",inline"`
}
