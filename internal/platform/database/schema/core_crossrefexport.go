package schema

// CoreCrossrefExportTable represents the 'core.crossrefexport' table
type CoreCrossrefExportTable struct {
	Table            string
	ID               string
	IssueID          string
	XMLContent       string
	Filename         string
	ExportedAt       string
	ExportedBy       string
	XSDValidAtExport string
}

// CoreCrossrefExport is the schema definition for core.crossrefexport
var CoreCrossrefExport = CoreCrossrefExportTable{
	Table:            "core.crossrefexport",
	ID:               "id",
	IssueID:          "issueid",
	XMLContent:       "xmlcontent",
	Filename:         "filename",
	ExportedAt:       "exportedat",
	ExportedBy:       "exportedby",
	XSDValidAtExport: "xsdvalidatexport",
}

func (t CoreCrossrefExportTable) Columns() []string {
	return []string{
		t.ID, t.IssueID, t.XMLContent, t.Filename,
		t.ExportedAt, t.ExportedBy, t.XSDValidAtExport,
	}
}
