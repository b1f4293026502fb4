package schema

// CoreIssueTable represents the 'core.issue' table
type CoreIssueTable struct {
	Table            string
	ID               string
	PublicationID    string
	Volume           string
	IssueNumber      string
	Year             string
	Title            string
	PublicationDate  string
	ProceedingsTitle string
	PublisherName    string
	PublisherPlace   string
	GenerationStatus string
	CrossrefXML      string
	XMLGeneratedAt   string
	XSDValid         string
	XSDErrors        string
	XSDValidatedAt   string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// CoreIssue is the schema definition for core.issue
var CoreIssue = CoreIssueTable{
	Table:            "core.issue",
	ID:               "id",
	PublicationID:    "publicationid",
	Volume:           "volume",
	IssueNumber:      "issuenumber",
	Year:             "year",
	Title:            "title",
	PublicationDate:  "publicationdate",
	ProceedingsTitle: "proceedingstitle",
	PublisherName:    "publishername",
	PublisherPlace:   "publisherplace",
	GenerationStatus: "generationstatus",
	CrossrefXML:      "crossrefxml",
	XMLGeneratedAt:   "xmlgeneratedat",
	XSDValid:         "xsdvalid",
	XSDErrors:        "xsderrors",
	XSDValidatedAt:   "xsdvalidatedat",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

func (t CoreIssueTable) Columns() []string {
	return []string{
		t.ID, t.PublicationID, t.Volume, t.IssueNumber, t.Year, t.Title,
		t.PublicationDate, t.ProceedingsTitle, t.PublisherName, t.PublisherPlace,
		t.GenerationStatus, t.CrossrefXML, t.XMLGeneratedAt,
		t.XSDValid, t.XSDErrors, t.XSDValidatedAt,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
