package schema

// CorePublicationTable represents the 'core.publication' table
type CorePublicationTable struct {
	Table              string
	ID                 string
	PublisherID        string
	Title              string
	Slug               string
	Type               string
	Language           string
	Abbreviation       string
	ISSNPrint          string
	ISSNOnline         string
	ConferenceName     string
	ConferenceAcronym  string
	ConferenceLocation string
	ConferenceNumber   string
	ConferenceDate     string
	ConferenceDateEnd  string
	ISBNPrint          string
	ISBNOnline         string
	Edition            string
	SeriesTitle        string
	CreatedAt          string
	UpdatedAt          string
	DeletedAt          string
}

// CorePublication is the schema definition for core.publication
var CorePublication = CorePublicationTable{
	Table:              "core.publication",
	ID:                 "id",
	PublisherID:        "publisherid",
	Title:              "title",
	Slug:               "slug",
	Type:               "publicationtype",
	Language:           "language",
	Abbreviation:       "abbreviation",
	ISSNPrint:          "issnprint",
	ISSNOnline:         "issnonline",
	ConferenceName:     "conferencename",
	ConferenceAcronym:  "conferenceacronym",
	ConferenceLocation: "conferencelocation",
	ConferenceNumber:   "conferencenumber",
	ConferenceDate:     "conferencedate",
	ConferenceDateEnd:  "conferencedateend",
	ISBNPrint:          "isbnprint",
	ISBNOnline:         "isbnonline",
	Edition:            "edition",
	SeriesTitle:        "seriestitle",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
	DeletedAt:          "deletedat",
}

func (t CorePublicationTable) Columns() []string {
	return []string{
		t.ID, t.PublisherID, t.Title, t.Slug, t.Type, t.Language, t.Abbreviation,
		t.ISSNPrint, t.ISSNOnline, t.ConferenceName, t.ConferenceAcronym,
		t.ConferenceLocation, t.ConferenceNumber, t.ConferenceDate, t.ConferenceDateEnd,
		t.ISBNPrint, t.ISBNOnline, t.Edition, t.SeriesTitle,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
