package schema

// CoreArticleTable represents the 'core.article' table
type CoreArticleTable struct {
	Table           string
	ID              string
	IssueID         string
	Title           string
	Subtitle        string
	Abstract        string
	DOISuffix       string
	Language        string
	FirstPage       string
	LastPage        string
	ArticleNumber   string
	PublicationDate string
	LicenseURL      string
	FreeToRead      string
	FreeToReadStart string
	Position        string
	CreatedAt       string
	UpdatedAt       string
	DeletedAt       string
}

// CoreArticle is the schema definition for core.article
var CoreArticle = CoreArticleTable{
	Table:           "core.article",
	ID:              "id",
	IssueID:         "issueid",
	Title:           "title",
	Subtitle:        "subtitle",
	Abstract:        "abstract",
	DOISuffix:       "doisuffix",
	Language:        "language",
	FirstPage:       "firstpage",
	LastPage:        "lastpage",
	ArticleNumber:   "articlenumber",
	PublicationDate: "publicationdate",
	LicenseURL:      "licenseurl",
	FreeToRead:      "freetoread",
	FreeToReadStart: "freetoreadstart",
	Position:        "position",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	DeletedAt:       "deletedat",
}

func (t CoreArticleTable) Columns() []string {
	return []string{
		t.ID, t.IssueID, t.Title, t.Subtitle, t.Abstract, t.DOISuffix, t.Language,
		t.FirstPage, t.LastPage, t.ArticleNumber, t.PublicationDate,
		t.LicenseURL, t.FreeToRead, t.FreeToReadStart, t.Position,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
