package schema

// CoreAuthorTable represents the 'core.author' table
type CoreAuthorTable struct {
	Table              string
	ID                 string
	ArticleID          string
	GivenName          string
	Surname            string
	Suffix             string
	ORCID              string
	ORCIDAuthenticated string
	Sequence           string
	ContributorRole    string
	Position           string
	CreatedAt          string
	UpdatedAt          string
}

// CoreAuthor is the schema definition for core.author
var CoreAuthor = CoreAuthorTable{
	Table:              "core.author",
	ID:                 "id",
	ArticleID:          "articleid",
	GivenName:          "givenname",
	Surname:            "surname",
	Suffix:             "suffix",
	ORCID:              "orcid",
	ORCIDAuthenticated: "orcidauthenticated",
	Sequence:           "sequence",
	ContributorRole:    "contributorrole",
	Position:           "position",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

func (t CoreAuthorTable) Columns() []string {
	return []string{
		t.ID, t.ArticleID, t.GivenName, t.Surname, t.Suffix,
		t.ORCID, t.ORCIDAuthenticated, t.Sequence, t.ContributorRole, t.Position,
		t.CreatedAt, t.UpdatedAt,
	}
}
