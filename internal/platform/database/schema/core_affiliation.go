package schema

// CoreAffiliationTable represents the 'core.affiliation' table
type CoreAffiliationTable struct {
	Table           string
	ID              string
	AuthorID        string
	InstitutionName string
	Department      string
	RORID           string
	Position        string
	CreatedAt       string
	UpdatedAt       string
}

// CoreAffiliation is the schema definition for core.affiliation
var CoreAffiliation = CoreAffiliationTable{
	Table:           "core.affiliation",
	ID:              "id",
	AuthorID:        "authorid",
	InstitutionName: "institutionname",
	Department:      "department",
	RORID:           "rorid",
	Position:        "position",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CoreAffiliationTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.InstitutionName, t.Department, t.RORID, t.Position,
		t.CreatedAt, t.UpdatedAt,
	}
}
