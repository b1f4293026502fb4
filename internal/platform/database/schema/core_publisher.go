package schema

// CorePublisherTable represents the 'core.publisher' table
type CorePublisherTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	DOIPrefix string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// CorePublisher is the schema definition for core.publisher
var CorePublisher = CorePublisherTable{
	Table:     "core.publisher",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	DOIPrefix: "doiprefix",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

func (t CorePublisherTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.DOIPrefix, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
