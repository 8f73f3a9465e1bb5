package domain

// FieldType is a search index field data type
type FieldType string

// supported field types
const (
	FieldString           FieldType = "Edm.String"
	FieldStringCollection FieldType = "Collection(Edm.String)"
	FieldDateTimeOffset   FieldType = "Edm.DateTimeOffset"
)

// IndexField describes a single field of the index schema
type IndexField struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Key         bool      `json:"key"`
	Searchable  bool      `json:"searchable"`
	Filterable  bool      `json:"filterable"`
	Retrievable bool      `json:"retrievable"`
	Sortable    bool      `json:"sortable"`
	Facetable   bool      `json:"facetable"`
}

// IndexSchema is the definition used to create an index
type IndexSchema struct {
	Name   string       `json:"name"`
	Fields []IndexField `json:"fields"`
}

// DefaultSchema returns the schema of the document field set with given index name
func DefaultSchema(name string) IndexSchema {
	return IndexSchema{
		Name: name,
		Fields: []IndexField{
			{Name: "guid", Type: FieldString, Key: true, Retrievable: true},
			{Name: "title", Type: FieldString, Searchable: true, Filterable: true, Retrievable: true},
			{Name: "content", Type: FieldString, Searchable: true},
			{Name: "description", Type: FieldString, Retrievable: true},
			{Name: "link", Type: FieldString, Retrievable: true},
			{Name: "category", Type: FieldStringCollection, Searchable: true, Filterable: true, Facetable: true},
			{Name: "pubDate", Type: FieldDateTimeOffset, Filterable: true, Retrievable: true, Sortable: true, Facetable: true},
		},
	}
}
