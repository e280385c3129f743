package catalog

import (
	"context"
	"database/sql"
)

// MainRecord is the root row of one catalogue entry.
// Nullable columns keep their sql.Null wrappers so the builder can
// distinguish "absent" from "empty" without sentinel values.
type MainRecord struct {
	ID                      string
	GroupID                 sql.NullString
	Title                   sql.NullString
	Abstract                sql.NullString
	SupplementalInformation sql.NullString
	CitationID              sql.NullString
	PublicationDate         sql.NullString
	StatusProgress          sql.NullString
	UpdateFrequency         sql.NullString
	SecurityClassification  sql.NullString
	WestBound               sql.NullFloat64
	EastBound               sql.NullFloat64
	NorthBound              sql.NullFloat64
	SouthBound              sql.NullFloat64
	TemporalFrom            sql.NullString
	TemporalTo              sql.NullString
	Facing                  sql.NullString
}

// Group holds shared context (constraints, purpose, accuracy reporting)
// optionally referenced by a main record.
type Group struct {
	ID               string
	UseConstraint    sql.NullString
	AccessConstraint sql.NullString
	Purpose          sql.NullString
	AccuracyReport   sql.NullString
}

// Contact identifies a person or organisation reachable from a group
// and/or directly from a main record.
type Contact struct {
	ID                 int64
	Role               sql.NullString
	IndividualName     sql.NullString
	OrganisationName   sql.NullString
	PositionName       sql.NullString
	VoicePhone         sql.NullString
	FacsimilePhone     sql.NullString
	DeliveryPoint      sql.NullString
	City               sql.NullString
	AdministrativeArea sql.NullString
	PostalCode         sql.NullString
	Country            sql.NullString
	Email              sql.NullString
	HoursOfService     sql.NullString
	Instructions       sql.NullString
}

// Citation describes a publication reference, attached to a main record
// or to a lineage source.
type Citation struct {
	ID            string
	Title         sql.NullString
	Originator    sql.NullString
	PubDate       sql.NullString
	Edition       sql.NullString
	DataForm      sql.NullString
	Series        sql.NullString
	Issue         sql.NullString
	Place         sql.NullString
	Publisher     sql.NullString
	OnlineLinkage sql.NullString
}

// Attribute describes one field of the catalogued dataset's schema.
// Seq carries the stored ordering, which is semantically meaningful.
type Attribute struct {
	Name       sql.NullString
	Alias      sql.NullString
	Seq        sql.NullInt64
	Definition sql.NullString
	Type       sql.NullString
	Width      sql.NullInt64
	Precision  sql.NullInt64
	Scale      sql.NullInt64
	Codeset    sql.NullString
}

// Keyword is one descriptive keyword, grouped by type in the output.
type Keyword struct {
	Type    sql.NullString
	Keyword string
	Seq     int64
}

// SourceLink is one row of the main-to-source junction. Link order is the
// order sources appear in the exported lineage section.
type SourceLink struct {
	ID       int64
	MainID   string
	SourceID string
}

// Source is one lineage source row.
type Source struct {
	ID           string
	Name         sql.NullString
	Scale        sql.NullString
	Media        sql.NullString
	Contribution sql.NullString
	CitationID   sql.NullString
}

// SourceEntry pairs a source with its resolved citation, if any.
// A dangling citation link leaves Citation nil rather than failing.
type SourceEntry struct {
	Source   Source
	Citation *Citation
}

// Bundle aggregates one catalogue entry and all its dependent sub-records.
// Optional sub-records are nil pointers; lists keep their stored order.
type Bundle struct {
	ID         string
	Main       MainRecord
	Group      *Group
	Contacts   []Contact
	Citation   *Citation
	Attributes []Attribute
	Keywords   []Keyword
	Sources    []SourceEntry
}

// DataSource is the read-only surface the assembler needs. Single-row
// lookups report presence explicitly; absence is not an error.
//
// Implementations must use parameterised queries only and return lists in
// deterministic stored order.
type DataSource interface {
	FetchMain(ctx context.Context, id string) (MainRecord, bool, error)
	FetchGroup(ctx context.Context, groupID string) (Group, bool, error)
	FetchContactsByGroup(ctx context.Context, groupID string) ([]Contact, error)
	FetchContactsByMain(ctx context.Context, mainID string) ([]Contact, error)
	FetchCitation(ctx context.Context, citationID string) (Citation, bool, error)
	FetchAttributes(ctx context.Context, mainID string) ([]Attribute, error)
	FetchKeywords(ctx context.Context, mainID string) ([]Keyword, error)
	FetchSourceLinks(ctx context.Context, mainID string) ([]SourceLink, error)
	FetchSource(ctx context.Context, sourceID string) (Source, bool, error)
	FetchSourceCitationLink(ctx context.Context, sourceID string) (string, bool, error)
}
