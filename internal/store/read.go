package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/landis-portal/metaexport/internal/catalog"
)

// Compile-time check that Store satisfies the assembler's surface.
var _ catalog.DataSource = (*Store)(nil)

// FetchMain returns the main row for a metadata identifier.
// Absence is reported through the bool, not as an error.
func (s *Store) FetchMain(ctx context.Context, id string) (catalog.MainRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT metadata_id, group_id, title, abstract, supplemental_information,
		       citation_id, publication_date, status_progress, update_frequency,
		       security_classification, west_bounding, east_bounding,
		       north_bounding, south_bounding, temporal_date_from,
		       temporal_date_to, metadata_facing
		FROM metadata_main
		WHERE metadata_id = ?
	`, id)

	var m catalog.MainRecord
	err := row.Scan(&m.ID, &m.GroupID, &m.Title, &m.Abstract,
		&m.SupplementalInformation, &m.CitationID, &m.PublicationDate,
		&m.StatusProgress, &m.UpdateFrequency, &m.SecurityClassification,
		&m.WestBound, &m.EastBound, &m.NorthBound, &m.SouthBound,
		&m.TemporalFrom, &m.TemporalTo, &m.Facing)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.MainRecord{}, false, nil
	}
	if err != nil {
		return catalog.MainRecord{}, false, fmt.Errorf("query main record: %w", err)
	}
	return m, true, nil
}

// FetchGroup returns the group row for a group identifier.
func (s *Store) FetchGroup(ctx context.Context, groupID string) (catalog.Group, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT group_id, use_constraint, access_constraint, purpose,
		       attribute_accuracy_report
		FROM metadata_groups
		WHERE group_id = ?
	`, groupID)

	var g catalog.Group
	err := row.Scan(&g.ID, &g.UseConstraint, &g.AccessConstraint, &g.Purpose,
		&g.AccuracyReport)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Group{}, false, nil
	}
	if err != nil {
		return catalog.Group{}, false, fmt.Errorf("query group: %w", err)
	}
	return g, true, nil
}

const contactColumns = `c.contact_id, c.contact_role, c.individual_name,
	c.organisation_name, c.position_name, c.voice_phone, c.facsimile_phone,
	c.delivery_point, c.city, c.administrative_area, c.postal_code,
	c.country, c.electronic_mail_address, c.hours_of_service,
	c.contact_instructions`

// FetchContactsByGroup returns contacts linked to a group, in junction
// position order with the contact id as a deterministic tie-break.
func (s *Store) FetchContactsByGroup(ctx context.Context, groupID string) ([]catalog.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM metadata_group_contact gc
		JOIN metadata_contacts c ON c.contact_id = gc.contact_id
		WHERE gc.group_id = ?
		ORDER BY gc.pos ASC, c.contact_id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group contacts: %w", err)
	}
	return collectContacts(rows)
}

// FetchContactsByMain returns contacts linked directly to a main record,
// in junction position order.
func (s *Store) FetchContactsByMain(ctx context.Context, mainID string) ([]catalog.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM metadata_main_contact mc
		JOIN metadata_contacts c ON c.contact_id = mc.contact_id
		WHERE mc.metadata_id = ?
		ORDER BY mc.pos ASC, c.contact_id ASC
	`, mainID)
	if err != nil {
		return nil, fmt.Errorf("query main contacts: %w", err)
	}
	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]catalog.Contact, error) {
	defer rows.Close()

	var contacts []catalog.Contact
	for rows.Next() {
		var c catalog.Contact
		if err := rows.Scan(&c.ID, &c.Role, &c.IndividualName,
			&c.OrganisationName, &c.PositionName, &c.VoicePhone,
			&c.FacsimilePhone, &c.DeliveryPoint, &c.City,
			&c.AdministrativeArea, &c.PostalCode, &c.Country, &c.Email,
			&c.HoursOfService, &c.Instructions); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// FetchCitation returns the citation row for a citation identifier.
func (s *Store) FetchCitation(ctx context.Context, citationID string) (catalog.Citation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT citation_id, citation_title, citation_originator,
		       citation_pubdate, citation_edition, citation_data_form,
		       citation_series, issue_identification, publication_place,
		       publisher, online_linkage
		FROM metadata_citations
		WHERE citation_id = ?
	`, citationID)

	var c catalog.Citation
	err := row.Scan(&c.ID, &c.Title, &c.Originator, &c.PubDate, &c.Edition,
		&c.DataForm, &c.Series, &c.Issue, &c.Place, &c.Publisher,
		&c.OnlineLinkage)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Citation{}, false, nil
	}
	if err != nil {
		return catalog.Citation{}, false, fmt.Errorf("query citation: %w", err)
	}
	return c, true, nil
}

// FetchAttributes returns the attribute rows for a main record, sorted by
// stored sequence ascending with nulls last, then by name for stability.
func (s *Store) FetchAttributes(ctx context.Context, mainID string) ([]catalog.Attribute, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attribute_name, attribute_alias, attribute_no,
		       attribute_definition, attribute_type, attribute_width,
		       attribute_precision, attribute_scale, codeset_name
		FROM metadata_attributes
		WHERE metadata_id = ?
		ORDER BY attribute_no IS NULL, attribute_no ASC, attribute_name ASC
	`, mainID)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	var attributes []catalog.Attribute
	for rows.Next() {
		var a catalog.Attribute
		if err := rows.Scan(&a.Name, &a.Alias, &a.Seq, &a.Definition, &a.Type,
			&a.Width, &a.Precision, &a.Scale, &a.Codeset); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attributes = append(attributes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attributes: %w", err)
	}
	return attributes, nil
}

// FetchKeywords returns the keyword rows for a main record in stored
// sequence order.
func (s *Store) FetchKeywords(ctx context.Context, mainID string) ([]catalog.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword_type, keyword, keyword_no
		FROM metadata_keywords
		WHERE metadata_id = ?
		ORDER BY keyword_no ASC, keyword ASC
	`, mainID)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []catalog.Keyword
	for rows.Next() {
		var k catalog.Keyword
		if err := rows.Scan(&k.Type, &k.Keyword, &k.Seq); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return keywords, nil
}

// FetchSourceLinks returns the ordered main-to-source junction rows for a
// main record.
func (s *Store) FetchSourceLinks(ctx context.Context, mainID string) ([]catalog.SourceLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, metadata_id, source_id
		FROM metadata_main_source
		WHERE metadata_id = ?
		ORDER BY id ASC
	`, mainID)
	if err != nil {
		return nil, fmt.Errorf("query source links: %w", err)
	}
	defer rows.Close()

	var links []catalog.SourceLink
	for rows.Next() {
		var l catalog.SourceLink
		if err := rows.Scan(&l.ID, &l.MainID, &l.SourceID); err != nil {
			return nil, fmt.Errorf("scan source link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source links: %w", err)
	}
	return links, nil
}

// FetchSource returns the source row for a source identifier.
func (s *Store) FetchSource(ctx context.Context, sourceID string) (catalog.Source, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source_id, source_name, source_scale, source_media,
		       source_contribution, citation_id
		FROM metadata_sources
		WHERE source_id = ?
	`, sourceID)

	var src catalog.Source
	err := row.Scan(&src.ID, &src.Name, &src.Scale, &src.Media,
		&src.Contribution, &src.CitationID)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Source{}, false, nil
	}
	if err != nil {
		return catalog.Source{}, false, fmt.Errorf("query source: %w", err)
	}
	return src, true, nil
}

// FetchSourceCitationLink returns the citation linked to a source through
// the source-citation junction. When several rows exist the lowest citation
// id wins, keeping the export deterministic.
func (s *Store) FetchSourceCitationLink(ctx context.Context, sourceID string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT citation_id
		FROM metadata_source_citation
		WHERE source_id = ?
		ORDER BY citation_id ASC
		LIMIT 1
	`, sourceID)

	var citationID string
	err := row.Scan(&citationID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query source citation link: %w", err)
	}
	return citationID, true, nil
}
