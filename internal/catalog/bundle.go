package catalog

import (
	"context"
	"log/slog"
)

// FetchBundle assembles the complete dependent-record graph for one
// catalogue entry. The join order is fixed: main, group, contacts, main
// citation, attributes, keywords, then sources with their citations.
//
// Returns *NotFoundError if no main record matches id, and *DataSourceError
// on any query failure. A dangling source link is logged as a warning and
// skipped so the remaining provenance chain survives.
func FetchBundle(ctx context.Context, ds DataSource, id string, includeSources, includeKeywords bool, logger *slog.Logger) (*Bundle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	main, ok, err := ds.FetchMain(ctx, id)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch main", Err: err}
	}
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	bundle := &Bundle{ID: id, Main: main}

	if main.GroupID.Valid {
		group, ok, err := ds.FetchGroup(ctx, main.GroupID.String)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch group", Err: err}
		}
		if ok {
			bundle.Group = &group
		}
	}

	contacts, err := mergeContacts(ctx, ds, bundle.Group, id)
	if err != nil {
		return nil, err
	}
	bundle.Contacts = contacts

	if main.CitationID.Valid {
		citation, ok, err := ds.FetchCitation(ctx, main.CitationID.String)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch citation", Err: err}
		}
		if ok {
			bundle.Citation = &citation
		}
	}

	attributes, err := ds.FetchAttributes(ctx, id)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch attributes", Err: err}
	}
	bundle.Attributes = attributes

	if includeKeywords {
		keywords, err := ds.FetchKeywords(ctx, id)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch keywords", Err: err}
		}
		bundle.Keywords = keywords
	}

	if includeSources {
		sources, err := fetchSources(ctx, ds, id, logger)
		if err != nil {
			return nil, err
		}
		bundle.Sources = sources
	}

	return bundle, nil
}

// mergeContacts fetches contacts reachable via the group (when present) and
// then via the main record, preserving first-seen order and collapsing
// duplicates by contact ID. A contact linked both ways appears once, in its
// group position.
func mergeContacts(ctx context.Context, ds DataSource, group *Group, mainID string) ([]Contact, error) {
	var merged []Contact
	seen := make(map[int64]bool)

	if group != nil {
		groupContacts, err := ds.FetchContactsByGroup(ctx, group.ID)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch group contacts", Err: err}
		}
		for _, c := range groupContacts {
			if !seen[c.ID] {
				seen[c.ID] = true
				merged = append(merged, c)
			}
		}
	}

	mainContacts, err := ds.FetchContactsByMain(ctx, mainID)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch main contacts", Err: err}
	}
	for _, c := range mainContacts {
		if !seen[c.ID] {
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}

	return merged, nil
}

// fetchSources resolves the ordered source links for a main record. A link
// whose source row is missing is a data-integrity condition: it is logged
// with the dangling identifier and skipped. A source whose citation link
// dangles simply carries no citation.
func fetchSources(ctx context.Context, ds DataSource, mainID string, logger *slog.Logger) ([]SourceEntry, error) {
	links, err := ds.FetchSourceLinks(ctx, mainID)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch source links", Err: err}
	}

	var entries []SourceEntry
	for _, link := range links {
		source, ok, err := ds.FetchSource(ctx, link.SourceID)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch source", Err: err}
		}
		if !ok {
			logger.Warn("skipping dangling source link",
				"id", mainID,
				"source_id", link.SourceID)
			continue
		}

		entry := SourceEntry{Source: source}
		citation, err := resolveSourceCitation(ctx, ds, source)
		if err != nil {
			return nil, err
		}
		entry.Citation = citation
		entries = append(entries, entry)
	}

	return entries, nil
}

// resolveSourceCitation finds a source's citation, preferring the direct
// reference on the source row and falling back to the source-citation
// junction. A dangling citation reference yields nil, not an error.
func resolveSourceCitation(ctx context.Context, ds DataSource, source Source) (*Citation, error) {
	citationID := ""
	if source.CitationID.Valid {
		citationID = source.CitationID.String
	} else {
		linked, ok, err := ds.FetchSourceCitationLink(ctx, source.ID)
		if err != nil {
			return nil, &DataSourceError{Op: "fetch source citation link", Err: err}
		}
		if ok {
			citationID = linked
		}
	}
	if citationID == "" {
		return nil, nil
	}

	citation, ok, err := ds.FetchCitation(ctx, citationID)
	if err != nil {
		return nil, &DataSourceError{Op: "fetch source citation", Err: err}
	}
	if !ok {
		return nil, nil
	}
	return &citation, nil
}
