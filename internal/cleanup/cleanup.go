package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// change is one pending rewrite, kept so logging and applying see the same
// snapshot.
type change struct {
	rowid    int64
	value    string
	label    string
	original string
}

// Run scans every target column, logs each proposed normalisation with a
// truncated before/after, and applies the rewrites in a single transaction
// when commit is true. With commit false (the default posture) nothing is
// written; the log output is the review artifact.
//
// Returns the number of rows updated, which is always zero in dry-run mode.
func Run(ctx context.Context, db *sql.DB, targets []Target, commit bool, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var pending []struct {
		target  Target
		changes []change
	}
	for _, target := range targets {
		if err := target.Validate(); err != nil {
			return 0, err
		}
		changes, err := scanTarget(ctx, db, target)
		if err != nil {
			return 0, err
		}
		if len(changes) == 0 {
			logger.Info("no changes required", "table", target.Table, "column", target.Column)
			continue
		}

		for _, c := range changes {
			logger.Info("proposed normalisation",
				"table", target.Table,
				"column", target.Column,
				"row", c.label,
				"before", truncate(c.original, 120),
				"after", truncate(c.value, 120))
		}
		if !commit {
			logger.Info("dry-run active; updates recorded but not applied",
				"table", target.Table,
				"column", target.Column,
				"pending", len(changes))
		}
		pending = append(pending, struct {
			target  Target
			changes []change
		}{target, changes})
	}

	if !commit || len(pending) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin cleanup transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	total := 0
	for _, p := range pending {
		// Table and column names passed Validate; values are bound.
		stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE rowid = ?", p.target.Table, p.target.Column)
		for _, c := range p.changes {
			if _, err := tx.ExecContext(ctx, stmt, c.value, c.rowid); err != nil {
				return 0, fmt.Errorf("update %s.%s: %w", p.target.Table, p.target.Column, err)
			}
			total++
		}
		logger.Info("applied updates",
			"table", p.target.Table,
			"column", p.target.Column,
			"rows", len(p.changes))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cleanup transaction: %w", err)
	}
	return total, nil
}

// scanTarget reads the target column and returns the rows whose value
// changes under NormaliseQuotes.
func scanTarget(ctx context.Context, db *sql.DB, target Target) ([]change, error) {
	query := fmt.Sprintf("SELECT rowid, %s", target.Column)
	if target.Identifier != "" {
		query += ", " + target.Identifier
	}
	query += " FROM " + target.Table
	if target.Where != "" {
		query += " WHERE " + target.Where
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scan %s.%s: %w", target.Table, target.Column, err)
	}
	defer rows.Close()

	var changes []change
	for rows.Next() {
		var (
			rowid      int64
			value      sql.NullString
			identifier sql.NullString
		)
		dest := []any{&rowid, &value}
		if target.Identifier != "" {
			dest = append(dest, &identifier)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row from %s: %w", target.Table, err)
		}
		if !value.Valid {
			continue
		}

		converted := NormaliseQuotes(value.String)
		if converted == value.String {
			continue
		}

		label := fmt.Sprintf("rowid=%d", rowid)
		if identifier.Valid {
			label = identifier.String
		}
		changes = append(changes, change{
			rowid:    rowid,
			value:    converted,
			label:    label,
			original: value.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", target.Table, err)
	}
	return changes, nil
}

// truncate shortens text for log output, marking elision with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
