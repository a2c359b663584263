package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/blackwell-systems/apriori/internal/apriori"
)

// Run operations

// SaveRun stores a run with its itemsets and rules in one transaction. If
// run.ID is empty a new UUID is assigned. The stored ID is returned.
func (s *Store) SaveRun(run *Run, items []apriori.ItemRecord, rules []apriori.RuleRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(id, created_at, source, min_support, min_confidence, transaction_count, level_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		run.MinSupport,
		run.MinConfidence,
		run.TransactionCount,
		run.LevelCount,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", wrapQueryErr(err, "failed to insert run")
	}

	itemStmt, err := tx.Prepare(`INSERT INTO itemsets (run_id, items, support, size) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "failed to prepare itemset insert")
	}
	defer itemStmt.Close()

	for _, it := range items {
		itemsJSON, err := json.Marshal(it.Items)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal itemset")
		}
		if _, err := itemStmt.Exec(run.ID, string(itemsJSON), it.Support, it.Size); err != nil {
			return "", errors.Wrap(err, "failed to insert itemset")
		}
	}

	ruleStmt, err := tx.Prepare(`
		INSERT INTO rules (run_id, antecedent, consequent, confidence, support, lift)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", errors.Wrap(err, "failed to prepare rule insert")
	}
	defer ruleStmt.Close()

	for _, r := range rules {
		anteJSON, err := json.Marshal(r.Antecedent)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal antecedent")
		}
		consJSON, err := json.Marshal(r.Consequent)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal consequent")
		}
		if _, err := ruleStmt.Exec(run.ID, string(anteJSON), string(consJSON), r.Confidence, r.Support, r.Lift); err != nil {
			return "", errors.Wrap(err, "failed to insert rule")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "failed to commit run")
	}
	return run.ID, nil
}

const runColumns = `
	r.id, r.created_at, r.source, r.min_support, r.min_confidence,
	r.transaction_count, r.level_count, r.duration_ms,
	(SELECT COUNT(*) FROM itemsets i WHERE i.run_id = r.id),
	(SELECT COUNT(*) FROM rules x WHERE x.run_id = r.id)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		createdAt  string
		durationMS int64
	)
	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Source,
		&run.MinSupport,
		&run.MinConfidence,
		&run.TransactionCount,
		&run.LevelCount,
		&durationMS,
		&run.ItemsetCount,
		&run.RuleCount,
	)
	if err != nil {
		return nil, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse created_at for run %s", run.ID)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// ListRuns returns saved runs, newest first. limit <= 0 returns all runs.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs r ORDER BY r.created_at DESC, r.id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating runs")
	}
	return runs, nil
}

// ResolveID expands a unique prefix of a run ID to the full ID.
func (s *Store) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", errors.Wrap(ErrRunNotFound, "empty run ID")
	}
	rows, err := s.db.Query(`SELECT id FROM runs WHERE id LIKE ? || '%' ESCAPE '\' LIMIT 2`, escapeLike(prefix))
	if err != nil {
		return "", wrapQueryErr(err, "failed to resolve run ID")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", errors.Wrap(err, "failed to scan run ID")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", errors.Wrap(err, "error iterating run IDs")
	}

	switch len(ids) {
	case 0:
		return "", errors.Wrapf(ErrRunNotFound, "run %s", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", errors.Wrapf(ErrAmbiguousID, "run %s", prefix)
	}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// GetRun retrieves a run by ID or unique ID prefix.
func (s *Store) GetRun(id string) (*Run, error) {
	full, err := s.ResolveID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, full)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get run "+id)
	}
	return run, nil
}

// GetRunItemsets returns the itemsets of a run ordered by ascending support.
func (s *Store) GetRunItemsets(runID string) ([]apriori.ItemRecord, error) {
	rows, err := s.db.Query(`
		SELECT items, support, size
		FROM itemsets
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get itemsets for run "+runID)
	}
	defer rows.Close()

	var items []apriori.ItemRecord
	for rows.Next() {
		var (
			it        apriori.ItemRecord
			itemsJSON string
		)
		if err := rows.Scan(&itemsJSON, &it.Support, &it.Size); err != nil {
			return nil, errors.Wrap(err, "failed to scan itemset row")
		}
		if err := json.Unmarshal([]byte(itemsJSON), &it.Items); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal itemset")
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating itemsets")
	}

	apriori.SortItems(items)
	return items, nil
}

// GetRunRules returns the rules of a run ordered by ascending confidence.
func (s *Store) GetRunRules(runID string) ([]apriori.RuleRecord, error) {
	rows, err := s.db.Query(`
		SELECT antecedent, consequent, confidence, support, lift
		FROM rules
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get rules for run "+runID)
	}
	defer rows.Close()

	var rules []apriori.RuleRecord
	for rows.Next() {
		var (
			r                  apriori.RuleRecord
			anteJSON, consJSON string
		)
		if err := rows.Scan(&anteJSON, &consJSON, &r.Confidence, &r.Support, &r.Lift); err != nil {
			return nil, errors.Wrap(err, "failed to scan rule row")
		}
		if err := json.Unmarshal([]byte(anteJSON), &r.Antecedent); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal antecedent")
		}
		if err := json.Unmarshal([]byte(consJSON), &r.Consequent); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal consequent")
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rules")
	}

	apriori.SortRules(rules)
	return rules, nil
}

// DeleteRun removes a run and, through cascading foreign keys, its itemsets
// and rules.
func (s *Store) DeleteRun(id string) error {
	full, err := s.ResolveID(id)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, full)
	if err != nil {
		return wrapQueryErr(err, "failed to delete run "+id)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return nil
}
