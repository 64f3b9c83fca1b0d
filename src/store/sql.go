package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"Backend-Inspectrack/src/models"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Timestamps are stored as fixed width UTC text so that lexical order is
// chronological on both engines.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS drafts (
		building_id     TEXT NOT NULL,
		form_id         TEXT NOT NULL,
		user_id         TEXT NOT NULL DEFAULT '',
		responses       TEXT NOT NULL,
		custom_sections TEXT NOT NULL DEFAULT '{}',
		removed_items   TEXT NOT NULL DEFAULT '{}',
		updated_at      TEXT NOT NULL,
		PRIMARY KEY (building_id, form_id)
	)`,
	`CREATE TABLE IF NOT EXISTS template_customizations (
		building_id   TEXT NOT NULL,
		form_id       TEXT NOT NULL,
		custom_items  TEXT NOT NULL,
		removed_items TEXT NOT NULL,
		last_updated  TEXT NOT NULL,
		PRIMARY KEY (building_id, form_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inspections (
		id           TEXT PRIMARY KEY,
		building_id  TEXT NOT NULL,
		user_id      TEXT NOT NULL DEFAULT '',
		form_id      TEXT NOT NULL,
		form_name    TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		status       TEXT NOT NULL,
		items_count  INTEGER NOT NULL,
		issues_count INTEGER NOT NULL DEFAULT 0,
		responses    TEXT NOT NULL,
		sections     TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS inspections_building_completed ON inspections (building_id, completed_at)`,
	`CREATE TABLE IF NOT EXISTS issues (
		id            TEXT PRIMARY KEY,
		building_id   TEXT NOT NULL,
		inspection_id TEXT NOT NULL DEFAULT '',
		item_id       TEXT NOT NULL DEFAULT '',
		title         TEXT NOT NULL,
		description   TEXT NOT NULL,
		location      TEXT NOT NULL,
		priority      TEXT NOT NULL,
		status        TEXT NOT NULL,
		form_name     TEXT NOT NULL,
		opened_at     TEXT NOT NULL,
		closed_at     TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS issues_building_status ON issues (building_id, status)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		building_id   TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
}

// SQL stores records in SQLite or PostgreSQL. Nested structures are kept as
// JSON text columns.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// Migrate creates the tables when they do not exist yet.
func (s *SQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQL) Close(context.Context) error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *SQL) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQL) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	return res, err
}

func (s *SQL) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func rowMissing(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

// ----- drafts -----

func (s *SQL) GetDraft(ctx context.Context, sess models.Session, formID string) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	var (
		d                                   models.Draft
		responses, sections, removed, stamp string
	)
	err := s.queryRow(ctx,
		`SELECT building_id, form_id, user_id, responses, custom_sections, removed_items, updated_at
		   FROM drafts WHERE building_id = ? AND form_id = ?`,
		sess.BuildingID, formID,
	).Scan(&d.BuildingID, &d.FormID, &d.UserID, &responses, &sections, &removed, &stamp)
	if err != nil {
		return models.Draft{}, rowMissing(err)
	}
	if err := json.Unmarshal([]byte(responses), &d.Responses); err != nil {
		return models.Draft{}, fmt.Errorf("draft responses: %w", err)
	}
	if err := json.Unmarshal([]byte(sections), &d.CustomSections); err != nil {
		return models.Draft{}, fmt.Errorf("draft custom sections: %w", err)
	}
	if err := json.Unmarshal([]byte(removed), &d.RemovedItems); err != nil {
		return models.Draft{}, fmt.Errorf("draft removed items: %w", err)
	}
	if d.UpdatedAt, err = parseTime(stamp); err != nil {
		return models.Draft{}, err
	}
	normalizeDraft(&d)
	return d, nil
}

func (s *SQL) UpsertDraft(ctx context.Context, sess models.Session, d models.Draft) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	d.BuildingID = sess.BuildingID
	normalizeDraft(&d)
	responses, err := toJSON(d.Responses)
	if err != nil {
		return models.Draft{}, err
	}
	sections, err := toJSON(d.CustomSections)
	if err != nil {
		return models.Draft{}, err
	}
	removed, err := toJSON(d.RemovedItems)
	if err != nil {
		return models.Draft{}, err
	}
	_, err = s.exec(ctx,
		`INSERT INTO drafts (building_id, form_id, user_id, responses, custom_sections, removed_items, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (building_id, form_id) DO UPDATE SET
		   user_id = excluded.user_id,
		   responses = excluded.responses,
		   custom_sections = excluded.custom_sections,
		   removed_items = excluded.removed_items,
		   updated_at = excluded.updated_at`,
		d.BuildingID, d.FormID, d.UserID, responses, sections, removed, formatTime(d.UpdatedAt),
	)
	if err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

func (s *SQL) DeleteDraft(ctx context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	_, err := s.exec(ctx, `DELETE FROM drafts WHERE building_id = ? AND form_id = ?`, sess.BuildingID, formID)
	return err
}

// ----- inspections -----

const inspectionColumns = `id, building_id, user_id, form_id, form_name, completed_at, status, items_count, issues_count, responses, sections`

func scanInspection(row scanner) (models.Inspection, error) {
	var (
		in                         models.Inspection
		stamp, responses, sections string
	)
	err := row.Scan(&in.ID, &in.BuildingID, &in.UserID, &in.FormID, &in.FormName,
		&stamp, &in.Status, &in.ItemsCount, &in.IssuesCount, &responses, &sections)
	if err != nil {
		return models.Inspection{}, err
	}
	if in.CompletedAt, err = parseTime(stamp); err != nil {
		return models.Inspection{}, err
	}
	if err := json.Unmarshal([]byte(responses), &in.Responses); err != nil {
		return models.Inspection{}, fmt.Errorf("inspection responses: %w", err)
	}
	if err := json.Unmarshal([]byte(sections), &in.Sections); err != nil {
		return models.Inspection{}, fmt.Errorf("inspection sections: %w", err)
	}
	if len(in.Sections) == 0 {
		in.Sections = nil
	}
	return in, nil
}

func (s *SQL) ListInspections(ctx context.Context, sess models.Session, f models.InspectionFilter) ([]models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE building_id = ?`
	args := []any{sess.BuildingID}
	if !f.Date.IsZero() {
		start, end := f.DayBounds()
		query += ` AND completed_at >= ? AND completed_at < ?`
		args = append(args, formatTime(start), formatTime(end))
	}
	query += ` ORDER BY completed_at DESC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Inspection{}
	for rows.Next() {
		in, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *SQL) GetInspection(ctx context.Context, sess models.Session, id string) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	in, err := scanInspection(s.queryRow(ctx,
		`SELECT `+inspectionColumns+` FROM inspections WHERE id = ? AND building_id = ?`, id, sess.BuildingID))
	if err != nil {
		return models.Inspection{}, rowMissing(err)
	}
	return in, nil
}

func (s *SQL) CreateInspection(ctx context.Context, sess models.Session, in models.Inspection) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	in.BuildingID = sess.BuildingID
	if in.Responses == nil {
		in.Responses = models.FormResponse{}
	}
	responses, err := toJSON(in.Responses)
	if err != nil {
		return models.Inspection{}, err
	}
	sections := "[]"
	if len(in.Sections) > 0 {
		if sections, err = toJSON(in.Sections); err != nil {
			return models.Inspection{}, err
		}
	}
	_, err = s.exec(ctx,
		`INSERT INTO inspections (`+inspectionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.BuildingID, in.UserID, in.FormID, in.FormName, formatTime(in.CompletedAt),
		string(in.Status), in.ItemsCount, in.IssuesCount, responses, sections,
	)
	if err != nil {
		return models.Inspection{}, err
	}
	return in, nil
}

func (s *SQL) DeleteAllInspections(ctx context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, `DELETE FROM inspections WHERE building_id = ?`, sess.BuildingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ----- issues -----

const issueColumns = `id, building_id, inspection_id, item_id, title, description, location, priority, status, form_name, opened_at, closed_at`

func scanIssue(row scanner) (models.Issue, error) {
	var (
		is     models.Issue
		opened string
		closed sql.NullString
	)
	err := row.Scan(&is.ID, &is.BuildingID, &is.InspectionID, &is.ItemID, &is.Title, &is.Description,
		&is.Location, &is.Priority, &is.Status, &is.FormName, &opened, &closed)
	if err != nil {
		return models.Issue{}, err
	}
	if is.OpenedAt, err = parseTime(opened); err != nil {
		return models.Issue{}, err
	}
	if closed.Valid {
		t, err := parseTime(closed.String)
		if err != nil {
			return models.Issue{}, err
		}
		is.ClosedAt = &t
	}
	return is, nil
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func (s *SQL) ListIssues(ctx context.Context, sess models.Session, status models.IssueStatus) ([]models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	query := `SELECT ` + issueColumns + ` FROM issues WHERE building_id = ?`
	args := []any{sess.BuildingID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY opened_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Issue{}
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

func (s *SQL) GetIssue(ctx context.Context, sess models.Session, id string) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	is, err := scanIssue(s.queryRow(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ? AND building_id = ?`, id, sess.BuildingID))
	if err != nil {
		return models.Issue{}, rowMissing(err)
	}
	return is, nil
}

func (s *SQL) CreateIssue(ctx context.Context, sess models.Session, is models.Issue) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	is.BuildingID = sess.BuildingID
	_, err := s.exec(ctx,
		`INSERT INTO issues (`+issueColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		is.ID, is.BuildingID, is.InspectionID, is.ItemID, is.Title, is.Description, is.Location,
		string(is.Priority), string(is.Status), is.FormName, formatTime(is.OpenedAt), nullableTime(is.ClosedAt),
	)
	if err != nil {
		return models.Issue{}, err
	}
	return is, nil
}

func (s *SQL) UpdateIssueStatus(ctx context.Context, sess models.Session, id string, status models.IssueStatus, now time.Time) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	closed := sql.NullString{}
	if status == models.IssueResolved {
		closed = nullableTime(&now)
	}
	res, err := s.exec(ctx,
		`UPDATE issues SET status = ?, closed_at = ? WHERE id = ? AND building_id = ?`,
		string(status), closed, id, sess.BuildingID,
	)
	if err != nil {
		return models.Issue{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Issue{}, ErrNotFound
	}
	return s.GetIssue(ctx, sess, id)
}

func (s *SQL) DeleteAllIssues(ctx context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, `DELETE FROM issues WHERE building_id = ?`, sess.BuildingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ----- customizations -----

func (s *SQL) GetCustomization(ctx context.Context, sess models.Session, formID string) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	var (
		c                     models.TemplateCustomization
		items, removed, stamp string
	)
	err := s.queryRow(ctx,
		`SELECT building_id, form_id, custom_items, removed_items, last_updated
		   FROM template_customizations WHERE building_id = ? AND form_id = ?`,
		sess.BuildingID, formID,
	).Scan(&c.BuildingID, &c.FormID, &items, &removed, &stamp)
	if err != nil {
		return models.TemplateCustomization{}, rowMissing(err)
	}
	if err := json.Unmarshal([]byte(items), &c.CustomItems); err != nil {
		return models.TemplateCustomization{}, fmt.Errorf("custom items: %w", err)
	}
	if err := json.Unmarshal([]byte(removed), &c.RemovedItemIDs); err != nil {
		return models.TemplateCustomization{}, fmt.Errorf("removed items: %w", err)
	}
	if c.LastUpdated, err = parseTime(stamp); err != nil {
		return models.TemplateCustomization{}, err
	}
	normalizeCustomization(&c)
	return c, nil
}

func (s *SQL) UpsertCustomization(ctx context.Context, sess models.Session, c models.TemplateCustomization) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	c.BuildingID = sess.BuildingID
	normalizeCustomization(&c)
	items, err := toJSON(c.CustomItems)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	removed, err := toJSON(c.RemovedItemIDs)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	_, err = s.exec(ctx,
		`INSERT INTO template_customizations (building_id, form_id, custom_items, removed_items, last_updated)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (building_id, form_id) DO UPDATE SET
		   custom_items = excluded.custom_items,
		   removed_items = excluded.removed_items,
		   last_updated = excluded.last_updated`,
		c.BuildingID, c.FormID, items, removed, formatTime(c.LastUpdated),
	)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	return c, nil
}

func (s *SQL) DeleteCustomization(ctx context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	_, err := s.exec(ctx, `DELETE FROM template_customizations WHERE building_id = ? AND form_id = ?`,
		sess.BuildingID, formID)
	return err
}

// ----- users -----

func (s *SQL) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := s.exec(ctx,
		`INSERT INTO users (id, building_id, email, name, role, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.BuildingID, u.Email, u.Name, u.Role, u.PasswordHash, formatTime(u.CreatedAt),
	)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *SQL) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u     models.User
		stamp string
	)
	err := s.queryRow(ctx,
		`SELECT id, building_id, email, name, role, password_hash, created_at FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.BuildingID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &stamp)
	if err != nil {
		return models.User{}, rowMissing(err)
	}
	if u.CreatedAt, err = parseTime(stamp); err != nil {
		return models.User{}, err
	}
	return u, nil
}
