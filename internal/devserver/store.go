package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gravitrone/reqdesk/internal/api"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// TagsFieldTitle is the tag field's display title. Its internal name is
// generated when the schema is created.
const TagsFieldTitle = "Tags_0"

// TagsTermSet is the taxonomy term set backing the tag field.
const TagsTermSet = "Tags"

var validStatuses = map[string]bool{
	api.StatusNew:        true,
	api.StatusInProgress: true,
	api.StatusDone:       true,
}

// Store is a SQLite-backed Requests list.
type Store struct {
	db *sql.DB
}

// Open connects to a SQLite database and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared across requests.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS requests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_date TEXT NOT NULL DEFAULT '',
    manager_id INTEGER,
    request_type_id INTEGER NOT NULL DEFAULT 0,
    request_area TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'New',
    etag INTEGER NOT NULL DEFAULT 1,
    modified TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fields (
    list TEXT NOT NULL,
    title TEXT NOT NULL,
    internal_name TEXT NOT NULL,
    column_name TEXT NOT NULL,
    PRIMARY KEY (list, internal_name)
);

CREATE TABLE IF NOT EXISTS choices (
    list TEXT NOT NULL,
    field TEXT NOT NULL,
    value TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (list, field, value)
);

CREATE TABLE IF NOT EXISTS managers (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS request_types (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS terms (
    id TEXT PRIMARY KEY,
    term_set TEXT NOT NULL,
    label TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fields WHERE list = ?`, api.RequestsList).Scan(&n); err != nil {
		return fmt.Errorf("failed to read fields: %w", err)
	}
	if n > 0 {
		return nil
	}

	fields := []struct{ title, internal, column string }{
		{"Title", "Title", "title"},
		{"Description", "Description", "description"},
		{"DueDate", "DueDate", "due_date"},
		{"Assigned Manager", "Assigned_x0020_ManagerId", "manager_id"},
		{"RequestType", "RequestTypeId", "request_type_id"},
		{"RequestArea", "RequestArea", "request_area"},
		{"Status", "Status", "status"},
		{TagsFieldTitle, generatedName(), "tags"},
	}
	for _, f := range fields {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO fields (list, title, internal_name, column_name) VALUES (?, ?, ?, ?)`,
			api.RequestsList, f.title, f.internal, f.column,
		); err != nil {
			return fmt.Errorf("failed to register field %s: %w", f.title, err)
		}
	}
	return nil
}

// generatedName mimics store-generated internal names such as "o3f1c2a9".
func generatedName() string {
	return "o" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

// --- Requests ---

// ListRequests returns all requests ordered by id.
func (s *Store) ListRequests(ctx context.Context) ([]api.Request, error) {
	labels, err := s.termLabels(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, requestSelect+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	items := []api.Request{}
	for rows.Next() {
		r, err := scanRequest(rows, labels)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// GetRequest returns one request.
func (s *Store) GetRequest(ctx context.Context, id int) (*api.Request, error) {
	labels, err := s.termLabels(ctx)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, requestSelect+` WHERE id = ?`, id)
	r, err := scanRequest(row, labels)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRequest inserts r and returns its id. Tags are stored by term id.
func (s *Store) CreateRequest(ctx context.Context, r api.Request) (int, error) {
	ids := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.TermGUID)
	}
	status := r.Status
	if status == "" {
		status = api.StatusNew
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (title, description, due_date, manager_id, request_type_id, request_area, tags, status, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Title, r.Description, formatTime(r.DueDate), nullableID(r.ManagerID),
		r.RequestTypeID, r.RequestArea, strings.Join(ids, ";"), status, stampTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read request id: %w", err)
	}
	return int(id), nil
}

// UpdateRequest applies a field patch keyed by internal field names and
// returns the new etag.
func (s *Store) UpdateRequest(ctx context.Context, id int, patch map[string]json.RawMessage) (int, error) {
	columns, err := s.columnsByInternalName(ctx, api.RequestsList)
	if err != nil {
		return 0, err
	}

	var sets []string
	var args []any
	for key, raw := range patch {
		column, ok := columns[key]
		if !ok {
			return 0, fmt.Errorf("%s: %w", key, ErrUnknownField)
		}
		value, err := decodeColumn(column, raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	sets = append(sets, "etag = etag + 1", "modified = ?")
	args = append(args, stampTime(time.Now()), id)

	res, err := s.db.ExecContext(ctx, `UPDATE requests SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("request %d: %w", id, ErrNotFound)
	}

	var etag int
	if err := s.db.QueryRowContext(ctx, `SELECT etag FROM requests WHERE id = ?`, id).Scan(&etag); err != nil {
		return 0, fmt.Errorf("failed to read etag: %w", err)
	}
	return etag, nil
}

func decodeColumn(column string, raw json.RawMessage) (any, error) {
	switch column {
	case "title", "description", "request_area", "tags":
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, ErrInvalidValue
		}
		return v, nil
	case "status":
		var v string
		if err := json.Unmarshal(raw, &v); err != nil || !validStatuses[v] {
			return nil, ErrInvalidValue
		}
		return v, nil
	case "due_date":
		var v time.Time
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, ErrInvalidValue
		}
		return formatTime(v), nil
	case "manager_id":
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
			return nil, ErrInvalidValue
		}
		if v == 0 {
			return nil, nil
		}
		return v, nil
	case "request_type_id":
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
			return nil, ErrInvalidValue
		}
		return v, nil
	}
	return nil, ErrUnknownField
}

// --- Schema ---

// Fields returns the list's fields, filtered by title when title is set.
func (s *Store) Fields(ctx context.Context, list, title string) ([]api.FieldInfo, error) {
	query := `SELECT title, internal_name FROM fields WHERE list = ?`
	args := []any{list}
	if title != "" {
		query += ` AND title = ?`
		args = append(args, title)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	out := []api.FieldInfo{}
	for rows.Next() {
		var f api.FieldInfo
		if err := rows.Scan(&f.Title, &f.InternalName); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// HasList reports whether any fields are registered for list.
func (s *Store) HasList(ctx context.Context, list string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fields WHERE list = ?`, list).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to read list: %w", err)
	}
	return n > 0, nil
}

func (s *Store) columnsByInternalName(ctx context.Context, list string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT internal_name, column_name FROM fields WHERE list = ?`, list)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		out[name] = column
	}
	return out, rows.Err()
}

// Choices returns a choice field's allowed values in display order.
func (s *Store) Choices(ctx context.Context, list, field string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM choices WHERE list = ? AND field = ? ORDER BY position`, list, field)
	if err != nil {
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AddChoice appends a value to a choice field.
func (s *Store) AddChoice(ctx context.Context, list, field, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choices (list, field, value, position)
		VALUES (?, ?, ?, (SELECT COUNT(*) FROM choices WHERE list = ? AND field = ?))`,
		list, field, value, list, field)
	if err != nil {
		return fmt.Errorf("failed to add choice: %w", err)
	}
	return nil
}

// --- Lookups ---

// Managers returns assignable managers ordered by title.
func (s *Store) Managers(ctx context.Context) ([]api.Option, error) {
	return s.options(ctx, `SELECT id, title FROM managers ORDER BY title`)
}

// RequestTypes returns request types ordered by id.
func (s *Store) RequestTypes(ctx context.Context) ([]api.Option, error) {
	return s.options(ctx, `SELECT id, title FROM request_types ORDER BY id`)
}

// AddManager registers a manager.
func (s *Store) AddManager(ctx context.Context, id int, title string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO managers (id, title) VALUES (?, ?)`, id, title); err != nil {
		return fmt.Errorf("failed to add manager: %w", err)
	}
	return nil
}

// AddRequestType registers a request type.
func (s *Store) AddRequestType(ctx context.Context, id int, title string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO request_types (id, title) VALUES (?, ?)`, id, title); err != nil {
		return fmt.Errorf("failed to add request type: %w", err)
	}
	return nil
}

func (s *Store) options(ctx context.Context, query string) ([]api.Option, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	out := []api.Option{}
	for rows.Next() {
		var o api.Option
		if err := rows.Scan(&o.ID, &o.Title); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Terms returns a term set ordered by label.
func (s *Store) Terms(ctx context.Context, termSet string) ([]api.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label FROM terms WHERE term_set = ? ORDER BY label`, termSet)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	out := []api.Term{}
	for rows.Next() {
		var t api.Term
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddTerm creates a term with a fresh GUID and returns it.
func (s *Store) AddTerm(ctx context.Context, termSet, label string) (api.Term, error) {
	t := api.Term{ID: uuid.NewString(), Label: label}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (id, term_set, label) VALUES (?, ?, ?)`, t.ID, termSet, t.Label); err != nil {
		return api.Term{}, fmt.Errorf("failed to add term: %w", err)
	}
	return t, nil
}

func (s *Store) termLabels(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label FROM terms`)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		out[id] = label
	}
	return out, rows.Err()
}

// --- Helpers ---

const requestSelect = `
	SELECT id, title, description, due_date, manager_id, request_type_id,
	       request_area, tags, status, etag, modified
	FROM requests`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner, labels map[string]string) (api.Request, error) {
	var (
		r         api.Request
		due, mod  string
		managerID sql.NullInt64
		tags      string
		etag      int
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Description, &due, &managerID,
		&r.RequestTypeID, &r.RequestArea, &tags, &r.Status, &etag, &mod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan request: %w", err)
	}
	r.DueDate = parseTime(due)
	r.Modified = parseTime(mod)
	if managerID.Valid {
		id := int(managerID.Int64)
		r.ManagerID = &id
	}
	r.Tags = []api.Tag{}
	for _, guid := range strings.Split(tags, ";") {
		if guid == "" {
			continue
		}
		r.Tags = append(r.Tags, api.Tag{TermGUID: guid, Label: labels[guid]})
	}
	return r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	// The offset is kept so calendar dates read back on the writer's day.
	return t.Format(time.RFC3339)
}

// stampTime formats a modification time. Clients compare these for change
// detection, so sub-second precision is kept.
func stampTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableID(id *int) any {
	if id == nil || *id == 0 {
		return nil
	}
	return *id
}
