package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplelisting.Repository using PostgreSQL.
//
// Raw date values are stored as text and ordered lexicographically, which is
// chronological for the ISO-8601 values the importers write. Empty dates sort
// last under the default descending order.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "content") {
				return fmt.Errorf("content already exists")
			}
			if strings.Contains(pgErr.ConstraintName, "term") {
				return fmt.Errorf("term already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("record not found")
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const contentColumns = `id, kind, title, status, summary, summary_format,
               body, body_summary, body_format, image_file_key, image_alt,
               date, end_date, url, created_at, updated_at`

// scanContentRecord scans one content row. Optional column groups collapse to
// nil pointers when the anchor column is NULL.
func scanContentRecord(row pgx.Row) (*simplelisting.ContentRecord, error) {
	var (
		record        simplelisting.ContentRecord
		summaryValue  *string
		summaryFormat *string
		bodyValue     *string
		bodySummary   *string
		bodyFormat    *string
		imageFileKey  *string
		imageAlt      *string
	)

	err := row.Scan(
		&record.ID, &record.Kind, &record.Title, &record.Status,
		&summaryValue, &summaryFormat,
		&bodyValue, &bodySummary, &bodyFormat,
		&imageFileKey, &imageAlt,
		&record.Date, &record.EndDate, &record.URL,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if summaryValue != nil {
		record.Summary = &simplelisting.RichText{Value: *summaryValue}
		if summaryFormat != nil {
			record.Summary.Format = *summaryFormat
		}
	}
	if bodyValue != nil {
		record.Body = &simplelisting.BodyField{Value: *bodyValue}
		if bodySummary != nil {
			record.Body.Summary = *bodySummary
		}
		if bodyFormat != nil {
			record.Body.Format = *bodyFormat
		}
	}
	if imageFileKey != nil {
		record.Image = &simplelisting.ImageRef{FileKey: *imageFileKey}
		if imageAlt != nil {
			record.Image.Alt = *imageAlt
		}
	}

	return &record, nil
}

// Listing query operations

func (r *Repository) QueryContent(ctx context.Context, query simplelisting.ContentQuery) ([]*simplelisting.ContentRecord, error) {
	if query.Limit <= 0 || len(query.Kinds) == 0 {
		return []*simplelisting.ContentRecord{}, nil
	}

	sql := `
        SELECT ` + contentColumns + `
        FROM content WHERE deleted_at IS NULL`

	args := []interface{}{}
	argIndex := 1

	kinds := make([]string, len(query.Kinds))
	for i, kind := range query.Kinds {
		kinds[i] = string(kind)
	}
	sql += fmt.Sprintf(" AND kind = ANY($%d)", argIndex)
	args = append(args, kinds)
	argIndex++

	if query.OnlyPublished {
		sql += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(simplelisting.StatusPublished))
		argIndex++
	}

	if len(query.CategoryIDs) > 0 {
		sql += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM content_term ct WHERE ct.content_id = content.id AND ct.term_id = ANY($%d))", argIndex)
		args = append(args, query.CategoryIDs)
		argIndex++
	}

	orderBy, err := buildOrderClause(query.SortBy, query.SortOrder)
	if err != nil {
		return nil, err
	}
	sql += orderBy

	sql += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, query.Limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, r.handlePostgresError("query content", err)
	}
	defer rows.Close()

	records := []*simplelisting.ContentRecord{}
	for rows.Next() {
		record, err := scanContentRecord(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan content", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate content rows", err)
	}

	if err := r.attachTermIDs(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

// buildOrderClause maps a sort request onto a whitelisted ORDER BY. Ties are
// broken by created_at descending, then id, matching the in-memory repository.
func buildOrderClause(sortBy, sortOrder string) (string, error) {
	if sortBy == "" {
		sortBy = simplelisting.SortByDate
	}
	if sortOrder == "" {
		sortOrder = simplelisting.SortOrderDesc
	}

	var column string
	switch sortBy {
	case simplelisting.SortByDate:
		column = "date"
	case simplelisting.SortByCreatedAt:
		column = "created_at"
	default:
		return "", fmt.Errorf("%w: field %q", simplelisting.ErrInvalidSort, sortBy)
	}

	var direction string
	switch sortOrder {
	case simplelisting.SortOrderAsc:
		direction = "ASC"
	case simplelisting.SortOrderDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("%w: order %q", simplelisting.ErrInvalidSort, sortOrder)
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if column != "created_at" {
		clause += ", created_at DESC"
	}
	clause += ", id"
	return clause, nil
}

// attachTermIDs loads the ordered term references for the given records in a
// single query.
func (r *Repository) attachTermIDs(ctx context.Context, records []*simplelisting.ContentRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(records))
	index := make(map[uuid.UUID]*simplelisting.ContentRecord, len(records))
	for i, record := range records {
		ids[i] = record.ID
		index[record.ID] = record
	}

	rows, err := r.db.Query(ctx, `
        SELECT content_id, term_id FROM content_term
        WHERE content_id = ANY($1)
        ORDER BY content_id, position`, ids)
	if err != nil {
		return r.handlePostgresError("load term references", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID uuid.UUID
		var termID int64
		if err := rows.Scan(&contentID, &termID); err != nil {
			return r.handlePostgresError("scan term reference", err)
		}
		if record := index[contentID]; record != nil {
			record.TermIDs = append(record.TermIDs, termID)
		}
	}

	return rows.Err()
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*simplelisting.ContentRecord, error) {
	sql := `
        SELECT ` + contentColumns + `
        FROM content WHERE id = $1 AND deleted_at IS NULL`

	record, err := scanContentRecord(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplelisting.ErrContentNotFound
		}
		return nil, err
	}

	if err := r.attachTermIDs(ctx, []*simplelisting.ContentRecord{record}); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) GetTerm(ctx context.Context, id int64) (*simplelisting.Term, error) {
	query := `SELECT id, label, url FROM term WHERE id = $1`

	var term simplelisting.Term
	err := r.db.QueryRow(ctx, query, id).Scan(&term.ID, &term.Label, &term.URL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplelisting.ErrTermNotFound
		}
		return nil, err
	}

	return &term, nil
}

func (r *Repository) ImageStyleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM image_style WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, r.handlePostgresError("image style lookup", err)
	}
	return exists, nil
}

func (r *Repository) KindLabel(ctx context.Context, kind simplelisting.ContentKind) (string, error) {
	var label string
	err := r.db.QueryRow(ctx,
		`SELECT label FROM content_kind WHERE kind = $1`, string(kind)).Scan(&label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", simplelisting.ErrKindNotFound, kind)
		}
		return "", err
	}
	return label, nil
}

// Write operations. These are not part of simplelisting.Repository; they serve
// importers, seeding, and the admin surface.

func (r *Repository) CreateContent(ctx context.Context, record *simplelisting.ContentRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	query := `
		INSERT INTO content (
			id, kind, title, status, summary, summary_format,
			body, body_summary, body_format, image_file_key, image_alt,
			date, end_date, url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	summaryValue, summaryFormat := richTextColumns(record.Summary)
	bodyValue, bodySummary, bodyFormat := bodyColumns(record.Body)
	imageFileKey, imageAlt := imageColumns(record.Image)

	_, err := r.db.Exec(ctx, query,
		record.ID, string(record.Kind), record.Title, string(record.Status),
		summaryValue, summaryFormat, bodyValue, bodySummary, bodyFormat,
		imageFileKey, imageAlt, record.Date, record.EndDate, record.URL,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return r.replaceTermLinks(ctx, record.ID, record.TermIDs)
}

func (r *Repository) UpdateContent(ctx context.Context, record *simplelisting.ContentRecord) error {
	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE content SET
			kind = $2, title = $3, status = $4, summary = $5, summary_format = $6,
			body = $7, body_summary = $8, body_format = $9,
			image_file_key = $10, image_alt = $11,
			date = $12, end_date = $13, url = $14, updated_at = $15
		WHERE id = $1`

	summaryValue, summaryFormat := richTextColumns(record.Summary)
	bodyValue, bodySummary, bodyFormat := bodyColumns(record.Body)
	imageFileKey, imageAlt := imageColumns(record.Image)

	_, err := r.db.Exec(ctx, query,
		record.ID, string(record.Kind), record.Title, string(record.Status),
		summaryValue, summaryFormat, bodyValue, bodySummary, bodyFormat,
		imageFileKey, imageAlt, record.Date, record.EndDate, record.URL,
		record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}

	return r.replaceTermLinks(ctx, record.ID, record.TermIDs)
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	// Soft delete: set deleted_at timestamp, keep status at last operational state
	query := `UPDATE content SET deleted_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *Repository) replaceTermLinks(ctx context.Context, contentID uuid.UUID, termIDs []int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM content_term WHERE content_id = $1`, contentID); err != nil {
		return r.handlePostgresError("clear term references", err)
	}

	for position, termID := range termIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO content_term (content_id, term_id, position) VALUES ($1, $2, $3)`,
			contentID, termID, position); err != nil {
			return r.handlePostgresError("link term reference", err)
		}
	}
	return nil
}

func (r *Repository) UpsertTerm(ctx context.Context, term *simplelisting.Term) error {
	query := `
		INSERT INTO term (id, label, url) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			url = EXCLUDED.url`

	_, err := r.db.Exec(ctx, query, term.ID, term.Label, term.URL)
	if err != nil {
		return r.handlePostgresError("upsert term", err)
	}
	return nil
}

func (r *Repository) RegisterImageStyle(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO image_style (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return r.handlePostgresError("register image style", err)
	}
	return nil
}

func (r *Repository) SetKindLabel(ctx context.Context, kind simplelisting.ContentKind, label string) error {
	query := `
		INSERT INTO content_kind (kind, label) VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE SET label = EXCLUDED.label`

	_, err := r.db.Exec(ctx, query, string(kind), label)
	if err != nil {
		return r.handlePostgresError("set kind label", err)
	}
	return nil
}

func richTextColumns(text *simplelisting.RichText) (value, format *string) {
	if text == nil {
		return nil, nil
	}
	value = &text.Value
	if text.Format != "" {
		format = &text.Format
	}
	return value, format
}

func bodyColumns(body *simplelisting.BodyField) (value, summary, format *string) {
	if body == nil {
		return nil, nil, nil
	}
	value = &body.Value
	if body.Summary != "" {
		summary = &body.Summary
	}
	if body.Format != "" {
		format = &body.Format
	}
	return value, summary, format
}

func imageColumns(image *simplelisting.ImageRef) (fileKey, alt *string) {
	if image == nil {
		return nil, nil
	}
	fileKey = &image.FileKey
	if image.Alt != "" {
		alt = &image.Alt
	}
	return fileKey, alt
}

// Admin operations - for administrative tasks without publish restrictions

func (r *Repository) ListContentWithFilters(ctx context.Context, filters simplelisting.ContentListFilters) ([]*simplelisting.ContentRecord, error) {
	where, args := buildFilterWhereClause(simplelisting.ContentCountFilters{
		Kinds:         filters.Kinds,
		Status:        filters.Status,
		Statuses:      filters.Statuses,
		TermID:        filters.TermID,
		TermIDs:       filters.TermIDs,
		CreatedAfter:  filters.CreatedAfter,
		CreatedBefore: filters.CreatedBefore,
	})
	argIndex := len(args) + 1

	sql := `
        SELECT ` + contentColumns + `
        FROM content WHERE ` + where

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if filters.SortBy != nil {
		switch *filters.SortBy {
		case "created_at", "updated_at", "date", "title", "status":
			sortBy = *filters.SortBy
		}
	}
	if filters.SortOrder != nil {
		if strings.ToUpper(*filters.SortOrder) == "ASC" {
			sortOrder = "ASC"
		}
	}
	sql += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	// Pagination
	if filters.Limit != nil {
		sql += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *filters.Limit)
		argIndex++
	}
	if filters.Offset != nil {
		sql += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *filters.Offset)
		argIndex++
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, r.handlePostgresError("list content with filters", err)
	}
	defer rows.Close()

	var records []*simplelisting.ContentRecord
	for rows.Next() {
		record, err := scanContentRecord(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan content", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate content rows", err)
	}

	if err := r.attachTermIDs(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) CountContentWithFilters(ctx context.Context, filters simplelisting.ContentCountFilters) (int64, error) {
	where, args := buildFilterWhereClause(filters)

	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM content WHERE "+where, args...).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count content with filters", err)
	}

	return count, nil
}

func (r *Repository) GetContentStatistics(ctx context.Context, filters simplelisting.ContentCountFilters, options simplelisting.ContentStatisticsOptions) (*simplelisting.ContentStatisticsResult, error) {
	result := &simplelisting.ContentStatisticsResult{}

	totalCount, err := r.CountContentWithFilters(ctx, filters)
	if err != nil {
		return nil, err
	}
	result.TotalCount = totalCount

	where, args := buildFilterWhereClause(filters)

	if options.IncludeKindBreakdown {
		byKind, err := r.breakdownCounts(ctx, "kind", where, args)
		if err != nil {
			return nil, err
		}
		result.ByKind = byKind
	}

	if options.IncludeStatusBreakdown {
		byStatus, err := r.breakdownCounts(ctx, "status", where, args)
		if err != nil {
			return nil, err
		}
		result.ByStatus = byStatus
	}

	if options.IncludeTimeRange {
		query := "SELECT MIN(created_at), MAX(created_at) FROM content WHERE " + where
		var oldest, newest *time.Time
		err := r.db.QueryRow(ctx, query, args...).Scan(&oldest, &newest)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, r.handlePostgresError("get time range", err)
		}
		result.OldestContent = oldest
		result.NewestContent = newest
	}

	return result, nil
}

// breakdownCounts runs a GROUP BY count over a whitelisted column.
func (r *Repository) breakdownCounts(ctx context.Context, column, where string, args []interface{}) (map[string]int64, error) {
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM content WHERE %s GROUP BY %s", column, where, column)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("get "+column+" breakdown", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var value string
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, r.handlePostgresError("scan "+column+" breakdown", err)
		}
		counts[value] = count
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate "+column+" breakdown", err)
	}

	return counts, nil
}

// buildFilterWhereClause builds the shared WHERE clause for admin queries.
// Status and term filters are unions of their single and plural fields;
// created bounds are inclusive.
func buildFilterWhereClause(filters simplelisting.ContentCountFilters) (string, []interface{}) {
	where := "deleted_at IS NULL"
	args := []interface{}{}
	argIndex := 1

	if len(filters.Kinds) > 0 {
		kinds := make([]string, len(filters.Kinds))
		for i, kind := range filters.Kinds {
			kinds[i] = string(kind)
		}
		where += fmt.Sprintf(" AND kind = ANY($%d)", argIndex)
		args = append(args, kinds)
		argIndex++
	}

	statuses := make([]string, 0, len(filters.Statuses)+1)
	if filters.Status != nil {
		statuses = append(statuses, string(*filters.Status))
	}
	for _, status := range filters.Statuses {
		statuses = append(statuses, string(status))
	}
	if len(statuses) > 0 {
		where += fmt.Sprintf(" AND status = ANY($%d)", argIndex)
		args = append(args, statuses)
		argIndex++
	}

	termIDs := make([]int64, 0, len(filters.TermIDs)+1)
	if filters.TermID != nil {
		termIDs = append(termIDs, *filters.TermID)
	}
	termIDs = append(termIDs, filters.TermIDs...)
	if len(termIDs) > 0 {
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM content_term ct WHERE ct.content_id = content.id AND ct.term_id = ANY($%d))", argIndex)
		args = append(args, termIDs)
		argIndex++
	}

	if filters.CreatedAfter != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filters.CreatedAfter)
		argIndex++
	}
	if filters.CreatedBefore != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filters.CreatedBefore)
		argIndex++
	}

	return where, args
}
