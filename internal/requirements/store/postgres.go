package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
	txcontext "claimdocs/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists requirement records in PostgreSQL. Writes join the
// transaction carried in ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertProbatoryDocuments(ctx context.Context, docs []claims.ClaimProbatoryDocument) error {
	if len(docs) == 0 {
		return nil
	}
	const cols = 7
	var (
		sb   strings.Builder
		args = make([]any, 0, len(docs)*cols)
	)
	sb.WriteString(`INSERT INTO claim_probatory_documents
		(id, claim_id, document_id, name, group_id, sort_priority, claim_item_id) VALUES `)
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * cols
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		var item sql.NullInt64
		if doc.ClaimItemID != nil {
			item = sql.NullInt64{Int64: int64(*doc.ClaimItemID), Valid: true}
		}
		args = append(args, uuid.UUID(doc.ID), uuid.UUID(doc.ClaimID), int64(doc.DocumentID), doc.Name, int(doc.GroupID), doc.SortPriority, item)
	}
	if _, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, sb.String(), args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert probatory documents: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert probatory documents: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertClaimDocuments(ctx context.Context, docs []claims.ClaimDocument) error {
	query := `
		INSERT INTO claim_documents
			(id, claim_id, document_type, group_id, sort_priority, status,
			 file_name, storage_key, content_type, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	exec := txcontext.Execer(ctx, s.db)
	for _, doc := range docs {
		var fileName, key, contentType, url sql.NullString
		if doc.Document != nil {
			fileName = nullString(doc.Document.FileName)
			key = nullString(doc.Document.StorageKey)
			contentType = nullString(doc.Document.ContentType)
			url = nullString(doc.Document.URL)
		}
		_, err := exec.ExecContext(ctx, query,
			uuid.UUID(doc.ID), uuid.UUID(doc.ClaimID), int(doc.DocumentType), int(doc.GroupID), doc.SortPriority, string(doc.Status),
			fileName, key, contentType, url,
		)
		if err != nil {
			return fmt.Errorf("insert claim document: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeleteItemLevelAbove(ctx context.Context, claimID id.ClaimID, quantity int) (int, error) {
	res, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		DELETE FROM claim_probatory_documents
		WHERE claim_id = $1 AND claim_item_id IS NOT NULL AND claim_item_id > $2
	`, uuid.UUID(claimID), quantity)
	if err != nil {
		return 0, fmt.Errorf("delete item requirements: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete item requirements rows affected: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) DeleteIfExists(ctx context.Context, claimID id.ClaimID, documentID id.DocumentID) (bool, error) {
	res, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		DELETE FROM claim_probatory_documents
		WHERE claim_id = $1 AND document_id = $2 AND claim_item_id IS NULL
	`, uuid.UUID(claimID), int64(documentID))
	if err != nil {
		return false, fmt.Errorf("delete requirement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete requirement rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]claims.ClaimProbatoryDocument, error) {
	rows, err := txcontext.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT id, claim_id, document_id, name, group_id, sort_priority, claim_item_id,
			media_id, media_file_name, media_storage_key, media_content_type, media_url
		FROM claim_probatory_documents
		WHERE claim_id = $1
		ORDER BY sort_priority, COALESCE(claim_item_id, 0), document_id
	`, uuid.UUID(claimID))
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	docs := []claims.ClaimProbatoryDocument{}
	for rows.Next() {
		var (
			doc                                  claims.ClaimProbatoryDocument
			docID, cID                           uuid.UUID
			documentID                           int64
			groupID                              int
			item                                 sql.NullInt64
			mediaID                              uuid.NullUUID
			fileName, key, contentType, mediaURL sql.NullString
		)
		if err := rows.Scan(&docID, &cID, &documentID, &doc.Name, &groupID, &doc.SortPriority, &item,
			&mediaID, &fileName, &key, &contentType, &mediaURL); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		doc.ID = id.RequirementID(docID)
		doc.ClaimID = id.ClaimID(cID)
		doc.DocumentID = id.DocumentID(documentID)
		doc.GroupID = claims.Group(groupID)
		if item.Valid {
			idx := int(item.Int64)
			doc.ClaimItemID = &idx
		}
		if mediaID.Valid {
			doc.Media = &claims.Media{
				ID:          id.MediaID(mediaID.UUID),
				FileName:    fileName.String,
				StorageKey:  key.String,
				ContentType: contentType.String,
				URL:         mediaURL.String,
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}
	return docs, nil
}

// SetMedia attaches media to a requirement record, or clears it when media is nil.
func (s *PostgresStore) SetMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, media *claims.Media) error {
	var (
		mediaID                              uuid.NullUUID
		fileName, key, contentType, mediaURL sql.NullString
	)
	if media != nil {
		mediaID = uuid.NullUUID{UUID: uuid.UUID(media.ID), Valid: true}
		fileName = nullString(media.FileName)
		key = nullString(media.StorageKey)
		contentType = nullString(media.ContentType)
		mediaURL = nullString(media.URL)
	}
	res, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		UPDATE claim_probatory_documents
		SET media_id = $3, media_file_name = $4, media_storage_key = $5, media_content_type = $6, media_url = $7
		WHERE claim_id = $1 AND id = $2
	`, uuid.UUID(claimID), uuid.UUID(requirementID), mediaID, fileName, key, contentType, mediaURL)
	if err != nil {
		return fmt.Errorf("set requirement media: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set requirement media rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListClaimDocuments(ctx context.Context, claimID id.ClaimID) ([]claims.ClaimDocument, error) {
	rows, err := txcontext.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT id, claim_id, document_type, group_id, sort_priority, status,
			file_name, storage_key, content_type, url
		FROM claim_documents
		WHERE claim_id = $1
		ORDER BY sort_priority, document_type
	`, uuid.UUID(claimID))
	if err != nil {
		return nil, fmt.Errorf("list claim documents: %w", err)
	}
	defer rows.Close()

	docs := []claims.ClaimDocument{}
	for rows.Next() {
		doc, err := scanClaimDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim documents: %w", err)
	}
	return docs, nil
}

// CompleteClaimDocument stores the file for the claim's slot of docType.
func (s *PostgresStore) CompleteClaimDocument(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType, document claims.Document) (*claims.ClaimDocument, error) {
	row := txcontext.Execer(ctx, s.db).QueryRowContext(ctx, `
		UPDATE claim_documents
		SET status = $3, file_name = $4, storage_key = $5, content_type = $6, url = $7
		WHERE claim_id = $1 AND document_type = $2
		RETURNING id, claim_id, document_type, group_id, sort_priority, status,
			file_name, storage_key, content_type, url
	`, uuid.UUID(claimID), int(docType), string(claims.ClaimDocumentCompleted),
		document.FileName, document.StorageKey, nullString(document.ContentType), nullString(document.URL))
	doc, err := scanClaimDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return doc, err
}

// DeleteClaimDocumentIfExists removes the claim's documents of docType and
// returns one of them, or nil when there was none.
func (s *PostgresStore) DeleteClaimDocumentIfExists(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType) (*claims.ClaimDocument, error) {
	rows, err := txcontext.Execer(ctx, s.db).QueryContext(ctx, `
		DELETE FROM claim_documents
		WHERE claim_id = $1 AND document_type = $2
		RETURNING id, claim_id, document_type, group_id, sort_priority, status,
			file_name, storage_key, content_type, url
	`, uuid.UUID(claimID), int(docType))
	if err != nil {
		return nil, fmt.Errorf("delete claim document: %w", err)
	}
	defer rows.Close()

	var deleted *claims.ClaimDocument
	for rows.Next() {
		doc, err := scanClaimDocument(rows)
		if err != nil {
			return nil, err
		}
		deleted = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted claim documents: %w", err)
	}
	return deleted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClaimDocument(row scanner) (*claims.ClaimDocument, error) {
	var (
		doc                                claims.ClaimDocument
		docID, cID                         uuid.UUID
		docType, groupID                   int
		status                             string
		fileName, key, contentType, docURL sql.NullString
	)
	if err := row.Scan(&docID, &cID, &docType, &groupID, &doc.SortPriority, &status,
		&fileName, &key, &contentType, &docURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan claim document: %w", err)
	}
	doc.ID = id.ClaimDocumentID(docID)
	doc.ClaimID = id.ClaimID(cID)
	doc.DocumentType = claims.DocumentType(docType)
	doc.GroupID = claims.Group(groupID)
	doc.Status = claims.ClaimDocumentStatus(status)
	if key.Valid {
		doc.Document = &claims.Document{
			FileName:    fileName.String,
			StorageKey:  key.String,
			ContentType: contentType.String,
			URL:         docURL.String,
		}
	}
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
