package postgres

import (
	"context"
	"database/sql"
	"errors"

	"outreachpilot/internal/model"

	"github.com/lib/pq"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, google_id, email, name, title, company, about, skills, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (google_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.GoogleID, user.Email, user.Name,
		user.Title, user.Company, user.About, user.Skills, user.Tier,
		user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, google_id, email, name, title, company, about, skills, tier, created_at, updated_at FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := `SELECT id, google_id, email, name, title, company, about, skills, tier, created_at, updated_at FROM users WHERE google_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.GoogleID, &user.Email, &user.Name,
		&user.Title, &user.Company, &user.About, &user.Skills, &user.Tier,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET email=$1, name=$2, title=$3, company=$4, about=$5,
		skills=$6, tier=$7, updated_at=NOW() WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.Title, user.Company, user.About,
		user.Skills, user.Tier, user.ID)
	return err
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Postgres Recipient repository implementation
type PostgresRecipientRepository struct {
	db *sql.DB
}

func NewPostgresRecipientRepository(db *sql.DB) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

func (r *PostgresRecipientRepository) Create(ctx context.Context, recipient *model.Recipient) error {
	query := `
		INSERT INTO recipients (id, user_id, name, email, organization, role, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		recipient.ID, recipient.UserID, recipient.Name, recipient.Email,
		recipient.Organization, recipient.Role, recipient.Notes,
		recipient.CreatedAt, recipient.UpdatedAt)
	return err
}

func (r *PostgresRecipientRepository) FindByID(ctx context.Context, id string) (*model.Recipient, error) {
	query := `SELECT id, user_id, name, email, organization, role, notes, created_at, updated_at FROM recipients WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	recipient := &model.Recipient{}
	err := row.Scan(
		&recipient.ID, &recipient.UserID, &recipient.Name, &recipient.Email,
		&recipient.Organization, &recipient.Role, &recipient.Notes,
		&recipient.CreatedAt, &recipient.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("recipient not found")
		}
		return nil, err
	}
	return recipient, nil
}

func (r *PostgresRecipientRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Recipient, error) {
	query := `SELECT id, user_id, name, email, organization, role, notes, created_at, updated_at FROM recipients WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*model.Recipient
	for rows.Next() {
		recipient := &model.Recipient{}
		err := rows.Scan(
			&recipient.ID, &recipient.UserID, &recipient.Name, &recipient.Email,
			&recipient.Organization, &recipient.Role, &recipient.Notes,
			&recipient.CreatedAt, &recipient.UpdatedAt)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}
	return recipients, rows.Err()
}

func (r *PostgresRecipientRepository) Update(ctx context.Context, recipient *model.Recipient) error {
	query := `
		UPDATE recipients SET name=$1, email=$2, organization=$3, role=$4,
		notes=$5, updated_at=NOW() WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query,
		recipient.Name, recipient.Email, recipient.Organization,
		recipient.Role, recipient.Notes, recipient.ID)
	return err
}

func (r *PostgresRecipientRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM recipients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Postgres Draft repository implementation
type PostgresDraftRepository struct {
	db *sql.DB
}

func NewPostgresDraftRepository(db *sql.DB) *PostgresDraftRepository {
	return &PostgresDraftRepository{db: db}
}

const draftColumns = `id, user_id, recipient_id, subject, body, purpose, tone, status, provider,
	attached_document_ids, tracking_id, provider_message_id, provider_thread_id,
	error_message, sent_at, created_at, updated_at`

func (r *PostgresDraftRepository) Create(ctx context.Context, draft *model.Draft) error {
	query := `
		INSERT INTO drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.ExecContext(ctx, query,
		draft.ID, draft.UserID, draft.RecipientID, draft.Subject, draft.Body,
		draft.Purpose, draft.Tone, draft.Status, draft.Provider,
		pq.Array(draft.AttachedDocumentIDs), draft.TrackingID,
		draft.ProviderMessageID, draft.ProviderThreadID, draft.ErrorMessage,
		draft.SentAt, draft.CreatedAt, draft.UpdatedAt)
	return err
}

func (r *PostgresDraftRepository) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`
	return r.scanDraft(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresDraftRepository) FindByTrackingID(ctx context.Context, trackingID string) (*model.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE tracking_id = $1`
	return r.scanDraft(r.db.QueryRowContext(ctx, query, trackingID))
}

func (r *PostgresDraftRepository) scanDraft(row *sql.Row) (*model.Draft, error) {
	draft := &model.Draft{}
	var docIDs pq.StringArray
	err := row.Scan(
		&draft.ID, &draft.UserID, &draft.RecipientID, &draft.Subject, &draft.Body,
		&draft.Purpose, &draft.Tone, &draft.Status, &draft.Provider,
		&docIDs, &draft.TrackingID, &draft.ProviderMessageID,
		&draft.ProviderThreadID, &draft.ErrorMessage, &draft.SentAt,
		&draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("draft not found")
		}
		return nil, err
	}
	draft.AttachedDocumentIDs = docIDs
	return draft, nil
}

func (r *PostgresDraftRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*model.Draft
	for rows.Next() {
		draft := &model.Draft{}
		var docIDs pq.StringArray
		err := rows.Scan(
			&draft.ID, &draft.UserID, &draft.RecipientID, &draft.Subject, &draft.Body,
			&draft.Purpose, &draft.Tone, &draft.Status, &draft.Provider,
			&docIDs, &draft.TrackingID, &draft.ProviderMessageID,
			&draft.ProviderThreadID, &draft.ErrorMessage, &draft.SentAt,
			&draft.CreatedAt, &draft.UpdatedAt)
		if err != nil {
			return nil, err
		}
		draft.AttachedDocumentIDs = docIDs
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

func (r *PostgresDraftRepository) Update(ctx context.Context, draft *model.Draft) error {
	query := `
		UPDATE drafts SET subject=$1, body=$2, purpose=$3, tone=$4, status=$5,
		provider=$6, attached_document_ids=$7, tracking_id=$8,
		provider_message_id=$9, provider_thread_id=$10, error_message=$11,
		sent_at=$12, updated_at=NOW() WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query,
		draft.Subject, draft.Body, draft.Purpose, draft.Tone, draft.Status,
		draft.Provider, pq.Array(draft.AttachedDocumentIDs), draft.TrackingID,
		draft.ProviderMessageID, draft.ProviderThreadID, draft.ErrorMessage,
		draft.SentAt, draft.ID)
	return err
}

func (r *PostgresDraftRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM drafts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Postgres Document repository implementation
type PostgresDocumentRepository struct {
	db *sql.DB
}

func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

func (r *PostgresDocumentRepository) Create(ctx context.Context, document *model.Document) error {
	query := `
		INSERT INTO documents (id, user_id, filename, content_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		document.ID, document.UserID, document.Filename,
		document.ContentType, document.Data, document.CreatedAt)
	return err
}

func (r *PostgresDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	query := `SELECT id, user_id, filename, content_type, data, created_at FROM documents WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	document := &model.Document{}
	err := row.Scan(
		&document.ID, &document.UserID, &document.Filename,
		&document.ContentType, &document.Data, &document.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("document not found")
		}
		return nil, err
	}
	return document, nil
}

func (r *PostgresDocumentRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Document, error) {
	query := `SELECT id, user_id, filename, content_type, data, created_at FROM documents WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*model.Document
	for rows.Next() {
		document := &model.Document{}
		err := rows.Scan(
			&document.ID, &document.UserID, &document.Filename,
			&document.ContentType, &document.Data, &document.CreatedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, rows.Err()
}

func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Postgres Connection repository implementation
type PostgresConnectionRepository struct {
	db *sql.DB
}

func NewPostgresConnectionRepository(db *sql.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) Save(ctx context.Context, conn *model.MailboxConnection) error {
	query := `
		INSERT INTO mailbox_connections (user_id, encrypted_access_token, encrypted_refresh_token, expires_at, email_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			encrypted_access_token = EXCLUDED.encrypted_access_token,
			encrypted_refresh_token = EXCLUDED.encrypted_refresh_token,
			expires_at = EXCLUDED.expires_at,
			email_address = EXCLUDED.email_address,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		conn.UserID, conn.EncryptedAccessToken, conn.EncryptedRefreshToken,
		conn.ExpiresAt, conn.EmailAddress, conn.CreatedAt, conn.UpdatedAt)
	return err
}

func (r *PostgresConnectionRepository) FindByUserID(ctx context.Context, userID string) (*model.MailboxConnection, error) {
	query := `SELECT user_id, encrypted_access_token, encrypted_refresh_token, expires_at, email_address, created_at, updated_at FROM mailbox_connections WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	conn := &model.MailboxConnection{}
	err := row.Scan(
		&conn.UserID, &conn.EncryptedAccessToken, &conn.EncryptedRefreshToken,
		&conn.ExpiresAt, &conn.EmailAddress, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("mailbox connection not found")
		}
		return nil, err
	}
	return conn, nil
}

func (r *PostgresConnectionRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM mailbox_connections WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// Postgres Event repository implementation
type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) CreateOpen(ctx context.Context, event *model.OpenEvent) error {
	query := `
		INSERT INTO open_events (id, draft_id, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.DraftID, event.IPAddress, event.UserAgent, event.CreatedAt)
	return err
}

func (r *PostgresEventRepository) CreateClick(ctx context.Context, event *model.ClickEvent) error {
	query := `
		INSERT INTO click_events (id, draft_id, ip_address, user_agent, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.DraftID, event.IPAddress, event.UserAgent, event.URL, event.CreatedAt)
	return err
}

func (r *PostgresEventRepository) FindOpensByDraftID(ctx context.Context, draftID string) ([]*model.OpenEvent, error) {
	query := `SELECT id, draft_id, ip_address, user_agent, created_at FROM open_events WHERE draft_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.OpenEvent
	for rows.Next() {
		event := &model.OpenEvent{}
		err := rows.Scan(&event.ID, &event.DraftID, &event.IPAddress, &event.UserAgent, &event.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *PostgresEventRepository) FindClicksByDraftID(ctx context.Context, draftID string) ([]*model.ClickEvent, error) {
	query := `SELECT id, draft_id, ip_address, user_agent, url, created_at FROM click_events WHERE draft_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.ClickEvent
	for rows.Next() {
		event := &model.ClickEvent{}
		err := rows.Scan(&event.ID, &event.DraftID, &event.IPAddress, &event.UserAgent, &event.URL, &event.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Postgres Usage repository implementation
type PostgresUsageRepository struct {
	db *sql.DB
}

func NewPostgresUsageRepository(db *sql.DB) *PostgresUsageRepository {
	return &PostgresUsageRepository{db: db}
}

func (r *PostgresUsageRepository) Create(ctx context.Context, record *model.UsageRecord) error {
	query := `
		INSERT INTO usage_records (id, user_id, provider, success, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Provider, record.Success, record.CreatedAt)
	return err
}

func (r *PostgresUsageRepository) FindByUserID(ctx context.Context, userID string) ([]*model.UsageRecord, error) {
	query := `SELECT id, user_id, provider, success, created_at FROM usage_records WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.UsageRecord
	for rows.Next() {
		record := &model.UsageRecord{}
		err := rows.Scan(&record.ID, &record.UserID, &record.Provider, &record.Success, &record.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// InitializeDatabase creates the tables if they do not exist
func InitializeDatabase(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			google_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			about TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			tier TEXT NOT NULL DEFAULT 'free',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recipients (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			organization TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			purpose TEXT NOT NULL,
			tone TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			provider TEXT NOT NULL DEFAULT '',
			attached_document_ids TEXT[] NOT NULL DEFAULT '{}',
			tracking_id TEXT NOT NULL DEFAULT '',
			provider_message_id TEXT NOT NULL DEFAULT '',
			provider_thread_id TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mailbox_connections (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			encrypted_access_token TEXT NOT NULL,
			encrypted_refresh_token TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			email_address TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS open_events (
			id TEXT PRIMARY KEY,
			draft_id TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS click_events (
			id TEXT PRIMARY KEY,
			draft_id TEXT NOT NULL,
			ip_address TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usage_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_tracking_id ON drafts(tracking_id)`,
		`CREATE INDEX IF NOT EXISTS idx_open_events_draft_id ON open_events(draft_id)`,
		`CREATE INDEX IF NOT EXISTS idx_click_events_draft_id ON click_events(draft_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
