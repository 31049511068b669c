package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/memodeck/backend/internal/domain/card"
	"github.com/memodeck/backend/internal/domain/folder"
	"github.com/memodeck/backend/internal/domain/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS folders (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    join_code TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS folder_members (
    folder_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    PRIMARY KEY (folder_id, user_id),
    FOREIGN KEY (folder_id) REFERENCES folders(id),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    folder_id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME NOT NULL,
    FOREIGN KEY (folder_id) REFERENCES folders(id)
);

CREATE TABLE IF NOT EXISTS review_stats (
    user_id TEXT NOT NULL,
    card_id TEXT NOT NULL,
    last_seen DATETIME,
    fail_count INTEGER NOT NULL DEFAULT 0,
    success_count INTEGER NOT NULL DEFAULT 0,
    consecutive_fails INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    PRIMARY KEY (user_id, card_id)
);
`

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single pooled connection turns
	// concurrent requests into queued ones instead of busy errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) SaveUser(ctx context.Context, u *user.User) error {
	var exists int
	err := s.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM users WHERE email = ?", u.Email)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrDuplicateEmail
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ============================================================================
// Folders
// ============================================================================

func (s *SQLiteStore) SaveFolder(ctx context.Context, f *folder.Folder) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO folders (id, name, owner_id, join_code, created_at) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.Name, f.OwnerID, f.JoinCode, f.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, m := range f.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO folder_members (folder_id, user_id, role) VALUES (?, ?, ?)",
			m.FolderID, m.UserID, m.Role,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetFolder(ctx context.Context, id string) (*folder.Folder, error) {
	var f folder.Folder
	err := s.db.GetContext(ctx, &f,
		"SELECT id, name, owner_id, join_code, created_at FROM folders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &f.Members,
		"SELECT folder_id, user_id, role FROM folder_members WHERE folder_id = ?", id); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStore) GetFolderByJoinCode(ctx context.Context, code string) (*folder.Folder, error) {
	var folderID string
	err := s.db.GetContext(ctx, &folderID, "SELECT id FROM folders WHERE join_code = ?", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetFolder(ctx, folderID)
}

// ListFoldersByUser returns the folders userID belongs to, without members.
func (s *SQLiteStore) ListFoldersByUser(ctx context.Context, userID string) ([]*folder.Folder, error) {
	var folders []*folder.Folder
	err := s.db.SelectContext(ctx, &folders, `
		SELECT f.id, f.name, f.owner_id, f.join_code, f.created_at
		FROM folders f
		JOIN folder_members m ON m.folder_id = f.id
		WHERE m.user_id = ?
		ORDER BY f.created_at`, userID)
	if err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *SQLiteStore) UpdateFolderName(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE folders SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember makes userID a member of folderID. Joining twice is a no-op.
func (s *SQLiteStore) AddMember(ctx context.Context, folderID, userID string, role folder.Role) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO folder_members (folder_id, user_id, role) VALUES (?, ?, ?) ON CONFLICT(folder_id, user_id) DO NOTHING",
		folderID, userID, role,
	)
	return err
}

// DeleteFolder removes a folder and everything under it: review stats for
// its cards, the cards, and the memberships.
func (s *SQLiteStore) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM review_stats WHERE card_id IN (SELECT id FROM cards WHERE folder_id = ?)", id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM cards WHERE folder_id = ?", id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM folder_members WHERE folder_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Cards
// ============================================================================

func (s *SQLiteStore) SaveCard(ctx context.Context, c *card.Card) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cards (id, folder_id, front, back, ai_generated, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.FolderID, c.Front, c.Back, c.AIGenerated, c.CreatedAt,
	)
	return err
}

// SaveCards inserts a batch in one transaction (AI generation, spreadsheet
// import).
func (s *SQLiteStore) SaveCards(ctx context.Context, cards []*card.Card) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range cards {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cards (id, folder_id, front, back, ai_generated, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, c.FolderID, c.Front, c.Back, c.AIGenerated, c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetCard(ctx context.Context, id string) (*card.Card, error) {
	var c card.Card
	err := s.db.GetContext(ctx, &c, "SELECT * FROM cards WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) ListCardsByFolder(ctx context.Context, folderID string) ([]card.Card, error) {
	var cards []card.Card
	err := s.db.SelectContext(ctx, &cards,
		"SELECT * FROM cards WHERE folder_id = ? ORDER BY created_at", folderID)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *SQLiteStore) UpdateCard(ctx context.Context, id, front, back string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE cards SET front = ?, back = ? WHERE id = ?", front, back, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCard removes a card and every learner's stats for it.
func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM review_stats WHERE card_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
