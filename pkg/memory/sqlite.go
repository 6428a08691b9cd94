package memory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/easyops/hellochains-go/pkg/core/message"
)

// SQLiteStore 基于 SQLite 的对话记录存储
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开或创建 SQLite 数据库
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return store, nil
}

// initSchema 初始化表结构
func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS transcript_turns (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Save 覆盖保存会话的全部记录
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, turns []message.Message) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	for _, t := range turns {
		if !t.Role.IsTurn() {
			return ErrInvalidTurn
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transcript_turns WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transcript_turns (session_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range turns {
		createdAt := t.Timestamp
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, sessionID, i, string(t.Role), t.Content, createdAt.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert turn %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load 读取会话记录
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) ([]message.Message, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM transcript_turns WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]message.Message, 0)
	for rows.Next() {
		var role, content string
		var createdAt int64
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, err
		}
		turns = append(turns, message.Message{
			Role:      message.Role(role),
			Content:   content,
			Timestamp: time.UnixMilli(createdAt),
		})
	}
	return turns, rows.Err()
}

// Delete 删除会话
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM transcript_turns WHERE session_id = ?`, sessionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Sessions 列出已保存的会话
func (s *SQLiteStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT session_id FROM transcript_turns ORDER BY session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close 关闭数据库
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
