// Package storage holds the persistent key-value counter store for game
// mode likes. It is the only durable state in the system; relay state is
// deliberately in-memory.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyLiked = errors.New("already liked")
	ErrLikeNotFound = errors.New("like not found")
)

// LikeStore manages per-user likes of game modes in SQLite.
type LikeStore struct {
	db *sql.DB
}

// GameMode is the REST-facing view of one mode's like state.
type GameMode struct {
	GameModeID string `json:"gameModeId"`
	LikeCount  int    `json:"likeCount"`
	UserLiked  bool   `json:"userLiked"`
}

// OpenLikeStore connects to SQLite and initializes the likes table.
func OpenLikeStore(path string) (*LikeStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open likes db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS likes (
		game_mode_id TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL,
		UNIQUE (game_mode_id, user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_likes_game_mode ON likes(game_mode_id);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create likes schema: %w", err)
	}

	log.Info().Str("module", "storage.likes").Str("path", path).Msg("like store ready")
	return &LikeStore{db: db}, nil
}

func (s *LikeStore) Close() error { return s.db.Close() }

// AddLike records a like; a second like by the same user is rejected via the
// unique constraint.
func (s *LikeStore) AddLike(gameModeID, userID string) error {
	_, err := s.db.Exec(
		`INSERT INTO likes (game_mode_id, user_id, created_at) VALUES (?, ?, ?)`,
		gameModeID, userID, time.Now(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *LikeStore) RemoveLike(gameModeID, userID string) error {
	res, err := s.db.Exec(
		`DELETE FROM likes WHERE game_mode_id = ? AND user_id = ?`,
		gameModeID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if n == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (s *LikeStore) GetLikeCount(gameModeID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM likes WHERE game_mode_id = ?`, gameModeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (s *LikeStore) HasUserLiked(gameModeID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM likes WHERE game_mode_id = ? AND user_id = ?`,
		gameModeID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return true, nil
}

// GetAllGameModes lists modes by like count descending, annotating the
// caller's own like when a user id is supplied.
func (s *LikeStore) GetAllGameModes(userID string) ([]GameMode, error) {
	rows, err := s.db.Query(`
		SELECT game_mode_id, COUNT(*) AS like_count
		FROM likes
		GROUP BY game_mode_id
		ORDER BY like_count DESC, game_mode_id`)
	if err != nil {
		return nil, fmt.Errorf("list game modes: %w", err)
	}
	defer rows.Close()

	modes := make([]GameMode, 0)
	for rows.Next() {
		var m GameMode
		if err := rows.Scan(&m.GameModeID, &m.LikeCount); err != nil {
			return nil, fmt.Errorf("scan game mode: %w", err)
		}
		modes = append(modes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list game modes: %w", err)
	}

	if userID != "" {
		for idx := range modes {
			liked, err := s.HasUserLiked(modes[idx].GameModeID, userID)
			if err != nil {
				return nil, err
			}
			modes[idx].UserLiked = liked
		}
	}
	return modes, nil
}

func (s *LikeStore) GetGameModeDetails(gameModeID, userID string) (GameMode, error) {
	count, err := s.GetLikeCount(gameModeID)
	if err != nil {
		return GameMode{}, err
	}
	liked := false
	if userID != "" {
		liked, err = s.HasUserLiked(gameModeID, userID)
		if err != nil {
			return GameMode{}, err
		}
	}
	return GameMode{GameModeID: gameModeID, LikeCount: count, UserLiked: liked}, nil
}
