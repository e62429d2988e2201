package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Noxaewr/good-night-app/internal"
)

const uniqueViolationCode = "23505"

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- UserRepository ---

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Name, user.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, name, created_at FROM users WHERE id = $1`, id)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to query user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		p.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]internal.User, error) {
	users := []internal.User{}
	for rows.Next() {
		var u internal.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- FollowRepository ---

// CreateFollow relies on the unique index on (follower_id, followed_user_id):
// the constraint, not any pre-check, decides races between concurrent follows.
func (p *PostgresStorage) CreateFollow(ctx context.Context, edge *internal.FollowEdge) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users_follows (id, follower_id, followed_user_id, created_at) VALUES ($1, $2, $3, $4)`,
		edge.ID, edge.FollowerID, edge.FollowedUserID, edge.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateFollow
		}
		p.logger.Errorf("failed to insert follow: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) DeleteFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error) {
	row := p.pool.QueryRow(ctx,
		`DELETE FROM users_follows WHERE follower_id = $1 AND followed_user_id = $2 RETURNING id, follower_id, followed_user_id, created_at`,
		followerID, followedUserID)
	var e internal.FollowEdge
	if err := row.Scan(&e.ID, &e.FollowerID, &e.FollowedUserID, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to delete follow: %v", err)
		return nil, err
	}
	return &e, nil
}

func (p *PostgresStorage) GetFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, follower_id, followed_user_id, created_at FROM users_follows WHERE follower_id = $1 AND followed_user_id = $2`,
		followerID, followedUserID)
	var e internal.FollowEdge
	if err := row.Scan(&e.ID, &e.FollowerID, &e.FollowedUserID, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to query follow: %v", err)
		return nil, err
	}
	return &e, nil
}

func (p *PostgresStorage) ListFollowing(ctx context.Context, userID string) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT u.id, u.name, u.created_at FROM users u
		 JOIN users_follows f ON f.followed_user_id = u.id
		 WHERE f.follower_id = $1 ORDER BY f.created_at, u.id`, userID)
	if err != nil {
		p.logger.Errorf("failed to query following: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (p *PostgresStorage) ListFollowers(ctx context.Context, userID string) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT u.id, u.name, u.created_at FROM users u
		 JOIN users_follows f ON f.follower_id = u.id
		 WHERE f.followed_user_id = $1 ORDER BY f.created_at, u.id`, userID)
	if err != nil {
		p.logger.Errorf("failed to query followers: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (p *PostgresStorage) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users_follows WHERE follower_id = $1`, userID).Scan(&count)
	if err != nil {
		p.logger.Errorf("failed to count following: %v", err)
		return 0, err
	}
	return count, nil
}

func (p *PostgresStorage) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users_follows WHERE followed_user_id = $1`, userID).Scan(&count)
	if err != nil {
		p.logger.Errorf("failed to count followers: %v", err)
		return 0, err
	}
	return count, nil
}

// --- SleepRecordRepository ---

func (p *PostgresStorage) SaveSleepRecord(ctx context.Context, record *internal.SleepRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sleep_records (id, user_id, bedtime, wake_time, duration_minutes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.Bedtime, record.WakeTime, record.DurationMinutes, record.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert sleep record: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListSleepRecords(ctx context.Context, userID string) ([]internal.SleepRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, bedtime, wake_time, duration_minutes, created_at FROM sleep_records WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		p.logger.Errorf("failed to query sleep records: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanSleepRecords(rows)
}

func (p *PostgresStorage) ListSleepRecordsInWindow(ctx context.Context, userIDs []string, from, to time.Time) ([]internal.SleepRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, bedtime, wake_time, duration_minutes, created_at FROM sleep_records
		 WHERE user_id = ANY($1::uuid[]) AND bedtime BETWEEN $2 AND $3
		 ORDER BY duration_minutes DESC, created_at, id`,
		userIDs, from, to)
	if err != nil {
		p.logger.Errorf("failed to query sleep records in window: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanSleepRecords(rows)
}

func scanSleepRecords(rows pgx.Rows) ([]internal.SleepRecord, error) {
	records := []internal.SleepRecord{}
	for rows.Next() {
		var r internal.SleepRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Bedtime, &r.WakeTime, &r.DurationMinutes, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ FollowRepository = (*PostgresStorage)(nil)
var _ SleepRecordRepository = (*PostgresStorage)(nil)
