// Package db wires Postgres (solve job history, admin accounts) and
// Redis (cached solve results, rate-limit counters) behind a single
// handle.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crossplay/xwordfill/internal/models"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type Database struct {
	DB    *sql.DB
	Redis *redis.Client
}

func New(postgresURL, redisURL string) (*Database, error) {
	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Database{DB: db, Redis: rdb}, nil
}

func (d *Database) Close() error {
	if err := d.DB.Close(); err != nil {
		return err
	}
	return d.Redis.Close()
}

// InitSchema creates the solve_jobs and admin_users tables.
func (d *Database) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS admin_users (
		id VARCHAR(36) PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS solve_jobs (
		id VARCHAR(36) PRIMARY KEY,
		template TEXT NOT NULL,
		word_list_id VARCHAR(100) NOT NULL,
		min_score INTEGER DEFAULT 0,
		seed BIGINT DEFAULT 1,
		status VARCHAR(20) DEFAULT 'queued',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_solve_jobs_status ON solve_jobs(status);
	CREATE INDEX IF NOT EXISTS idx_solve_jobs_created_at ON solve_jobs(created_at);

	CREATE TABLE IF NOT EXISTS solve_results (
		job_id VARCHAR(36) PRIMARY KEY REFERENCES solve_jobs(id) ON DELETE CASCADE,
		outcome VARCHAR(30) NOT NULL,
		rendered TEXT,
		states INTEGER DEFAULT 0,
		backtracks INTEGER DEFAULT 0,
		retries INTEGER DEFAULT 0,
		duration_ms BIGINT DEFAULT 0,
		choices JSONB
	);
	`

	_, err := d.DB.Exec(schema)
	return err
}

// Admin account operations

func (d *Database) CreateAdminUser(u *models.AdminUser) error {
	_, err := d.DB.Exec(`
		INSERT INTO admin_users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	return err
}

func (d *Database) GetAdminByUsername(username string) (*models.AdminUser, error) {
	u := &models.AdminUser{}
	err := d.DB.QueryRow(`
		SELECT id, username, password_hash, created_at
		FROM admin_users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// Solve job operations

func (d *Database) CreateSolveJob(job *models.SolveJob) error {
	_, err := d.DB.Exec(`
		INSERT INTO solve_jobs (id, template, word_list_id, min_score, seed, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, job.ID, job.Template, job.WordListID, job.MinScore, job.Seed, job.Status, job.CreatedAt)
	return err
}

func (d *Database) GetSolveJob(id string) (*models.SolveJob, error) {
	job := &models.SolveJob{}
	err := d.DB.QueryRow(`
		SELECT id, template, word_list_id, min_score, seed, status, created_at, finished_at
		FROM solve_jobs WHERE id = $1
	`, id).Scan(&job.ID, &job.Template, &job.WordListID, &job.MinScore, &job.Seed,
		&job.Status, &job.CreatedAt, &job.FinishedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

func (d *Database) UpdateSolveJobStatus(id string, status models.JobStatus) error {
	query := `UPDATE solve_jobs SET status = $2`
	if status == models.JobComplete || status == models.JobFailed {
		query += ", finished_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE id = $1"

	_, err := d.DB.Exec(query, id, status)
	return err
}

// ListSolveJobs returns recent jobs, newest first, for the admin history view.
func (d *Database) ListSolveJobs(limit, offset int) ([]models.SolveJob, error) {
	rows, err := d.DB.Query(`
		SELECT id, template, word_list_id, min_score, seed, status, created_at, finished_at
		FROM solve_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.SolveJob
	for rows.Next() {
		var j models.SolveJob
		if err := rows.Scan(&j.ID, &j.Template, &j.WordListID, &j.MinScore, &j.Seed,
			&j.Status, &j.CreatedAt, &j.FinishedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (d *Database) SaveSolveResult(r *models.SolveResult) error {
	choicesJSON, err := json.Marshal(r.Choices)
	if err != nil {
		return err
	}

	_, err = d.DB.Exec(`
		INSERT INTO solve_results (job_id, outcome, rendered, states, backtracks, retries, duration_ms, choices)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (job_id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			rendered = EXCLUDED.rendered,
			states = EXCLUDED.states,
			backtracks = EXCLUDED.backtracks,
			retries = EXCLUDED.retries,
			duration_ms = EXCLUDED.duration_ms,
			choices = EXCLUDED.choices
	`, r.JobID, r.Outcome, r.Rendered, r.States, r.Backtracks, r.Retries, r.DurationMs, choicesJSON)
	return err
}

func (d *Database) GetSolveResult(jobID string) (*models.SolveResult, error) {
	r := &models.SolveResult{}
	var choicesJSON []byte

	err := d.DB.QueryRow(`
		SELECT job_id, outcome, rendered, states, backtracks, retries, duration_ms, choices
		FROM solve_results WHERE job_id = $1
	`, jobID).Scan(&r.JobID, &r.Outcome, &r.Rendered, &r.States, &r.Backtracks, &r.Retries,
		&r.DurationMs, &choicesJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(choicesJSON) > 0 {
		if err := json.Unmarshal(choicesJSON, &r.Choices); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Redis-backed caching and rate limiting

// CacheResult stores a completed solve result for fast re-fetch, keyed by
// job id, expiring after ttl.
func (d *Database) CacheResult(ctx context.Context, jobID string, result *models.SolveResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return d.Redis.Set(ctx, "solve_result:"+jobID, data, ttl).Err()
}

func (d *Database) GetCachedResult(ctx context.Context, jobID string) (*models.SolveResult, error) {
	data, err := d.Redis.Get(ctx, "solve_result:"+jobID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result := &models.SolveResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AllowRequest enforces a fixed-window rate limit of maxPerWindow
// requests per window for the given API key or client identifier: the
// counter expires one window after the first request that created it.
func (d *Database) AllowRequest(ctx context.Context, clientID string, maxPerWindow int, window time.Duration) (bool, error) {
	key := "ratelimit:" + clientID
	count, err := d.Redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		d.Redis.Expire(ctx, key, window)
	}
	return count <= int64(maxPerWindow), nil
}
