package reader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/infrastructure/logger"
)

// Postgres reads task records from a PostgreSQL `tasks` table. The source
// path is a postgres:// DSN; tags are stored as a text array.
type Postgres struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewPostgres returns a Postgres reader with the given query timeout.
func NewPostgres(timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Postgres{timeout: timeout, log: logger.Named("reader.postgres")}
}

// CanHandle matches postgres:// and postgresql:// DSNs.
func (r *Postgres) CanHandle(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

const pgSelectTasks = `
	SELECT id, title, status, priority,
	       COALESCE(created_date, ''), COALESCE(description, ''),
	       COALESCE(assignee, ''), COALESCE(due_date, ''),
	       COALESCE(tags, '{}')
	FROM tasks
	ORDER BY id
`

// Read connects, queries the tasks table and maps the rows. Connection and
// query failures are fatal; a row that fails to scan or validate is skipped.
func (r *Postgres) Read(path string) ([]entity.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, pgSelectTasks)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Status, &t.Priority,
			&t.CreatedDate, &t.Description, &t.Assignee, &t.DueDate,
			&t.Tags,
		); err != nil {
			r.log.Warn("skipping unreadable task row", zap.Error(err))
			continue
		}
		if !validate(&t, r.log) {
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
