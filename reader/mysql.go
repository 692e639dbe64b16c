package reader

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/infrastructure/logger"
)

// MySQL reads task records from a MySQL `tasks` table. The source path is a
// mysql:// URL (normalized to a driver DSN); tags are stored as a
// comma-separated text column.
type MySQL struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewMySQL returns a MySQL reader with the given query timeout.
func NewMySQL(timeout time.Duration) *MySQL {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MySQL{timeout: timeout, log: logger.Named("reader.mysql")}
}

// CanHandle matches mysql:// DSNs.
func (r *MySQL) CanHandle(path string) bool {
	return strings.HasPrefix(path, "mysql://")
}

type mysqlTaskRow struct {
	ID          int    `db:"id"`
	Title       string `db:"title"`
	Status      string `db:"status"`
	Priority    int    `db:"priority"`
	CreatedDate string `db:"created_date"`
	Description string `db:"description"`
	Assignee    string `db:"assignee"`
	DueDate     string `db:"due_date"`
	Tags        string `db:"tags"`
}

const mysqlSelectTasks = `
	SELECT id, title, status, priority,
	       COALESCE(created_date, '') AS created_date,
	       COALESCE(description, '') AS description,
	       COALESCE(assignee, '') AS assignee,
	       COALESCE(due_date, '') AS due_date,
	       COALESCE(tags, '') AS tags
	FROM tasks
	ORDER BY id
`

// Read connects, queries the tasks table and maps the rows. Connection and
// query failures are fatal; a row that fails to scan or validate is skipped.
func (r *MySQL) Read(path string) ([]entity.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "mysql", parseDSN(path))
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, mysqlSelectTasks)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var row mysqlTaskRow
		if err := rows.StructScan(&row); err != nil {
			r.log.Warn("skipping unreadable task row", zap.Error(err))
			continue
		}
		t := entity.Task{
			ID:          row.ID,
			Title:       row.Title,
			Status:      row.Status,
			Priority:    row.Priority,
			CreatedDate: row.CreatedDate,
			Description: row.Description,
			Assignee:    row.Assignee,
			DueDate:     row.DueDate,
			Tags:        splitTags(row.Tags),
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

// parseDSN converts a mysql:// URL into the driver's DSN format
// (user:pass@tcp(host:port)/dbname?params). A path already in driver format
// passes through unchanged.
func parseDSN(databaseURL string) string {
	if !strings.HasPrefix(databaseURL, "mysql://") {
		return databaseURL
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return strings.TrimPrefix(databaseURL, "mysql://")
	}

	var dsn strings.Builder
	if u.User != nil {
		dsn.WriteString(u.User.String())
		dsn.WriteString("@")
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}
	fmt.Fprintf(&dsn, "tcp(%s:%s)", u.Hostname(), port)

	if u.Path != "" && u.Path != "/" {
		dsn.WriteString(u.Path)
	}
	if params := u.Query().Encode(); params != "" {
		dsn.WriteString("?")
		dsn.WriteString(params)
	}
	return dsn.String()
}
