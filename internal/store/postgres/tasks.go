package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// TaskStore implements store.TaskStore using PostgreSQL.
type TaskStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *TaskStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const taskColumns = `id, event_id, title, description, completed, due_date, created_at`

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var due sql.NullTime
	if err := row.Scan(&t.ID, &t.EventID, &t.Title, &t.Description, &t.Completed, &due, &t.CreatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	return &t, nil
}

// Create inserts a new task.
func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (event_id, title, description, completed, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.conn().QueryRowContext(ctx, query,
		task.EventID,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(s.conn().QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return task, nil
}

// ListByEvent lists an event's tasks by due date, undated tasks last.
func (s *TaskStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE event_id = $1 ORDER BY due_date ASC NULLS LAST, id ASC`

	rows, err := s.conn().QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update updates a task.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, due_date = $4
		WHERE id = $5`

	res, err := s.conn().ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

// Delete removes a task.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn().ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}
