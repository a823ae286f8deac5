package planner

import (
	"context"
	"strings"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// TaskInput holds the fields of a new task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *string
}

// TaskUpdate holds optional task changes. ClearDueDate removes the due date
// and takes precedence over DueDate.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *string
	ClearDueDate bool
}

func (s *Service) parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	due, err := ParseDate(*value, s.loc)
	if err != nil {
		return nil, invalid("due_date", "invalid date format")
	}
	return &due, nil
}

// ListTasks lists the tasks of an event the user can access.
func (s *Service) ListTasks(ctx context.Context, userID, eventID int64) ([]*models.Task, error) {
	if _, err := accessibleEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	return s.store.Tasks().ListByEvent(ctx, eventID)
}

// CreateTask adds a task to an event the user owns.
func (s *Service) CreateTask(ctx context.Context, userID, eventID int64, in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	due, err := s.parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		EventID:     eventID,
		Title:       title,
		Description: in.Description,
		DueDate:     due,
	}
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := ownedEvent(ctx, tx, userID, eventID); err != nil {
			return err
		}
		return tx.Tasks().Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ownedTask loads a task whose event the user owns.
func ownedTask(ctx context.Context, st store.Store, userID, taskID int64) (*models.Task, error) {
	task, err := st.Tasks().Get(ctx, taskID)
	if err != nil {
		return nil, translate(err, "task")
	}
	if _, err := ownedEvent(ctx, st, userID, task.EventID); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies the supplied fields to a task.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID int64, upd TaskUpdate) (*models.Task, error) {
	var task *models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		task, err = ownedTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			title := strings.TrimSpace(*upd.Title)
			if err := validateTitle(title); err != nil {
				return err
			}
			task.Title = title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Completed != nil {
			task.Completed = *upd.Completed
		}
		switch {
		case upd.ClearDueDate:
			task.DueDate = nil
		case upd.DueDate != nil:
			due, err := s.parseDueDate(upd.DueDate)
			if err != nil {
				return err
			}
			task.DueDate = due
		}

		return translate(tx.Tasks().Update(ctx, task), "task")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := ownedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}
		return translate(tx.Tasks().Delete(ctx, taskID), "task")
	})
}
