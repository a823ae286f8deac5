package memstore

import (
	"context"
	"sort"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type taskStore struct {
	s *Store
}

func (ts *taskStore) Create(ctx context.Context, task *models.Task) error {
	return ts.s.do(func(d *dataset) error {
		if _, ok := d.events[task.EventID]; !ok {
			return errMissing("event", task.EventID)
		}
		task.ID = d.nextID()
		task.CreatedAt = ts.s.timestamp()
		stored := *task
		stored.DueDate = copyTime(task.DueDate)
		d.tasks[task.ID] = stored
		return nil
	})
}

func (ts *taskStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := ts.s.do(func(d *dataset) error {
		t, ok := d.tasks[id]
		if !ok {
			return store.ErrNotFound
		}
		t.DueDate = copyTime(t.DueDate)
		task = &t
		return nil
	})
	return task, err
}

func (ts *taskStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.Task, error) {
	var tasks []*models.Task
	err := ts.s.do(func(d *dataset) error {
		for _, t := range d.tasks {
			t := t // per-iteration copy; the address is retained below
			if t.EventID == eventID {
				t.DueDate = copyTime(t.DueDate)
				tasks = append(tasks, &t)
			}
		}
		return nil
	})
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		}
		return a.ID < b.ID
	})
	return tasks, err
}

func (ts *taskStore) Update(ctx context.Context, task *models.Task) error {
	return ts.s.do(func(d *dataset) error {
		existing, ok := d.tasks[task.ID]
		if !ok {
			return store.ErrNotFound
		}
		existing.Title = task.Title
		existing.Description = task.Description
		existing.Completed = task.Completed
		existing.DueDate = copyTime(task.DueDate)
		d.tasks[task.ID] = existing
		return nil
	})
}

func (ts *taskStore) Delete(ctx context.Context, id int64) error {
	return ts.s.do(func(d *dataset) error {
		if _, ok := d.tasks[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.tasks, id)
		return nil
	})
}
