package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/program-selection/internal/model"
	"github.com/iliyamo/program-selection/internal/repository"
)

// memPrograms and memSelections mirror the ordering rules of the SQL
// repositories so handler behaviour can be checked without a database.

type memPrograms struct {
	programs []model.Program
	err      error
}

func (m *memPrograms) ListAll(context.Context) ([]model.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := append([]model.Program{}, m.programs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memPrograms) GetByID(_ context.Context, id string) (*model.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.programs {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrProgramNotFound
}

type memSelections struct {
	mu        sync.Mutex
	rows      []model.Selection
	createErr error
}

func (m *memSelections) Create(_ context.Context, s *model.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.rows = append(m.rows, *s)
	return nil
}

func (m *memSelections) ListRecent(context.Context) ([]model.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Selection, len(m.rows))
	// newest insert first, then stable sort by time so equal stamps keep that order
	for i, s := range m.rows {
		out[len(m.rows)-1-i] = s
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SelectedAt.After(out[j].SelectedAt) })
	return out, nil
}

func (m *memSelections) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type chanPublisher struct {
	ch  chan model.Selection
	err error
}

func (p *chanPublisher) PublishSelection(_ context.Context, s model.Selection) error {
	p.ch <- s
	return p.err
}
