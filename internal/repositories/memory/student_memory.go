package memory

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
)

const studentEntity = "student"

// StudentMemory keeps the roster as an ordered slice plus an index by NIS.
type StudentMemory struct {
	mu    sync.RWMutex
	rows  []*models.Student
	index map[string]int
}

var _ repositories.StudentRepository = (*StudentMemory)(nil)

func NewStudentMemory() *StudentMemory {
	return &StudentMemory{index: make(map[string]int)}
}

func (r *StudentMemory) GetByNIS(ctx context.Context, nis string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[nis]
	if !ok {
		return nil, repositories.NewNotFoundError(studentEntity, nis)
	}
	s := *r.rows[i]
	return &s, nil
}

func (r *StudentMemory) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[student.NIS]; ok {
		return repositories.NewDuplicateError(studentEntity, student.NIS)
	}
	s := *student
	s.Normalize()
	r.rows = append(r.rows, &s)
	r.index[s.NIS] = len(r.rows) - 1
	return nil
}

func (r *StudentMemory) Update(ctx context.Context, nis string, patch repositories.StudentPatch) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[nis]
	if !ok {
		return nil, repositories.NewNotFoundError(studentEntity, nis)
	}
	s := *r.rows[i]
	patch.Apply(&s)
	s.NIS = nis
	r.rows[i] = &s

	out := s
	return &out, nil
}

func (r *StudentMemory) Delete(ctx context.Context, nis string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[nis]
	if !ok {
		return repositories.NewNotFoundError(studentEntity, nis)
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	delete(r.index, nis)
	for j := i; j < len(r.rows); j++ {
		r.index[r.rows[j].NIS] = j
	}
	return nil
}

func (r *StudentMemory) List(ctx context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]models.Student, 0, len(r.rows))
	for _, s := range r.rows {
		res = append(res, *s)
	}
	return res, nil
}

func (r *StudentMemory) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}
