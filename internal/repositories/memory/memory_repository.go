package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
)

// MemoryRepository implements the main Repository interface on process memory
type MemoryRepository struct {
	student *StudentMemory
	closed  atomic.Bool
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	// Seed is loaded into the roster at startup. Nil means models.SeedStudents().
	Seed []models.Student
}

// NewMemoryRepository creates a repository with the seed roster loaded
func NewMemoryRepository(config RepositoryConfig) (repositories.Repository, error) {
	seed := config.Seed
	if seed == nil {
		seed = models.SeedStudents()
	}

	student := NewStudentMemory()
	for i := range seed {
		s := seed[i]
		if err := student.Create(context.Background(), &s); err != nil {
			return nil, fmt.Errorf("failed to load seed student %s: %w", s.NIS, err)
		}
	}

	return &MemoryRepository{student: student}, nil
}

// Student returns the roster store
func (r *MemoryRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	if r.closed.Load() {
		return fmt.Errorf("repository closed")
	}
	return nil
}

func (r *MemoryRepository) Close() error {
	r.closed.Store(true)
	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize builds the repository and loads the seed roster
func (rm *RepositoryManager) Initialize() error {
	repo, err := NewMemoryRepository(rm.config)
	if err != nil {
		return err
	}
	rm.repo = repo
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of the repository
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown releases the repository
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
