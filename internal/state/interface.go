// Package state provides SQLite-based history storage for decora.
package state

import (
	"context"
	"io"

	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/pkg/models"
)

// ConsultationStore handles consultation persistence operations.
type ConsultationStore interface {
	CreateConsultation(c *models.Consultation) error
	GetConsultation(id string) (*models.Consultation, error)
	UpdateConsultation(c *models.Consultation) error
	StartConsultation(id string) error
	CompleteConsultation(id string, plan *models.DesignPlan) error
	FailConsultation(id string, cause error) error
	ListConsultations(limit int) ([]models.Consultation, error)
}

// LayoutCheckStore handles layout check persistence operations.
type LayoutCheckStore interface {
	RecordLayoutCheck(ctx context.Context, req layout.CheckRequest, result models.LayoutResult) error
	ListLayoutChecks(consultationID string, limit int) ([]LayoutCheck, error)
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for history persistence.
// The CLI and web server work against it rather than the concrete SQLite
// implementation so tests can substitute a fake.
// It composes focused sub-interfaces for better modularity.
type Store interface {
	io.Closer
	Migrator
	ConsultationStore
	LayoutCheckStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store             = (*DB)(nil)
	_ Migrator          = (*DB)(nil)
	_ ConsultationStore = (*DB)(nil)
	_ LayoutCheckStore  = (*DB)(nil)
)
