package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// UserRepository owns the local user profile rows, including the stored
// credibility score and its stats sub-object.
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error

	// Upsert by primary key; used when a user first appears via auth claims.
	EnsureExists(ctx context.Context, tx *gorm.DB, user *models.User) error

	// Credibility persistence (full overwrite of score + stats)
	UpdateCredibility(ctx context.Context, tx *gorm.DB, userID string, score int, stats models.CredibilityStats) error

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// IdentityRepository is the read-only view of the external identity provider
// (Casdoor). The scoring pipeline never writes through it.
type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
