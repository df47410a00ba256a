package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags).
// Soft delete goes through gorm.DeletedAt, so every default-scoped query
// excludes deleted rows.
type DBAccount struct {
	ID             uint   `gorm:"primaryKey"`
	FirstName      string `gorm:"size:255;not null"`
	MiddleName     string `gorm:"size:255"`
	LastName       string `gorm:"size:255;not null"`
	DocumentNumber string `gorm:"uniqueIndex;size:8;not null"`
	Email          string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string `gorm:"column:password;not null"`

	Role               string `gorm:"index;size:32;default:student"`
	MustChangePassword bool

	ResetToken        *string `gorm:"index;size:64"`
	ResetTokenExpires *time.Time

	RecoveryCode        *string `gorm:"size:6"`
	RecoveryCodeExpires *time.Time
	RecoveryCodePurpose string `gorm:"size:16"`

	TokenVersion int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return r.translateUniqueViolation(err)
	}
	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByDocument implements domain.UserRepository
func (r *UserRepositoryImpl) FindByDocument(ctx context.Context, document string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("document_number = ?", document).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByResetToken implements domain.UserRepository. The expiry filter lives
// in the query, so an overwritten or expired token can never match.
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires > ?", token, now).
		First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.UserRepository. Save writes the full row so
// recovery fields can be cleared back to NULL.
func (r *UserRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Save(dbAccount).Error; err != nil {
		return r.translateUniqueViolation(err)
	}
	return nil
}

// SoftDelete implements domain.UserRepository
func (r *UserRepositoryImpl) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&DBAccount{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Restore implements domain.UserRepository. Restoring must not resurrect a
// row whose email or document now collides with a live account.
func (r *UserRepositoryImpl) Restore(ctx context.Context, id uint) error {
	var deleted DBAccount
	err := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&deleted).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	var collisions int64
	err = r.db.WithContext(ctx).Model(&DBAccount{}).
		Where("(email = ? OR document_number = ?) AND id <> ?", deleted.Email, deleted.DocumentNumber, id).
		Count(&collisions).Error
	if err != nil {
		return err
	}
	if collisions > 0 {
		return domain.ErrRestoreConflict
	}

	return r.db.WithContext(ctx).Unscoped().Model(&DBAccount{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// translateUniqueViolation maps storage-level uniqueness errors onto the
// domain conflict sentinels.
func (r *UserRepositoryImpl) translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		if strings.Contains(msg, "document") {
			return domain.ErrDocumentTaken
		}
		return domain.ErrEmailTaken
	}
	return err
}

// domainToDB converts domain account to database account
func (r *UserRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                  account.ID,
		FirstName:           account.FirstName,
		MiddleName:          account.MiddleName,
		LastName:            account.LastName,
		DocumentNumber:      account.DocumentNumber,
		Email:               account.Email,
		PasswordHash:        account.PasswordHash,
		Role:                account.Role,
		MustChangePassword:  account.MustChangePassword,
		ResetToken:          account.ResetToken,
		ResetTokenExpires:   account.ResetTokenExpires,
		RecoveryCode:        account.RecoveryCode,
		RecoveryCodeExpires: account.RecoveryCodeExpires,
		RecoveryCodePurpose: account.RecoveryCodePurpose,
		TokenVersion:        account.TokenVersion,
		CreatedAt:           account.CreatedAt,
	}
}

// dbToDomain converts database account to domain account
func (r *UserRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                  dbAccount.ID,
		FirstName:           dbAccount.FirstName,
		MiddleName:          dbAccount.MiddleName,
		LastName:            dbAccount.LastName,
		DocumentNumber:      dbAccount.DocumentNumber,
		Email:               dbAccount.Email,
		PasswordHash:        dbAccount.PasswordHash,
		Role:                dbAccount.Role,
		MustChangePassword:  dbAccount.MustChangePassword,
		ResetToken:          dbAccount.ResetToken,
		ResetTokenExpires:   dbAccount.ResetTokenExpires,
		RecoveryCode:        dbAccount.RecoveryCode,
		RecoveryCodeExpires: dbAccount.RecoveryCodeExpires,
		RecoveryCodePurpose: dbAccount.RecoveryCodePurpose,
		TokenVersion:        dbAccount.TokenVersion,
		CreatedAt:           dbAccount.CreatedAt,
		UpdatedAt:           dbAccount.UpdatedAt,
	}
}
