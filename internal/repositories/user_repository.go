package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"accounts_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrNicknameTaken     = errors.New("nickname already taken")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByNickname(ctx context.Context, nickname string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error

	// FindAll возвращает страницу пользователей в порядке создания (created_at, id)
	FindAll(ctx context.Context, limit, offset int) ([]models.User, error)
	CountAll(ctx context.Context) (int64, error)

	// RecordLogin обнуляет счетчик неудачных входов и ставит last_login_at.
	// Остальные колонки не перезаписываются.
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	// RecordFailedLogin атомарно увеличивает счетчик и блокирует аккаунт,
	// когда он достигает maxAttempts. Возвращает состояние блокировки после записи.
	RecordFailedLogin(ctx context.Context, userID string, maxAttempts int) (locked bool, err error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepositoryImpl) FindByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return r.findOne(ctx, "nickname = ?", nickname)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create проверяет уникальность email и nickname в транзакции, уникальные
// индексы страхуют от гонки между проверкой и вставкой.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, user); err != nil {
			return err
		}
		if err := insideSavepoint(tx, func(sp *gorm.DB) error { return sp.Create(user).Error }); err != nil {
			return r.translateDuplicate(tx, user, err)
		}
		return nil
	})
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := checkUnique(tx, user); err != nil {
			return err
		}
		if err := insideSavepoint(tx, func(sp *gorm.DB) error { return sp.Save(user).Error }); err != nil {
			return r.translateDuplicate(tx, user, err)
		}
		return nil
	})
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"last_login_at":         at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RecordFailedLogin - два UPDATE в одной транзакции: в MySQL присваивания в SET
// видят уже измененные колонки, поэтому порог проверяется отдельным запросом.
func (r *UserRepositoryImpl) RecordFailedLogin(ctx context.Context, userID string, maxAttempts int) (bool, error) {
	var locked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND failed_login_attempts >= ?", userID, maxAttempts).
			UpdateColumn("is_locked", true).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Select("is_locked").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		locked = user.IsLocked
		return nil
	})
	return locked, err
}

// checkUnique ищет другого пользователя с тем же email или nickname
func checkUnique(tx *gorm.DB, user *models.User) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("email = ? AND id <> ?", user.Email, user.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	if err := tx.Model(&models.User{}).
		Where("nickname = ? AND id <> ?", user.Nickname, user.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrNicknameTaken
	}
	return nil
}

// insideSavepoint откатывает только fn: в postgres после ошибки вся транзакция
// непригодна, а translateDuplicate еще нужно выполнить запрос.
func insideSavepoint(tx *gorm.DB, fn func(sp *gorm.DB) error) error {
	return tx.Transaction(fn)
}

// translateDuplicate превращает нарушение уникального индекса в ошибку репозитория.
// Требует gorm.Config{TranslateError: true}.
func (r *UserRepositoryImpl) translateDuplicate(tx *gorm.DB, user *models.User, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	var count int64
	if tx.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error == nil && count == 0 {
		return ErrNicknameTaken
	}
	return ErrUserAlreadyExists
}
