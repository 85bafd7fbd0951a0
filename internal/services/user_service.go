package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strings"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/email"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"
	"accounts_backend/internal/validator"
	"accounts_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// maxOffset держит offset в пределах int32, поддерживаемых всеми драйверами
	maxOffset = math.MaxInt32
)

// UserService управляет жизненным циклом аккаунтов
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	VerifyEmail(ctx context.Context, userID, token string) error
}

type UserServiceImpl struct {
	userRepo      repositories.UserRepository
	hasher        auth.PasswordHasher
	emailProvider email.Provider
	baseURL       string
}

func NewUserService(
	userRepo repositories.UserRepository,
	hasher auth.PasswordHasher,
	emailProvider email.Provider,
	baseURL string,
) UserService {
	return &UserServiceImpl{
		userRepo:      userRepo,
		hasher:        hasher,
		emailProvider: emailProvider,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// newAccount - общие входные данные Register и Create
type newAccount struct {
	email              string
	nickname           *string
	password           string
	role               models.UserRole
	firstName          string
	lastName           string
	bio                string
	profilePictureURL  *string
	githubProfileURL   *string
	linkedinProfileURL *string
}

// Register - самостоятельная регистрация, роль всегда AUTHENTICATED
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	return s.create(ctx, newAccount{
		email:    req.Email,
		nickname: req.Nickname,
		password: req.Password,
		role:     models.UserRoleAuthenticated,
	})
}

// Create - создание пользователя через админский эндпоинт, роль выбирает вызывающий
func (s *UserServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.UserRoleAuthenticated
	}
	return s.create(ctx, newAccount{
		email:              req.Email,
		nickname:           req.Nickname,
		password:           req.Password,
		role:               role,
		firstName:          req.FirstName,
		lastName:           req.LastName,
		bio:                req.Bio,
		profilePictureURL:  req.ProfilePictureURL,
		githubProfileURL:   req.GithubProfileURL,
		linkedinProfileURL: req.LinkedinProfileURL,
	})
}

func (s *UserServiceImpl) create(ctx context.Context, in newAccount) (*models.User, error) {
	emailAddr := normalizeEmail(in.email)

	// Валидация: собираем все нарушения сразу
	var violations validator.Violations
	if reason := validator.CheckEmail(emailAddr); reason != "" {
		violations.Add("email", reason)
	}
	if in.nickname != nil {
		violations.AddAll("nickname", validator.NicknameViolations(*in.nickname))
	}
	violations.AddAll("password", validator.PasswordViolations(in.password))
	if reason := validator.CheckRole(string(in.role)); reason != "" {
		violations.Add("role", reason)
	}
	checkURL(&violations, "profile_picture_url", in.profilePictureURL)
	checkURL(&violations, "github_profile_url", in.githubProfileURL)
	checkURL(&violations, "linkedin_profile_url", in.linkedinProfileURL)
	if err := violations.Err(); err != nil {
		return nil, err
	}

	// Уникальность email
	if _, err := s.userRepo.FindByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	// Уникальность nickname или генерация
	var nickname string
	if in.nickname != nil {
		nickname = *in.nickname
		if _, err := s.userRepo.FindByNickname(ctx, nickname); err == nil {
			return nil, apperrors.ErrNicknameAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
	} else {
		generated, err := uniqueNickname(ctx, s.userRepo)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		nickname = generated
	}

	hash, err := s.hasher.Hash(in.password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		BaseModel:          models.BaseModel{ID: uuid.NewString()},
		Email:              emailAddr,
		Nickname:           nickname,
		FirstName:          in.firstName,
		LastName:           in.lastName,
		Bio:                in.bio,
		ProfilePictureURL:  nonEmpty(in.profilePictureURL),
		GithubProfileURL:   nonEmpty(in.githubProfileURL),
		LinkedinProfileURL: nonEmpty(in.linkedinProfileURL),
		PasswordHash:       hash,
		Role:               in.role,
		IsVerified:         false,
		VerificationToken:  newVerificationToken(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "user created", "created_user_id", user.ID, "role", user.Role)
	s.sendVerificationEmail(ctx, user)

	return user, nil
}

// Get - пользователь по ID
func (s *UserServiceImpl) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// Update - частичное обновление, меняются только переданные поля
func (s *UserServiceImpl) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	var violations validator.Violations
	if req.Email != nil {
		if reason := validator.CheckEmail(normalizeEmail(*req.Email)); reason != "" {
			violations.Add("email", reason)
		}
	}
	if req.Nickname != nil {
		violations.AddAll("nickname", validator.NicknameViolations(*req.Nickname))
	}
	if req.Role != nil {
		if reason := validator.CheckRole(string(*req.Role)); reason != "" {
			violations.Add("role", reason)
		}
	}
	checkURL(&violations, "profile_picture_url", req.ProfilePictureURL)
	checkURL(&violations, "github_profile_url", req.GithubProfileURL)
	checkURL(&violations, "linkedin_profile_url", req.LinkedinProfileURL)
	if err := violations.Err(); err != nil {
		return nil, err
	}

	if req.Email != nil {
		emailAddr := normalizeEmail(*req.Email)
		if emailAddr != user.Email {
			if _, err := s.userRepo.FindByEmail(ctx, emailAddr); err == nil {
				return nil, apperrors.ErrEmailAlreadyExists
			} else if !errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.InternalError(err)
			}
			user.Email = emailAddr
		}
	}
	if req.Nickname != nil && *req.Nickname != user.Nickname {
		if _, err := s.userRepo.FindByNickname(ctx, *req.Nickname); err == nil {
			return nil, apperrors.ErrNicknameAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
		user.Nickname = *req.Nickname
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = nonEmpty(req.ProfilePictureURL)
	}
	if req.GithubProfileURL != nil {
		user.GithubProfileURL = nonEmpty(req.GithubProfileURL)
	}
	if req.LinkedinProfileURL != nil {
		user.LinkedinProfileURL = nonEmpty(req.LinkedinProfileURL)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsLocked != nil {
		user.IsLocked = *req.IsLocked
		if !user.IsLocked {
			user.FailedLoginAttempts = 0
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "user updated", "target_user_id", user.ID)
	return user, nil
}

// Delete - жесткое удаление
func (s *UserServiceImpl) Delete(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return mapRepoError(err)
	}
	logger.CtxInfo(ctx, "user deleted", "target_user_id", userID)
	return nil
}

// List - страница пользователей в порядке создания и общее количество
func (s *UserServiceImpl) List(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	// страница за пределами maxOffset заведомо пуста, offset при этом не переполняется
	if page-1 > maxOffset/pageSize {
		return []models.User{}, total, nil
	}
	users, err := s.userRepo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return users, total, nil
}

// VerifyEmail - подтверждение email по ссылке из письма
func (s *UserServiceImpl) VerifyEmail(ctx context.Context, userID, token string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidVerificationToken
		}
		return apperrors.InternalError(err)
	}

	if user.VerificationToken == "" || token == "" ||
		subtle.ConstantTimeCompare([]byte(user.VerificationToken), []byte(token)) != 1 {
		return apperrors.ErrInvalidVerificationToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return mapRepoError(err)
	}

	logger.CtxInfo(ctx, "email verified", "target_user_id", user.ID)
	return nil
}

// VerificationLink строит ссылку подтверждения для письма
func (s *UserServiceImpl) VerificationLink(userID, token string) string {
	return fmt.Sprintf("%s/api/v1/auth/verify-email/%s/%s", s.baseURL, userID, token)
}

// sendVerificationEmail - ошибка отправки не отменяет регистрацию, только логируется
func (s *UserServiceImpl) sendVerificationEmail(ctx context.Context, user *models.User) {
	if s.emailProvider == nil {
		return
	}
	link := s.VerificationLink(user.ID, user.VerificationToken)
	if err := s.emailProvider.SendVerification(ctx, user.Email, link); err != nil {
		logger.CtxWithError(ctx, "failed to send verification email", err, "target_user_id", user.ID)
	}
}

// --- helpers ---

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newVerificationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func checkURL(v *validator.Violations, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if reason := validator.CheckProfileURL(*value); reason != "" {
		v.Add(field, reason)
	}
}

// nonEmpty превращает пустую строку в nil
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// mapRepoError переводит ошибки репозитория в AppError
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrNicknameTaken):
		return apperrors.ErrNicknameAlreadyExists
	default:
		return apperrors.InternalError(err)
	}
}
