package service

import (
	"errors"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrNicknameTaken  = errors.New("nickname already taken")
	ErrBadCredentials = errors.New("invalid email or password")
)

// AuthService owns registration and login. Registration is where the
// re-registration gate hooks in: a pending verification for the email
// blocks the attempt, and a matching archive entry with violations
// places the new account on hold.
type AuthService struct {
	db     *gorm.DB
	users  *repository.UserRepository
	verifs *VerificationService
	logs   *repository.ActivityLogRepository
}

func NewAuthService(db *gorm.DB, users *repository.UserRepository, verifs *VerificationService, logs *repository.ActivityLogRepository) *AuthService {
	return &AuthService{db: db, users: users, verifs: verifs, logs: logs}
}

type RegisterInput struct {
	Email     string
	Password  string
	Nickname  string
	BirthDate *time.Time
}

// Register creates the account, then runs the prior-violation check.
// The returned bool reports whether the account was held for
// verification.
func (s *AuthService) Register(in RegisterInput, ip string) (*models.User, bool, error) {
	if err := s.verifs.GateRegistration(in.Email); err != nil {
		return nil, false, err
	}
	if _, err := s.users.GetByEmail(in.Email); err == nil {
		return nil, false, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if _, err := s.users.GetByNickname(in.Nickname); err == nil {
		return nil, false, ErrNicknameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	u := &models.User{
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		BirthDate:    in.BirthDate,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(u); err != nil {
		return nil, false, err
	}

	held, err := s.verifs.CheckPriorViolations(u, ip)
	if err != nil {
		return nil, false, err
	}
	if held {
		u.NeedsVerification = true
	}

	if err := s.logs.Log(u.ID, nil, domain.LogProfileSetup, ip, map[string]interface{}{
		"nickname": u.Nickname,
		"held":     held,
	}); err != nil {
		return nil, false, err
	}
	return u, held, nil
}

// Login verifies credentials. Suspended and banned accounts still get
// a session so they can see their restriction and file an unban
// request; callers decide what else to allow.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// SetBirthDate completes profile setup. The birth date is immutable
// once set.
func (s *AuthService) SetBirthDate(userID uint, birthDate time.Time) error {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.BirthDate != nil {
		return domain.ErrInvalidTransition
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("birth_date", birthDate).Error
}
