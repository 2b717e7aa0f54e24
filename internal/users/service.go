package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "harbor-backend/internal/shared/auth"
	"harbor-backend/internal/shared/telemetry"
)

const (
	minNameLen     = 2
	maxNameLen     = 50
	minPasswordLen = 6
	minAge         = 13
	maxAge         = 120
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	validate    = validator.New()
	genders     = map[string]bool{"male": true, "female": true, "other": true, "prefer-not-to-say": true}
)

type Service struct {
	Repo Repo
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Session is an issued token with the account it identifies.
type Session struct {
	Token string
	User  User
}

type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ProfileInput holds optional profile changes; nil fields are left untouched.
type ProfileInput struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

type PasswordInput struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// GoogleProfile is the identity returned by Google's userinfo endpoint.
type GoogleProfile struct {
	Sub           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func checkName(v *ValidationError, field, name string) {
	if n := len(name); n < minNameLen || n > maxNameLen {
		v.add(field, "Name must be between 2 and 50 characters")
		return
	}
	if !namePattern.MatchString(name) {
		v.add(field, "Name can only contain letters and spaces")
	}
}

func checkPassword(v *ValidationError, field, password, label string) {
	if len(password) < minPasswordLen {
		v.add(field, label+" must be at least 6 characters")
		return
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		v.add(field, label+" must contain at least one uppercase letter, one lowercase letter, and one number")
	}
}

func (s *Service) hash(password string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *Service) issue(user User) (Session, error) {
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Email:            user.Email,
		Name:             user.Name,
		Picture:          user.PictureURL,
		Role:             user.Role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// Register creates a password account and signs the user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	v := &ValidationError{}
	checkName(v, "name", name)
	if !validEmail(email) {
		v.add("email", "Please provide a valid email")
	}
	checkPassword(v, "password", in.Password, "Password")
	if in.ConfirmPassword != in.Password {
		v.add("confirmPassword", "Passwords do not match")
	}
	if err := v.err(); err != nil {
		return Session{}, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	email = normalizeEmail(email)
	v := &ValidationError{}
	if !validEmail(email) {
		v.add("email", "Please provide a valid email")
	}
	if password == "" {
		v.add("password", "Password is required")
	}
	if err := v.err(); err != nil {
		return Session{}, err
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return Session{}, ErrInactive
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.Repo.Update(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// EnsureActive fails for unknown or deactivated accounts.
func (s *Service) EnsureActive(ctx context.Context, userID string) error {
	_, err := s.ActiveRole(ctx, userID)
	return err
}

// ActiveRole returns the stored role of an active account.
func (s *Service) ActiveRole(ctx context.Context, userID string) (string, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", ErrInactive
	}
	return user.Role, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	v := &ValidationError{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if n := len(name); n < minNameLen || n > maxNameLen {
			v.add("name", "Name must be between 2 and 50 characters")
		}
		user.Name = name
	}
	if in.Age != nil {
		if *in.Age < minAge || *in.Age > maxAge {
			v.add("age", "Age must be between 13 and 120")
		}
		user.Age = *in.Age
	}
	if in.Gender != nil {
		if !genders[*in.Gender] {
			v.add("gender", "Please provide a valid gender")
		}
		user.Gender = *in.Gender
	}
	if err := v.err(); err != nil {
		return User{}, err
	}

	user.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ChangePassword replaces the password and returns a fresh session.
func (s *Service) ChangePassword(ctx context.Context, userID string, in PasswordInput) (Session, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}

	v := &ValidationError{}
	if in.CurrentPassword == "" {
		v.add("currentPassword", "Current password is required")
	}
	checkPassword(v, "newPassword", in.NewPassword, "New password")
	if in.ConfirmNewPassword != in.NewPassword {
		v.add("confirmNewPassword", "New passwords do not match")
	}
	if err := v.err(); err != nil {
		return Session{}, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return Session{}, ErrWrongPassword
	}

	hash, err := s.hash(in.NewPassword)
	if err != nil {
		return Session{}, err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

// Deactivate soft-deletes the account; its check-ins are retained.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, user); err != nil {
		return err
	}
	telemetry.Info("user.deactivated", map[string]any{"user_id": user.ID})
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if err := s.ready(); err != nil {
		return Stats{}, err
	}
	return s.Repo.Stats(ctx)
}

// UpsertFromGoogle signs in a Google identity, linking it to an existing account
// with the same email or creating a new one.
func (s *Service) UpsertFromGoogle(ctx context.Context, p GoogleProfile) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	email := normalizeEmail(p.Email)
	if strings.TrimSpace(p.Sub) == "" || email == "" {
		return Session{}, fmt.Errorf("%w: google sub and email are required", ErrInvalidInput)
	}
	now := s.now()

	// An unknown sub claims the email, either by linking or by creating an
	// account, so Google must vouch for it.
	user, err := s.Repo.GetByGoogleSub(ctx, p.Sub)
	if errors.Is(err, ErrNotFound) {
		if !p.EmailVerified {
			return Session{}, ErrEmailUnverified
		}
		user, err = s.Repo.GetByEmail(ctx, email)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = User{
			ID:         uuid.NewString(),
			Name:       name,
			Email:      email,
			GoogleSub:  p.Sub,
			PictureURL: p.Picture,
			Role:       RoleUser,
			IsActive:   true,
			LastLogin:  &now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Repo.Create(ctx, user); err != nil {
			return Session{}, err
		}
		return s.issue(user)
	case err != nil:
		return Session{}, err
	}

	if !user.IsActive {
		return Session{}, ErrInactive
	}
	user.GoogleSub = p.Sub
	if p.Picture != "" {
		user.PictureURL = p.Picture
	}
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.Repo.Update(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issue(user)
}
