package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chatrelaygo/internal/auth"
)

type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrAccountInactive = errors.New("account is inactive")
)

type IUserService interface {
	SignUp(ctx context.Context, name, email, password, address, phone string) (*UserDTO, error)
	SignIn(ctx context.Context, email, password string) (*UserDTO, string, error)
	GetUser(ctx context.Context, id string) (*UserDTO, error)
	ListUsers(ctx context.Context, limit, offset int) ([]UserDTO, error)
	SetActive(ctx context.Context, id string, active bool) error

	// FindIdentity is the lookup the connection authenticator uses; it
	// never touches the password column.
	FindIdentity(ctx context.Context, id string) (auth.Identity, error)
}

type userService struct {
	db       *sql.DB
	secret   string
	tokenTTL time.Duration
}

var _ auth.UserLookup = (*userService)(nil)

func NewUserService(db *sql.DB, secret string, tokenTTL time.Duration) IUserService {
	return &userService{db: db, secret: secret, tokenTTL: tokenTTL}
}

func (svc *userService) SignUp(ctx context.Context, name, email, password, address, phone string) (*UserDTO, error) {
	var exists bool
	err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	dto := &UserDTO{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Address:   address,
		Phone:     phone,
		Role:      "user",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	const insQ = `
	  INSERT INTO users (id, name, email, password, address, phone, role, active, created_at)
	       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = svc.db.ExecContext(ctx, insQ,
		dto.ID, dto.Name, dto.Email, string(hash),
		dto.Address, dto.Phone, dto.Role, dto.Active, dto.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// SignIn checks the password and returns the user with a fresh HMAC
// token carrying {id, role}.
func (svc *userService) SignIn(ctx context.Context, email, password string) (*UserDTO, string, error) {
	const q = `SELECT id, name, email, password, coalesce(address,''), coalesce(phone,''),
	                  role, active, created_at
	             FROM users WHERE email = $1`
	dto := &UserDTO{}
	var hash string
	err := svc.db.QueryRowContext(ctx, q, email).Scan(
		&dto.ID, &dto.Name, &dto.Email, &hash,
		&dto.Address, &dto.Phone, &dto.Role, &dto.Active, &dto.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if !dto.Active {
		return nil, "", ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidPassword
	}

	token, err := auth.Sign(svc.secret, dto.ID, dto.Role, svc.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return dto, token, nil
}

func (svc *userService) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	const q = `SELECT id, name, email, coalesce(address,''), coalesce(phone,''),
	                  role, active, created_at
	             FROM users WHERE id = $1`
	dto := &UserDTO{}
	err := svc.db.QueryRowContext(ctx, q, id).Scan(
		&dto.ID, &dto.Name, &dto.Email,
		&dto.Address, &dto.Phone, &dto.Role, &dto.Active, &dto.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (svc *userService) ListUsers(ctx context.Context, limit, offset int) ([]UserDTO, error) {
	if limit == 0 {
		limit = 10
	}
	const q = `SELECT id, name, email, coalesce(address,''), coalesce(phone,''),
	                  role, active, created_at
	             FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := svc.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]UserDTO, 0, limit)
	for rows.Next() {
		var u UserDTO
		if err := rows.Scan(&u.ID, &u.Name, &u.Email,
			&u.Address, &u.Phone, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (svc *userService) SetActive(ctx context.Context, id string, active bool) error {
	res, err := svc.db.ExecContext(ctx,
		`UPDATE users SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (svc *userService) FindIdentity(ctx context.Context, id string) (auth.Identity, error) {
	const q = `SELECT id, email, name, role, active FROM users WHERE id = $1`
	var identity auth.Identity
	err := svc.db.QueryRowContext(ctx, q, id).Scan(
		&identity.UserID, &identity.Email, &identity.Name, &identity.Role, &identity.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Identity{}, ErrUserNotFound
	}
	if err != nil {
		return auth.Identity{}, err
	}
	return identity, nil
}
