package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, log: log}
}

// Create crea un usuario: hashea la contraseña con bcrypt y persiste.
func (uc *UserUseCase) Create(in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case entity.RoleAdmin, entity.RoleSupervisor, entity.RoleOperario:
	case "":
		role = entity.RoleOperario
	default:
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("usuario creado")
	return toUserResponse(user), nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(limit, offset int) ([]dto.UserResponse, error) {
	list, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
