package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.ChariotRepository = (*ChariotRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el repo.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un usuario. El username es único.
func (r *UserRepo) Create(user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// Update actualiza los atributos del usuario.
func (r *UserRepo) Update(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

// List lista usuarios por username.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.User
	for _, u := range r.store.users {
		copied := *u
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Username < matches[j].Username })
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// ChariotRepo implementación en memoria de ChariotRepository.
type ChariotRepo struct {
	store *Store
}

// NewChariotRepository construye el repo.
func NewChariotRepository(store *Store) *ChariotRepo {
	return &ChariotRepo{store: store}
}

// Create persiste un equipo de manutención.
func (r *ChariotRepo) Create(chariot *entity.Chariot) error {
	if chariot.ID == "" {
		chariot.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.chariots {
		if c.Code == chariot.Code {
			return domain.ErrDuplicate
		}
	}
	copied := *chariot
	r.store.chariots[chariot.ID] = &copied
	return nil
}

// GetByID obtiene un equipo por ID.
func (r *ChariotRepo) GetByID(id string) (*entity.Chariot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.chariots[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

// Update actualiza la disponibilidad.
func (r *ChariotRepo) Update(chariot *entity.Chariot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.chariots[chariot.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *chariot
	r.store.chariots[chariot.ID] = &copied
	return nil
}

// List lista equipos por código.
func (r *ChariotRepo) List(limit, offset int) ([]*entity.Chariot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.Chariot
	for _, c := range r.store.chariots {
		copied := *c
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Code < matches[j].Code })
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}
