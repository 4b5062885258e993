package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

type userRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储
// 用户名与邮箱按不区分大小写的方式唯一
func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func cloneUser(u user.User) *user.User {
	u.Roles = slices.Clone(u.Roles)
	return &u
}

// checkUnique 检查用户名/邮箱冲突，selfID为正在更新的用户
func (r *userRepository) checkUnique(u *user.User, selfID string) error {
	for id, other := range r.store.users {
		if id == selfID {
			continue
		}
		if strings.EqualFold(other.Username, u.Username) {
			return user.ErrUsernameDuplicate
		}
		if u.Email != "" && strings.EqualFold(other.Email, u.Email) {
			return user.ErrEmailDuplicate
		}
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.exec(ctx, func() error {
		if err := r.checkUnique(u, ""); err != nil {
			return err
		}
		r.store.writeUsers()[u.ID] = *cloneUser(*u)
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var found *user.User
	err := r.store.exec(ctx, func() error {
		u, ok := r.store.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		found = cloneUser(u)
		return nil
	})
	return found, err
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	result := make(map[string]*user.User, len(ids))
	err := r.store.exec(ctx, func() error {
		for _, id := range ids {
			if u, ok := r.store.users[id]; ok {
				result[id] = cloneUser(u)
			}
		}
		return nil
	})
	return result, err
}

func (r *userRepository) findBy(ctx context.Context, match func(user.User) bool) (*user.User, error) {
	var found *user.User
	err := r.store.exec(ctx, func() error {
		for _, u := range r.store.users {
			if match(u) {
				found = cloneUser(u)
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return found, err
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findBy(ctx, func(u user.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findBy(ctx, func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*user.User, error) {
	var result []*user.User
	err := r.store.exec(ctx, func() error {
		for _, u := range r.store.users {
			if u.HasRole(role) {
				result = append(result, cloneUser(u))
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, err
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	return r.store.exec(ctx, func() error {
		if _, ok := r.store.users[u.ID]; !ok {
			return user.ErrUserNotFound
		}
		if err := r.checkUnique(u, u.ID); err != nil {
			return err
		}
		u.UpdatedAt = time.Now()
		r.store.writeUsers()[u.ID] = *cloneUser(*u)
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.store.exec(ctx, func() error {
		if _, ok := r.store.users[id]; !ok {
			return user.ErrUserNotFound
		}
		delete(r.store.writeUsers(), id)
		return nil
	})
}
