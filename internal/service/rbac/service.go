package rbac

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/cache"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

const cacheKeyPrefix = "rbac:role:"

// Service resolves role permissions. Resolved sets are cached per role and dropped
// whenever a grant for that role changes.
type Service struct {
	repo    repository.PermissionRepository
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	clock   service.Clock
	log     *logger.Logger
}

func NewService(repo repository.PermissionRepository, c cache.Cache, ttl time.Duration, m *metrics.Metrics, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		clock:   clock.OrSystem(),
		log:     log,
	}
}

func (s *Service) CreatePermission(ctx context.Context, in model.NewPermission) (*model.Permission, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	p := in.Build(s.clock())
	if err := s.repo.CreatePermission(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("permission created", "permission", p.Name)
	return p, nil
}

func (s *Service) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// DeletePermission removes a permission and every grant of it.
func (s *Service) DeletePermission(ctx context.Context, id int64) error {
	if err := s.repo.DeletePermission(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, model.Roles...)
	return nil
}

// Grant gives role the named permission. Granting twice is a no-op.
func (s *Service) Grant(ctx context.Context, role model.Role, permission string) error {
	if !role.Valid() {
		return errors.Validation(fmt.Sprintf("unknown role %q", role), nil)
	}

	p, err := s.repo.GetPermissionByName(ctx, permission)
	if err != nil {
		return err
	}
	rp := model.NewRolePermission{Role: role, PermissionID: p.ID}.Build(s.clock())
	if err := s.repo.GrantToRole(ctx, rp); err != nil {
		return err
	}
	s.invalidate(ctx, role)

	s.log.Info("permission granted", "role", string(role), "permission", permission)
	return nil
}

func (s *Service) Revoke(ctx context.Context, role model.Role, permission string) error {
	if !role.Valid() {
		return errors.Validation(fmt.Sprintf("unknown role %q", role), nil)
	}

	p, err := s.repo.GetPermissionByName(ctx, permission)
	if err != nil {
		return err
	}
	if err := s.repo.RevokeFromRole(ctx, role, p.ID); err != nil {
		return err
	}
	s.invalidate(ctx, role)

	s.log.Info("permission revoked", "role", string(role), "permission", permission)
	return nil
}

// PermissionsFor returns the permission names granted to role.
func (s *Service) PermissionsFor(ctx context.Context, role model.Role) ([]string, error) {
	if !role.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown role %q", role), nil)
	}

	var names []string
	err := s.cache.Get(ctx, cacheKeyPrefix+string(role), &names)
	switch {
	case err == nil:
		s.metrics.ObserveCache(s.cache.Name(), true)
		return names, nil
	case !stderrors.Is(err, cache.ErrMiss):
		s.log.Warn("permission cache read failed", "role", string(role), "error", err.Error())
	}
	s.metrics.ObserveCache(s.cache.Name(), false)

	perms, err := s.repo.PermissionsForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	names = make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	if err := s.cache.Set(ctx, cacheKeyPrefix+string(role), names, s.ttl); err != nil {
		s.log.Warn("permission cache write failed", "role", string(role), "error", err.Error())
	}
	return names, nil
}

func (s *Service) HasPermission(ctx context.Context, role model.Role, permission string) (bool, error) {
	names, err := s.PermissionsFor(ctx, role)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == permission {
			return true, nil
		}
	}
	return false, nil
}

// SeedDefaults creates the default permissions and grants. It can be run repeatedly.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for _, in := range DefaultPermissions {
		if err := s.ensurePermission(ctx, in); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", in.Name, err)
		}
	}
	for _, role := range model.Roles {
		for _, name := range DefaultGrants[role] {
			if err := s.Grant(ctx, role, name); err != nil {
				return fmt.Errorf("failed to seed grant %s to %s: %w", name, role, err)
			}
		}
	}

	s.log.Info("default permissions seeded", "permissions", len(DefaultPermissions))
	return nil
}

func (s *Service) ensurePermission(ctx context.Context, in model.NewPermission) error {
	_, err := s.repo.GetPermissionByName(ctx, in.Name)
	if err == nil {
		return nil
	}
	if !errors.IsCode(err, errors.ErrNotFound) {
		return err
	}

	_, err = s.CreatePermission(ctx, in)
	if errors.IsCode(err, errors.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *Service) invalidate(ctx context.Context, roles ...model.Role) {
	keys := make([]string, 0, len(roles))
	for _, r := range roles {
		keys = append(keys, cacheKeyPrefix+string(r))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Error(err, "failed to invalidate permission cache")
	}
}
