package rbac

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/internal/mocks"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/pkg/cache"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

func clock() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }

func setup() (*Service, *mocks.MockPermissionRepository, *metrics.Metrics) {
	repo := new(mocks.MockPermissionRepository)
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	svc := NewService(repo, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, m, clock, logger.Nop())
	return svc, repo, m
}

func perm(id int64, name string) *model.Permission {
	return &model.Permission{Base: model.Base{ID: id}, Name: name}
}

func TestService_PermissionsFor_Caches(t *testing.T) {
	svc, repo, m := setup()
	repo.On("PermissionsForRole", mock.Anything, model.RoleReceptionist).
		Return([]*model.Permission{perm(1, PermRoomsRead), perm(2, PermPatientsRead)}, nil).Once()

	for i := 0; i < 3; i++ {
		names, err := svc.PermissionsFor(context.Background(), model.RoleReceptionist)
		require.NoError(t, err)
		assert.Equal(t, []string{PermRoomsRead, PermPatientsRead}, names)
	}

	repo.AssertNumberOfCalls(t, "PermissionsForRole", 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("memory", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("memory", "miss")))
}

func TestService_Grant_InvalidatesRole(t *testing.T) {
	svc, repo, _ := setup()
	repo.On("PermissionsForRole", mock.Anything, model.RolePsychologist).
		Return([]*model.Permission{perm(1, PermRoomsRead)}, nil).Once()
	repo.On("PermissionsForRole", mock.Anything, model.RolePsychologist).
		Return([]*model.Permission{perm(1, PermRoomsRead), perm(3, PermFinanceRead)}, nil).Once()
	repo.On("GetPermissionByName", mock.Anything, PermFinanceRead).Return(perm(3, PermFinanceRead), nil)
	repo.On("GrantToRole", mock.Anything, mock.MatchedBy(func(rp *model.RolePermission) bool {
		return rp.Role == model.RolePsychologist && rp.PermissionID == 3
	})).Return(nil)

	ok, err := svc.HasPermission(context.Background(), model.RolePsychologist, PermFinanceRead)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Grant(context.Background(), model.RolePsychologist, PermFinanceRead))

	ok, err = svc.HasPermission(context.Background(), model.RolePsychologist, PermFinanceRead)
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestService_Grant_UnknownRoleOrPermission(t *testing.T) {
	svc, repo, _ := setup()
	repo.On("GetPermissionByName", mock.Anything, "nope").Return(nil, errors.NotFound("permission", nil))

	assert.ErrorIs(t, svc.Grant(context.Background(), "superuser", PermRoomsRead), errors.ValidationError)
	assert.ErrorIs(t, svc.Grant(context.Background(), model.RoleAdmin, "nope"), errors.NotFoundError)
	repo.AssertNotCalled(t, "GrantToRole", mock.Anything, mock.Anything)
}

func TestService_PermissionsFor_CacheFailureFallsBack(t *testing.T) {
	repo := new(mocks.MockPermissionRepository)
	c := new(mocks.MockCache)
	svc := NewService(repo, c, time.Minute, nil, clock, logger.Nop())

	c.On("Get", mock.Anything, "rbac:role:admin", mock.Anything).Return(stderrors.New("connection refused"))
	c.On("Set", mock.Anything, "rbac:role:admin", []string{PermUsersManage}, time.Minute).Return(stderrors.New("connection refused"))
	repo.On("PermissionsForRole", mock.Anything, model.RoleAdmin).Return([]*model.Permission{perm(1, PermUsersManage)}, nil)

	names, err := svc.PermissionsFor(context.Background(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{PermUsersManage}, names)
	c.AssertExpectations(t)
}

func TestService_SeedDefaults(t *testing.T) {
	svc, repo, _ := setup()

	ids := map[string]int64{}
	for i, p := range DefaultPermissions {
		ids[p.Name] = int64(i + 1)
	}
	created := map[string]bool{}

	repo.On("GetPermissionByName", mock.Anything, mock.AnythingOfType("string")).
		Return(func(ctx context.Context, name string) (*model.Permission, error) {
			if !created[name] {
				return nil, errors.NotFound("permission", nil)
			}
			return perm(ids[name], name), nil
		}, nil)
	repo.On("CreatePermission", mock.Anything, mock.AnythingOfType("*model.Permission")).
		Run(func(args mock.Arguments) {
			created[args.Get(1).(*model.Permission).Name] = true
		}).Return(nil)
	repo.On("GrantToRole", mock.Anything, mock.AnythingOfType("*model.RolePermission")).Return(nil)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	require.NoError(t, svc.SeedDefaults(context.Background()))

	grants := 0
	for _, names := range DefaultGrants {
		grants += len(names)
	}
	repo.AssertNumberOfCalls(t, "CreatePermission", len(DefaultPermissions))
	repo.AssertNumberOfCalls(t, "GrantToRole", 2*grants)
}

func TestDefaultGrants_ReferenceKnownPermissions(t *testing.T) {
	known := map[string]bool{}
	for _, p := range DefaultPermissions {
		require.NoError(t, model.Validate(p))
		known[p.Name] = true
	}
	for _, role := range model.Roles {
		require.NotEmpty(t, DefaultGrants[role], role)
		for _, name := range DefaultGrants[role] {
			assert.True(t, known[name], "%s grants unknown permission %s", role, name)
		}
	}
	assert.Len(t, DefaultGrants[model.RoleAdmin], len(DefaultPermissions))
}
