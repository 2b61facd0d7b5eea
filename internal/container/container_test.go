package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Honey822438/RecuirtSys/internal/application/service"
	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func testConfig(driver string) *Config {
	cfg := DefaultConfig()
	cfg.Storage.Driver = driver
	cfg.Admin = AdminConfig{Password: "change-me-now", BcryptCost: bcrypt.MinCost}
	cfg.Workflow.StatsInterval = time.Hour
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(DriverMemory), nil)
	assert.Error(t, err)

	cfg := testConfig("mongo")
	_, err = NewContainer(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown storage driver")

	cfg = testConfig(DriverMemory)
	cfg.Admin.Password = ""
	_, err = NewContainer(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "admin.password")
}

func TestContainer_Drivers(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name      string
		configure func(t *testing.T, cfg *Config)
		driver    string
	}{
		{name: "memory", driver: DriverMemory, configure: func(t *testing.T, cfg *Config) {}},
		{name: "sqlite", driver: DriverSQLite, configure: func(t *testing.T, cfg *Config) {
			cfg.Database.Path = filepath.Join(t.TempDir(), "recruitsys.db")
		}},
		{name: "redis", driver: DriverRedis, configure: func(t *testing.T, cfg *Config) {
			cfg.Redis.URL = "redis://" + mr.Addr()
			cfg.Redis.KeyPrefix = "test-" + t.Name()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(tt.driver)
			tt.configure(t, cfg)

			c, err := NewContainer(cfg, zap.NewNop())
			require.NoError(t, err)
			require.NoError(t, c.Start(ctx))
			assert.True(t, c.Ready())
			assert.Error(t, c.Start(ctx), "second start")

			health := c.Health(ctx)
			assert.True(t, health.Overall, "%+v", health.Components)
			assert.Equal(t, tt.driver, health.Components["storage"].Message)
			require.NoError(t, c.CheckHealth(ctx))

			// The seeded admin can register staff and drive the pipeline
			svc := c.Services()
			admin, err := svc.Employees.ResolveActor(ctx, service.SeedAdminID, entity.RoleAdmin)
			require.NoError(t, err)

			cand, err := svc.Candidates.CreateCandidate(ctx, admin, service.CreateCandidateInput{Name: "Sana Iqbal"})
			require.NoError(t, err)

			_, err = c.WorkflowEngine().RequestTransition(ctx, workflow.TransitionRequest{
				CandidateID: cand.ID,
				Actor:       admin,
				TargetStage: domainwf.StageAwaitingDataflow,
				Payload: workflow.Payload{Documents: []entity.Document{
					{Name: entity.DocPassport, Status: entity.DocumentStatusReceived},
					{Name: entity.DocDiploma, Status: entity.DocumentStatusReceived},
				}},
			})
			require.NoError(t, err)

			history, err := svc.Candidates.GetHistory(ctx, admin, cand.ID)
			require.NoError(t, err)
			assert.Len(t, history, 1)

			require.Eventually(t, func() bool { return c.StatsWorker().Runs() >= 1 }, time.Second, 10*time.Millisecond)
			assert.NotNil(t, c.Registry())
			assert.NotNil(t, c.Metrics())

			require.NoError(t, c.Close())
			assert.False(t, c.Ready())
			assert.Error(t, c.Close())
			assert.Error(t, c.Start(ctx))
		})
	}
}

func TestContainer_SeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(DriverSQLite)
	cfg.Database.Path = filepath.Join(t.TempDir(), "recruitsys.db")

	for i := 0; i < 2; i++ {
		c, err := NewContainer(cfg, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, c.Start(ctx))

		list, err := c.Services().Employees.ListEmployees(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, c.Close())
	}
}

func TestContainer_MetricsDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(DriverMemory)
	cfg.Metrics.Enabled = false

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(ctx))
	defer c.Close()

	assert.Nil(t, c.Registry())
	assert.Nil(t, c.Metrics())
}

func TestContainer_StorageFailure(t *testing.T) {
	cfg := testConfig(DriverRedis)
	cfg.Redis.URL = "redis://127.0.0.1:1"
	cfg.Redis.DialTimeout = 100 * time.Millisecond

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.ErrorContains(t, c.Start(context.Background()), "failed to initialize storage")
	assert.False(t, c.Ready())
	require.NoError(t, c.Close())
}
