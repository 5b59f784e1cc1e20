package pgrecords

import (
	"context"
	"testing"
	"time"

	"github.com/BearBump/TrackSheet/internal/models"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPGRecords_RepoFlow(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "tracksheet_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://admin:admin@" + host + ":" + port.Port() + "/tracksheet_test?sslmode=disable"
	st, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	// Повторная инициализация схемы не должна ничего ломать.
	require.NoError(t, st.initSchema(ctx))

	err = st.Put(ctx, []models.Record{
		{TrackingNumber: "75761365043766", Company: "中通", Batch: "5月", Status: "已发出", Origin: models.OriginImported},
		{TrackingNumber: "SF123456789012", Company: "顺丰", Batch: "5月", Origin: models.OriginImported},
	})
	require.NoError(t, err)

	all, err := st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	r, ok, err := st.GetByKey(ctx, "75761365043766")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "中通", r.Company)
	require.False(t, r.UpdatedAt.IsZero())
	firstStamp := r.UpdatedAt

	// Upsert того же ключа: updated_at строго растёт, запись одна.
	r.Status = "已签收"
	r.Origin = models.OriginLocal
	require.NoError(t, st.Put(ctx, []models.Record{r}))

	r2, ok, err := st.GetByKey(ctx, "75761365043766")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "已签收", r2.Status)
	require.Equal(t, models.OriginLocal, r2.Origin)
	require.True(t, r2.UpdatedAt.After(firstStamp))

	all, err = st.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byBatch, err := st.GetByBatch(ctx, "5月")
	require.NoError(t, err)
	require.Len(t, byBatch, 2)

	byCompany, err := st.GetByCompany(ctx, "顺丰")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	_, ok, err = st.GetByKey(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.Clear(ctx))
	all, err = st.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
