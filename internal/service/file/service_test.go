package file

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) FileService {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	return NewFileService(local)
}

func TestUploadReportExport(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	key, err := svc.UploadReportExport(ctx, "user-1", strings.NewReader(`"a"`), "attendance_report_daily_20250115T100000Z.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "reports/user-1/attendance_report_daily_20250115T100000Z.csv", key)

	url, err := svc.GetFileURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/"+key, url)
}

func TestUploadReportExport_DoesNotOverwrite(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	name := "attendance_report_weekly_20250115T100000Z.xlsx"

	first, err := svc.UploadReportExport(ctx, "user-1", strings.NewReader("1"), name, "application/octet-stream")
	require.NoError(t, err)
	second, err := svc.UploadReportExport(ctx, "user-1", strings.NewReader("2"), name, "application/octet-stream")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, ".xlsx"))
	assert.True(t, strings.HasPrefix(second, "reports/user-1/attendance_report_weekly_20250115T100000Z_"))
}

func TestUploadReportExport_RejectsOtherTypes(t *testing.T) {
	svc := newService(t)

	_, err := svc.UploadReportExport(context.Background(), "user-1", strings.NewReader("x"), "notes.txt", "text/plain")
	assert.Error(t, err)
}

func TestUploadReportExport_StripsDirectories(t *testing.T) {
	svc := newService(t)

	key, err := svc.UploadReportExport(context.Background(), "user-1", strings.NewReader("x"), "../../evil.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "reports/user-1/evil.csv", key)

	require.NoError(t, svc.DeleteFile(context.Background(), key))
}

func TestPruneReportExports(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	key, err := svc.UploadReportExport(ctx, "user-1", strings.NewReader(`"a"`), "report.csv", "text/csv")
	require.NoError(t, err)

	removed, err := svc.PruneReportExports(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = svc.PruneReportExports(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{key}, removed)
}
