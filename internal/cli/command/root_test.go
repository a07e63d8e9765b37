package command

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer records requests and answers with a success envelope.
func fakeServer(t *testing.T, data any) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "OK",
			"message": "Success",
			"data":    data,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestSystemHealthCommand(t *testing.T) {
	srv, paths := fakeServer(t, map[string]string{"status": "ok", "version": "dev"})

	err := App().Run([]string{"syncsphere-cli", "-s", srv.URL, "-o", "json", "system", "health"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /health"}, *paths)
}

func TestRecoveryStartCommand(t *testing.T) {
	srv, paths := fakeServer(t, map[string]any{
		"id": "rec_1", "device_id": "dev_1", "status": "pending", "progress": 0,
	})

	err := App().Run([]string{"syncsphere-cli", "-s", srv.URL, "-o", "json",
		"recovery", "start", "--device", "dev_1", "--type", "deleted_files"})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /api/recovery"}, *paths)
}

func TestRecoveryStatusRequiresArgument(t *testing.T) {
	srv, _ := fakeServer(t, nil)

	err := App().Run([]string{"syncsphere-cli", "-s", srv.URL, "recovery", "status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session-id")
}

func TestDeviceActionsHitExpectedPaths(t *testing.T) {
	srv, paths := fakeServer(t, map[string]any{"id": "dev_9", "status": "connected"})

	base := []string{"syncsphere-cli", "-s", srv.URL, "-o", "json"}
	require.NoError(t, App().Run(append(base, "device", "connect", "dev_9")))
	require.NoError(t, App().Run(append(base, "device", "disconnect", "dev_9")))
	require.NoError(t, App().Run(append(base, "device", "delete", "dev_9")))

	assert.Equal(t, []string{
		"POST /api/devices/dev_9/connect",
		"POST /api/devices/dev_9/disconnect",
		"DELETE /api/devices/dev_9",
	}, *paths)
}

func TestAdminDeactivateCommand(t *testing.T) {
	srv, paths := fakeServer(t, map[string]bool{"active": false})

	err := App().Run([]string{"syncsphere-cli", "-s", srv.URL, "-t", "admin-token",
		"admin", "deactivate", "usr_1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /admin/v1/users/usr_1/deactivate"}, *paths)
}
