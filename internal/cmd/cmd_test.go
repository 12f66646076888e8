package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/config"
	"tempo/internal/domain"
)

func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var cli CLI
	var out bytes.Buffer
	cli.SetOutput(&out)
	cli.SetSettings(&config.Settings{})
	defer cli.Close()

	parser, err := kong.New(&cli,
		kong.Name("tempo"),
		kong.Vars{"version": "test"},
		kong.Bind(&cli),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(append([]string{"--db-path", dbPath}, args...))
	if err != nil {
		return "", err
	}

	err = ctx.Run()
	return out.String(), err
}

func newDBPath(t *testing.T) string {
	t.Helper()
	t.Setenv("TEMPO_HOME", t.TempDir())
	t.Setenv("TEMPO_DB_PATH", "")
	t.Setenv("TEMPO_DEBUG", "")
	return filepath.Join(t.TempDir(), "tempo.db")
}

func TestActivitiesAddAndList(t *testing.T) {
	db := newDBPath(t)

	out, err := runCLI(t, db, "activities", "add", "Website", "12.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity 'Website' created with id 1")

	out, err = runCLI(t, db, "activities", "list", "--format", "json")
	require.NoError(t, err)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Website", listed[0]["name"])
	assert.Equal(t, 12.5, listed[0]["remaining_hours"])

	out, err = runCLI(t, db, "activities", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "REMAINING")
}

func TestActivitiesSetFinalizeHidesFromDefaultList(t *testing.T) {
	db := newDBPath(t)

	_, err := runCLI(t, db, "activities", "add", "Website", "2")
	require.NoError(t, err)

	out, err := runCLI(t, db, "activities", "set", "1", "--finalize", "--price", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity 1 updated")

	out, err = runCLI(t, db, "activities", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No activities found")

	out, err = runCLI(t, db, "activities", "list", "--finalized", "all", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"price_per_hour": 30`)
}

func TestActivitiesSetRejectsConflictingFlags(t *testing.T) {
	db := newDBPath(t)

	_, err := runCLI(t, db, "activities", "set", "1", "--finalize", "--reopen")
	assert.Error(t, err)
}

func TestTimerFlowThroughCLI(t *testing.T) {
	db := newDBPath(t)

	_, err := runCLI(t, db, "activities", "add", "Website", "4")
	require.NoError(t, err)
	out, err := runCLI(t, db, "tasks", "add", "1", "Design")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 'Design' created with id 1")

	out, err = runCLI(t, db, "entries", "start", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Timer 1")

	_, err = runCLI(t, db, "entries", "start", "1")
	assert.ErrorIs(t, err, domain.ErrEntryAlreadyRunning)

	out, err = runCLI(t, db, "entries", "active", "1", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"time_entry_id": 1`)

	out, err = runCLI(t, db, "entries", "stop", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "stopped")

	_, err = runCLI(t, db, "entries", "stop", "1")
	assert.ErrorIs(t, err, domain.ErrEntryAlreadyStopped)

	out, err = runCLI(t, db, "entries", "list", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "DURATION")

	out, err = runCLI(t, db, "activities", "view", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Remaining")
}

func TestTasksRenameCloseAndList(t *testing.T) {
	db := newDBPath(t)

	_, err := runCLI(t, db, "activities", "add", "Website", "4")
	require.NoError(t, err)
	_, err = runCLI(t, db, "tasks", "add", "1", "Design")
	require.NoError(t, err)

	out, err := runCLI(t, db, "tasks", "rename", "1", "Review")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed to 'Review'")

	out, err = runCLI(t, db, "tasks", "close", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "closed at")

	_, err = runCLI(t, db, "entries", "start", "1")
	assert.ErrorIs(t, err, domain.ErrTaskClosed)

	out, err = runCLI(t, db, "tasks", "list", "1", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"closed": true`)
}

func TestActivitiesDel_CancelledByConfirmation(t *testing.T) {
	db := newDBPath(t)

	original := confirmFunc
	t.Cleanup(func() { confirmFunc = original })
	confirmFunc = func(title, description string) (bool, error) { return false, nil }

	_, err := runCLI(t, db, "activities", "add", "Website", "1")
	require.NoError(t, err)

	out, err := runCLI(t, db, "activities", "del", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	_, err = runCLI(t, db, "activities", "view", "1")
	assert.NoError(t, err)
}

func TestActivitiesDel_Force(t *testing.T) {
	db := newDBPath(t)

	_, err := runCLI(t, db, "activities", "add", "Website", "1")
	require.NoError(t, err)
	_, err = runCLI(t, db, "tasks", "add", "1", "Design")
	require.NoError(t, err)

	out, err := runCLI(t, db, "activities", "del", "1", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = runCLI(t, db, "tasks", "del", "1", "-f")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSettingsMeta_JSON(t *testing.T) {
	db := newDBPath(t)

	out, err := runCLI(t, db, "settings", "meta", "--format", "json")
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Contains(t, parsed["settings_file"], "settings.json")
	assert.Contains(t, parsed["format"], "addr")
}

func TestContainer_HandlerServesHealth(t *testing.T) {
	container, err := NewContainer(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)
	defer container.Close()

	rec := httptest.NewRecorder()
	container.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
