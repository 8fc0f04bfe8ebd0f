package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

const legacyDoc = `[
	{"id":10,"numero":1,"nome":"Ana","peso":"2,5","status":false,"valor":100,"data":"2024-06-10"},
	{"id":20,"numero":2,"nome":"Bea","peso":"","status":true,"valor":50.5,"data":"2024-06-11"}
]`

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	legacy := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(legacyDoc), 0o644))
	status, snapshot, err := Inspect(legacy)
	require.NoError(t, err)
	require.Equal(t, LegacySchemaVersion, status.SchemaVersion)
	require.False(t, status.Current())
	require.Equal(t, 2, status.Orders)
	require.Equal(t, int64(20), status.LastID)
	require.Len(t, snapshot.Orders, 2)

	current := filepath.Join(dir, "current.json")
	require.NoError(t, WriteFile(current, sampleSnapshot()))
	status, _, err = Inspect(current)
	require.NoError(t, err)
	require.True(t, status.Current())

	_, _, err = Inspect(filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}

func TestMigrate_RewritesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedidos.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyDoc), 0o644))

	var normalized bool
	before, after, err := Migrate(path, func(s domain.Snapshot) domain.Snapshot {
		normalized = true
		return s
	})
	require.NoError(t, err)
	require.True(t, normalized)
	require.Equal(t, LegacySchemaVersion, before.SchemaVersion)
	require.True(t, after.Current())
	require.Equal(t, 2, after.Orders)

	status, snapshot, err := Inspect(path)
	require.NoError(t, err)
	require.True(t, status.Current())
	require.Equal(t, "Ana", snapshot.Orders[0].ClientName)
	require.Equal(t, "2.5", snapshot.Orders[0].WeightKg.Decimal.String())
}

func TestMigrate_CurrentFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedidos.json")
	require.NoError(t, WriteFile(path, sampleSnapshot()))
	info, err := os.Stat(path)
	require.NoError(t, err)

	before, after, err := Migrate(path, func(domain.Snapshot) domain.Snapshot {
		t.Fatal("normalize must not run for a current file")
		return domain.Snapshot{}
	})
	require.NoError(t, err)
	require.Equal(t, before, after)

	again, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, info.ModTime(), again.ModTime())
}

func TestMigrate_KeepsOriginalWhenRecordsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pedidos.json")
	doc := `[
		{"id":1,"numero":1,"nome":"Ana","peso":"5kg","status":false,"valor":100,"data":"2024-06-10"},
		{"id":2,"numero":2,"nome":"Bea","peso":"","status":false,"valor":0,"data":"2024-06-10"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	before, after, err := Migrate(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, before.Skipped)
	require.Equal(t, 1, after.Orders)

	kept, err := filepath.Glob(filepath.Join(dir, "pedidos.json.legacy-*"))
	require.NoError(t, err)
	require.Len(t, kept, 1)
	raw, err := os.ReadFile(kept[0])
	require.NoError(t, err)
	require.Equal(t, doc, string(raw))

	status, snapshot, err := Inspect(path)
	require.NoError(t, err)
	require.True(t, status.Current())
	require.Equal(t, "peso: 5kg", snapshot.Orders[0].Description)
}
