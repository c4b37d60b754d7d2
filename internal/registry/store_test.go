package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnreg/internal/dataprocessing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "registry.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleRecord(id string) dataprocessing.CleanRecord {
	return dataprocessing.CleanRecord{
		ID:        id,
		Year:      intPtr(2008),
		SerialID:  intPtr(14),
		Processo:  "12345",
		Nome:      "Maria Silva",
		DataEnt:   "10-01-2008",
		DataAlta:  "25-01-2008",
		Destino:   "domicilio",
		Sexo:      "F",
		DataNasc:  "05-03-1960",
		DataQueim: "08-01-2008",
		Origem:    "domicilio",
		ASCQ:      "30",
		Etiologia: "fogo",
		EnvVMI:    "nao",
		LesaoInal: "nao",
		Idade:     intPtr(47),
		DiasQueim: intPtr(2),
		BAUX:      floatPtr(77.0),
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("814")
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, "814")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCreateDuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleRecord("814")))
	err := store.Create(ctx, sampleRecord("814"))
	assert.Error(t, err)
}

func TestStoreCreateEmptyID(t *testing.T) {
	store := openTestStore(t)

	err := store.Create(context.Background(), sampleRecord("  "))
	assert.Error(t, err)
}

func TestStoreUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleRecord("814")))

	updated := sampleRecord("814")
	updated.Destino = "transferido"
	updated.Idade = nil
	require.NoError(t, store.Update(ctx, "814", updated))

	got, err := store.Get(ctx, "814")
	require.NoError(t, err)
	assert.Equal(t, "transferido", got.Destino)
	assert.Nil(t, got.Idade)
}

func TestStoreUpdateMissing(t *testing.T) {
	store := openTestStore(t)

	err := store.Update(context.Background(), "999", sampleRecord("999"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleRecord("814")))
	require.NoError(t, store.Delete(ctx, "814"))

	_, err := store.Get(ctx, "814")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "814"), ErrNotFound)
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recA := sampleRecord("2456")
	recA.Sexo = "M"
	recB := sampleRecord("814")
	recC := sampleRecord("815")

	require.NoError(t, store.Create(ctx, recA))
	require.NoError(t, store.Create(ctx, recB))
	require.NoError(t, store.Create(ctx, recC))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2456", all[0].ID)
	assert.Equal(t, "814", all[1].ID)
	assert.Equal(t, "815", all[2].ID)

	male, err := store.List(ctx, "M")
	require.NoError(t, err)
	require.Len(t, male, 1)
	assert.Equal(t, "2456", male[0].ID)
}

func TestStoreImportCleanReplacesContents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleRecord("101")))

	batch := []dataprocessing.CleanRecord{
		sampleRecord("814"),
		{ID: "", Nome: "sem identificador"},
		sampleRecord("815"),
	}
	n, err := store.ImportClean(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "814", all[0].ID)
	assert.Equal(t, "815", all[1].ID)

	// The record created before the import is gone.
	_, err = store.Get(ctx, "101")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreImportCleanRoundTripsNulls(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("9912")
	rec.Year = intPtr(1999)
	rec.SerialID = intPtr(12)
	rec.Idade = nil
	rec.DiasQueim = nil
	rec.BAUX = nil

	_, err := store.ImportClean(ctx, []dataprocessing.CleanRecord{rec})
	require.NoError(t, err)

	got, err := store.Get(ctx, "9912")
	require.NoError(t, err)
	assert.Nil(t, got.Idade)
	assert.Nil(t, got.DiasQueim)
	assert.Nil(t, got.BAUX)
	require.NotNil(t, got.Year)
	assert.Equal(t, 1999, *got.Year)
}
