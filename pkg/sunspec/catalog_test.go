package sunspec

import (
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sunspecengine/pkg/sunspec/runtime"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 101, 103, 160}, catalog.IDs())

	common, err := catalog.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "common", common.Name)
	require.Len(t, common.Groups, 1)
	assert.Equal(t, runtime.String, common.Groups[0].Points[0].Kind)

	mppt, err := catalog.GetByID(160)
	require.NoError(t, err)
	require.Len(t, mppt.Groups, 2)
	assert.True(t, mppt.Groups[1].Repeating)
	assert.Equal(t, "N", mppt.Groups[1].CountField)
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	model, err := catalog.GetByName("COMMON")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), model.ID)

	_, err = catalog.GetByName("no_such_model")
	assert.True(t, errors.Is(err, runtime.ErrModelNotFound))
}

func TestGetByIDNotFound(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	_, err = catalog.GetByID(9999)
	assert.True(t, errors.Is(err, runtime.ErrModelNotFound))
}

func TestLoadCatalogYAMLDocument(t *testing.T) {
	fsys := fstest.MapFS{
		"model_custom.yaml": {Data: []byte(`
id: 64001
name: vendor_status
groups:
  - name: status
    points:
      - name: Tmp_SF
        type: sunssf
      - name: Tmp
        type: int16
        sf: Tmp_SF
        units: C
`)},
	}
	catalog, err := LoadCatalog(fsys)
	require.NoError(t, err)
	model, err := catalog.GetByID(64001)
	require.NoError(t, err)
	assert.Equal(t, "vendor_status", model.Name)
	assert.Equal(t, "Tmp_SF", model.Groups[0].Points[1].ScaleRef)
}

func TestLoadCatalogRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", `{"name": "x", "groups": []}`},
		{"missing name", `{"id": 7, "groups": []}`},
		{"unknown type tag", `{"id": 7, "name": "x", "groups": [{"name": "g", "points": [{"name": "p", "type": "float32"}]}]}`},
		{"unnamed point", `{"id": 7, "name": "x", "groups": [{"name": "g", "points": [{"type": "uint16"}]}]}`},
		{"string without size", `{"id": 7, "name": "x", "groups": [{"name": "g", "points": [{"name": "p", "type": "string"}]}]}`},
		{"repeating without count", `{"id": 7, "name": "x", "groups": [{"name": "g", "repeating": true, "points": [{"name": "p", "type": "uint16"}]}]}`},
		{"malformed document", `{"id": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"model_bad.json": {Data: []byte(tt.doc)}}
			_, err := LoadCatalog(fsys)
			assert.True(t, errors.Is(err, runtime.ErrSchema), "got %v", err)
		})
	}
}

func TestLoadCatalogIgnoresUnrelatedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md":    {Data: []byte("not a model")},
		"model_1.json": {Data: []byte(`{"id": 1, "name": "common", "groups": []}`)},
	}
	catalog, err := LoadCatalog(fsys)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1}, catalog.IDs())
}
