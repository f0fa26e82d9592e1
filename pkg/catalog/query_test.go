package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueryService() *QueryService {
	cat := &Catalog{
		Name:    "test",
		Version: "1",
		Categories: []Category{
			{Name: "actions", Components: []string{"Button"}},
			{Name: "forms", Components: []string{"TextInput"}},
		},
		Components: []Component{
			{
				Name:        "Button",
				Path:        "src/Button.vue",
				Description: "A clickable button",
				Category:    "actions",
				Props:       []Prop{{Name: "variant", Type: "string"}},
				Events:      []Event{{Name: "click"}},
			},
			{
				Name:        "Dialog",
				Path:        "src/Dialog.vue",
				Description: "A modal overlay",
				Events:      []Event{{Name: "close"}},
				Warnings:    []string{"syntax error at line 4"},
			},
			{
				Name:        "TextInput",
				Path:        "src/forms/TextInput.vue",
				Description: "Single line text field",
				Category:    "forms",
				Props:       []Prop{{Name: "placeholder", Type: "string"}},
				Errors:      []string{"Missing keyword value for @event"},
			},
		},
	}
	return NewQueryService(cat, cat.BuildIndex())
}

func TestListCategories(t *testing.T) {
	cats := testQueryService().ListCategories()
	require.Len(t, cats, 2)
	assert.Equal(t, "actions", cats[0].Name)
}

func TestListComponents(t *testing.T) {
	qs := testQueryService()

	assert.Len(t, qs.ListComponents("", ""), 3)

	forms := qs.ListComponents("forms", "")
	require.Len(t, forms, 1)
	assert.Equal(t, "TextInput", forms[0].Name)

	modal := qs.ListComponents("", "MODAL")
	require.Len(t, modal, 1)
	assert.Equal(t, "Dialog", modal[0].Name)

	assert.Empty(t, qs.ListComponents("actions", "dialog"))
	assert.NotNil(t, qs.ListComponents("missing", ""))
}

func TestGetComponent(t *testing.T) {
	qs := testQueryService()

	comp, ok := qs.GetComponent("button")
	require.True(t, ok)
	assert.Equal(t, "Button", comp.Name)

	comp, ok = qs.GetComponent("src/forms/TextInput.vue")
	require.True(t, ok)
	assert.Equal(t, "TextInput", comp.Name)

	_, ok = qs.GetComponent("Table")
	assert.False(t, ok)
}

func TestWithDiagnostics(t *testing.T) {
	var names []string
	for _, comp := range testQueryService().WithDiagnostics() {
		names = append(names, comp.Name)
	}
	assert.Equal(t, []string{"Dialog", "TextInput"}, names)
}

func TestSearchComponents(t *testing.T) {
	qs := testQueryService()

	tests := []struct {
		query  string
		name   string
		reason string
	}{
		{query: "butt", name: "Button", reason: "name"},
		{query: "overlay", name: "Dialog", reason: "description"},
		{query: "placeholder", name: "TextInput", reason: "prop:placeholder"},
		{query: "CLOSE", name: "Dialog", reason: "event:close"},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			results := qs.SearchComponents(tc.query)
			require.Len(t, results, 1)
			assert.Equal(t, tc.name, results[0].Component.Name)
			assert.Equal(t, tc.reason, results[0].MatchReason)
		})
	}

	assert.Nil(t, qs.SearchComponents(""))
	assert.Empty(t, qs.SearchComponents("table"))
}

func TestLoadAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, testQueryService().Catalog.Save(path))

	qs, err := LoadAndQuery(path)
	require.NoError(t, err)
	_, ok := qs.GetComponent("Dialog")
	assert.True(t, ok)

	_, err = LoadAndQuery(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
