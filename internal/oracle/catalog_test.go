package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_CarriesEveryCanonicalCard(t *testing.T) {
	catalog := DefaultCatalog()

	assert.Equal(t, 10, catalog.Len())
	assert.Empty(t, catalog.MissingCanonical())
	assert.Equal(t, CardCosmicMessenger, catalog.First().Name)

	for i, card := range catalog.Cards() {
		assert.Equal(t, i+1, card.ID)
		assert.NotEmpty(t, card.Message, card.Name)
		assert.NotEmpty(t, card.Element, card.Name)
	}
}

func TestDefaultCatalog_ParsedOnce(t *testing.T) {
	assert.Same(t, DefaultCatalog(), DefaultCatalog())
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	catalog := DefaultCatalog()

	card, ok := catalog.Lookup(CardSolarWind)
	require.True(t, ok)
	require.NotEmpty(t, card.Keywords)
	card.Keywords[0] = "mutated"
	card.Message = "mutated"

	again, _ := catalog.Lookup(CardSolarWind)
	assert.NotEqual(t, "mutated", again.Keywords[0])
	assert.NotEqual(t, "mutated", again.Message)

	cards := catalog.Cards()
	cards[0].Name = "mutated"
	assert.Equal(t, CardCosmicMessenger, catalog.First().Name)
}

func TestNewCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cards   []Card
		wantErr error
	}{
		{name: "empty", cards: nil, wantErr: ErrEmptyCatalog},
		{name: "unnamed", cards: []Card{{ID: 1}}, wantErr: ErrUnnamedCard},
		{name: "duplicate", cards: []Card{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}}, wantErr: ErrDuplicateCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.cards)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantLen int
	}{
		{
			name: "minimal catalog",
			doc: `
cards:
  - id: 1
    name: The Interstellar Journey
  - id: 2
    name: Bonus Card
    color: "#112233"
`,
			wantLen: 2,
		},
		{
			name:    "empty document",
			doc:     "",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "missing cards",
			doc:     "version: 1\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "no cards",
			doc:     "cards: []\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "card without id",
			doc:     "cards:\n  - name: Nameless\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "unknown element",
			doc:     "cards:\n  - id: 1\n    name: A\n    element: plasma\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "bad color",
			doc:     "cards:\n  - id: 1\n    name: A\n    color: red\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "duplicate names pass the schema but not the catalog",
			doc:     "cards:\n  - id: 1\n    name: A\n  - id: 2\n    name: A\n",
			wantErr: ErrDuplicateCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := LoadCatalog([]byte(tt.doc))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, catalog)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, catalog.Len())
		})
	}
}

func TestLoadCatalog_MalformedYAML(t *testing.T) {
	_, err := LoadCatalog([]byte("cards: [\n"))
	assert.Error(t, err)
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cards:\n  - id: 3\n    name: The Solar Wind\n"), 0o600))

	catalog, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())
	assert.Len(t, catalog.MissingCanonical(), 9)
	assert.NotContains(t, catalog.MissingCanonical(), CardSolarWind)

	_, err = LoadCatalogFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
