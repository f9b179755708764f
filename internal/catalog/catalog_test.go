package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
items:
  - name: Bag of Holding
    category: Wondrous Item
    rarity: Uncommon
    description: |
      Larger on the inside.
    source: DMG
  - name: Vorpal Sword
    category: Weapon
    category_notes: any sword
    rarity: very rare
    attunement: true
    stocked: true
  - name: Mystery Capsule
    category: Trinket
    rarity: common
    gachapon: true
`

func TestParse(t *testing.T) {
	fields, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "Bag of Holding", fields[0].Name)
	assert.Equal(t, domain.RarityUncommon, fields[0].Rarity)
	assert.Equal(t, "Larger on the inside.\n", fields[0].Description)

	assert.Equal(t, domain.RarityVeryRare, fields[1].Rarity)
	assert.True(t, fields[1].Attunement)
	assert.True(t, fields[1].Stocked)
	assert.Equal(t, "any sword", fields[1].CategoryNotes)

	assert.True(t, fields[2].Gachapon)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "empty document", input: "", wantErr: ErrEmptyCatalog},
		{name: "no items", input: "items: []\n", wantErr: ErrEmptyCatalog},
		{
			name:    "bad rarity",
			input:   "items:\n  - name: Orb\n    category: Wondrous Item\n    rarity: mythic\n",
			wantErr: domain.ErrInvalidRarity,
			wantMsg: "item 1 (Orb)",
		},
		{
			name:    "unknown key",
			input:   "items:\n  - name: Orb\n    colour: red\n",
			wantErr: ErrMalformedCatalog,
			wantMsg: "colour",
		},
		{name: "not yaml", input: "items: [", wantErr: ErrMalformedCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	fields, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, fields, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
