package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_FirstMatchWins(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"sejarah_majapahit.txt", "Sejarah"},
		{"wisata_bali.txt", "Wisata"},
		{"budaya_wayang.txt", "Budaya"},
		{"SEJARAH_MATARAM.TXT", "Sejarah"},
		{"catatan_harian.txt", "Lainnya"},
		// rule order decides when multiple keywords appear
		{"sejarah_wisata_candi.txt", "Sejarah"},
		{"wisata_budaya_bali.txt", "Wisata"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename, DefaultCategoryRules))
		})
	}
}

func TestClassify_CustomRules(t *testing.T) {
	rules := []CategoryRule{{Keyword: "kuliner", Label: "Kuliner"}}

	assert.Equal(t, "Kuliner", Classify("kuliner_padang.txt", rules))
	assert.Equal(t, CategoryOther, Classify("sejarah_x.txt", rules))
}

func TestCategories_OrderedWithFallback(t *testing.T) {
	got := Categories(DefaultCategoryRules)

	assert.Equal(t, []string{"Sejarah", "Wisata", "Budaya", "Lainnya"}, got)
}

func TestCategories_DeduplicatesLabels(t *testing.T) {
	rules := []CategoryRule{
		{Keyword: "sejarah", Label: "Sejarah"},
		{Keyword: "histori", Label: "Sejarah"},
	}

	assert.Equal(t, []string{"Sejarah", "Lainnya"}, Categories(rules))
}
