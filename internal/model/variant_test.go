package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    ModelVariant
		wantErr bool
	}{
		{input: "bert", want: VariantBERT},
		{input: " Hybrid ", want: VariantHybrid},
		{input: "COLLABORATIVE", want: VariantCollaborative},
		{input: "content", want: VariantContent},
		{input: "transformer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModelVariant(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelVariant_NextCyclesAll(t *testing.T) {
	seen := map[ModelVariant]bool{}
	v := DefaultVariant
	for range ModelVariants {
		seen[v] = true
		v = v.Next()
	}
	assert.Len(t, seen, len(ModelVariants))
	assert.Equal(t, DefaultVariant, v)
}

func TestRecommendCounts(t *testing.T) {
	for _, n := range []int{5, 10, 15, 20} {
		assert.True(t, ValidRecommendCount(n), n)
	}
	assert.False(t, ValidRecommendCount(7))
	assert.False(t, ValidRecommendCount(0))

	assert.Equal(t, 15, NextRecommendCount(10))
	assert.Equal(t, 5, NextRecommendCount(20))
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, f)

	f, err = ParseExportFormat("DOCX")
	require.NoError(t, err)
	assert.Equal(t, "docx", f.Extension())

	_, err = ParseExportFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, "application/pdf", ExportFormatPDF.ContentType())
}

func TestExportJob_Personalized(t *testing.T) {
	assert.False(t, ExportJob{SubjectID: "home_user"}.Personalized())
	assert.True(t, ExportJob{SubjectID: "U1", Variant: VariantBERT}.Personalized())
}
