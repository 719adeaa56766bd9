package demographics

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const popCSV = `Country Name,Code,1981,1982,1983
Kenya,KEN,17000000,17500000,
Freedonia,FRD,1000,..,1100
`

func TestReadWideCSV(t *testing.T) {
	w, err := ReadWideCSV(context.Background(), strings.NewReader(popCSV), IndPopulation)
	require.NoError(t, err)

	assert.Equal(t, []string{"Freedonia", "Kenya"}, w.Countries())

	recs := Merge([]*Wide{w})
	require.Len(t, recs, 6)

	// Sorted by country, then year.
	assert.Equal(t, "Freedonia", recs[0].Country)
	assert.Equal(t, 1981, recs[0].Year)
	require.NotNil(t, recs[0].Population)
	assert.Equal(t, 1000.0, *recs[0].Population)

	// ".." sentinel and empty cells stay nil.
	assert.Nil(t, recs[1].Population, "Freedonia 1982")
	assert.Nil(t, recs[5].Population, "Kenya 1983")
}

func TestReadWideCSV_HeaderOnly(t *testing.T) {
	// A table with a header but no data rows is valid, even though the parser
	// goroutine may finish (closing its channels) before the header is read.
	for i := 0; i < 100; i++ {
		w, err := ReadWideCSV(context.Background(), strings.NewReader("Country Name,Code,1981\n"), IndGDP)
		require.NoError(t, err)
		assert.Empty(t, w.Countries())
	}
}

func TestReadWideCSV_EmptyInput(t *testing.T) {
	_, err := ReadWideCSV(context.Background(), strings.NewReader(""), IndGDP)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty table")
}

func TestReadWideCSV_NonYearColumnsIgnored(t *testing.T) {
	w, err := ReadWideCSV(context.Background(), strings.NewReader(popCSV), IndPopulation)
	require.NoError(t, err)

	recs := Merge([]*Wide{w})
	for _, r := range recs {
		assert.GreaterOrEqual(t, r.Year, 1981)
		assert.LessOrEqual(t, r.Year, 1983)
	}
}

func TestMerge_MultipleIndicators(t *testing.T) {
	pop, err := ReadWideCSV(context.Background(),
		strings.NewReader("Country Name,1990\nKenya,23000000\n"), IndPopulation)
	require.NoError(t, err)
	gdp, err := ReadWideCSV(context.Background(),
		strings.NewReader("Country Name,1990\nKenya,8.5e9\nUganda,4e9\n"), IndGDP)
	require.NoError(t, err)

	recs := Merge([]*Wide{pop, gdp})
	require.Len(t, recs, 2)

	kenya := recs[0]
	assert.Equal(t, "Kenya", kenya.Country)
	require.NotNil(t, kenya.Population)
	require.NotNil(t, kenya.GDP)
	assert.Equal(t, 8.5e9, *kenya.GDP)

	uganda := recs[1]
	assert.Nil(t, uganda.Population, "population table has no Uganda row")
	require.NotNil(t, uganda.GDP)
}

func TestMerge_Deterministic(t *testing.T) {
	w, err := ReadWideCSV(context.Background(), strings.NewReader(popCSV), IndPopulation)
	require.NoError(t, err)
	assert.Equal(t, Merge([]*Wide{w}), Merge([]*Wide{w}))
}

func TestParseCell(t *testing.T) {
	assert.Nil(t, parseCell(""))
	assert.Nil(t, parseCell(".."))
	assert.Nil(t, parseCell("not a number"))
	require.NotNil(t, parseCell("1,234.5"))
	assert.Equal(t, 1234.5, *parseCell("1,234.5"))
}
