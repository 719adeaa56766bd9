package demographics

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agroclim/cropgrid/internal/fetcher"
	"github.com/agroclim/cropgrid/internal/model"
)

// Indicator names one national time series.
type Indicator string

// The five indicators the pipeline joins against yield summaries.
const (
	IndPopulation Indicator = "population"
	IndGDP        Indicator = "gdp"
	IndIncome     Indicator = "income"
	IndExport     Indicator = "export"
	IndImport     Indicator = "import"
)

// Indicators lists all supported indicators in stable order.
var Indicators = []Indicator{IndPopulation, IndGDP, IndIncome, IndExport, IndImport}

// Wide is one indicator's wide-format table: one row per country, one column
// per year, as distributed by the demographic source.
type Wide struct {
	Indicator Indicator
	// values[country][year]; a nil entry means the cell was empty or
	// unparseable.
	values map[string]map[int]*float64
}

// ReadWideCSV parses a wide-format indicator table. The header row must have
// the country name in the first column; every column whose header parses as a
// year becomes a data column, others are ignored (source files carry extra
// metadata columns such as country codes).
func ReadWideCSV(ctx context.Context, r io.Reader, ind Indicator) (*Wide, error) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var header []string
	select {
	case header = <-headerCh:
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
		// errCh closing first does not mean no header: a tiny table can be
		// fully parsed before we get here. The header channel is buffered, so
		// a non-blocking receive settles it.
		select {
		case header = <-headerCh:
		default:
			return nil, eris.Errorf("demographics: %s: empty table", ind)
		}
	}

	w := newWide(ind)
	yearCols := yearColumns(header)

	for row := range rowCh {
		w.addRow(row, yearCols)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "demographics: %s: read wide table", ind)
	}
	return w, nil
}

// ReadWideXLSX parses a wide-format indicator table from a spreadsheet.
func ReadWideXLSX(path string, sheet string, ind Indicator) (*Wide, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, eris.Wrapf(err, "demographics: %s: read xlsx", ind)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("demographics: %s: empty sheet", ind)
	}

	w := newWide(ind)
	yearCols := yearColumns(rows[0])
	for _, row := range rows[1:] {
		w.addRow(row, yearCols)
	}
	return w, nil
}

func newWide(ind Indicator) *Wide {
	return &Wide{Indicator: ind, values: make(map[string]map[int]*float64)}
}

// yearColumns maps column index → year for every header that parses as one.
func yearColumns(header []string) map[int]int {
	cols := make(map[int]int)
	for i, h := range header {
		if i == 0 {
			continue
		}
		if year, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && year >= 1000 && year <= 9999 {
			cols[i] = year
		}
	}
	return cols
}

func (w *Wide) addRow(row []string, yearCols map[int]int) {
	if len(row) == 0 {
		return
	}
	country := strings.TrimSpace(row[0])
	if country == "" {
		return
	}
	series, ok := w.values[country]
	if !ok {
		series = make(map[int]*float64)
		w.values[country] = series
	}
	for col, year := range yearCols {
		if col >= len(row) {
			continue
		}
		series[year] = parseCell(row[col])
	}
}

// parseCell parses a numeric cell; empty and sentinel values become nil.
func parseCell(s string) *float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "..", "NA", "N/A":
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// Countries lists the raw country names present in the table, sorted.
func (w *Wide) Countries() []string {
	names := make([]string, 0, len(w.values))
	for c := range w.values {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Merge combines per-indicator wide tables into long-format records keyed by
// (country, year). Countries and years are the union across indicators;
// absent cells stay nil. Output order is deterministic (country, then year).
func Merge(tables []*Wide) []model.DemographicRecord {
	type key struct {
		country string
		year    int
	}
	byKey := make(map[key]*model.DemographicRecord)

	for _, w := range tables {
		for country, series := range w.values {
			for year, v := range series {
				k := key{country, year}
				rec, ok := byKey[k]
				if !ok {
					rec = &model.DemographicRecord{Country: country, Year: year}
					byKey[k] = rec
				}
				switch w.Indicator {
				case IndPopulation:
					rec.Population = v
				case IndGDP:
					rec.GDP = v
				case IndIncome:
					rec.Income = v
				case IndExport:
					rec.Export = v
				case IndImport:
					rec.Import = v
				}
			}
		}
	}

	out := make([]model.DemographicRecord, 0, len(byKey))
	for _, rec := range byKey {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].Year < out[j].Year
	})
	return out
}
