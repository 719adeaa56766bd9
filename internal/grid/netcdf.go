package grid

import (
	"os"

	"github.com/ctessum/cdf"
	"github.com/rotisserie/eris"
)

// NetCDFOptions names the variable and coordinate axes to read.
type NetCDFOptions struct {
	Var string // gridded variable, e.g. "yield"
	Lon string // longitude axis variable (default "lon")
	Lat string // latitude axis variable (default "lat")
}

// OpenNetCDF reads one 2-D variable plus its two coordinate axis vectors and
// declared missing-value marker from a NetCDF-3 file. The variable may be
// stored in either dimension order; values are returned lon-major.
func OpenNetCDF(path string, opts NetCDFOptions) (*Grid, error) {
	if opts.Lon == "" {
		opts.Lon = "lon"
	}
	if opts.Lat == "" {
		opts.Lat = "lat"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: open %s", path)
	}
	defer func() { _ = f.Close() }()

	nc, err := cdf.Open(f)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: parse netcdf %s", path)
	}

	lon, err := readVector(nc, opts.Lon)
	if err != nil {
		return nil, err
	}
	lat, err := readVector(nc, opts.Lat)
	if err != nil {
		return nil, err
	}

	dims := nc.Header.Dimensions(opts.Var)
	if len(dims) != 2 {
		return nil, eris.Errorf("grid: variable %s has %d dimensions, want 2", opts.Var, len(dims))
	}
	values, err := readValues(nc, opts.Var)
	if err != nil {
		return nil, err
	}

	var lonMajor []float64
	switch {
	case dims[0] == opts.Lon && dims[1] == opts.Lat:
		lonMajor = values
	case dims[0] == opts.Lat && dims[1] == opts.Lon:
		lonMajor = transpose(values, len(lat), len(lon))
	default:
		return nil, eris.Errorf("grid: variable %s has dimensions %v, want [%s %s] in either order",
			opts.Var, dims, opts.Lon, opts.Lat)
	}

	g, err := New(opts.Var, lon, lat, lonMajor)
	if err != nil {
		return nil, err
	}
	if marker, ok := missingMarker(nc, opts.Var); ok {
		g.SetMissing(marker)
	}
	return g, nil
}

// readVector reads a 1-D coordinate axis variable.
func readVector(nc *cdf.File, name string) ([]float64, error) {
	lengths := nc.Header.Lengths(name)
	if len(lengths) != 1 {
		return nil, eris.Errorf("grid: axis %s is not 1-D (lengths %v)", name, lengths)
	}
	return readFloats(nc, name, lengths[0])
}

// readValues reads a 2-D variable in file order.
func readValues(nc *cdf.File, name string) ([]float64, error) {
	lengths := nc.Header.Lengths(name)
	n := 1
	for _, l := range lengths {
		n *= l
	}
	return readFloats(nc, name, n)
}

// readFloats reads n elements of a variable, widening to float64.
func readFloats(nc *cdf.File, name string, n int) ([]float64, error) {
	r := nc.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, eris.Wrapf(err, "grid: read variable %s", name)
	}
	out := make([]float64, 0, n)
	switch vals := buf.(type) {
	case []float64:
		out = append(out, vals...)
	case []float32:
		for _, v := range vals {
			out = append(out, float64(v))
		}
	case []int32:
		for _, v := range vals {
			out = append(out, float64(v))
		}
	case []int16:
		for _, v := range vals {
			out = append(out, float64(v))
		}
	default:
		return nil, eris.Errorf("grid: variable %s has unsupported type %T", name, buf)
	}
	if len(out) != n {
		return nil, eris.Errorf("grid: variable %s: read %d values, want %d", name, len(out), n)
	}
	return out, nil
}

// missingMarker returns the variable's declared missing value, preferring
// missing_value over _FillValue per NetCDF convention.
func missingMarker(nc *cdf.File, name string) (float64, bool) {
	for _, attr := range []string{"missing_value", "_FillValue"} {
		if v, ok := attrFloat(nc.Header.GetAttribute(name, attr)); ok {
			return v, true
		}
	}
	return 0, false
}

func attrFloat(att any) (float64, bool) {
	switch v := att.(type) {
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

// transpose converts lat-major values (rows×cols = nLat×nLon) to lon-major.
func transpose(values []float64, nLat, nLon int) []float64 {
	out := make([]float64, len(values))
	for j := 0; j < nLat; j++ {
		for i := 0; i < nLon; i++ {
			out[i*nLat+j] = values[j*nLon+i]
		}
	}
	return out
}
