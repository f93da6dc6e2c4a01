// Package histo implements simple histograms over fixed dividers, with
// the operations needed to accumulate distance distributions frame by frame.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram. Bin i collects the values v such that
// dividers[i] <= v < dividers[i+1]. Values outside the dividers are ignored.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

// NewData returns a new histogram from the dividers and rawdata given.
// rawdata can be nil, in which case an empty histogram is created.
// If an ID is given, it is set, otherwise the ID is -1.
// It panics if there are less than 2 dividers or they are not sorted.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("histo.NewData: at least 2 dividers are needed")
	}
	if !sort.Float64sAreSorted(dividers) {
		panic("histo.NewData: dividers must be sorted")
	}
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

// NewUniform returns an empty histogram with nbins bins of the same width between lo and hi.
func NewUniform(nbins int, lo, hi float64, ID ...int) *Data {
	if nbins < 1 || hi <= lo {
		panic(fmt.Sprintf("histo.NewUniform: invalid binning %d bins in [%g, %g)", nbins, lo, hi))
	}
	return NewData(floats.Span(make([]float64, nbins+1), lo, hi), nil, ID...)
}

// ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

// Len returns the number of bins.
func (D *Data) Len() int {
	return len(D.histo)
}

// Total returns the number of data points in the histogram.
func (D *Data) Total() int {
	return D.total
}

// String prints a -hopefully- pretty string representation of
// the histogram. The representation uses 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

// bin returns the bin for v, or -1 if v is outside the histogram.
func (D *Data) bin(v float64) int {
	if math.IsNaN(v) || v < D.dividers[0] || v >= D.dividers[len(D.dividers)-1] {
		return -1
	}
	//first divider larger than v
	return sort.Search(len(D.dividers), func(i int) bool { return D.dividers[i] > v }) - 1
}

// AddData adds the given data point(s) to the histogram.
// Points outside the dividers are counted in the total but not in any bin.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		if b := D.bin(v); b >= 0 {
			D.histo[b]++
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// ReHisto replaces the contents of the histogram with the histogram of rawdata.
// rawdata is sorted in place. Points outside the dividers are discarded.
func (D *Data) ReHisto(rawdata []float64) {
	D.normalized = false
	rawdata = D.trim(rawdata)
	D.total = len(rawdata)
	D.histo = stat.Histogram(nil, D.dividers, rawdata, nil)
}

// Accumulate adds the histogram of rawdata to the current counts.
// rawdata is sorted in place. Points outside the dividers are discarded.
// It panics if the histogram is normalized.
func (D *Data) Accumulate(rawdata []float64) {
	if D.normalized {
		panic("histo.Data.Accumulate: can't accumulate on a normalized histogram")
	}
	rawdata = D.trim(rawdata)
	if len(rawdata) == 0 {
		return
	}
	floats.Add(D.histo, stat.Histogram(nil, D.dividers, rawdata, nil))
	D.total += len(rawdata)
}

// trim sorts rawdata and returns the part of it that is inside the dividers.
// stat.Histogram panics on values outside the dividers instead of omitting them.
func (D *Data) trim(rawdata []float64) []float64 {
	sort.Float64s(rawdata)
	maxi := sort.SearchFloat64s(rawdata, D.dividers[len(D.dividers)-1])
	mini := sort.SearchFloat64s(rawdata, D.dividers[0])
	return rawdata[mini:maxi]
}

// Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize divides every bin by the total number of data points.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize reverts Normalize.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

// Scale multiplies every bin by f.
func (D *Data) Scale(f float64) {
	floats.Scale(f, D.histo)
}

// CopyDividers copies the dividers of the histogram to dest, if given and large enough,
// or to a new slice, and returns it.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	copy(d, D.dividers)
	return d
}

// Copy copies the bin values of the histogram.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

// View returns the bin values themselves, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

// Centers returns the center of each bin.
func (D *Data) Centers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	for i := range d {
		d[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return d
}

// Cumulative returns the running sum of the bin values.
func (D *Data) Cumulative(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.CumSum(d, D.histo)
}

// Sum returns the sum of all bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// Add adds the histograms a and b putting the result in the receiver.
// It panics if the dividers of a and b don't match.
func (D *Data) Add(a, b *Data) {
	if !floats.Equal(a.dividers, b.dividers) {
		panic("histo.Data.Add: Dividers must match in added histograms")
	}
	D.dividers = a.CopyDividers(D.dividers)
	if len(D.histo) != len(a.histo) {
		D.histo = make([]float64, len(a.histo))
	}
	floats.AddTo(D.histo, a.histo, b.histo)
	D.total = a.total + b.total
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("histo.Data.UnmarshalJSON: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}
