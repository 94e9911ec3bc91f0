// Package csvsource loads the collision CSV into a domain.Dataset and
// memoizes loads per row-count cap.
package csvsource

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/observability"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn is returned when the CSV lacks a column every view needs.
var ErrMissingColumn = errors.New("missing required column")

var (
	nanValues = []string{"", "NA", "NaN", "nan", "<nil>"}

	requiredColumns = []string{
		domain.ColumnCrashDate,
		domain.ColumnCrashTime,
		domain.ColumnLatitude,
		domain.ColumnLongitude,
		domain.ColumnOnStreetName,
		domain.ColumnInjuredPersons,
		domain.ColumnInjuredPedestrians,
		domain.ColumnInjuredCyclists,
		domain.ColumnInjuredMotorists,
	}

	dateLayouts = []string{"1/2/2006", "2006-1-2"}
	timeLayouts = []string{"15:04", "15:04:05"}
)

// byteOrderMark is written by Excel and most Windows exports.
const byteOrderMark = "\ufeff"

// Reader reads collision CSV files.
type Reader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewReader creates a Reader.
func NewReader(logger *slog.Logger, metrics *observability.Metrics) *Reader {
	return &Reader{logger: logger, metrics: metrics}
}

// Load reads at most nrows data rows from path, merges crash_date and
// crash_time into date/time, lowercases column labels and drops rows without
// coordinates.
func (r *Reader) Load(ctx context.Context, path string, nrows int) (*domain.Dataset, error) {
	ds, err := r.load(ctx, path, nrows)
	if err != nil {
		r.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	r.metrics.DatasetLoads.WithLabelValues("success").Inc()
	r.metrics.RowsLoaded.Add(float64(ds.Len()))
	r.metrics.RowsDropped.Add(float64(ds.Dropped))
	r.metrics.DatasetRows.Set(float64(ds.Len()))

	r.logger.Info("dataset loaded",
		"path", path,
		"cap", nrows,
		"rows", ds.Len(),
		"dropped_missing_coordinates", ds.Dropped,
	)
	return ds, nil
}

func (r *Reader) load(ctx context.Context, path string, nrows int) (*domain.Dataset, error) {
	if nrows <= 0 {
		return nil, fmt.Errorf("load dataset: row cap must be positive, got %d", nrows)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := readRecords(ctx, f, nrows)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	header := lowercase(records[0])
	if err := checkColumns(header); err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if len(records) == 1 {
		return domain.NewDataset(path, mergedColumns(header), nil, 0), nil
	}

	df, err := normalize(records)
	if err != nil {
		return nil, fmt.Errorf("normalize dataset %s: %w", path, err)
	}

	kept, dropped := rowsWithCoordinates(df)
	columns := df.Names()
	if len(kept) == 0 {
		return domain.NewDataset(path, columns, nil, dropped), nil
	}
	df = df.Subset(kept)
	if df.Err != nil {
		return nil, fmt.Errorf("drop rows without coordinates: %w", df.Err)
	}

	collisions, err := toCollisions(columns, df.Records()[1:])
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return domain.NewDataset(path, columns, collisions, dropped), nil
}

// readRecords reads the header plus at most nrows data rows.
func readRecords(ctx context.Context, src io.Reader, nrows int) ([][]string, error) {
	cr := csv.NewReader(bufio.NewReader(src))

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file: no header row")
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], byteOrderMark)

	records := make([][]string, 0, min(nrows, 1<<16)+1)
	records = append(records, header)
	for len(records) <= nrows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalize builds a string-typed frame with lowercase labels and the date
// and time columns merged into a leading date/time column.
func normalize(records [][]string) (dataframe.DataFrame, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return df, df.Err
	}
	if err := df.SetNames(lowercase(df.Names())...); err != nil {
		return df, err
	}

	dates := df.Col(domain.ColumnCrashDate).Records()
	times := df.Col(domain.ColumnCrashTime).Records()
	merged := make([]string, len(dates))
	for i := range dates {
		merged[i] = datePart(dates[i]) + " " + strings.TrimSpace(times[i])
	}

	rest := df.Drop([]string{domain.ColumnCrashDate, domain.ColumnCrashTime})
	if rest.Err != nil {
		return rest, rest.Err
	}
	out := dataframe.New(series.New(merged, series.String, domain.ColumnDateTime)).CBind(rest)
	return out, out.Err
}

// rowsWithCoordinates returns the indexes of rows whose latitude and
// longitude both parse, and the number of rows that did not.
func rowsWithCoordinates(df dataframe.DataFrame) ([]int, int) {
	lat := df.Col(domain.ColumnLatitude)
	lon := df.Col(domain.ColumnLongitude)
	latNaN, lonNaN := lat.IsNaN(), lon.IsNaN()
	latRec, lonRec := lat.Records(), lon.Records()

	kept := make([]int, 0, df.Nrow())
	for i := range df.Nrow() {
		if latNaN[i] || lonNaN[i] {
			continue
		}
		if _, ok := parseCoordinate(latRec[i]); !ok {
			continue
		}
		if _, ok := parseCoordinate(lonRec[i]); !ok {
			continue
		}
		kept = append(kept, i)
	}
	return kept, df.Nrow() - len(kept)
}

func toCollisions(columns []string, rows [][]string) ([]domain.Collision, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]domain.Collision, 0, len(rows))
	for n, row := range rows {
		ts, err := parseTimestamp(cell(row, domain.ColumnDateTime))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n+1, err)
		}
		lat, _ := parseCoordinate(cell(row, domain.ColumnLatitude))
		lon, _ := parseCoordinate(cell(row, domain.ColumnLongitude))

		out = append(out, domain.Collision{
			ID:        nullable(cell(row, domain.ColumnCollisionID)),
			CrashTime: ts,
			Geo:       domain.Geo{Lat: lat, Lon: lon},
			Borough:   nullable(cell(row, domain.ColumnBorough)),
			OnStreet:  nullable(cell(row, domain.ColumnOnStreetName)),
			Injured: domain.Injuries{
				Persons:     parseCount(cell(row, domain.ColumnInjuredPersons)),
				Pedestrians: parseCount(cell(row, domain.ColumnInjuredPedestrians)),
				Cyclists:    parseCount(cell(row, domain.ColumnInjuredCyclists)),
				Motorists:   parseCount(cell(row, domain.ColumnInjuredMotorists)),
			},
			Raw: row,
		})
	}
	return out, nil
}

// parseTimestamp parses a merged "date time" value as naive wall-clock time,
// stored in UTC so the hour and minute are never shifted.
func parseTimestamp(s string) (time.Time, error) {
	for _, d := range dateLayouts {
		for _, t := range timeLayouts {
			if ts, err := time.ParseInLocation(d+" "+t, s, time.UTC); err == nil {
				return ts, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unparseable %s %q", domain.ColumnDateTime, s)
}

// datePart strips the midnight time some exports append to crash_date,
// as in "2021-04-14T00:00:00.000".
func datePart(s string) string {
	d, _, _ := strings.Cut(strings.TrimSpace(s), "T")
	return d
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCount parses an injured count. Integral floats such as "2.0" are
// accepted; blanks and anything else are nil.
func parseCount(s string) *int {
	if s == "" || isNaN(s) {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}

// nullable maps NaN markers to the empty string.
func nullable(s string) string {
	if isNaN(s) {
		return ""
	}
	return s
}

func isNaN(s string) bool {
	for _, v := range nanValues {
		if s == v {
			return true
		}
	}
	return false
}

func lowercase(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return out
}

func checkColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, c := range requiredColumns {
		if !present[c] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// mergedColumns returns the normalized labels of a header: date/time first,
// crash_date and crash_time removed.
func mergedColumns(header []string) []string {
	out := []string{domain.ColumnDateTime}
	for _, h := range header {
		if h == domain.ColumnCrashDate || h == domain.ColumnCrashTime {
			continue
		}
		out = append(out, h)
	}
	return out
}
