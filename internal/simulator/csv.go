package simulator

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"roomclimate/internal/fetchers"
	"roomclimate/internal/models"
)

// TimestampLayout is the naive timestamp format the loader reads
const TimestampLayout = "2006-01-02T15:04:05"

// Header is the first row of every generated file
var Header = []string{
	fetchers.ColumnTimestamp,
	fetchers.ColumnTemperature,
	fetchers.ColumnHumidity,
	fetchers.ColumnLight,
}

// WriteCSV writes readings in loader format, optionally preceded by the header
func WriteCSV(w io.Writer, readings []models.Reading, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}
	for _, r := range readings {
		record := []string{
			r.Timestamp.Format(TimestampLayout),
			strconv.FormatFloat(r.Temperature, 'f', -1, 64),
			strconv.FormatFloat(r.Humidity, 'f', -1, 64),
			strconv.FormatFloat(r.Light, 'f', 0, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LastTimestamp returns the newest timestamp in a readings file. ok is false
// when the file does not exist or has no data rows.
func LastTimestamp(path string, loc *time.Location) (t time.Time, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	defer f.Close()

	readings, err := fetchers.ParseReadings(bufio.NewReader(f), loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", path, err)
	}
	if len(readings) == 0 {
		return time.Time{}, false, nil
	}
	return readings[len(readings)-1].Timestamp, true, nil
}

// ExtendFile appends readings to path through end, continuing one Interval
// after the file's last timestamp. A missing or empty file starts at origin.
// It returns the number of rows written.
func ExtendFile(path string, g *Generator, origin, end time.Time) (int, error) {
	last, ok, err := LastTimestamp(path, origin.Location())
	if err != nil {
		return 0, err
	}
	from := origin
	if ok {
		from = last.Add(Interval)
	}

	readings := g.Range(from, end)
	if len(readings) == 0 {
		return 0, nil
	}

	info, statErr := os.Stat(path)
	needHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if !needHeader {
		tail := make([]byte, 1)
		if _, err := f.ReadAt(tail, info.Size()-1); err == nil && tail[0] != '\n' {
			if _, err := f.Write([]byte{'\n'}); err != nil {
				return 0, fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	if err := WriteCSV(f, readings, needHeader); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(readings), nil
}
