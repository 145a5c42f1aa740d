package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	megasena "github.com/jhw/go-megasena/pkg/mega-sena"
)

// drawRecord is the on-disk form of a draw
type drawRecord struct {
	ID      int    `json:"id"`
	Date    string `json:"date"`
	Numbers []int  `json:"numbers"`
}

// loadDraws reads draws from a JSON or CSV file, chosen by extension. Rows that fail to
// parse or validate are skipped with a warning, as are repeated draw ids.
func loadDraws(filename string, log *logrus.Entry) ([]megasena.Draw, error) {
	file, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", filename, err)
	}
	defer file.Close()

	var draws []megasena.Draw
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		draws, err = parseJSONDraws(file, log)
	case ".csv":
		draws, err = parseCSVDraws(file, log)
	default:
		return nil, fmt.Errorf("unsupported draws format %q (want .json or .csv)", filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	log.WithFields(logrus.Fields{"file": filename, "draws": len(draws)}).Debug("draws loaded")
	return draws, nil
}

// loadHistory loads a draws file into a validated history
func loadHistory(filename string, log *logrus.Entry) (megasena.History, error) {
	draws, err := loadDraws(filename, log)
	if err != nil {
		return megasena.History{}, err
	}
	return megasena.NewHistory(draws)
}

func parseJSONDraws(r io.Reader, log *logrus.Entry) ([]megasena.Draw, error) {
	var records []drawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	acc := newDrawAccumulator(log)
	for i, rec := range records {
		date, err := parseDate(rec.Date)
		if err != nil {
			acc.skip(i+1, err)
			continue
		}
		acc.add(i+1, megasena.Draw{ID: rec.ID, Date: date, Numbers: rec.Numbers})
	}
	return acc.draws, nil
}

// parseCSVDraws reads a CSV with a header row. The id column is "id" or "concurso", the date
// column "date", "data" or "data do sorteio", and number columns are any whose name contains
// "bola", "dezena" or is n1..n6, ordered by their digits. Without an id column the row
// position is used.
func parseCSVDraws(r io.Reader, log *logrus.Entry) ([]megasena.Draw, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1 // Allow variable field count
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	idCol := findColumn(header, "id", "concurso")
	dateCol := findColumn(header, "date", "data", "data do sorteio")
	numberCols := findNumberColumns(header)
	if dateCol == -1 || len(numberCols) < megasena.TicketSize {
		return nil, fmt.Errorf("required columns not found in CSV header")
	}
	numberCols = numberCols[:megasena.TicketSize]

	acc := newDrawAccumulator(log)
	for row := 1; ; row++ {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			acc.skip(row, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		d, err := parseCSVRecord(record, row, idCol, dateCol, numberCols)
		if err != nil {
			acc.skip(row, err)
			continue
		}
		acc.add(row, d)
	}
	return acc.draws, nil
}

func parseCSVRecord(record []string, row, idCol, dateCol int, numberCols []int) (megasena.Draw, error) {
	last := max(idCol, dateCol)
	for _, col := range numberCols {
		last = max(last, col)
	}
	if len(record) <= last {
		return megasena.Draw{}, fmt.Errorf("expected at least %d fields, got %d", last+1, len(record))
	}

	d := megasena.Draw{ID: row}
	if idCol >= 0 {
		id, err := strconv.Atoi(strings.TrimSpace(record[idCol]))
		if err != nil {
			return megasena.Draw{}, fmt.Errorf("invalid id %q", record[idCol])
		}
		d.ID = id
	}

	date, err := parseDate(record[dateCol])
	if err != nil {
		return megasena.Draw{}, err
	}
	d.Date = date

	for _, col := range numberCols {
		n, err := strconv.Atoi(strings.TrimSpace(record[col]))
		if err != nil {
			return megasena.Draw{}, fmt.Errorf("invalid number %q", record[col])
		}
		d.Numbers = append(d.Numbers, n)
	}
	return d, nil
}

// drawAccumulator collects valid draws and logs the rows it drops
type drawAccumulator struct {
	log   *logrus.Entry
	draws []megasena.Draw
	seen  map[int]bool
}

func newDrawAccumulator(log *logrus.Entry) *drawAccumulator {
	return &drawAccumulator{log: log, seen: make(map[int]bool)}
}

func (a *drawAccumulator) add(row int, d megasena.Draw) {
	if err := megasena.ValidateDraw(d); err != nil {
		a.skip(row, err)
		return
	}
	if a.seen[d.ID] {
		a.skip(row, fmt.Errorf("%w %d", megasena.ErrDuplicateDraw, d.ID))
		return
	}
	a.seen[d.ID] = true
	a.draws = append(a.draws, d)
}

func (a *drawAccumulator) skip(row int, err error) {
	a.log.WithField("row", row).WithError(err).Warn("skipping malformed draw")
}

// saveDraws writes draws as JSON or CSV, chosen by extension
func saveDraws(draws []megasena.Draw, filename string) error {
	// Create directories if they don't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", filename, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		w := csv.NewWriter(file)
		header := []string{"id", "date", "n1", "n2", "n3", "n4", "n5", "n6"}
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		for _, d := range draws {
			row := []string{strconv.Itoa(d.ID), d.Date.Format(time.DateOnly)}
			for _, n := range d.Numbers {
				row = append(row, strconv.Itoa(n))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	default:
		records := make([]drawRecord, len(draws))
		for i, d := range draws {
			records[i] = drawRecord{ID: d.ID, Date: d.Date.Format(time.DateOnly), Numbers: d.Numbers}
		}
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	}
	return nil
}

// parseDate accepts ISO dates and the Brazilian day-first format
func parseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	formats := []string{
		"2006-01-02", // YYYY-MM-DD
		"02/01/2006", // DD/MM/YYYY
		"2/1/2006",   // D/M/YYYY
		time.RFC3339,
	}

	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %q", dateStr)
}

// findColumn returns the index of the first header matching any of the names
func findColumn(header []string, names ...string) int {
	for i, col := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

// findNumberColumns returns the indices of ball columns ordered by the digits in their names
func findNumberColumns(header []string) []int {
	type column struct {
		index, order int
	}
	var cols []column
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, name)
		isNumber := strings.Contains(name, "bola") || strings.Contains(name, "dezena") ||
			(strings.HasPrefix(name, "n") && len(name) > 1 && digits == name[1:])
		if !isNumber {
			continue
		}
		order, _ := strconv.Atoi(digits)
		cols = append(cols, column{index: i, order: order})
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].order < cols[j].order })

	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.index
	}
	return out
}
