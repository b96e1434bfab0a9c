package sim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvHeader is the fixed column order of the persisted event log.
// This file is the sole artifact exchanged with external visualization
// and reporting components.
var csvHeader = []string{
	"case_id", "activity", "operation_id",
	"timestamp_start", "timestamp_end", "resource",
	"is_rework", "rework_count",
	"wait_time_minutes", "cycle_time_minutes",
}

// WriteCSV persists the log to path in canonical order. Floats are
// written with the shortest exact representation so a write/read
// round-trip reproduces identical values.
func WriteCSV(log EventLog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating event log file: %w", err)
	}
	defer f.Close()

	log.Sort()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing event log header: %w", err)
	}
	for _, ev := range log {
		row := []string{
			ev.CaseID,
			ev.Activity,
			ev.OperationID,
			formatFloat(ev.Start),
			formatFloat(ev.End),
			ev.Station,
			strconv.FormatBool(ev.IsRework),
			strconv.Itoa(ev.ReworkCount),
			formatFloat(ev.WaitMinutes),
			formatFloat(ev.CycleMinutes),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing event log row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing event log: %w", err)
	}
	return nil
}

// ReadCSV loads a persisted event log. The load is strict: a wrong
// header, an unparsable field, or an event ending before it starts
// aborts the whole load rather than emitting partial statistics.
func ReadCSV(path string) (EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening event log file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading event log header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var log EventLog
	for line := 2; ; line++ {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading event log line %d: %w", line, err)
		}
		ev, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("event log line %d: %w", line, err)
		}
		log = append(log, ev)
	}
	log.Sort()
	return log, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("event log header has %d columns, want %d", len(header), len(csvHeader))
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return fmt.Errorf("event log column %d is %q, want %q", i+1, header[i], name)
		}
	}
	return nil
}

func parseRow(row []string) (Event, error) {
	start, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad timestamp_start %q: %w", row[3], err)
	}
	end, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad timestamp_end %q: %w", row[4], err)
	}
	if end < start {
		return Event{}, fmt.Errorf("timestamp_end %s before timestamp_start %s", row[4], row[3])
	}
	isRework, err := strconv.ParseBool(row[6])
	if err != nil {
		return Event{}, fmt.Errorf("bad is_rework %q: %w", row[6], err)
	}
	reworkCount, err := strconv.Atoi(row[7])
	if err != nil {
		return Event{}, fmt.Errorf("bad rework_count %q: %w", row[7], err)
	}
	wait, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad wait_time_minutes %q: %w", row[8], err)
	}
	cycle, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad cycle_time_minutes %q: %w", row[9], err)
	}
	return Event{
		CaseID:       row[0],
		Activity:     row[1],
		OperationID:  row[2],
		Start:        start,
		End:          end,
		Station:      row[5],
		IsRework:     isRework,
		ReworkCount:  reworkCount,
		WaitMinutes:  wait,
		CycleMinutes: cycle,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
