package sessionlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Stats summarizes one read pass.
type Stats struct {
	Lines   int
	Entries int
	Skipped int
	// Offset is the byte offset just past the last complete line consumed.
	Offset int64
}

// ReadFile loads every well-formed entry from a finished log. An unterminated
// last line that does not parse counts as malformed.
func ReadFile(path string) ([]Entry, Stats, error) {
	return readFile(path, true)
}

// ReadFileLive is ReadFile for a log that may still be written: an
// unterminated last line that does not parse is left for a follower.
func ReadFileLive(path string) ([]Entry, Stats, error) {
	return readFile(path, false)
}

func readFile(path string, final bool) ([]Entry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()
	var entries []Entry
	stats, err := read(f, final, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, stats, err
}

// Read decodes newline-delimited entries from r and hands each to fn.
// Blank lines are ignored; malformed lines are logged and skipped. A trailing
// line without a newline is only consumed when it parses, so a follower can
// re-read a partially written line later.
func Read(r io.Reader, fn func(Entry) error) (Stats, error) {
	return read(r, false, fn)
}

func read(r io.Reader, final bool, fn func(Entry) error) (Stats, error) {
	var stats Stats
	physical := 0
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		complete := len(line) > 0 && line[len(line)-1] == '\n'
		if len(line) > 0 {
			physical++
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) == 0 {
				if complete {
					stats.Offset += int64(len(line))
				}
			} else {
				var e Entry
				if uerr := json.Unmarshal(trimmed, &e); uerr != nil {
					if !complete && !final {
						// 可能仍在写入，留给下一轮。
						return stats, nil
					}
					stats.Lines++
					stats.Skipped++
					if complete {
						stats.Offset += int64(len(line))
					}
					entry := log.WithError(uerr).WithField("line", physical)
					if !complete {
						entry = entry.WithField("truncated", true)
					}
					entry.Warn("skipping malformed session log line")
				} else {
					stats.Lines++
					stats.Entries++
					stats.Offset += int64(len(line))
					if ferr := fn(e); ferr != nil {
						return stats, ferr
					}
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("read session log: %w", err)
		}
	}
}
