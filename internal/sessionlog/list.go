package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogFile describes a session log on disk.
type LogFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// ListLogs returns the .jsonl files in dir, newest first. A missing
// directory yields an empty list.
func ListLogs(dir string) ([]LogFile, error) {
	if dir == "" {
		dir = DefaultDir
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list session logs: %w", err)
	}
	var out []LogFile
	for _, it := range items {
		if it.IsDir() || !strings.HasSuffix(it.Name(), ".jsonl") {
			continue
		}
		info, err := it.Info()
		if err != nil {
			continue
		}
		out = append(out, LogFile{
			Path:    filepath.Join(dir, it.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Path > out[j].Path
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// Latest returns the newest log in dir.
func Latest(dir string) (LogFile, error) {
	logs, err := ListLogs(dir)
	if err != nil {
		return LogFile{}, err
	}
	if len(logs) == 0 {
		return LogFile{}, fmt.Errorf("no session logs in %s", dir)
	}
	return logs[0], nil
}
