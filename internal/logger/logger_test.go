package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_TypePrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with type",
			data: logrus.Fields{
				"component":  "sessionlog",
				"type":       "assistant",
				"caller":     "x.go:1",
				"index":      3,
				"session_id": "s1",
			},
			message: "logged message",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [sessionlog] [type=assistant] logged message index=3 session_id=s1\n",
		},
		{
			name: "without type",
			data: logrus.Fields{
				"component": "replay",
				"caller":    "x.go:1",
				"foo":       "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [replay] hello foo=bar\n",
		},
		{
			name:    "bare",
			data:    logrus.Fields{},
			message: "plain",
			want:    "[2025-01-02T03:04:05Z] [INFO] plain\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if _, ok := tc.data["type"]; ok {
				if strings.Count(got, "type=assistant") != 1 {
					t.Fatalf("expected type to appear only once in output, got: %q", got)
				}
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := map[string]string{
		"/home/u/src/agentui/internal/render/session.go": "internal/render/session.go",
		"/home/u/src/agentui/cmd/agentui/main.go":        "cmd/agentui/main.go",
		"/home/u/src/agentui/main.go":                    "main.go",
		"/tmp/other.go":                                  "other.go",
	}
	for in, want := range cases {
		if got := shortenFilePath(in); got != want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetupFileRedirectsRootLogger(t *testing.T) {
	l := logrus.New()
	SetRoot(l)
	t.Cleanup(func() { SetRoot(nil) })

	path := filepath.Join(t.TempDir(), "nested", "agentui.log")
	closer, resolved, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	l.SetFormatter(PlainFormatter{})
	Named("test").Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[test] written to file") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}
