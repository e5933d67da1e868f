package sessionlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"agentui/internal/clock"
	"agentui/internal/message"
)

// Defaults for Options.
const (
	DefaultDir            = "logs"
	DefaultFileNameFormat = "session-{sessionId}-{timestamp}.jsonl"
)

// ErrNoSession is returned when logging without a session id.
var ErrNoSession = errors.New("sessionlog: empty session id")

// Options 控制会话日志的写入位置与文件名。
type Options struct {
	Enabled        bool
	Dir            string
	FileNameFormat string
	// Verbose echoes every written entry at debug level.
	Verbose bool
	Clock   clock.Clock
}

// DefaultOptions returns enabled logging into ./logs.
func DefaultOptions() Options {
	return Options{Enabled: true, Dir: DefaultDir, FileNameFormat: DefaultFileNameFormat}
}

// Writer appends entries for one session at a time. Switching session id
// closes the current file (writing its session_end) and opens a new one.
type Writer struct {
	mu    sync.Mutex
	opts  Options
	clock clock.Clock

	file      *os.File
	path      string
	lastPath  string
	sessionID string
	count     int
}

// NewWriter returns a writer; nothing touches the disk until the first Log.
func NewWriter(opts Options) *Writer {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.FileNameFormat == "" {
		opts.FileNameFormat = DefaultFileNameFormat
	}
	return &Writer{opts: opts, clock: clock.OrReal(opts.Clock)}
}

// Enabled reports whether Log writes anything.
func (w *Writer) Enabled() bool {
	return w != nil && w.opts.Enabled
}

// Log appends msg to the session's file and syncs it before returning.
func (w *Writer) Log(msg message.Message, sessionID string, metadata map[string]any) error {
	if !w.Enabled() {
		return nil
	}
	if sessionID == "" {
		return ErrNoSession
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil || sessionID != w.sessionID {
		if err := w.closeLocked(); err != nil {
			log.WithError(err).WithField("session_id", w.sessionID).Warn("failed to close previous session log")
		}
		if err := w.openLocked(sessionID); err != nil {
			return err
		}
	}

	payload, err := encodeLine(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	md := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		md[k] = v
	}
	md["messageIndex"] = w.count
	entry := Entry{
		Timestamp:   formatTimestamp(w.clock.Now()),
		SessionID:   sessionID,
		MessageType: msg.Type,
		Message:     trimNewline(payload),
		Metadata:    md,
	}
	if err := w.writeLocked(entry); err != nil {
		return err
	}
	w.count++
	if w.opts.Verbose {
		log.WithFields(map[string]any{
			"type":       msg.Type,
			"session_id": sessionID,
			"index":      md["messageIndex"],
		}).Debug("logged message")
	}
	return nil
}

// Close ends the open session with a session_end entry. Safe to call
// repeatedly and with no open session.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// Path is the file of the open session, empty when none is open.
func (w *Writer) Path() string {
	if w == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// LastPath is the file of the open session or, after Close, the last one written.
func (w *Writer) LastPath() string {
	if w == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path != "" {
		return w.path
	}
	return w.lastPath
}

// SessionID is the id of the open session.
func (w *Writer) SessionID() string {
	if w == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// MessageCount is the number of messages logged in the open session.
func (w *Writer) MessageCount() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *Writer) openLocked(sessionID string) error {
	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	now := w.clock.Now()
	path := filepath.Join(w.opts.Dir, fileName(w.opts.FileNameFormat, sessionID, formatTimestamp(now)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	w.file = f
	w.path = path
	w.sessionID = sessionID
	w.count = 0

	payload, err := placeholderMessage(fmt.Sprintf("Session %s started", sessionID))
	if err != nil {
		return err
	}
	start := formatTimestamp(now)
	if err := w.writeLocked(Entry{
		Timestamp:   start,
		SessionID:   sessionID,
		MessageType: TypeSessionStart,
		Message:     payload,
		Metadata:    map[string]any{"startTime": start},
	}); err != nil {
		return err
	}
	log.WithField("path", path).WithField("session_id", sessionID).Info("session log opened")
	return nil
}

func (w *Writer) closeLocked() error {
	if w.file == nil {
		return nil
	}
	end := formatTimestamp(w.clock.Now())
	payload, err := placeholderMessage(fmt.Sprintf("Session %s ended", w.sessionID))
	if err == nil {
		err = w.writeLocked(Entry{
			Timestamp:   end,
			SessionID:   w.sessionID,
			MessageType: TypeSessionEnd,
			Message:     payload,
			Metadata:    map[string]any{"endTime": end, "totalMessages": w.count},
		})
	}
	closeErr := w.file.Close()

	w.lastPath = w.path
	w.file = nil
	w.path = ""
	w.sessionID = ""
	w.count = 0
	return errors.Join(err, closeErr)
}

func (w *Writer) writeLocked(e Entry) error {
	line, err := encodeLine(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync session log: %w", err)
	}
	return nil
}

// fileName fills the {sessionId} and {timestamp} placeholders. Colons and
// dots in the timestamp become dashes so the name is portable.
func fileName(format, sessionID, timestamp string) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
	name := strings.ReplaceAll(format, "{sessionId}", sanitize(sessionID))
	return strings.ReplaceAll(name, "{timestamp}", stamp)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}

func trimNewline(b []byte) []byte {
	return []byte(strings.TrimSuffix(string(b), "\n"))
}
