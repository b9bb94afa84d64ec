package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes run history to a rotating log file. Process steps are also
// echoed to the console writer so the user can follow a run.
//
// All methods are safe on a nil *Logger, which discards everything.
type Logger struct {
	mu            sync.Mutex
	logger        *log.Logger
	closer        io.Closer
	console       io.Writer
	jsonMode      bool
	correlationID string
}

// NewLogger creates a logger backed by a lumberjack rotated file at path.
// An empty path logs to the console writer only.
func NewLogger(path string, jsonMode bool) *Logger {
	l := &Logger{console: os.Stdout, jsonMode: jsonMode}
	if path == "" {
		l.logger = log.New(io.Discard, "", log.LstdFlags)
		return l
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	logFile := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	l.logger = log.New(logFile, "", log.LstdFlags)
	l.closer = logFile
	return l
}

// NewWriterLogger logs to w instead of a file. Used by tests and by callers
// that already own an output sink.
func NewWriterLogger(w io.Writer, console io.Writer, jsonMode bool) *Logger {
	if console == nil {
		console = io.Discard
	}
	return &Logger{logger: log.New(w, "", log.LstdFlags), console: console, jsonMode: jsonMode}
}

// SetConsole replaces the writer used for process steps.
func (w *Logger) SetConsole(console io.Writer) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if console == nil {
		console = io.Discard
	}
	w.console = console
}

// SetCorrelationID tags every subsequent record, typically with the run id.
func (w *Logger) SetCorrelationID(id string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.correlationID = id
}

// Close closes the log file, if any.
func (w *Logger) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *Logger) write(level, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": level, "msg": message, "cid": w.correlationID})
		return
	}
	if w.correlationID != "" {
		w.logger.Printf("[%s] %s", w.correlationID, message)
		return
	}
	w.logger.Print(message)
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	if w == nil {
		return
	}
	w.write("info", message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	if w == nil {
		return
	}
	w.write("info", fmt.Sprintf(format, v...))
}

func (w *Logger) LogError(err error) {
	if w == nil || err == nil {
		return
	}
	w.write("error", "Error: "+err.Error())
}

// LogProcessStep logs the current pipeline step and prints it to the console.
func (w *Logger) LogProcessStep(step string) {
	if w == nil {
		return
	}
	w.write("info", "Process Step: "+step)
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.console, step)
}
