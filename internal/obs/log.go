package obs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	sinkMu sync.Mutex
	sinks  []io.Writer

	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared structured logger. Every line it emits is written
// to stdout plus any sinks registered with AddSink.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(&fanout{}, "", 0)
	})
	return logger
}

// AddSink registers an additional log destination. The same JSON line goes to
// every configured sink; this replaces hardwired channel pairs with a list.
func AddSink(w io.Writer) {
	if w == nil {
		return
	}
	sinkMu.Lock()
	sinks = append(sinks, w)
	sinkMu.Unlock()
}

// ResetSinksForTests drops all registered sinks. Only intended for test use.
func ResetSinksForTests() {
	sinkMu.Lock()
	sinks = nil
	sinkMu.Unlock()
}

type fanout struct{}

func (fanout) Write(p []byte) (int, error) {
	sinkMu.Lock()
	targets := make([]io.Writer, 0, len(sinks)+1)
	targets = append(targets, os.Stdout)
	targets = append(targets, sinks...)
	sinkMu.Unlock()

	for _, w := range targets {
		_, _ = w.Write(p)
	}
	return len(p), nil
}

// Info emits a structured JSON log line at info level.
func Info(msg string, fields map[string]any) {
	emit("info", msg, "", fields)
}

// Error emits a structured JSON log line at error level with the underlying
// error message attached. Full detail stays in the logs; callers are expected
// to surface only generic failures.
func Error(msg string, err error, fields map[string]any) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	emit("error", msg, detail, fields)
}

func emit(level, msg, detail string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	if detail != "" {
		entry["error"] = detail
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
