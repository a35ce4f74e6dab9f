package logging

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

// requestLog carries one request's LogData from its Start line to its
// Complete or Error line.
type requestLog struct {
	name     string
	data     *LogData
	endTimer func()
}

func startRequest(log *logrus.Logger, name, method, path string) *requestLog {
	data := NewLogData(log)
	data.AddData("method", method)
	data.AddData("path", path)
	log.Infof("Handler.%v.Start", name)
	return &requestLog{name: name, data: data, endTimer: data.AddTiming("duration")}
}

// finish logs Error for a handler error or a 5xx status and Complete otherwise.
func (r *requestLog) finish(status int, err error) {
	r.endTimer()
	r.data.AddData("status", status)
	entry := r.data.Log()
	if err != nil {
		entry = entry.WithError(err)
	}
	if err != nil || status >= http.StatusInternalServerError {
		entry.Errorf("Handler.%v.Error", r.name)
		return
	}
	entry.Infof("Handler.%v.Complete", r.name)
}

// Middleware gives every huma operation its own LogData.
func Middleware(log *logrus.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		name := "unknown"
		if op := ctx.Operation(); op != nil && op.OperationID != "" {
			name = op.OperationID
		}

		req := startRequest(log, name, ctx.Method(), ctx.URL().Path)
		next(huma.WithValue(ctx, logDataKey{}, req.data))
		req.finish(ctx.Status(), nil)
	}
}

// statusWriter remembers the status a plain handler wrote.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// HandlerFunc serves a plain net/http route outside huma with the same
// per-request logging as Middleware. The handler's LogData is also on the
// request context.
func HandlerFunc(name string, log *logrus.Logger, handler func(http.ResponseWriter, *http.Request, *LogData) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := startRequest(log, name, r.Method, r.URL.Path)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		err := handler(sw, r.WithContext(WithLogData(r.Context(), req.data)), req.data)
		req.finish(sw.status, err)
	}
}
