package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coffeecorner/queue/common/cache"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/labstack/echo/v4"
)

// IdempotencyHeader is the request header that carries a client retry key
const IdempotencyHeader = "Idempotency-Key"

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type recordingWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key. Only 2xx responses are stored.
func Idempotency(store cache.Cache, ttl time.Duration, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			key := req.Header.Get(IdempotencyHeader)
			if req.Method != http.MethodPost || key == "" {
				return next(c)
			}

			cacheKey := "idem:" + req.URL.Path + ":" + key
			ctx := req.Context()

			if raw, ok, err := store.Get(ctx, cacheKey); err == nil && ok {
				var resp storedResponse
				if err := json.Unmarshal(raw, &resp); err == nil {
					log.Debug("replaying idempotent response", "key", key, "path", req.URL.Path)
					c.Response().Header().Set("Idempotent-Replay", "true")
					return c.Blob(resp.Status, resp.ContentType, resp.Body)
				}
			}

			rec := &recordingWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				return err
			}

			if rec.status < 200 || rec.status >= 300 {
				return nil
			}

			raw, err := json.Marshal(storedResponse{
				Status:      rec.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
			})
			if err != nil {
				return nil
			}
			if err := store.Set(ctx, cacheKey, raw, ttl); err != nil {
				log.Warn("failed to store idempotent response", "key", key, "error", err)
			}
			return nil
		}
	}
}
