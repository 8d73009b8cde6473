package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kidlab/study-booking/internal/config"
)

// recordingWriter tees the response into a buffer (up to limit bytes)
// while streaming it to the client, so a successful response can be
// stored after the handler returns.
type recordingWriter struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	written int64
	limit   int64
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.limit <= 0 {
		w.buf.Write(b)
	} else if remain := w.limit - w.written; remain > 0 {
		if int64(len(b)) <= remain {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:remain])
		}
	}
	w.written += int64(len(b))
	return w.ResponseWriter.Write(b)
}

// cacheKey hashes the request attributes selected by the key strategy.
// Hashing keeps arbitrary query strings out of Redis key space.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// Cache entries pack status, headers and body into one value:
// [4 bytes status][4 bytes header length][header JSON][body].

func encodeEntry(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodeEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses to the configured methods in
// Redis, headers and body together, so repeated public slot listings skip
// the database.  Only 200 responses are stored, and entries expire after
// cfg.TTL, which keeps the visible current_bookings counts only briefly
// stale.  A hit is marked with X-Cache: HIT.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKey(cfg, c)
			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				if status, hdr, body, ok := decodeEntry(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			rw := &recordingWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Store only complete 200 responses; a truncated body would
			// replay corrupt on the next hit.
			if rw.status == http.StatusOK && (rw.limit <= 0 || rw.written <= rw.limit) {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					hdr[k] = append([]string(nil), vals...)
				}
				if entry, err := encodeEntry(rw.status, hdr, rw.buf.Bytes()); err == nil {
					_ = rdb.SetEx(context.Background(), key, entry, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}
