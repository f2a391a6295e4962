package db

import (
	"bytes"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const sessionKey = "db.session"

// bufferedWriter holds the handler's response back until the
// surrounding transaction has committed, so a client never sees a
// success status for data that was rolled back.
type bufferedWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *bufferedWriter) flush() error {
	if w.status == 0 {
		return nil
	}
	w.ResponseWriter.WriteHeader(w.status)
	_, err := w.ResponseWriter.Write(w.body.Bytes())
	return err
}

// Transactional opens one database transaction per request and stores
// it in the echo context. The transaction commits when the handler
// returns nil and rolls back when it returns an error or panics, so a
// session never outlives the request that acquired it. The handler's
// response is buffered and only written out after a successful commit;
// a commit failure turns into a 500 instead.
func Transactional(gdb *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := gdb.WithContext(c.Request().Context()).Begin()
			if sess.Error != nil {
				log.Printf("failed to begin transaction: %v", sess.Error)
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "database unavailable",
				})
			}

			c.Set(sessionKey, sess)

			res := c.Response()
			buf := &bufferedWriter{ResponseWriter: res.Writer}
			res.Writer = buf

			// discard drops whatever the handler buffered so the
			// error handler can still write a real response.
			discard := func() {
				res.Writer = buf.ResponseWriter
				res.Committed = false
			}

			defer func() {
				if r := recover(); r != nil {
					discard()
					sess.Rollback()
					panic(r)
				}
			}()

			if err := next(c); err != nil {
				discard()
				sess.Rollback()
				return err
			}

			res.Writer = buf.ResponseWriter
			if err := sess.Commit().Error; err != nil {
				log.Printf("failed to commit transaction: %v", err)
				res.Committed = false
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "failed to persist changes",
				})
			}
			return buf.flush()
		}
	}
}

// SessionFromContext returns the request-scoped transaction installed
// by Transactional. It panics if the middleware is missing from the
// route, which is a wiring bug rather than a runtime condition.
func SessionFromContext(c echo.Context) *gorm.DB {
	sess, ok := c.Get(sessionKey).(*gorm.DB)
	if !ok {
		panic("db: no session in request context")
	}
	return sess
}
