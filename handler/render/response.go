package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ResponseErrorMessageAsHint internal error msg as hint
var ResponseErrorMessageAsHint bool

func init() {
	v := os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT")
	ResponseErrorMessageAsHint, _ = strconv.ParseBool(v)
}

type wrapResponse struct {
	status int
	header http.Header
	buf    *bytes.Buffer
}

func (w *wrapResponse) Header() http.Header {
	return w.header
}

func (w *wrapResponse) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *wrapResponse) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *wrapResponse) isJsonContent() bool {
	typ := w.header.Get("Content-Type")
	return strings.HasPrefix(typ, "application/json")
}

type dataResponse struct {
	Data json.RawMessage `json:"data,omitempty"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// WrapResponse wrap json responses as {"data": ...}, errors keep the {"code","msg"} layout.
// Internal messages of 5xx errors are only kept as hint.
func WrapResponse(hint bool) func(http.Handler) http.Handler {
	hint = hint || ResponseErrorMessageAsHint

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			wrap := &wrapResponse{
				status: http.StatusOK,
				header: w.Header(),
				buf:    &bytes.Buffer{},
			}

			next.ServeHTTP(wrap, r)

			body := wrap.buf.Bytes()
			if wrap.isJsonContent() {
				body = wrapBody(wrap.status, body, hint)
			}

			w.WriteHeader(wrap.status)
			if _, err := w.Write(body); err != nil {
				logrus.WithError(err).Debugln("write response")
			}
		}

		return http.HandlerFunc(fn)
	}
}

func wrapBody(status int, body []byte, hint bool) []byte {
	var v interface{} = dataResponse{Data: bytes.TrimSpace(body)}

	if status >= http.StatusBadRequest {
		var resp errorResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return body
		}

		if status >= http.StatusInternalServerError {
			if hint {
				resp.Hint = resp.Msg
			}
			resp.Msg = http.StatusText(status)
		}

		v = resp
	}

	out, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Errorln("wrap response")
		return body
	}

	return out
}
