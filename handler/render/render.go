package render

import (
	"encoding/json"
	"net/http"

	"oracle/handler/codes"

	"github.com/sirupsen/logrus"
)

// H shortcut of a json object
type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if e := json.NewEncoder(w).Encode(errorResponse{Code: errCode, Msg: err.Error()}); e != nil {
		logrus.WithError(e).Errorln("render error")
	}
}

// Err write err with the status of its error code
func Err(w http.ResponseWriter, err error) {
	code, status := codes.Get(err)
	Error(w, status, code, err)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, codes.InvalidArguments, err)
}

// Forbidden forbidden error
func Forbidden(w http.ResponseWriter, err error) {
	Error(w, http.StatusForbidden, http.StatusForbidden, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, http.StatusNotFound, err)
}
