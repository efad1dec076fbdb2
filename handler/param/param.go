package param

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

// Binding decode the request query, and the json body when there is one, into v
func Binding(r *http.Request, v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return err
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	return json.NewDecoder(r.Body).Decode(v)
}
