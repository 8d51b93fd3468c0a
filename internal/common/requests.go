package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// MakeRequestFromBuilder dispatches a prepared resty request using the given
// HTTP method against finalUrl.
func MakeRequestFromBuilder(restBuilder *resty.Request, method string, finalUrl string) (*resty.Response, error) {

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return restBuilder.Get(finalUrl)
	case http.MethodPost:
		return restBuilder.Post(finalUrl)
	case http.MethodPut:
		return restBuilder.Put(finalUrl)
	case http.MethodPatch:
		return restBuilder.Patch(finalUrl)
	case http.MethodDelete:
		return restBuilder.Delete(finalUrl)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s. Ensure you're using the http const", method)
	}

}

// TruncateBody shortens a response body for inclusion in errors and logs.
func TruncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return strings.TrimSpace(string(body))
	}
	return strings.TrimSpace(string(body[:limit])) + "..."
}
