package negotiate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWantsJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{name: "browser", headers: map[string]string{"Accept": "text/html,application/xhtml+xml"}, want: false},
		{name: "accept json", headers: map[string]string{"Accept": "application/json"}, want: true},
		{name: "xhr", headers: map[string]string{"X-Requested-With": "XMLHttpRequest"}, want: true},
		{name: "none", want: false},
	}

	e := echo.New()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, WantsJSON(e.NewContext(req, httptest.NewRecorder())))
		})
	}
}
