package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded-for first valid", map[string]string{"X-Forwarded-For": "garbage, 10.0.0.7, 10.0.0.8"}, "1.1.1.1:80", "10.0.0.7"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "2.2.2.2"}, "1.1.1.1:80", "2.2.2.2"},
		{"real ip", map[string]string{"X-Real-IP": "3.3.3.3"}, "1.1.1.1:80", "3.3.3.3"},
		{"forwarded", map[string]string{"Forwarded": `proto=https; for="4.4.4.4"`}, "1.1.1.1:80", "4.4.4.4"},
		{"remote addr", nil, "5.5.5.5:1234", "5.5.5.5"},
		{"nothing", nil, "bogus", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(r))
		})
	}
}
