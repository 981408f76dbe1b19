package commerce

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCount(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("authentication-token")
		io.WriteString(w, `{"items":[{"id":"1"},{"id":"2"},{"id":"3"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/INTERSHOP/rest/WFS/DANAHERLS-LSIG-Site/-/", srv.Client())
	auth := http.Header{}
	auth.Set("authentication-token", "tok")

	n, err := c.QuoteCount(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "/INTERSHOP/rest/WFS/DANAHERLS-LSIG-Site/-/rfqcart/-", gotPath)
	assert.Equal(t, "tok", gotToken)
}

func TestQuoteCountStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr func(error) bool
	}{
		{"empty items", 200, `{"items":[]}`, 0, nil},
		{"no items field", 200, `{}`, 0, nil},
		{"no cart", 404, ``, 0, func(err error) bool { return errors.Is(err, ErrNoCart) }},
		{"server error", 500, `oops`, 0, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.StatusCode == 500
		}},
		{"bad json", 200, `{`, 0, func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			n, err := NewClient(srv.URL, nil).QuoteCount(context.Background(), http.Header{})
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
			}
			assert.Equal(t, tt.want, n)
		})
	}
}
