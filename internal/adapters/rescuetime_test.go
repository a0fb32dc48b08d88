package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenTimeHours(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		// Two days of tracked time: 2h and 1.5h, in seconds.
		fmt.Fprint(w, `{"rows": [["2026-08-28", 7200, 1], ["2026-08-29", 5400, 1]]}`)
	}))
	defer srv.Close()

	a := NewRescueTimeAdapter(srv.URL, &fakeTokens{token: "api-key-1"})

	hours := a.ScreenTimeHours(context.Background(), "u1")

	assert.InDelta(t, 3.5, hours, 1e-9)
	assert.Equal(t, "api-key-1", gotQuery["key"][0])
	assert.Equal(t, "json", gotQuery["format"][0])
	assert.Equal(t, "interval", gotQuery["perspective"][0])
	assert.NotEmpty(t, gotQuery["restrict_begin"])
	assert.NotEmpty(t, gotQuery["restrict_end"])
}

func TestScreenTimeHoursSkipsShortRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rows": [["2026-08-28"], ["2026-08-29", 3600]]}`)
	}))
	defer srv.Close()

	a := NewRescueTimeAdapter(srv.URL, &fakeTokens{token: "k"})

	assert.InDelta(t, 1.0, a.ScreenTimeHours(context.Background(), "u1"), 1e-9)
}

func TestScreenTimeHoursDefaultsToZero(t *testing.T) {
	t.Run("no api key", func(t *testing.T) {
		a := NewRescueTimeAdapter("http://unused", &fakeTokens{err: fmt.Errorf("no credential")})
		assert.Equal(t, 0.0, a.ScreenTimeHours(context.Background(), "u1"))
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		a := NewRescueTimeAdapter(srv.URL, &fakeTokens{token: "k"})
		assert.Equal(t, 0.0, a.ScreenTimeHours(context.Background(), "u1"))
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "oops")
		}))
		defer srv.Close()

		a := NewRescueTimeAdapter(srv.URL, &fakeTokens{token: "k"})
		assert.Equal(t, 0.0, a.ScreenTimeHours(context.Background(), "u1"))
	})
}

func TestScreenTimeHoursEmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rows": []}`)
	}))
	defer srv.Close()

	a := NewRescueTimeAdapter(srv.URL, &fakeTokens{token: "k"})
	assert.Equal(t, 0.0, a.ScreenTimeHours(context.Background(), "u1"))
}
