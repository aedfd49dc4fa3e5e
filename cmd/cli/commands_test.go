package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformGetRequest(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()
	host = srv.URL

	require.NoError(t, performGetRequest("/api/leaderboard", map[string][]string{"metric": {"triples"}}))
	assert.Equal(t, "/api/leaderboard", gotPath)
	assert.Equal(t, "metric=triples", gotQuery)
}

func TestAdminClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "admin_auth", Value: "authenticated", Path: "/"})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	host = srv.URL

	client, err := adminClient("darts2024")
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	assert.Len(t, client.Jar.Cookies(req.URL), 1)
}

func TestAdminClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	host = srv.URL

	_, err := adminClient("nope")
	assert.ErrorContains(t, err, "status 401")
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "OK!", prettyJSON([]byte("OK!")))
}
