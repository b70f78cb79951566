// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransport() *HTTPTransport {
	return NewHTTPTransport(Config{})
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`))
	}))
	defer srv.Close()

	items, err := newTransport().List(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0]["id"])
	assert.Equal(t, "b", items[1]["name"])
}

func TestList_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTransport().List(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode list response")
}

func TestCreate_SendsFormPairReturnsRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.JSONEq(t, `{"name": "a"}`, r.PostFormValue("items"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 500, "name": "a"}`))
	}))
	defer srv.Close()

	created, err := newTransport().Create(context.Background(), srv.URL, "items", []byte(`{"name": "a"}`))
	require.NoError(t, err)
	assert.Equal(t, float64(500), created["id"])
}

func TestCreate_NonObjectBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`true`))
	}))
	defer srv.Close()

	created, err := newTransport().Create(context.Background(), srv.URL, "items", []byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, created, "a bodiless success leaves nothing to merge")
}

func TestUpdate_BooleanBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"plain ok", "ok", nil},
		{"true", "true", nil},
		{"empty", "", nil},
		{"false", "false", ErrServerRejected},
		{"zero", "0", ErrServerRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTransport().Update(context.Background(), srv.URL, "items", []byte(`{"id": 1}`))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDelete_SendsPairAsQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.JSONEq(t, `{"id": 1}`, r.URL.Query().Get("items"))
		_, _ = w.Write([]byte(`true`))
	}))
	defer srv.Close()

	err := newTransport().Delete(context.Background(), srv.URL, "items", []byte(`{"id": 1}`))
	require.NoError(t, err)
}

func TestStatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("storage down"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tr := newTransport()
	ctx := context.Background()

	_, err := tr.List(ctx, srv.URL+"/unauthorized")
	require.ErrorIs(t, err, ErrUnauthorized)

	err = tr.Update(ctx, srv.URL+"/boom", "items", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
	assert.Contains(t, err.Error(), "storage down")

	err = tr.Delete(ctx, srv.URL+"/missing", "items", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
}

func TestBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(Config{AuthToken: "  secret  "})
	_, err := tr.List(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)

	tr.SetToken("")
	_, err = tr.List(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "clearing the token drops the header")
	assert.Empty(t, tr.Token())
}
