package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseSignedURL(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody signRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signedURL":"/object/sign/project-files/projects/p1/f1/final%20essay.pdf?token=abc"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key", "project-files")

	signed, err := s.SignedURL(context.Background(), "projects/p1/f1/final essay.pdf", "final essay.pdf", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/sign/project-files/projects/p1/f1/final%20essay.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, 3600, gotBody.ExpiresIn)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, srv.URL+"/storage/v1/object/sign/project-files/"))
	assert.Equal(t, "abc", u.Query().Get("token"))
	assert.Equal(t, "final essay.pdf", u.Query().Get("download"))
}

func TestSupabaseSignedURLFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k", "project-files")

	_, err := s.SignedURL(context.Background(), "missing.pdf", "missing.pdf", time.Hour)
	assert.ErrorContains(t, err, "status 404")
}

func TestSupabaseUpload(t *testing.T) {
	var gotPath, gotType, gotUpsert string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k", "project-files")

	err := s.Upload(context.Background(), "projects/p1/f1/essay.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/project-files/projects/p1/f1/essay.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "%PDF", string(gotBody))
}

func TestSupabaseDelete(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k", "project-files")

	require.NoError(t, s.Delete(context.Background(), "projects/p1/f1/essay.pdf"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/project-files/projects/p1/f1/essay.pdf", gotPath)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="final essay.pdf"`, ContentDisposition("final essay.pdf"))
}
