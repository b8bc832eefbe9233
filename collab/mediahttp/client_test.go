package mediahttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cleancity/api"
)

func mediaServer(t *testing.T) (*httptest.Server, *[]byte, *string) {
	t.Helper()
	var uploaded []byte
	var filename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		uploaded, _ = io.ReadAll(file)
		filename = header.Filename
		json.NewEncoder(w).Encode(api.UploadResponse{URL: "https://cdn.example/" + header.Filename})
	}))
	t.Cleanup(srv.Close)
	return srv, &uploaded, &filename
}

func TestUpload(t *testing.T) {
	srv, uploaded, filename := mediaServer(t)
	c := NewClient(srv.URL, func() string { return "tok-1" })

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	url, err := c.Upload(context.Background(), image, "report.jpg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "https://cdn.example/report.jpg" {
		t.Errorf("url = %q", url)
	}
	if !bytes.Equal(*uploaded, image) {
		t.Errorf("server received %v", *uploaded)
	}
	if *filename != "report.jpg" {
		t.Errorf("filename = %q", *filename)
	}
}

func TestUploadDefaultName(t *testing.T) {
	srv, _, filename := mediaServer(t)
	c := NewClient(srv.URL, nil)

	if _, err := c.Upload(context.Background(), []byte{1}, ""); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if *filename != "photo.jpg" {
		t.Errorf("filename = %q", *filename)
	}
}

func TestUploadEmptyImage(t *testing.T) {
	c := NewClient("http://unused", nil)
	if _, err := c.Upload(context.Background(), nil, "x.jpg"); err == nil {
		t.Error("empty image accepted")
	}
}

func TestUploadProgress(t *testing.T) {
	srv, _, _ := mediaServer(t)
	c := NewClient(srv.URL, nil)

	var last, total int64
	monotonic := true
	c.Progress = func(sent, t int64) {
		if sent < last {
			monotonic = false
		}
		last = sent
		total = t
	}

	if _, err := c.Upload(context.Background(), bytes.Repeat([]byte{0xAB}, 64*1024), "big.jpg"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !monotonic {
		t.Error("progress went backwards")
	}
	if last != total || total == 0 {
		t.Errorf("final progress %d of %d", last, total)
	}
}

func TestUploadErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "image too large"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Upload(context.Background(), []byte{1}, "x.jpg")
	if err == nil || err.Error() != "image too large" {
		t.Errorf("err = %v", err)
	}
}
