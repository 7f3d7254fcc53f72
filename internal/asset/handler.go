// Package asset stores replacement rasters for images referenced by a
// drawing. JWW files only record the path of an image on the author's
// machine, so the viewer lets the user upload the picture and maps the
// recorded path to the stored file.
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/svgjww/viewer/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

var ErrNotFound = errors.New("asset not found")

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

// Substitution maps an image path recorded in the drawing to a stored asset.
type Substitution struct {
	Path    string `json:"path"`
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir string

	mu   sync.RWMutex
	subs map[string]Substitution // recorded image path -> asset
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, subs: make(map[string]Substitution)}
}

// Upload handles POST /assets/upload: a multipart form with the image in
// "file" and the drawing's recorded image path in "path".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	imagePath := strings.TrimSpace(r.FormValue("path"))
	if imagePath == "" {
		http.Error(w, "missing path field", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	if err := h.store(assetID, img); err != nil {
		slog.Error("store asset", "error", err, "asset", assetID)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	sub := Substitution{Path: imagePath, AssetID: assetID, URL: fmt.Sprintf("/assets/%s.png", assetID)}
	if prev, replaced := h.record(sub); replaced {
		if err := h.Delete(prev.AssetID); err != nil && !errors.Is(err, ErrNotFound) {
			slog.Warn("remove replaced asset", "error", err, "asset", prev.AssetID)
		}
	}
	slog.Info("image substituted", "path", imagePath, "asset", assetID)

	bounds := img.Bounds()
	writeJSON(w, UploadResponse{
		ID:     assetID,
		URL:    sub.URL,
		Path:   imagePath,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Type:   "png",
		Name:   header.Filename,
	})
}

func (h *Handler) store(assetID string, img image.Image) error {
	filePath := filepath.Join(h.dir, assetID+".png")
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(filePath)
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// record stores sub and returns the substitution it replaced, if any.
func (h *Handler) record(sub Substitution) (Substitution, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev, ok := h.subs[sub.Path]
	h.subs[sub.Path] = sub
	return prev, ok
}

// Lookup returns the substitution for a recorded image path.
func (h *Handler) Lookup(imagePath string) (Substitution, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sub, ok := h.subs[imagePath]
	return sub, ok
}

// Substitutions lists every mapping, ordered by image path.
func (h *Handler) Substitutions() []Substitution {
	h.mu.RLock()
	out := make([]Substitution, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// List handles GET /api/images.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Substitutions())
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes an asset file and any substitution pointing at it.
func (h *Handler) Delete(assetID string) error {
	if err := typeid.Validate(assetID, typeid.PrefixAsset); err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	h.mu.Lock()
	for p, s := range h.subs {
		if s.AssetID == assetID {
			delete(h.subs, p)
		}
	}
	h.mu.Unlock()

	path := filepath.Join(h.dir, assetID+".png")
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, assetID)
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
