package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/svgjww/viewer/internal/asset"
	"github.com/svgjww/viewer/internal/watch"
)

// documentHandler serves the watched document as last published: the parser
// JSON on success, the load failure otherwise.
func documentHandler(hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest := hub.Latest()
		if latest == nil {
			http.Error(w, "no document is being served", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		switch latest.Type {
		case watch.TypeDocReload:
			w.WriteHeader(http.StatusOK)
			w.Write(latest.Payload)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(latest)
		}
	}
}

func deleteAssetHandler(assets *asset.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := assets.Delete(mux.Vars(r)["assetId"])
		switch {
		case errors.Is(err, asset.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case err != nil:
			http.Error(w, "failed to delete asset", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
