// Package transport implements the distfile server and pull/push
// client: an unauthenticated HTTP surface intended for trusted
// networks, plus the client side's should-download heuristic.
package transport

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// Server streams distfiles out of DistDir and accepts pushed distfiles
// into it. There is no authentication.
type Server struct {
	DistDir string
}

// Handler returns the routed http.Handler: GET and HEAD /<filename>
// (both served by handleGet) and POST /up/<filename>.
func (s *Server) Handler() http.Handler {
	r := httprouter.New()
	r.GET("/:filename", s.handleGet)
	r.HEAD("/:filename", s.handleGet)
	r.POST("/up/:filename", s.handlePost)
	return r
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	filename := ps.ByName("filename")
	path := filepath.Join(s.DistDir, filename)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, nil)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Last-Modified", fi.ModTime().UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))

	io.Copy(w, f)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	filename := ps.ByName("filename")
	if filename == "" {
		http.Error(w, "missing filename", http.StatusBadRequest)
		return
	}
	path := filepath.Join(s.DistDir, filename)

	if err := os.MkdirAll(s.DistDir, 0o755); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if _, err := io.Copy(f, r.Body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
