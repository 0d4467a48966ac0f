package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var (
	// ErrForbidden is returned for paths that resolve outside the served root.
	ErrForbidden = errors.New("path outside served directory")
	// ErrBadPath is returned for paths that cannot be decoded.
	ErrBadPath = errors.New("malformed path")
)

const shutdownTimeout = 5 * time.Second

// Server serves a built site for local development.
type Server struct {
	Echo *echo.Echo

	root string
	addr string
	log  logrus.FieldLogger
}

// NewServer creates a dev server for the directory dist. dist must exist.
func NewServer(dist, addr string, log logrus.FieldLogger) (*Server, error) {
	root, err := filepath.Abs(dist)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folio: %s does not exist, run folio build first", dist)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		Echo: echo.New(),
		root: root,
		addr: addr,
		log:  log,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.setupMiddleware()
	s.Echo.GET("/*", s.handleFile)
	s.Echo.HEAD("/*", s.handleFile)
	return s, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.Echo.Start(s.addr)
	}()
	s.log.WithFields(logrus.Fields{"addr": s.addr, "root": s.root}).Info("serving site")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleFile(c echo.Context) error {
	path, err := ResolvePath(s.root, c.Request().URL.EscapedPath())
	switch {
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrBadPath):
		return echo.NewHTTPError(http.StatusBadRequest, "Bad request")
	case errors.Is(err, fs.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case err != nil:
		return err
	}
	return c.File(path)
}

// ResolvePath maps an escaped URL path to a file below root. Directories
// resolve to their index.html. Paths that leave root, directly or through
// a symlink, yield ErrForbidden; missing files yield fs.ErrNotExist.
func ResolvePath(root, escapedPath string) (string, error) {
	decoded, err := url.PathUnescape(escapedPath)
	if err != nil || strings.ContainsRune(decoded, 0) {
		return "", ErrBadPath
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(decoded))
	if !within(root, full) {
		return "", ErrForbidden
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fs.ErrNotExist
		}
		return "", err
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fs.ErrNotExist
		}
		return "", err
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	if !within(realRoot, resolved) {
		return "", ErrForbidden
	}
	if info, err := os.Stat(resolved); err != nil || info.IsDir() {
		return "", fs.ErrNotExist
	}
	return resolved, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
