package server

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/robfig/cron/v3"
	"go.curlew.org/curlew/core"
	"go.curlew.org/curlew/log"
	"go.curlew.org/curlew/services/database"
	"go.uber.org/zap"
)

type Server struct {
	c  *core.Config
	co *core.Core
	db *database.Database

	log     *zap.SugaredLogger
	jwtAuth *jwtauth.JWTAuth
	cron    *cron.Cron
	watcher *fsnotify.Watcher

	server *http.Server
}

func NewServer(c *core.Config) (*Server, error) {
	co, err := core.NewCore(c)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(filepath.Join(c.DataDirectory, "curlew.db"))
	if err != nil {
		return nil, err
	}

	secret := base64.StdEncoding.EncodeToString([]byte(c.TokensSecret))

	s := &Server{
		c:       c,
		co:      co,
		db:      db,
		log:     log.S().Named("server"),
		jwtAuth: jwtauth.New("HS256", []byte(secret), nil),
		cron:    cron.New(),
	}

	// Re-read the content directory nightly, in case the watcher missed
	// anything, e.g. files changed while the watch was being re-armed.
	_, err = s.cron.AddFunc("00 02 * * *", func() {
		if err := s.co.Reindex(); err != nil {
			s.log.Errorw("scheduled reindex failed", "err", err)
		}
	})
	if err != nil {
		return nil, multierror.Append(err, db.Close()).ErrorOrNil()
	}

	err = s.startWatcher()
	if err != nil {
		return nil, multierror.Append(err, db.Close()).ErrorOrNil()
	}

	return s, nil
}

func (s *Server) Start() error {
	s.cron.Start()

	addr := ":" + strconv.Itoa(s.c.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	errCh := make(chan error)
	s.server = &http.Server{Handler: s.makeRouter()}
	go func() {
		s.log.Infof("listening on %s", ln.Addr().String())
		errCh <- s.server.Serve(ln)
	}()

	return <-errCh
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	<-s.cron.Stop().Done()

	var errs *multierror.Error
	if s.watcher != nil {
		errs = multierror.Append(errs, s.watcher.Close())
	}
	if s.server != nil {
		errs = multierror.Append(errs, s.server.Shutdown(ctx))
	}
	errs = multierror.Append(errs, s.db.Close())
	return errs.ErrorOrNil()
}

// startWatcher reindexes the content whenever something under the content
// directory changes.
func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	dir := filepath.Join(s.c.SourceDirectory, core.ContentDirectory)
	err = watcher.Add(dir)
	if err != nil {
		return multierror.Append(err, watcher.Close()).ErrorOrNil()
	}

	// fsnotify does not recurse.
	for _, sub := range []string{"posts", "pages"} {
		_ = watcher.Add(filepath.Join(dir, sub))
	}

	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}

				if err := s.co.Reindex(); err != nil {
					s.log.Errorw("reindex after change failed", "err", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Errorw("content watcher", "err", err)
			}
		}
	}()

	return nil
}
