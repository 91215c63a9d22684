package server

import (
	"html/template"
	"net/http"
	"path/filepath"

	"filedepot/internal/config"
	"filedepot/internal/depot"
	"filedepot/internal/logger"
	"filedepot/internal/version"
	"filedepot/web"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine    *gin.Engine
	config    *config.Config
	registry  *depot.Registry
	sessions  *SessionStore
	handler   *Handler
	loginTmpl *template.Template
}

// New wires the engine, the section registry and the pipeline handler.
// A bad section table is a startup error, never a per-request one.
func New(cfg *config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	agg, err := depot.NewAggregator(cfg.HideDotFiles, cfg.HidePatterns)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.Middleware())

	srv := &Server{
		engine:    engine,
		config:    cfg,
		registry:  registry,
		sessions:  NewSessionStore(),
		handler:   NewHandler(registry, agg),
		loginTmpl: template.Must(template.ParseFS(web.TemplateFS, "templates/login.html")),
	}

	engine.Use(SessionAuthMiddleware(cfg, srv.sessions))
	srv.setupRoutes()
	return srv, nil
}

// buildRegistry turns the configuration's section table into the
// validated, immutable registry the resolver works against. Section dirs
// are taken relative to the depot root unless absolute.
func buildRegistry(cfg *config.Config) (*depot.Registry, error) {
	sections := make([]*depot.Section, 0, len(cfg.Sections))
	for _, sc := range cfg.Sections {
		dir := sc.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.Root, dir)
		}
		buckets := make([]depot.Bucket, 0, len(sc.Buckets))
		for _, b := range sc.Buckets {
			buckets = append(buckets, depot.Bucket{Slug: b.Slug, Tag: b.Tag})
		}
		sections = append(sections, &depot.Section{
			Key:     sc.Key,
			Root:    dir,
			Buckets: buckets,
		})
	}
	return depot.NewRegistry(sections)
}

func (s *Server) setupRoutes() {
	s.engine.GET("/login", s.showLogin)
	s.engine.POST("/login", s.doLogin)
	s.engine.GET("/version", s.showVersion)

	// Everything else runs through the resolution pipeline.
	s.engine.NoRoute(s.handler.Serve)
}

func (s *Server) showVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
