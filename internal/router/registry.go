package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them: API modules under /api, root
// modules (health, debug) directly on the engine.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
	root    []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddRoot(mod Module) {
	r.root = append(r.root, mod)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.root {
		m.Register(&r.Engine.RouterGroup)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
