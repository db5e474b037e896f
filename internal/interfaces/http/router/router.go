package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for any method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers bundles the handlers the API exposes. Image may be nil when
// uploads are disabled; MediaPath is only registered when set.
type Handlers struct {
	System  *handler.SystemHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Webhook *handler.StripeWebhookHandler
	Image   *handler.ImageHandler
}

// Guards are the middleware chains protecting store routes
type Guards struct {
	// Auth authenticates the bearer token
	Auth gin.HandlerFunc
	// StoreOwner checks that the authenticated user owns :storeId
	StoreOwner gin.HandlerFunc
	// MaxBodySize bounds JSON bodies of mutating routes
	MaxBodySize int64
	// MaxUploadSize bounds image upload bodies
	MaxUploadSize int64
	// MediaPath serves in-process images when not empty (e.g. "/media")
	MediaPath string
}

// Mount wires the whole HTTP surface onto engine:
//
//	GET    /health
//	POST   /api/webhook
//	GET    /api/v1/system/info
//	GET    /api/v1/stores/:storeId/products              public
//	GET    /api/v1/stores/:storeId/products/:productId   public
//	POST   /api/v1/stores/:storeId/products              owner
//	PATCH  /api/v1/stores/:storeId/products/:productId   owner
//	DELETE /api/v1/stores/:storeId/products/:productId   owner
//	GET    /api/v1/stores/:storeId/orders                owner
//	GET    /api/v1/stores/:storeId/revenue               owner
//	POST   /api/v1/stores/:storeId/images                owner
func Mount(engine *gin.Engine, h Handlers, g Guards) *Router {
	engine.GET("/health", h.System.Health)
	engine.POST("/api/webhook", h.Webhook.HandleStripeWebhook)
	if g.MediaPath != "" && h.Image != nil {
		engine.GET(g.MediaPath+"/*key", h.Image.Serve)
	}

	owner := []gin.HandlerFunc{g.Auth, g.StoreOwner}
	withBody := func(limit int64, fn gin.HandlerFunc) []gin.HandlerFunc {
		chain := append([]gin.HandlerFunc{}, owner...)
		if limit > 0 {
			chain = append(chain, middleware.BodyLimit(limit))
		}
		return append(chain, fn)
	}
	owned := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, owner...), fn)
	}

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	stores := NewDomainGroup("stores", "/stores/:"+middleware.StoreIDParam)

	products := stores.Group("products", "/products")
	productPath := "/:" + handler.ProductIDParam
	products.GET("", h.Product.List)
	products.GET(productPath, h.Product.Get)
	products.POST("", withBody(g.MaxBodySize, h.Product.Create)...)
	products.PATCH(productPath, withBody(g.MaxBodySize, h.Product.Update)...)
	products.DELETE(productPath, owned(h.Product.Delete)...)

	stores.GET("/orders", owned(h.Order.List)...)
	stores.GET("/revenue", owned(h.Order.Revenue)...)

	if h.Image != nil {
		stores.POST("/images", withBody(g.MaxUploadSize, h.Image.Upload)...)
	}

	r := NewRouter(engine)
	r.Register(system).Register(stores)
	r.Setup()
	return r
}
