package router

import (
	"github.com/edulistas/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a set of routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires route registrars under a versioned API prefix
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

// PublicRoutes are the storefront-facing endpoints. Personalization and
// list-scoped cart routes carry the visitor key middleware so state stays
// keyed per client.
type PublicRoutes struct {
	Lists           *handler.SchoolListHandler
	Personalization *handler.PersonalizationHandler
	Cart            *handler.CartHandler
	Catalog         *handler.CatalogHandler
	Geo             *handler.GeoHandler
	Auth            *handler.AuthHandler
	VisitorKey      gin.HandlerFunc
}

// RegisterRoutes implements RouteRegistrar
func (p PublicRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	lists := rg.Group("/lists")
	{
		lists.GET("", p.Lists.Search)
		lists.GET("/schools", p.Lists.SchoolNames)
		lists.GET("/filters", p.Lists.Filters)
		lists.GET("/:id", p.Lists.Get)
	}

	personalized := lists.Group("/:id/personalized", p.VisitorKey)
	{
		personalized.GET("", p.Personalization.Get)
		personalized.DELETE("", p.Personalization.Reset)
		personalized.POST("/products", p.Personalization.AddProduct)
		personalized.PUT("/products/:productId", p.Personalization.ModifyQuantity)
		personalized.DELETE("/products/:productId", p.Personalization.RemoveProduct)
	}

	lists.POST("/:id/cart", p.VisitorKey, p.Cart.BuildFromList)
	rg.POST("/cart", p.Cart.Build)

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/products", p.Catalog.Search)
		catalog.GET("/products/:id", p.Catalog.Get)
		catalog.GET("/status", p.Catalog.Status)
	}

	geo := rg.Group("/geo")
	{
		geo.GET("/regions", p.Geo.Regions)
		geo.GET("/regions/:id/communes", p.Geo.Communes)
		geo.GET("/communes", p.Geo.SearchCommunes)
		geo.GET("/grades", p.Geo.Grades)
	}

	rg.POST("/auth/login", p.Auth.Login)
}

// AdminRoutes are the list management endpoints behind JWT auth
type AdminRoutes struct {
	Lists *handler.SchoolListHandler
	Auth  *handler.AuthHandler
	JWT   gin.HandlerFunc
}

// RegisterRoutes implements RouteRegistrar
func (a AdminRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", a.JWT)
	{
		admin.GET("/me", a.Auth.Me)
		admin.POST("/lists", a.Lists.Create)
		admin.PUT("/lists/:id", a.Lists.Update)
		admin.DELETE("/lists/:id", a.Lists.Delete)
		admin.POST("/lists/:id/products", a.Lists.AddItems)
		admin.PUT("/lists/:id/products/:itemId", a.Lists.UpdateItem)
		admin.DELETE("/lists/:id/products/:itemId", a.Lists.RemoveItem)
	}
}
