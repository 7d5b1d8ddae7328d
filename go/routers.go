package petguardserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	principalsports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
)

// ApiHandleFunctions bundles the handler groups mounted by NewRouter.
type ApiHandleFunctions struct {
	PetAPI     PetAPI
	AccountAPI AccountAPI
	// Principals authenticates bearer tokens.
	Principals principalsports.Service
}

// Route describes one endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
	// RequiresCaller rejects anonymous requests before HandlerFunc reads the request.
	RequiresCaller bool
}

// NewRouter returns a gin engine with every route registered. Callers add transport
// middleware, such as tracing, with Use before serving.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	if handleFunctions.Principals != nil {
		v1.Use(Authenticate(handleFunctions.Principals))
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.RequiresCaller {
			v1.Handle(route.Method, route.Pattern, RequireCaller(), route.HandlerFunc)
			continue
		}
		v1.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"CreatePet", http.MethodPost, "/pets", handleFunctions.PetAPI.CreatePet, true},
		{"ListPets", http.MethodGet, "/pets", handleFunctions.PetAPI.ListPets, false},
		{"UpdatePet", http.MethodPatch, "/pets/:petId", handleFunctions.PetAPI.UpdatePet, true},
		{"DeletePet", http.MethodDelete, "/pets/:petId", handleFunctions.PetAPI.DeletePet, true},
		{"FetchPet", http.MethodGet, "/principals/:identify/pets/:petId", handleFunctions.PetAPI.FetchPet, true},
		{"Register", http.MethodPost, "/accounts", handleFunctions.AccountAPI.Register, false},
		{"Login", http.MethodPost, "/sessions", handleFunctions.AccountAPI.Login, false},
		{"Logout", http.MethodDelete, "/sessions", handleFunctions.AccountAPI.Logout, false},
	}
}
