package devserver

import "github.com/labstack/echo/v4"

func registerRoutes(e *echo.Echo, h *Handler, auth echo.MiddlewareFunc) {
	e.GET("/api/health", h.Health)

	g := e.Group("/api", auth)

	g.GET("/lists/:list/items", h.ListItems)
	g.GET("/lists/:list/items/:id", h.GetItem)
	g.PATCH("/lists/:list/items/:id", h.UpdateItem)

	g.GET("/lists/:list/fields", h.ListFields)
	g.GET("/lists/:list/fields/:field/choices", h.ListChoices)

	g.GET("/managers", h.ListManagers)
	g.GET("/request-types", h.ListRequestTypes)
	g.GET("/taxonomy/:termset", h.ListTerms)
}
