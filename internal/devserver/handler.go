package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gravitrone/reqdesk/internal/api"
)

// Handler serves the REST endpoints from a Store.
type Handler struct {
	store *Store
}

// NewHandler creates a handler over store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return ok(c, map[string]string{"status": "ok"})
}

// --- Items ---

// ListItems returns every item in the list.
func (h *Handler) ListItems(c echo.Context) error {
	if err := h.requireList(c); err != nil {
		return err
	}
	items, err := h.store.ListRequests(c.Request().Context())
	if err != nil {
		return newInternal(err)
	}
	return ok(c, items)
}

// GetItem returns one item.
func (h *Handler) GetItem(c echo.Context) error {
	if err := h.requireList(c); err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}
	item, err := h.store.GetRequest(c.Request().Context(), id)
	if err != nil {
		return storeError(err)
	}
	return ok(c, item)
}

// UpdateItem applies a partial field update keyed by internal names.
func (h *Handler) UpdateItem(c echo.Context) error {
	list := c.Param("list")
	if err := h.requireList(c); err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return newBadRequest("invalid JSON body")
	}
	if len(patch) == 0 {
		return newBadRequest("no fields to update")
	}

	etag, err := h.store.UpdateRequest(c.Request().Context(), id, patch)
	if err != nil {
		return storeError(err)
	}
	return ok(c, api.UpdateHandle{List: list, ID: id, ETag: strconv.Quote(strconv.Itoa(etag))})
}

// --- Schema ---

// ListFields returns the list's fields, filtered by the title query param.
func (h *Handler) ListFields(c echo.Context) error {
	if err := h.requireList(c); err != nil {
		return err
	}
	fields, err := h.store.Fields(c.Request().Context(), c.Param("list"), c.QueryParam("title"))
	if err != nil {
		return newInternal(err)
	}
	return ok(c, fields)
}

// ListChoices returns a choice field's values.
func (h *Handler) ListChoices(c echo.Context) error {
	if err := h.requireList(c); err != nil {
		return err
	}
	choices, err := h.store.Choices(c.Request().Context(), c.Param("list"), c.Param("field"))
	if err != nil {
		return newInternal(err)
	}
	return ok(c, choices)
}

// --- Lookups ---

// ListManagers returns assignable managers.
func (h *Handler) ListManagers(c echo.Context) error {
	out, err := h.store.Managers(c.Request().Context())
	if err != nil {
		return newInternal(err)
	}
	return ok(c, out)
}

// ListRequestTypes returns request types.
func (h *Handler) ListRequestTypes(c echo.Context) error {
	out, err := h.store.RequestTypes(c.Request().Context())
	if err != nil {
		return newInternal(err)
	}
	return ok(c, out)
}

// ListTerms returns the terms of one term set.
func (h *Handler) ListTerms(c echo.Context) error {
	out, err := h.store.Terms(c.Request().Context(), c.Param("termset"))
	if err != nil {
		return newInternal(err)
	}
	return ok(c, out)
}

// --- Helpers ---

func (h *Handler) requireList(c echo.Context) error {
	list := c.Param("list")
	found, err := h.store.HasList(c.Request().Context(), list)
	if err != nil {
		return newInternal(err)
	}
	if !found {
		return newNotFound("list " + list + " not found")
	}
	return nil
}

func itemID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, newBadRequest("invalid item id")
	}
	return id, nil
}
