package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/product"
)

type Handler struct {
	engine     *Engine
	categories CategoryLister
}

func NewHandler(e *Engine, categories CategoryLister) *Handler {
	return &Handler{engine: e, categories: categories}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/:id<int>/related", h.relatedProducts)
	app.Get("/api/v1/home", h.home)
}

// listProducts supports
// ?category_id=&category=&organic=&dietary=&search=&price=&min_price=&max_price=&sort=&order=&limit=
func (h *Handler) listProducts(c *fiber.Ctx) error {
	o, err := OptionsFromQuery(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	items, err := h.engine.Query(c.UserContext(), o)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) relatedProducts(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.Respond(c, apperr.Invalid("catalog.Related", "id", "id must be an integer"))
	}
	items, err := h.engine.Related(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) home(c *fiber.Ctx) error {
	feed, err := h.engine.Home(c.UserContext(), h.categories)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(feed)
}

// OptionsFromQuery reads listing options from the request query string. All
// parse failures are collected into one validation error.
func OptionsFromQuery(c *fiber.Ctx) (Options, error) {
	errs := map[string]string{}
	o := Options{
		CategoryName: c.Query("category"),
		DietaryType:  product.DietaryType(c.Query("dietary")),
		SearchText:   c.Query("search"),
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			errs["category_id"] = "category_id must be an integer"
		}
		o.CategoryID = id
	}
	if v := c.Query("organic"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs["organic"] = "organic must be true or false"
		}
		o.OrganicOnly = b
	}
	if !o.DietaryType.Valid() {
		errs["dietary"] = "dietary must be vegetarian, vegan or non-vegetarian"
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["limit"] = "limit must be a non-negative integer"
		}
		o.Limit = n
	}

	var err error
	if bucket := c.Query("price"); bucket != "" {
		o.PriceMin, o.PriceMax, err = ParseBucket(bucket)
	} else {
		o.PriceMin, o.PriceMax, err = ParseBounds(c.Query("min_price"), c.Query("max_price"))
	}
	merge(errs, err)

	o.SortKey, err = ParseSortKey(c.Query("sort"))
	merge(errs, err)
	o.SortDirection, err = ParseSortDirection(c.Query("order"))
	merge(errs, err)

	if len(errs) > 0 {
		return Options{}, apperr.Validation("catalog.Options", errs)
	}
	return o, nil
}

func merge(into map[string]string, err error) {
	for k, v := range apperr.FieldsOf(err) {
		into[k] = v
	}
}
