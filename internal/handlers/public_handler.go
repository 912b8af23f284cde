package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

const publicProductsTTL = 5 * time.Minute

// PublicHandler serves the unauthenticated storefront surface: the catalog
// and checkout.
type PublicHandler struct {
	Products   *services.ProductService
	Orders     *services.OrderService
	Categories *CategoryHandler
}

func NewPublicHandler(products *services.ProductService, orders *services.OrderService, categories *CategoryHandler) *PublicHandler {
	return &PublicHandler{
		Products:   products,
		Orders:     orders,
		Categories: categories,
	}
}

// ListProducts serves the storefront catalog, cached briefly per query.
// Catalog mutations invalidate the products:* keys.
func (h *PublicHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	cacheKey := "products:public:" + r.URL.RawQuery
	if data, ok := cache.GetCached(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	products, err := h.Products.List(r.Context(), productFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if data, err := json.Marshal(products); err == nil {
		cache.SetCached(r.Context(), cacheKey, data, publicProductsTTL)
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *PublicHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.Products.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *PublicHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.Categories.List(w, r)
}

// Checkout places a customer order. The order is created even when the
// implicit assignment's wallet charge fails; the charge outcome never
// blocks the customer.
func (h *PublicHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Orders.Create(r.Context(), &req, models.OrderStatusPlaced)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The storefront only needs the order reference, not back-office detail
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"order_id": result.Order.ID,
		"status":   result.Order.Status,
		"total":    result.Order.Total,
	})
}
