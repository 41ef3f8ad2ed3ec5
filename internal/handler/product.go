package handler

import (
	"net/http"

	"shopassist/internal/errx"
	"shopassist/internal/logx"
	"shopassist/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog product requests
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{
		products: products,
	}
}

// GetProduct handles GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product id is required"})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// respondError writes {"error": ...} with the status carried by err
func respondError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": errx.MessageOf(err) + ": " + err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": errx.MessageOf(err)})
}

// RecoverWithError turns panics into the {"error": ...} shape of the non-chat routes
func RecoverWithError(c *gin.Context, recovered any) {
	logx.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errx.SystemErrorMessage})
}
