package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/rmedina-dev/inventario/internal/database"
	"github.com/rmedina-dev/inventario/internal/logger"
	"github.com/rmedina-dev/inventario/internal/model"
)

type ProductHandler struct {
	Store *sessions.CookieStore
}

// ProductInput holds the add/edit product form. All five fields identify the
// product and are required; edits overwrite every one of them.
type ProductInput struct {
	Code     string `form:"code" binding:"required"`
	Name     string `form:"name" binding:"required"`
	Category string `form:"category" binding:"required"`
	Flavors  string `form:"flavors" binding:"required"`
	Format   string `form:"format" binding:"required"`
}

// findProduct resolves the :id route parameter. Unknown or malformed ids
// flash an error and send the client back to the index.
func findProduct(c *gin.Context, session *sessions.Session) (model.Product, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		flashAndRedirect(c, session, "error", "Product not found.", "/")
		return model.Product{}, false
	}

	var product model.Product
	if err := database.DB.First(&product, uint(id)).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error().Err(err).Uint64("id", id).Msg("product lookup failed")
		}
		flashAndRedirect(c, session, "error", "Product not found.", "/")
		return model.Product{}, false
	}
	return product, true
}

// ShowProductsPage renders the search page. Products are only listed after a
// search, so a plain GET shows an empty table.
func (h *ProductHandler) ShowProductsPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	data["Products"] = []model.Product{}
	data["SearchQuery"] = ""
	c.HTML(http.StatusOK, "index.html", data)
}

// SearchProducts lists products whose code or name contains the query. An
// empty query matches every product.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	query := c.PostForm("search_query")

	pattern := "%" + query + "%"
	var products []model.Product
	err := database.DB.Where("code LIKE ? OR name LIKE ?", pattern, pattern).Find(&products).Error
	if err != nil {
		logger.Log.Error().Err(err).Str("query", query).Msg("product search failed")
		c.String(http.StatusInternalServerError, "Error searching products.")
		return
	}

	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	data["Products"] = products
	data["SearchQuery"] = query
	c.HTML(http.StatusOK, "index.html", data)
}

// ShowAddProductForm renders the new-product form.
func (h *ProductHandler) ShowAddProductForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	c.HTML(http.StatusOK, "add_product.html", data)
}

// ProcessAddProductForm creates a product from the five form fields.
func (h *ProductHandler) ProcessAddProductForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)

	var input ProductInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error", "All product fields are required.", "/add_product")
		return
	}

	product := model.Product{
		Code:     input.Code,
		Name:     input.Name,
		Category: input.Category,
		Flavors:  input.Flavors,
		Format:   input.Format,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		logger.Log.Error().Err(err).Msg("failed to create product")
		flashAndRedirect(c, session, "error", "Could not save the product.", "/add_product")
		return
	}

	flashAndRedirect(c, session, "success", "Product created.", "/")
}

// ShowEditProductForm renders the edit form pre-filled with the product.
func (h *ProductHandler) ShowEditProductForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	product, ok := findProduct(c, session)
	if !ok {
		return
	}

	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	data["Product"] = product
	c.HTML(http.StatusOK, "edit_product.html", data)
}

// ProcessEditProductForm overwrites all five product fields.
func (h *ProductHandler) ProcessEditProductForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	product, ok := findProduct(c, session)
	if !ok {
		return
	}

	var input ProductInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error", "All product fields are required.",
			"/edit_product/"+strconv.FormatUint(uint64(product.ID), 10))
		return
	}

	product.Code = input.Code
	product.Name = input.Name
	product.Category = input.Category
	product.Flavors = input.Flavors
	product.Format = input.Format

	if err := database.DB.Save(&product).Error; err != nil {
		logger.Log.Error().Err(err).Uint("id", product.ID).Msg("failed to update product")
		flashAndRedirect(c, session, "error", "Could not update the product.", "/")
		return
	}

	flashAndRedirect(c, session, "success", "Product updated.", "/")
}

// DeleteProduct removes a product together with its entire inventory history.
// Both deletes run in one transaction so a failure leaves no orphan records.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	product, ok := findProduct(c, session)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.InventoryRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		logger.Log.Error().Err(err).Uint("id", product.ID).Msg("failed to delete product")
		flashAndRedirect(c, session, "error", "Could not delete the product.", "/")
		return
	}

	flashAndRedirect(c, session, "success", "Product and its inventory history deleted.", "/")
}
