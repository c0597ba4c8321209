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

type InventoryHandler struct {
	Store *sessions.CookieStore
}

// InventoryInput holds the inventory entry form. Quantities must be whole
// numbers of zero or more; the date travels as free text.
type InventoryInput struct {
	Produced  int    `form:"produced" binding:"min=0"`
	Sold      int    `form:"sold" binding:"min=0"`
	Returned  int    `form:"returned" binding:"min=0"`
	Defective int    `form:"defective" binding:"min=0"`
	Date      string `form:"date" binding:"required"`
}

// findInventoryRecord resolves the :id route parameter. Unknown ids flash an
// error and send the client back to the index.
func findInventoryRecord(c *gin.Context, session *sessions.Session) (model.InventoryRecord, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		flashAndRedirect(c, session, "error", "Inventory record not found.", "/")
		return model.InventoryRecord{}, false
	}

	var record model.InventoryRecord
	if err := database.DB.First(&record, uint(id)).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error().Err(err).Uint64("id", id).Msg("inventory lookup failed")
		}
		flashAndRedirect(c, session, "error", "Inventory record not found.", "/")
		return model.InventoryRecord{}, false
	}
	return record, true
}

// ShowInventoryPage renders one product with its full movement history.
func (h *InventoryHandler) ShowInventoryPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	product, ok := findProduct(c, session)
	if !ok {
		return
	}

	// History keeps insertion order.
	var history []model.InventoryRecord
	err := database.DB.Where("product_id = ?", product.ID).Order("id asc").Find(&history).Error
	if err != nil {
		logger.Log.Error().Err(err).Uint("product_id", product.ID).Msg("failed to load inventory history")
		c.String(http.StatusInternalServerError, "Error loading inventory history.")
		return
	}

	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	data["Product"] = product
	data["History"] = history
	c.HTML(http.StatusOK, "inventory.html", data)
}

// ProcessInventoryForm appends one movement record to the product's history
// and returns to the history view.
func (h *InventoryHandler) ProcessInventoryForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	product, ok := findProduct(c, session)
	if !ok {
		return
	}
	inventoryPath := "/inventory/" + strconv.FormatUint(uint64(product.ID), 10)

	var input InventoryInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error",
			"Quantities must be whole numbers of zero or more and the date is required.", inventoryPath)
		return
	}

	record := model.InventoryRecord{
		ProductID: product.ID,
		Produced:  input.Produced,
		Sold:      input.Sold,
		Returned:  input.Returned,
		Defective: input.Defective,
		Date:      input.Date,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		logger.Log.Error().Err(err).Uint("product_id", product.ID).Msg("failed to create inventory record")
		flashAndRedirect(c, session, "error", "Could not save the inventory record.", inventoryPath)
		return
	}

	flashAndRedirect(c, session, "success", "Inventory record added.", inventoryPath)
}

// ShowDeleteConfirmPage asks for credentials before an inventory record is
// removed.
func (h *InventoryHandler) ShowDeleteConfirmPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	record, ok := findInventoryRecord(c, session)
	if !ok {
		return
	}

	data := takeFlashes(c, session)
	data["IsLoggedIn"] = true
	data["Record"] = record
	c.HTML(http.StatusOK, "confirm_delete_inventory.html", data)
}

// ProcessDeleteForm deletes an inventory record once the requester re-enters
// the credentials of the account this session is logged in as.
func (h *InventoryHandler) ProcessDeleteForm(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	record, ok := findInventoryRecord(c, session)
	if !ok {
		return
	}
	confirmPath := "/delete_inventory/" + strconv.FormatUint(uint64(record.ID), 10)

	var input CredentialsInput
	if err := c.ShouldBind(&input); err != nil {
		flashAndRedirect(c, session, "error", "Username and password are required.", confirmPath)
		return
	}

	current := c.MustGet("user").(model.User)
	if input.Username != current.Username || !current.CheckPassword(input.Password) {
		flashAndRedirect(c, session, "error", "Incorrect username or password.", confirmPath)
		return
	}

	if err := database.DB.Delete(&model.InventoryRecord{}, record.ID).Error; err != nil {
		logger.Log.Error().Err(err).Uint("id", record.ID).Msg("failed to delete inventory record")
		flashAndRedirect(c, session, "error", "Could not delete the inventory record.", confirmPath)
		return
	}

	flashAndRedirect(c, session, "success", "Inventory record deleted.",
		"/inventory/"+strconv.FormatUint(uint64(record.ProductID), 10))
}
