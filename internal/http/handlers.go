package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"redfragances/internal/advisor"
	"redfragances/internal/catalog"
	"redfragances/internal/domain"
	"redfragances/internal/pricing"
	"redfragances/internal/service"
)

// Catalog handlers

// @Summary List products
// @Description Filters are conjunctive; category Unisex (or none) shows every product.
// @Tags products
// @Produce json
// @Param category query string false "Men, Women, Unisex or a tab label (Para Él, Para Ella)"
// @Param q query string false "Name or brand contains (case-insensitive)"
// @Param brand query []string false "Brand allow-list" collectionFormat(multi)
// @Param family query []string false "Scent family allow-list" collectionFormat(multi)
// @Param min_price query int false "Min list price"
// @Param max_price query int false "Max list price"
// @Param sort query string false "newest, price_asc, price_desc or a dropdown label"
// @Success 200 {array} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	spec, err := parseSpec(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.store.Products(spec))
}

func parseSpec(c *gin.Context) (catalog.Spec, error) {
	category, ok := catalog.ParseCategory(c.Query("category"))
	if !ok {
		return catalog.Spec{}, fmt.Errorf("unknown category %q", c.Query("category"))
	}
	sortMode, ok := catalog.ParseSortMode(c.Query("sort"))
	if !ok {
		return catalog.Spec{}, fmt.Errorf("unknown sort %q", c.Query("sort"))
	}
	spec := catalog.Spec{
		Category: category,
		Search:   c.Query("q"),
		Brands:   c.QueryArray("brand"),
		Families: c.QueryArray("family"),
		Sort:     sortMode,
	}

	minRaw, maxRaw := c.Query("min_price"), c.Query("max_price")
	if minRaw != "" || maxRaw != "" {
		r := catalog.PriceRange{Min: 0, Max: math.MaxInt64}
		if minRaw != "" {
			v, err := strconv.ParseInt(minRaw, 10, 64)
			if err != nil {
				return catalog.Spec{}, fmt.Errorf("invalid min_price")
			}
			r.Min = v
		}
		if maxRaw != "" {
			v, err := strconv.ParseInt(maxRaw, 10, 64)
			if err != nil {
				return catalog.Spec{}, fmt.Errorf("invalid max_price")
			}
			r.Max = v
		}
		spec.Price = &r
	}
	return spec, nil
}

// @Summary Sidebar facets
// @Tags products
// @Produce json
// @Success 200 {object} catalog.Facets
// @Router /products/facets [get]
func (s *Server) facets(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Facets())
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Price quote for the detail view
// @Description Without size, quotes every standard size.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param size query string false "Size label, e.g. 100ml"
// @Success 200 {array} pricing.Quote
// @Failure 404 {object} map[string]string
// @Router /products/{id}/quote [get]
func (s *Server) quote(c *gin.Context) {
	quotes, err := s.store.Quote(c.Param("id"), c.Query("size"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// Cart handlers

// @Summary Current cart
// @Tags cart
// @Produce json
// @Success 200 {object} service.CartView
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Cart())
}

type addLineReq struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	// Price is the amount already shown to the shopper; omitted means resolve it here
	Price *int64 `json:"price"`
}

// @Summary Add one unit to the cart
// @Description Same product and size merge into one line without repricing.
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addLineReq true "Line"
// @Success 201 {object} domain.CartLine
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/lines [post]
func (s *Server) addCartLine(c *gin.Context) {
	var req addLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	line, err := s.store.AddToCart(req.ProductID, req.Size, req.Price)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

type updateLineReq struct {
	// Delta is required; zero is a valid no-op
	Delta *int `json:"delta" binding:"required"`
}

// @Summary Change quantity of every line of a product
// @Description Quantity never drops below 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param input body updateLineReq true "Delta"
// @Success 200 {object} service.CartView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/lines/{productId} [patch]
func (s *Server) updateCartLine(c *gin.Context) {
	var req updateLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	view, err := s.store.UpdateCartQuantity(c.Param("productId"), *req.Delta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Remove every line of a product
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} service.CartView
// @Failure 404 {object} map[string]string
// @Router /cart/lines/{productId} [delete]
func (s *Server) removeCartLine(c *gin.Context) {
	view, err := s.store.RemoveFromCart(c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type checkoutReq struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type checkoutResp struct {
	Order      domain.Order `json:"order"`
	TotalLabel string       `json:"totalLabel"`
	Message    string       `json:"message"`
}

// @Summary Place the order
// @Tags checkout
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Contact details"
// @Success 201 {object} checkoutResp
// @Failure 400 {object} map[string]string
// @Router /checkout [post]
func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, phone and email are required"})
		return
	}
	order, err := s.store.Checkout(c.Request.Context(), domain.CustomerInfo{Name: req.Name, Phone: req.Phone, Email: req.Email})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutResp{
		Order:      order,
		TotalLabel: s.locale.FormatAmount(order.Total),
		Message:    fmt.Sprintf("¡Gracias %s! Tu pedido ha sido procesado.", order.Name),
	})
}

// Chat handlers

type chatView struct {
	Messages []advisor.Message `json:"messages"`
	Busy     bool              `json:"busy"`
}

// @Summary Chat log
// @Tags chat
// @Produce json
// @Success 200 {object} chatView
// @Router /chat [get]
func (s *Server) chatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, chatView{Messages: s.chat.History(), Busy: s.chat.Busy()})
}

type chatReq struct {
	Message string `json:"message"`
}

// @Summary Ask the fragrance advisor
// @Description Advisor failures answer with a fixed apology; a second message while one is pending is rejected.
// @Tags chat
// @Accept json
// @Produce json
// @Param input body chatReq true "Message"
// @Success 200 {object} advisor.Message
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /chat [post]
func (s *Server) sendChat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	reply, err := s.chat.Send(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Admin handlers

type loginReq struct {
	Secret string `json:"secret" binding:"required"`
}

// @Summary Unlock admin operations
// @Tags admin
// @Accept json
// @Param input body loginReq true "Shared secret"
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.store.Admin().Unlock(req.Secret); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Lock admin operations
// @Tags admin
// @Success 204
// @Router /admin/logout [post]
func (s *Server) logout(c *gin.Context) {
	s.store.Admin().Lock()
	c.Status(http.StatusNoContent)
}

type sizePriceReq struct {
	Size          string `json:"size"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice"`
	// DiscountPercent, when positive, replaces DiscountPrice
	DiscountPercent int `json:"discountPercent"`
}

type productReq struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand"`
	Price           int64          `json:"price"`
	DiscountPrice   *int64         `json:"discountPrice"`
	DiscountPercent int            `json:"discountPercent"`
	Rating          float64        `json:"rating"`
	ReviewCount     int            `json:"reviewCount"`
	Notes           []string       `json:"notes"`
	Family          string         `json:"family"`
	Category        string         `json:"category"`
	Image           string         `json:"image"`
	IsNew           bool           `json:"isNew"`
	Description     string         `json:"description"`
	SizePrices      []sizePriceReq `json:"sizePrices"`
}

func (r productReq) toProduct() (domain.Product, error) {
	category, ok := catalog.ParseCategory(r.Category)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: unknown category %q", service.ErrInvalidInput, r.Category)
	}
	p := domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Brand:         r.Brand,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		Notes:         r.Notes,
		Family:        r.Family,
		Category:      category,
		Image:         r.Image,
		IsNew:         r.IsNew,
		Description:   r.Description,
	}
	if r.DiscountPercent > 0 {
		p.DiscountPrice = pricing.DiscountFromPercent(r.Price, r.DiscountPercent)
	}
	for _, sp := range r.SizePrices {
		entry := domain.SizePrice{Size: sp.Size, Price: sp.Price, DiscountPrice: sp.DiscountPrice}
		if sp.DiscountPercent > 0 {
			entry = pricing.WithPercent(entry, sp.DiscountPercent)
		}
		p.SizePrices = append(p.SizePrices, entry)
	}
	return p, nil
}

// adminSizePrice is a size entry with its discount expressed as the form's percentage.
type adminSizePrice struct {
	domain.SizePrice
	DiscountPercent int `json:"discountPercent"`
}

// adminProduct is what the admin form edits; percentages prefill the discount inputs.
type adminProduct struct {
	domain.Product
	DiscountPercent int              `json:"discountPercent"`
	SizePrices      []adminSizePrice `json:"sizePrices,omitempty"`
}

func toAdminProduct(p domain.Product) adminProduct {
	out := adminProduct{Product: p, DiscountPercent: pricing.PercentFromDiscount(p.Price, p.DiscountPrice)}
	for _, sp := range p.SizePrices {
		out.SizePrices = append(out.SizePrices, adminSizePrice{
			SizePrice:       sp,
			DiscountPercent: pricing.PercentFromDiscount(sp.Price, sp.DiscountPrice),
		})
	}
	return out
}

// @Summary Product as the admin form shows it
// @Tags admin
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} adminProduct
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [get]
func (s *Server) adminProduct(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminProduct(p))
}

// @Summary Add a product
// @Description New products go first. A 50ml size price also sets the base price.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} adminProduct
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := req.toProduct()
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := s.store.AddProduct(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAdminProduct(created))
}

// @Summary Replace a product
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body productReq true "Product"
// @Success 200 {object} adminProduct
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.ID = c.Param("id")
	p, err := req.toProduct()
	if err != nil {
		writeError(c, err)
		return
	}
	updated, err := s.store.UpdateProduct(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminProduct(updated))
}

// @Summary Delete a product
// @Tags admin
// @Param id path string true "Product ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.store.RemoveProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type orderView struct {
	domain.Order
	TotalLabel string `json:"totalLabel"`
}

// @Summary Order history, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} orderView
// @Failure 403 {object} map[string]string
// @Router /admin/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	orders := s.store.Orders()
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView{Order: o, TotalLabel: s.locale.FormatAmount(o.Total)})
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Delete an order
// @Tags admin
// @Param id path string true "Order ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/orders/{id} [delete]
func (s *Server) deleteOrder(c *gin.Context) {
	if err := s.store.RemoveOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
