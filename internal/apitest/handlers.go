package apitest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

func (s *Server) routes(e *echo.Echo) {
	e.POST("/token", s.handleToken)

	// Public catalog routes, as in the real backend.
	e.GET("/products/", s.handleListProducts)
	e.GET("/products/:id", s.handleGetProduct)
	e.GET("/categories/", s.handleListCategories)
	e.GET("/promotions/", s.handleListPromotions)
	e.GET("/products/:id/promotions", s.handleProductPromotions)
	e.GET("/missions/active", s.handleActiveMissions)

	authed := e.Group("", s.auth)
	authed.GET("/users/me", s.handleMe)
	authed.POST("/register", s.handleRegister, requireRole(domain.RoleAdmin))
	authed.GET("/users/", s.handleListUsers, requireRole(domain.RoleAdmin))

	authed.POST("/products/", s.handleCreateProduct, requireRole(domain.RoleAdmin, domain.RoleAlmacenista))
	authed.POST("/promotions/", s.handleCreatePromotion, requireRole(domain.RoleAdmin, domain.RoleAlmacenista))

	authed.POST("/orders/", s.handleCreateOrder, requireRole(domain.RoleCliente, domain.RoleAdmin))
	authed.GET("/orders/", s.handleListOrders)
	authed.GET("/orders/:id", s.handleGetOrder)
	authed.POST("/orders/:id/confirm", s.handleConfirmOrder)
	authed.DELETE("/orders/:id", s.handleCancelOrder, requireRole(domain.RoleAdmin, domain.RoleCliente))
	authed.GET("/orders/:id/tracking", s.handleTracking)
	authed.POST("/create-payment-intent", s.handlePaymentIntent, requireRole(domain.RoleCliente, domain.RoleAdmin))

	authed.POST("/addresses/", s.handleCreateAddress)
	authed.GET("/addresses/", s.handleListAddresses)
	authed.DELETE("/addresses/:id", s.handleDeleteAddress)

	authed.GET("/users/me/gamification", s.handleGamification)
	authed.GET("/users/me/missions", s.handleMyMissions)

	staff := authed.Group("", requireRole(domain.RoleAdmin, domain.RoleAlmacenista))
	staff.GET("/admin/summary", s.handleSummary)
	staff.GET("/financial_movements/", s.handleFinancialMovements)
	staff.GET("/stock_movements/", s.handleStockMovements)
}

func (s *Server) handleToken(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	s.mu.Lock()
	acc := s.accounts[username]
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return fail(c, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
	}
	return c.JSON(http.StatusOK, domain.Token{AccessToken: signToken(acc.user), TokenType: "bearer"})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) handleRegister(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		return fail(c, http.StatusBadRequest, "El usuario ya existe")
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	s.nextID++
	s.accounts[req.Username] = &account{
		user: domain.User{ID: s.nextID, Username: req.Username, Role: req.Role},
		hash: hash,
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Usuario creado"})
}

func (s *Server) handleListUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) handleListProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.products)
}

func (s *Server) handleGetProduct(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return c.JSON(http.StatusOK, p)
		}
	}
	return fail(c, http.StatusNotFound, "Producto no encontrado")
}

func (s *Server) handleListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, []domain.Category{
		{ID: 1, Name: "Analgésicos"},
		{ID: 2, Name: "Vitaminas y suplementos"},
		{ID: 3, Name: "Primeros auxilios"},
	})
}

func (s *Server) handleCreateProduct(c echo.Context) error {
	var req struct {
		Name       string `json:"name"`
		Stock      int    `json:"stock"`
		Price      int    `json:"price"`
		CategoryID int    `json:"category_id"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := domain.Product{ID: s.nextID, Name: req.Name, Stock: req.Stock, Price: req.Price}
	s.products = append(s.products, p)
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleListPromotions(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.promotions)
}

func (s *Server) handleProductPromotions(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Promotion, 0)
	for _, promo := range s.promotions {
		if promo.Active && promo.ProductID != nil && *promo.ProductID == id {
			out = append(out, promo)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreatePromotion(c echo.Context) error {
	var promo domain.Promotion
	if err := c.Bind(&promo); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	promo.ID = s.nextID
	promo.Active = true
	s.promotions = append(s.promotions, promo)
	return c.JSON(http.StatusOK, promo)
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var req struct {
		AddressID int `json:"address_id"`
		Items     []struct {
			ProductID int `json:"product_id"`
			Quantity  int `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "La orden debe contener al menos un producto")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ownsAddressLocked(user.ID, req.AddressID) {
		return fail(c, http.StatusBadRequest, "Dirección de envío inválida")
	}

	var total float64
	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		product := s.productLocked(item.ProductID)
		if product == nil || product.Stock < item.Quantity {
			return fail(c, http.StatusBadRequest, "Stock insuficiente para el producto")
		}

		unit := float64(product.Price)
		original := unit * float64(item.Quantity)
		lineTotal := original
		var applied *domain.Promotion
		if promo := s.discountForLocked(product.ID); promo != nil {
			discounted := unit - unit*(*promo.DiscountPercent/100)
			lineTotal = discounted * float64(item.Quantity)
			applied = promo
		}
		product.Stock -= item.Quantity
		total += lineTotal

		lines = append(lines, domain.OrderLine{
			ProductID:       product.ID,
			Name:            product.Name,
			Quantity:        item.Quantity,
			UnitPrice:       unit,
			OriginalPrice:   original,
			DiscountApplied: original - lineTotal,
			FinalPrice:      lineTotal,
			Promotion:       applied,
		})
	}

	s.nextID++
	ord := &order{
		Order: domain.Order{
			ID:             s.nextID,
			ClientID:       user.ID,
			AddressID:      req.AddressID,
			Total:          total,
			Status:         domain.OrderPending,
			PaymentStatus:  domain.PaymentPending,
			DeliveryStatus: "pendiente",
			CreatedAt:      time.Now().UTC(),
		},
		Items: lines,
	}
	s.orders[ord.ID] = ord

	level, pts := s.addPointsLocked(user.ID, total)

	return c.JSON(http.StatusOK, domain.OrderReceipt{
		Message:    "Pedido creado exitosamente",
		OrderID:    ord.ID,
		Total:      total,
		Items:      lines,
		UserLevel:  level,
		UserPoints: pts,
	})
}

func (s *Server) handleListOrders(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, ord := range s.orders {
		if user.Role == domain.RoleCliente && ord.ClientID != user.ID {
			continue
		}
		out = append(out, ord.Order)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetOrder(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := s.orders[id]
	if ord == nil {
		return fail(c, http.StatusNotFound, "Pedido no encontrado")
	}
	if user.Role == domain.RoleCliente && ord.ClientID != user.ID {
		return fail(c, http.StatusForbidden, "No puedes acceder a este pedido")
	}
	return c.JSON(http.StatusOK, ord)
}

func (s *Server) handleConfirmOrder(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := s.orders[id]
	if ord == nil {
		return fail(c, http.StatusNotFound, "Pedido no encontrado")
	}
	if user.Role == domain.RoleCliente && ord.ClientID != user.ID {
		return fail(c, http.StatusForbidden, "No tienes permiso para confirmar este pedido")
	}
	if ord.PaymentStatus == domain.PaymentPaid {
		return fail(c, http.StatusBadRequest, "Pedido ya pagado")
	}

	ord.PaymentStatus = domain.PaymentPaid
	ord.Status = domain.OrderConfirmed

	s.nextID++
	s.financial = append(s.financial, domain.FinancialMovement{
		ID:          s.nextID,
		OrderID:     ord.ID,
		Timestamp:   time.Now().UTC(),
		Amount:      ord.Total,
		Description: "Orden confirmada",
	})
	for _, line := range ord.Items {
		s.nextID++
		s.stock = append(s.stock, domain.StockMovement{
			ID:          s.nextID,
			ProductID:   line.ProductID,
			Timestamp:   time.Now().UTC(),
			Change:      -line.Quantity,
			Description: "Stock disminuido por orden confirmada",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Pedido confirmado"})
}

func (s *Server) handleCancelOrder(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := s.orders[id]
	if ord == nil || ord.Status != domain.OrderPending {
		return fail(c, http.StatusBadRequest, "El pedido no puede ser cancelado")
	}
	if user.Role == domain.RoleCliente && ord.ClientID != user.ID {
		return fail(c, http.StatusForbidden, "No puedes cancelar este pedido")
	}
	delete(s.orders, id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Pedido cancelado"})
}

func (s *Server) handleTracking(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := s.orders[id]
	if ord == nil {
		return fail(c, http.StatusNotFound, "Pedido no encontrado")
	}
	if user.Role == domain.RoleCliente && ord.ClientID != user.ID {
		return fail(c, http.StatusForbidden, "No puedes acceder a este pedido")
	}
	if ord.PaymentStatus != domain.PaymentPaid {
		return fail(c, http.StatusForbidden, "El pedido aún no ha sido pagado")
	}

	idx := s.trackingCalls
	if idx >= len(s.TrackingScript) {
		idx = len(s.TrackingScript) - 1
	}
	s.trackingCalls++
	status := s.TrackingScript[idx]

	origin := domain.LatLng{Lat: 4.653, Lng: -74.083}
	dest := s.addressLocked(ord.ClientID, ord.AddressID)
	courier := origin
	eta := 180
	switch status {
	case domain.DeliveryEnRoute:
		courier = domain.LatLng{Lat: (origin.Lat + dest.Lat) / 2, Lng: (origin.Lng + dest.Lng) / 2}
		eta = 90
	case domain.DeliveryDelivered:
		courier = dest
		eta = 0
	}

	return c.JSON(http.StatusOK, domain.TrackingInfo{
		OrderID:        ord.ID,
		Status:         ord.Status,
		PaymentStatus:  ord.PaymentStatus,
		DeliveryStatus: status,
		Origin:         origin,
		Destination:    dest,
		Courier:        courier,
		ETASeconds:     eta,
		UserLevel:      s.levelLocked(ord.ClientID),
	})
}

func (s *Server) handlePaymentIntent(c echo.Context) error {
	var req struct {
		OrderID int `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	ord := s.orders[req.OrderID]
	if ord == nil || (user.Role == domain.RoleCliente && ord.ClientID != user.ID) {
		return fail(c, http.StatusNotFound, "Orden no encontrada")
	}
	if ord.PaymentStatus == domain.PaymentPaid {
		return fail(c, http.StatusBadRequest, "Orden ya pagada")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"clientSecret": fmt.Sprintf("pi_test_%d_secret", ord.ID),
	})
}

func (s *Server) handleCreateAddress(c echo.Context) error {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	addr := domain.Address{ID: s.nextID, Latitude: req.Latitude, Longitude: req.Longitude}
	s.addresses[user.ID] = append(s.addresses[user.ID], addr)
	return c.JSON(http.StatusOK, addr)
}

func (s *Server) handleListAddresses(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.addresses[user.ID]
	if out == nil {
		out = []domain.Address{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteAddress(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := s.addresses[user.ID]
	for i, addr := range addrs {
		if addr.ID == id {
			s.addresses[user.ID] = append(addrs[:i], addrs[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "Dirección eliminada"})
		}
	}
	return fail(c, http.StatusNotFound, "Dirección no encontrada")
}

func (s *Server) handleGamification(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.levelLocked(user.ID)
	pts := s.points[user.ID]
	rank := "Bronce"
	logo := "🥉"
	switch {
	case level >= 10:
		rank, logo = "Platino", "🏆"
	case level >= 7:
		rank, logo = "Oro", "🥇"
	case level >= 4:
		rank, logo = "Plata", "🥈"
	}
	return c.JSON(http.StatusOK, domain.Gamification{
		Level:           level,
		Points:          pts,
		ProgressPercent: pts,
		RankName:        rank,
		RankLogo:        logo,
	})
}

var missionPool = []domain.Mission{
	{Code: "first_order", Name: "Primera compra", Description: "Realiza tu primer pedido de la semana.", PointsReward: 5},
	{Code: "vitamin_fan", Name: "Fan de la vitamina", Description: "Compra un producto de 'Vitaminas y suplementos'.", PointsReward: 15},
}

func (s *Server) handleActiveMissions(c echo.Context) error {
	return c.JSON(http.StatusOK, missionPool)
}

func (s *Server) handleMyMissions(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	hasOrder := false
	for _, ord := range s.orders {
		if ord.ClientID == user.ID {
			hasOrder = true
			break
		}
	}

	out := make([]domain.Mission, len(missionPool))
	copy(out, missionPool)
	for i := range out {
		if out[i].Code == "first_order" {
			out[i].Completed = hasOrder
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleSummary(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var revenue float64
	for _, ord := range s.orders {
		if ord.PaymentStatus == domain.PaymentPaid {
			revenue += ord.Total
		}
	}
	return c.JSON(http.StatusOK, domain.AdminSummary{
		NewOrders:         len(s.orders),
		Revenue:           revenue,
		TotalUsers:        len(s.accounts),
		TotalProducts:     len(s.products),
		HistoricalRevenue: revenue,
	})
}

func (s *Server) handleFinancialMovements(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FinancialMovement, len(s.financial))
	copy(out, s.financial)
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleStockMovements(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StockMovement, len(s.stock))
	copy(out, s.stock)
	return c.JSON(http.StatusOK, out)
}

// --- helpers, all require s.mu held ---

func (s *Server) productLocked(id int) *domain.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func (s *Server) discountForLocked(productID int) *domain.Promotion {
	now := time.Now()
	for i := range s.promotions {
		promo := &s.promotions[i]
		if promo.Active && promo.Type == domain.PromotionDiscount &&
			promo.DiscountPercent != nil &&
			promo.ProductID != nil && *promo.ProductID == productID &&
			!promo.StartDate.After(now) && !promo.EndDate.Before(now) {
			return promo
		}
	}
	return nil
}

func (s *Server) ownsAddressLocked(userID, addressID int) bool {
	for _, addr := range s.addresses[userID] {
		if addr.ID == addressID {
			return true
		}
	}
	return false
}

func (s *Server) addressLocked(userID, addressID int) domain.LatLng {
	for _, addr := range s.addresses[userID] {
		if addr.ID == addressID {
			return domain.LatLng{Lat: addr.Latitude, Lng: addr.Longitude}
		}
	}
	return domain.LatLng{}
}

func (s *Server) levelLocked(userID int) int {
	if lvl, ok := s.levels[userID]; ok {
		return lvl
	}
	return 1
}

func (s *Server) addPointsLocked(userID int, amount float64) (level, points int) {
	if _, ok := s.levels[userID]; !ok {
		s.levels[userID] = 1
	}
	s.points[userID] += int(amount) / 1000
	if up := s.points[userID] / 100; up > 0 {
		s.levels[userID] += up
		s.points[userID] %= 100
	}
	return s.levels[userID], s.points[userID]
}
