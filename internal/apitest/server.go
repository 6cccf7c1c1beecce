// Package apitest provides an in-process fake of the pharmacy API for
// tests. It speaks the same dialect as the real backend: form-encoded
// token issuance, HS256 bearer tokens, role checks per route, and
// {"detail": "..."} error envelopes.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

const jwtSecret = "apitest-secret"

// Default credentials seeded into every Server.
const (
	AdminUser     = "admin"
	AdminPass     = "admin123"
	ClientUser    = "ana"
	ClientPass    = "clave123"
	WarehouseUser = "bodega"
	WarehousePass = "stock123"
)

type account struct {
	user domain.User
	hash []byte
}

type order struct {
	domain.Order
	Items []domain.OrderLine `json:"items"`
}

// Server is the fake upstream. All state is in memory and guarded by one
// mutex; handlers are small enough that contention is irrelevant.
type Server struct {
	httpSrv *httptest.Server

	mu         sync.Mutex
	accounts   map[string]*account
	products   []domain.Product
	promotions []domain.Promotion
	orders     map[int]*order
	addresses  map[int][]domain.Address // by user id
	financial  []domain.FinancialMovement
	stock      []domain.StockMovement
	points     map[int]int // gamification points by user id
	levels     map[int]int
	nextID     int

	// TrackingScript is the sequence of delivery statuses the tracking
	// endpoint walks through, one per call, sticking on the last entry.
	TrackingScript []string
	trackingCalls  int
}

// New starts a fake API with seeded users, a small catalog, and one active
// promotion. Callers own Close.
func New() *Server {
	s := &Server{
		accounts:  make(map[string]*account),
		orders:    make(map[int]*order),
		addresses: make(map[int][]domain.Address),
		points:    make(map[int]int),
		levels:    make(map[int]int),
		nextID:    100,
		TrackingScript: []string{
			domain.DeliveryPreparing,
			domain.DeliveryEnRoute,
			domain.DeliveryDelivered,
		},
	}
	s.seed()

	e := echo.New()
	e.HideBanner = true
	s.routes(e)

	s.httpSrv = httptest.NewServer(e)
	return s
}

// URL is the base address tests point the client at.
func (s *Server) URL() string {
	return s.httpSrv.URL
}

func (s *Server) Close() {
	s.httpSrv.Close()
}

func (s *Server) seed() {
	for i, cred := range []struct {
		username, password, role string
	}{
		{AdminUser, AdminPass, domain.RoleAdmin},
		{ClientUser, ClientPass, domain.RoleCliente},
		{WarehouseUser, WarehousePass, domain.RoleAlmacenista},
	} {
		// MinCost keeps test startup fast; strength is irrelevant here.
		hash, _ := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.MinCost)
		s.accounts[cred.username] = &account{
			user: domain.User{ID: i + 1, Username: cred.username, Role: cred.role},
			hash: hash,
		}
	}

	s.products = []domain.Product{
		{ID: 1, Name: "Acetaminofén 500mg", Stock: 50, Price: 4500, Category: "Analgésicos"},
		{ID: 2, Name: "Vitamina C 1g", Stock: 30, Price: 12000, Category: "Vitaminas y suplementos"},
		{ID: 3, Name: "Alcohol antiséptico", Stock: 0, Price: 6000, Category: "Primeros auxilios"},
	}

	productID := 2
	discount := 10.0
	s.promotions = []domain.Promotion{{
		ID:              1,
		Type:            domain.PromotionDiscount,
		Title:           "Semana de vitaminas",
		DiscountPercent: &discount,
		ProductID:       &productID,
		Active:          true,
		StartDate:       time.Now().Add(-24 * time.Hour),
		EndDate:         time.Now().Add(24 * time.Hour),
	}}

	// The seeded client starts with one delivery address.
	s.addresses[2] = []domain.Address{{ID: 1, Latitude: 4.60971, Longitude: -74.08175}}
}

// IssueToken mints a valid token for username, bypassing the password
// check. Useful for tests that need a token without a login round trip.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	acc := s.accounts[username]
	s.mu.Unlock()
	if acc == nil {
		return ""
	}
	return signToken(acc.user)
}

// RevokeUser removes the account behind already-issued tokens, so the next
// profile resolution fails the way an expired token does.
func (s *Server) RevokeUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, username)
}

func signToken(u domain.User) string {
	claims := jwt.MapClaims{
		"sub":     u.Username,
		"role":    u.Role,
		"user_id": u.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	return token
}

// fail renders the backend's error envelope.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}

// auth validates the bearer token and loads the account into context.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return fail(c, http.StatusUnauthorized, "Not authenticated")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fail(c, http.StatusUnauthorized, "Not authenticated")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return fail(c, http.StatusUnauthorized, "Token inválido o expirado")
		}

		username, _ := claims["sub"].(string)
		s.mu.Lock()
		acc := s.accounts[username]
		s.mu.Unlock()
		if acc == nil {
			return fail(c, http.StatusUnauthorized, "Token inválido o expirado")
		}

		c.Set("user", acc.user)
		return next(c)
	}
}

// requireRole gates a route on the authenticated user's role.
func requireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, _ := c.Get("user").(domain.User)
			if _, ok := allowed[u.Role]; !ok {
				return fail(c, http.StatusForbidden, "No tienes permisos para esta operación")
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) domain.User {
	u, _ := c.Get("user").(domain.User)
	return u
}
