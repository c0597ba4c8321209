package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/rmedina-dev/inventario/internal/database"
	"github.com/rmedina-dev/inventario/internal/logger"
)

// projectRoot locates the repository root relative to this file so templates
// load no matter where the tests run from.
func projectRoot() string {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not get caller information")
	}
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// setupTestRouter connects the global DB to a fresh in-memory database and
// builds a router with the full route table from cmd/web.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init("inventario-test", false)

	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	t.Setenv("DATABASE_URL", dsn)
	database.ConnectDB()

	router := gin.New()
	router.LoadHTMLGlob(filepath.Join(projectRoot(), "internal", "view", "templates", "*.html"))

	store := sessions.NewCookieStore([]byte("secret-key-for-test"))
	authHandler := &AuthHandler{Store: store}
	productHandler := &ProductHandler{Store: store}
	inventoryHandler := &InventoryHandler{Store: store}

	router.GET("/login", authHandler.ShowLoginPage)
	router.POST("/login", authHandler.ProcessLoginForm)
	router.GET("/register", authHandler.ShowRegisterPage)
	router.POST("/register", authHandler.ProcessRegisterForm)
	router.GET("/logout", authHandler.Logout)

	private := router.Group("/")
	private.Use(authHandler.AuthRequired())
	{
		private.GET("/", productHandler.ShowProductsPage)
		private.POST("/", productHandler.SearchProducts)
		private.GET("/add_product", productHandler.ShowAddProductForm)
		private.POST("/add_product", productHandler.ProcessAddProductForm)
		private.GET("/edit_product/:id", productHandler.ShowEditProductForm)
		private.POST("/edit_product/:id", productHandler.ProcessEditProductForm)
		private.POST("/delete_product/:id", productHandler.DeleteProduct)
		private.GET("/inventory/:id", inventoryHandler.ShowInventoryPage)
		private.POST("/inventory/:id", inventoryHandler.ProcessInventoryForm)
		private.GET("/delete_inventory/:id", inventoryHandler.ShowDeleteConfirmPage)
		private.POST("/delete_inventory/:id", inventoryHandler.ProcessDeleteForm)
	}

	return router
}

// testClient drives the router like a browser, carrying the session cookie
// between requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router}
}

func (tc *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range tc.cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	tc.router.ServeHTTP(recorder, req)

	if cookies := recorder.Result().Cookies(); len(cookies) > 0 {
		tc.cookies = cookies
	}
	return recorder
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return tc.do(http.MethodPost, path, form)
}

// register creates an account through the registration route.
func (tc *testClient) register(username, password string) {
	tc.t.Helper()
	recorder := tc.postForm("/register", url.Values{"username": {username}, "password": {password}})
	if recorder.Code != http.StatusFound || recorder.Header().Get("Location") != "/login" {
		tc.t.Fatalf("register %q: expected redirect to /login, got %d %q",
			username, recorder.Code, recorder.Header().Get("Location"))
	}
}

// login authenticates and fails the test if the session is not established.
func (tc *testClient) login(username, password string) {
	tc.t.Helper()
	recorder := tc.postForm("/login", url.Values{"username": {username}, "password": {password}})
	if recorder.Code != http.StatusFound || recorder.Header().Get("Location") != "/" {
		tc.t.Fatalf("login %q: expected redirect to /, got %d %q",
			username, recorder.Code, recorder.Header().Get("Location"))
	}
}

// itoa formats a record id the way the routes expect it.
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func assertRedirect(t *testing.T, recorder *httptest.ResponseRecorder, location string) {
	t.Helper()
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, recorder.Code)
	}
	if got := recorder.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
