package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"mangastore/internal/config"
	"mangastore/internal/database"
	"mangastore/internal/email"
	"mangastore/internal/models"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatal("Failed to seed catalog:", err)
	}

	cfg := &config.Config{Environment: "development"}

	r := gin.New()
	SetupRoutes(r, db, cfg, email.NewService(cfg))

	return r, db
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signUpAndIn(t *testing.T, r *gin.Engine, emailAddr string) string {
	t.Helper()

	w := doJSON(r, "POST", "/sign-up", "", gin.H{
		"name":     "Test",
		"email":    emailAddr,
		"password": "123456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 from sign-up, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-in", "", gin.H{
		"email":    emailAddr,
		"password": "123456",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from sign-in, got %d", w.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal("Failed to decode sign-in response:", err)
	}
	if resp.Token == "" {
		t.Fatal("Sign-in response missing token")
	}
	return resp.Token
}

func TestSignUp(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	body := gin.H{"name": "Test", "email": "t@e.com", "password": "123456"}

	w := doJSON(r, "POST", "/sign-up", "", body)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-up", "", body)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-up", "", gin.H{"name": "ab", "email": "t2@e.com", "password": "123456"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for short name, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-up", "", gin.H{"name": "Test", "email": "not-an-email", "password": "123456"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid email, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-up", "", gin.H{"name": "Test", "email": "t3@e.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing password, got %d", w.Code)
	}
}

func TestSignIn(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	doJSON(r, "POST", "/sign-up", "", gin.H{"name": "Test", "email": "t@e.com", "password": "123456"})

	w := doJSON(r, "POST", "/sign-in", "", gin.H{"email": "t@e.com", "password": "123456"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal("Failed to decode response:", err)
	}
	if resp.Token == "" {
		t.Error("Expected a token in the response")
	}
	if resp.User.Email != "t@e.com" {
		t.Errorf("Expected user email in response, got %q", resp.User.Email)
	}

	w = doJSON(r, "POST", "/sign-in", "", gin.H{"email": "t@e.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-in", "", gin.H{"email": "nobody@e.com", "password": "123456"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown email, got %d", w.Code)
	}

	w = doJSON(r, "POST", "/sign-in", "", gin.H{"email": "t@e.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing password, got %d", w.Code)
	}
}

func TestSignInRotatesToken(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	first := signUpAndIn(t, r, "t@e.com")

	w := doJSON(r, "POST", "/sign-in", "", gin.H{"email": "t@e.com", "password": "123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from second sign-in, got %d", w.Code)
	}

	if w := doJSON(r, "GET", "/cart", first, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected old token to be rejected with 401, got %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	token := signUpAndIn(t, r, "t@e.com")

	if w := doJSON(r, "POST", "/logout", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without Authorization header, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/logout", "bogus-token", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown token, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/logout", token, nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for valid logout, got %d", w.Code)
	}

	// Every authenticated endpoint must reject the revoked token.
	if w := doJSON(r, "GET", "/cart", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", w.Code)
	}
	if w := doJSON(r, "GET", "/history", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", w.Code)
	}
}

func TestAllMangas(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	w := doJSON(r, "GET", "/allmangas", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var mangas []models.Manga
	if err := json.Unmarshal(w.Body.Bytes(), &mangas); err != nil {
		t.Fatal("Failed to decode catalog:", err)
	}
	if len(mangas) == 0 {
		t.Error("Expected a non-empty catalog")
	}
	if mangas[0].CategoryName == "" {
		t.Error("Expected category names joined into the listing")
	}
}

func TestAddProduct(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	token := signUpAndIn(t, r, "t@e.com")

	if w := doJSON(r, "POST", "/addproduct/1", token, nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	// Raw token and Bearer-prefixed token are both accepted.
	if w := doJSON(r, "POST", "/addproduct/1", "Bearer "+token, nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with Bearer prefix, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/addproduct/1", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without token, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/addproduct/1", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with invalid token, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/addproduct/999999", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown product, got %d", w.Code)
	}
}

func TestCartListingAndRemoval(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	token := signUpAndIn(t, r, "t@e.com")

	if w := doJSON(r, "GET", "/cart", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	doJSON(r, "POST", "/addproduct/1", token, nil)
	doJSON(r, "POST", "/addproduct/2", token, nil)

	w := doJSON(r, "GET", "/cart", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var items []models.CartItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal("Failed to decode cart:", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 cart items, got %d", len(items))
	}
	if items[0].Manga == nil {
		t.Fatal("Expected cart items joined with manga data")
	}

	w = doJSON(r, "DELETE", "/cart/"+strconv.Itoa(items[0].ID), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from delete, got %d", w.Code)
	}

	w = doJSON(r, "GET", "/cart", token, nil)
	items = nil
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal("Failed to decode cart:", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 cart item after removal, got %d", len(items))
	}

	// Another user cannot delete the remaining item.
	otherToken := signUpAndIn(t, r, "other@e.com")
	w = doJSON(r, "DELETE", "/cart/"+strconv.Itoa(items[0].ID), otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting another user's item, got %d", w.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	r, db := setupTestRouter(t)
	defer db.Close()

	token := signUpAndIn(t, r, "t@e.com")

	doJSON(r, "POST", "/addproduct/1", token, nil)
	doJSON(r, "POST", "/addproduct/2", token, nil)

	w := doJSON(r, "GET", "/cart", token, nil)
	var items []models.CartItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal("Failed to decode cart:", err)
	}
	var expected float64
	for _, item := range items {
		expected += item.Manga.Price
	}

	checkoutBody := gin.H{
		"checkoutData": gin.H{
			"deliverName":        "Test Buyer",
			"deliverPhoneNumber": "555-0100",
			"deliverAddress":     "1 Manga St",
			"creditCardNumber":   "4111111111111111",
		},
	}

	if w := doJSON(r, "POST", "/check-out", "", checkoutBody); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without token, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/check-out", "bogus", checkoutBody); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with invalid token, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/check-out", token, gin.H{"checkoutData": gin.H{"deliverName": "x"}}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed checkout body, got %d", w.Code)
	}

	if w := doJSON(r, "POST", "/check-out", token, checkoutBody); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from checkout, got %d", w.Code)
	}

	w = doJSON(r, "GET", "/cart", token, nil)
	items = nil
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatal("Failed to decode cart:", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty cart after checkout, got %d items", len(items))
	}

	if w := doJSON(r, "GET", "/history", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without token, got %d", w.Code)
	}

	w = doJSON(r, "GET", "/history", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from history, got %d", w.Code)
	}

	var sales []models.Sale
	if err := json.Unmarshal(w.Body.Bytes(), &sales); err != nil {
		t.Fatal("Failed to decode history:", err)
	}
	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale in history, got %d", len(sales))
	}
	if sales[0].Total != expected {
		t.Errorf("Expected sale total %.2f, got %.2f", expected, sales[0].Total)
	}
	if len(sales[0].Items) != 2 {
		t.Errorf("Expected 2 items on the sale, got %d", len(sales[0].Items))
	}
}

