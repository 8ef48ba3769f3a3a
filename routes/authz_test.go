package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp creates a minimal Iris app with the JWT verifier and the
// manager gate in front of a stub handler, so the authorization shell can
// be exercised without a database.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	api := app.Party("/api", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		api.Get("/pending-check", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"success": true})
		})
		api.Delete("/owner-check", utils.AdminOnlyMiddleware, func(ctx iris.Context) {
			ctx.JSON(iris.Map{"success": true})
		})
	}
	return app
}

// signTestToken returns a signed JWT with the given role
func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestManagerGate(t *testing.T) {
	app := buildTestApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	// No token -> rejected by the verifier
	req := httptest.NewRequest(http.MethodGet, "/api/pending-check", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Unknown role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/pending-check", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("viewer"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer role, got %d", resp2.Code)
	}

	// Manager role -> 200
	req3 := httptest.NewRequest(http.MethodGet, "/api/pending-check", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken("manager"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager role, got %d", resp3.Code)
	}
}

// destructive owner deletion sits behind the stricter admin gate
func TestAdminGate(t *testing.T) {
	app := buildTestApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	// Manager passes the outer gate but not the admin one
	req := httptest.NewRequest(http.MethodDelete, "/api/owner-check", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken("manager"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager on admin route, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodDelete, "/api/owner-check", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp2.Code)
	}
}
