package main

import (
	"log"
	"os"

	"github.com/Satlla/itineramio-sub018/routes"
	"github.com/Satlla/itineramio-sub018/storage"
	"github.com/Satlla/itineramio-sub018/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	api := app.Party("/api", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
	{
		api.Post("/imports/spreadsheet", routes.ImportSpreadsheet)
		api.Post("/imports/emails", routes.ProcessEmails)
		api.Get("/imports", routes.ListImportBatches)
		api.Get("/imports/{id}", routes.GetImportBatch)

		api.Get("/pending", routes.GetPendingActivity)

		api.Post("/liquidations", routes.CreateLiquidation)
		api.Get("/liquidations", routes.ListLiquidations)
		api.Get("/liquidations/{id}", routes.GetLiquidation)
		api.Put("/liquidations/{id}", routes.UpdateLiquidation)
		api.Delete("/liquidations/{id}", routes.DeleteLiquidation)
		api.Post("/liquidations/{id}/invoice", routes.AttachInvoice)

		api.Post("/owners", routes.CreateOwner)
		api.Get("/owners", routes.ListOwners)
		api.Get("/owners/{id}", routes.GetOwner)
		api.Put("/owners/{id}", routes.UpdateOwner)
		api.Delete("/owners/{id}", utils.AdminOnlyMiddleware, routes.DeleteOwner)

		api.Post("/properties", routes.CreateProperty)
		api.Get("/properties", routes.ListProperties)
		api.Get("/properties/{id}", routes.GetProperty)
		api.Put("/properties/{id}", routes.UpdateProperty)

		api.Post("/billing-units", routes.CreateBillingUnit)
		api.Get("/billing-units", routes.ListBillingUnits)
		api.Get("/billing-units/{id}", routes.GetBillingUnit)
		api.Put("/billing-units/{id}", routes.UpdateBillingUnit)

		api.Post("/billing-unit-groups", routes.CreateBillingUnitGroup)
		api.Get("/billing-unit-groups", routes.ListBillingUnitGroups)
		api.Put("/billing-unit-groups/{id}", routes.UpdateBillingUnitGroup)

		api.Post("/expenses", routes.CreateExpense)
		api.Get("/expenses", routes.ListExpenses)
		api.Put("/expenses/{id}", routes.UpdateExpense)
		api.Delete("/expenses/{id}", routes.DeleteExpense)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("listening on :" + port)
	app.Listen(":" + port)
}
