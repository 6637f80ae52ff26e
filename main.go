// main.go

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	razorpay "github.com/razorpay/razorpay-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	db        *mongo.Database
	jwtSecret []byte
	otpCodes  OTPStore
	rzp       *razorpay.Client
	rzpSecret string
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	mongoURI := getenv("MONGO_URI", "mongodb://localhost:27017")
	jwtSecret = []byte(getenv("JWT_SECRET", "super_secret_key"))
	rzpSecret = os.Getenv("RAZORPAY_KEY_SECRET")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("mongo ping failed: ", err)
	}
	log.Println("Connected to MongoDB at", mongoURI)
	db = client.Database(getenv("MONGO_DB", "vastra"))

	otpCodes = newMemOTPStore()
	rzp = razorpay.NewClient(os.Getenv("RAZORPAY_KEY_ID"), rzpSecret)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getenv("CORS_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) { c.String(200, "API OK") })

	api := r.Group("/api")

	// Auth
	api.POST("/auth/signup", signup)
	api.POST("/auth/login", adminLogin)
	api.POST("/auth/send-otp", sendOTP)
	api.POST("/auth/verify-otp", verifyOTP)
	api.POST("/auth/save-name", saveMobileProfile)
	api.DELETE("/auth/delete/:mobile", deleteMobileUser)

	// Catalog
	api.GET("/products", listProducts)
	api.GET("/products/:id", getProduct)
	api.POST("/products", createProduct)
	api.PATCH("/products/:id", updateProduct)
	api.DELETE("/products/:id", deleteProduct)

	api.GET("/categories", listCategories)
	api.POST("/categories", createCategory)
	api.PATCH("/categories/:id", updateCategory)
	api.DELETE("/categories/:id", deleteCategory)

	api.GET("/sections", listSections)
	api.POST("/sections", createSection)
	api.DELETE("/sections/:id", deleteSection)

	api.GET("/banner-slider", listBanners)
	api.POST("/banner-slider", createBanner)
	api.DELETE("/banner-slider/:id", deleteBanner)

	api.POST("/category-banner/:categoryId", createCategoryBanner)
	api.GET("/category-banner", listCategoryBanners)
	api.GET("/category-banner/:categoryId", listCategoryBannersByCategory)
	api.PUT("/category-banner/update/:bannerId", updateCategoryBanner)
	api.DELETE("/category-banner/:bannerId", deleteCategoryBanner)

	// Coupons (admin catalog)
	api.GET("/coupons", listCoupons)
	api.POST("/coupons", createCoupon)
	api.PATCH("/coupons/:id", updateCoupon)
	api.DELETE("/coupons/:id", deleteCoupon)

	// Addresses
	api.POST("/addresses", createAddress)
	api.GET("/addresses/:userId", listAddresses)
	api.PATCH("/addresses/:id", updateAddress)
	api.DELETE("/addresses/:id", deleteAddress)

	// Cart
	api.POST("/cart/add", addToCart)
	api.GET("/cart/:userId", getCart)
	api.DELETE("/cart/remove", removeCartItem)
	api.POST("/cart/update-qty", updateCartQty)
	api.POST("/cart/apply-coupon", applyCoupon)
	api.POST("/cart/remove-coupon", removeCoupon)
	api.POST("/cart/clear", clearCart)

	// Orders
	api.GET("/orders", listOrders)
	api.GET("/orders/user/:userId", listUserOrders)
	api.POST("/orders/create", createOrder)
	api.PUT("/orders/cancel/:orderId", cancelOrder)
	api.PUT("/orders/update-status/:orderId", updateOrderStatus)
	api.GET("/orders/:orderId", getOrder)

	// Payments
	api.POST("/payment/razorpay/create-order", createPaymentOrder)
	api.POST("/payment/razorpay/verify", verifyPayment)

	// Admin
	admin := api.Group("/admin", authMiddleware, requireRole("admin"))
	{
		admin.GET("/users", listPanelUsers)
		admin.PATCH("/users/:id/block", setUserBlocked("users", true))
		admin.PATCH("/users/:id/unblock", setUserBlocked("users", false))
		admin.GET("/mobile-users", listMobileUsers)
		admin.GET("/mobile-users/:id", getMobileUser)
		admin.PATCH("/mobile-users/:id/block", setUserBlocked("mobile_users", true))
		admin.PATCH("/mobile-users/:id/unblock", setUserBlocked("mobile_users", false))
		admin.GET("/stats", dashboardStats)
	}

	r.Run(":" + getenv("PORT", "8080"))
}
