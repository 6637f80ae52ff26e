// cart.go

package main

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cart mutations are serialized per user so two concurrent requests cannot
// interleave their read-modify-write against the same cart document.
var (
	cartLocksMu sync.Mutex
	cartLocks   = map[string]*sync.Mutex{}
)

func lockCart(userID string) func() {
	cartLocksMu.Lock()
	mu, ok := cartLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		cartLocks[userID] = mu
	}
	cartLocksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// ----- pure cart mutations -----

// addItem merges on an existing (product, size) line by bumping its quantity
// by exactly one, whatever quantity was requested. New lines start at the
// requested quantity, minimum 1.
func (c *Cart) addItem(productID primitive.ObjectID, size string, quantity int) {
	for i := range c.Items {
		if c.Items[i].Product == productID && c.Items[i].Size == size {
			c.Items[i].Quantity++
			return
		}
	}
	if quantity < 1 {
		quantity = 1
	}
	c.Items = append(c.Items, CartItem{Product: productID, Size: size, Quantity: quantity})
}

// adjustQuantity adds delta to the matching line, dropping the line when the
// result is zero or below. Reports whether the line was found.
func (c *Cart) adjustQuantity(productID primitive.ObjectID, size string, delta int) bool {
	for i := range c.Items {
		if c.Items[i].Product == productID && c.Items[i].Size == size {
			c.Items[i].Quantity += delta
			if c.Items[i].Quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			}
			return true
		}
	}
	return false
}

func (c *Cart) removeItem(productID primitive.ObjectID, size string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.Product == productID && item.Size == size {
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
}

func (c *Cart) total(prices map[primitive.ObjectID]float64) float64 {
	sum := 0.0
	for _, item := range c.Items {
		sum += prices[item.Product] * float64(item.Quantity)
	}
	return sum
}

// dropCouponIfBelowMin nulls the applied coupon when the cart no longer meets
// its minimum purchase. Called after every mutation that can lower the total.
func (c *Cart) dropCouponIfBelowMin(total float64) {
	if c.AppliedCoupon != nil && total < c.AppliedCoupon.MinPurchase {
		c.AppliedCoupon = nil
	}
}

func (c *Cart) clear() {
	c.Items = []CartItem{}
	c.AppliedCoupon = nil
}

// ----- persistence helpers -----

func fetchCart(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	var cart Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func saveCart(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	_, err := db.Collection("carts").UpdateOne(ctx,
		bson.M{"user": cart.User},
		bson.M{"$set": bson.M{
			"items":         cart.Items,
			"appliedCoupon": cart.AppliedCoupon,
			"updatedAt":     cart.UpdatedAt,
		}},
		options.Update().SetUpsert(true))
	return err
}

// cartPrices loads the current discount prices for every product in the cart.
func cartPrices(ctx context.Context, cart *Cart) (map[primitive.ObjectID]float64, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}
	prices := map[primitive.ObjectID]float64{}
	if len(ids) == 0 {
		return prices, nil
	}
	cur, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		prices[p.ID] = p.DiscountPrice
	}
	return prices, nil
}

// resolvedCartItem embeds the full product document the way the frontend
// expects populated cart items.
type resolvedCartItem struct {
	Product  Product `json:"product"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
}

func resolveCart(ctx context.Context, cart *Cart) (gin.H, error) {
	items := []resolvedCartItem{}
	if len(cart.Items) > 0 {
		ids := make([]primitive.ObjectID, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.Product)
		}
		cur, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		var products []Product
		if err := cur.All(ctx, &products); err != nil {
			return nil, err
		}
		byID := map[primitive.ObjectID]Product{}
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, item := range cart.Items {
			p, ok := byID[item.Product]
			if !ok {
				// product deleted since it was added
				continue
			}
			items = append(items, resolvedCartItem{Product: p, Size: item.Size, Quantity: item.Quantity})
		}
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Product.DiscountPrice * float64(item.Quantity)
	}
	discount := couponDiscount(cart.AppliedCoupon, subtotal)

	return gin.H{
		"id":            cart.ID,
		"user":          cart.User,
		"items":         items,
		"appliedCoupon": cart.AppliedCoupon,
		"subtotal":      subtotal,
		"discount":      discount,
		"total":         subtotal - discount,
	}, nil
}

// ----- handlers -----

type cartItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (r *cartItemRequest) ids() (userID, productID primitive.ObjectID, ok bool) {
	userID, err1 := primitive.ObjectIDFromHex(r.UserID)
	productID, err2 := primitive.ObjectIDFromHex(r.ProductID)
	return userID, productID, err1 == nil && err2 == nil
}

func addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, productID, ok := req.ids()
	if !ok || req.Size == "" {
		c.JSON(400, gin.H{"success": false, "message": "userId, productId and size are required"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error adding to cart"})
		return
	}
	if cart == nil {
		cart = &Cart{User: userID}
	}
	cart.addItem(productID, req.Size, req.Quantity)

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error adding to cart"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Item added to cart", "cart": cart})
}

func getCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}
	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error fetching cart"})
		return
	}
	if cart == nil {
		c.JSON(200, gin.H{"items": []resolvedCartItem{}})
		return
	}
	resolved, err := resolveCart(ctx, cart)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error fetching cart"})
		return
	}
	c.JSON(200, resolved)
}

func removeCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, productID, ok := req.ids()
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "userId and productId are required"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error removing item"})
		return
	}
	if cart == nil {
		c.JSON(200, gin.H{"success": true})
		return
	}
	cart.removeItem(productID, req.Size)

	// removal lowers the total, so the applied coupon may no longer qualify
	if cart.AppliedCoupon != nil {
		prices, err := cartPrices(ctx, cart)
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Error removing item"})
			return
		}
		cart.dropCouponIfBelowMin(cart.total(prices))
	}

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error removing item"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Item removed", "cart": cart})
}

// updateCartQty treats quantity in the request body as a delta.
func updateCartQty(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, productID, ok := req.ids()
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "userId and productId are required"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error updating qty"})
		return
	}
	if cart == nil {
		c.JSON(200, gin.H{"success": false})
		return
	}
	if !cart.adjustQuantity(productID, req.Size, req.Quantity) {
		c.JSON(200, gin.H{"success": false})
		return
	}

	prices, err := cartPrices(ctx, cart)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error updating qty"})
		return
	}
	cart.dropCouponIfBelowMin(cart.total(prices))

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error updating qty"})
		return
	}
	c.JSON(200, gin.H{"success": true, "cart": cart})
}

func applyCoupon(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Code   string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error applying coupon"})
		return
	}
	if cart == nil {
		c.JSON(200, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	coupon, err := findCoupon(ctx, req.Code)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error applying coupon"})
		return
	}

	prices, err := cartPrices(ctx, cart)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error applying coupon"})
		return
	}

	if err := validateCoupon(coupon, cart.total(prices), time.Now()); err != nil {
		c.JSON(200, gin.H{"success": false, "message": err.Error()})
		return
	}

	// applying a second coupon overwrites the first; a cart holds one coupon
	cart.AppliedCoupon = coupon.snapshot()

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error applying coupon"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Coupon applied!", "cart": cart})
}

func removeCoupon(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	ctx := context.Background()
	cart, err := fetchCart(ctx, userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error removing coupon"})
		return
	}
	if cart == nil {
		c.JSON(200, gin.H{"success": false})
		return
	}
	cart.AppliedCoupon = nil
	if err := saveCart(ctx, cart); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Error removing coupon"})
		return
	}
	c.JSON(200, gin.H{"success": true, "cart": cart})
}

func clearCart(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	unlock := lockCart(req.UserID)
	defer unlock()

	if err := clearCartForUser(context.Background(), userID); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to clear cart"})
		return
	}
	c.JSON(200, gin.H{"success": true})
}

// clearCartForUser empties items and the applied coupon. The cart document
// stays around; an empty cart and a missing cart look the same to clients.
func clearCartForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := db.Collection("carts").UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{
			"items":         []CartItem{},
			"appliedCoupon": nil,
			"updatedAt":     time.Now(),
		}})
	return err
}
