// orders.go

package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OrderPending   = "Pending"
	OrderPaid      = "Paid"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

// statusTransitions is the full order lifecycle. Delivered and Cancelled are
// terminal; anything not listed is rejected.
var statusTransitions = map[string][]string{
	OrderPending:   {OrderPaid, OrderShipped, OrderCancelled},
	OrderPaid:      {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered, OrderCancelled},
	OrderDelivered: {},
	OrderCancelled: {},
}

func knownStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

func canTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// insertOrder and clearCartAfterOrder are the two halves of checkout
// finalization, swappable so the pairing can be exercised without a database.
var (
	insertOrder = func(ctx context.Context, order *Order) error {
		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			return err
		}
		order.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	clearCartAfterOrder = func(ctx context.Context, userID primitive.ObjectID) error {
		return clearCartForUser(ctx, userID)
	}
)

// finalizeCheckout inserts the order and then clears the owner's cart. Both
// the COD and the online-payment path go through here so the clear cannot be
// missed on either. The two writes are separate operations and are not
// atomic: once the insert succeeds the order stands, so a failed clear is
// logged rather than surfaced as a checkout failure — clearing an already
// empty cart later is idempotent.
func finalizeCheckout(ctx context.Context, order *Order) error {
	order.CreatedAt = time.Now()
	if order.Status == "" {
		order.Status = OrderPending
	}
	if err := insertOrder(ctx, order); err != nil {
		return err
	}
	if err := clearCartAfterOrder(ctx, order.User); err != nil {
		log.Printf("order %s created but cart clear failed: %v", order.ID.Hex(), err)
	}
	return nil
}

type orderItemPayload struct {
	ProductID string  `json:"productId"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderPayload struct {
	UserID         string             `json:"userId"`
	Items          []orderItemPayload `json:"items"`
	Address        OrderAddress       `json:"address"`
	PaymentMethod  string             `json:"paymentMethod"`
	DeliveryOption string             `json:"deliveryOption"`
	ShippingFee    float64            `json:"shippingFee"`
	Subtotal       float64            `json:"subtotal"`
	CouponCode     string             `json:"couponCode"`
	DiscountAmount float64            `json:"discountAmount"`
	TotalAmount    float64            `json:"totalAmount"`
}

// toOrder converts the request body into an Order document. Totals are taken
// as sent; checkout does not recompute them from current catalog prices.
func (p *orderPayload) toOrder() (*Order, string) {
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return nil, "invalid userId"
	}
	if len(p.Items) == 0 {
		return nil, "items are required"
	}
	if p.PaymentMethod != "cod" && p.PaymentMethod != "online" {
		return nil, "paymentMethod must be cod or online"
	}
	if p.DeliveryOption != "standard" && p.DeliveryOption != "home" {
		return nil, "deliveryOption must be standard or home"
	}
	items := make([]OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return nil, "invalid productId in items"
		}
		items = append(items, OrderItem{Product: pid, Size: it.Size, Quantity: it.Quantity, Price: it.Price})
	}
	return &Order{
		User:           userID,
		Items:          items,
		Address:        p.Address,
		Subtotal:       p.Subtotal,
		CouponCode:     p.CouponCode,
		DiscountAmount: p.DiscountAmount,
		PaymentMethod:  p.PaymentMethod,
		DeliveryOption: p.DeliveryOption,
		ShippingFee:    p.ShippingFee,
		TotalAmount:    p.TotalAmount,
	}, ""
}

func createOrder(c *gin.Context) {
	var req orderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	order, msg := req.toOrder()
	if msg != "" {
		c.JSON(400, gin.H{"success": false, "message": msg})
		return
	}
	if err := finalizeCheckout(context.Background(), order); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to create order"})
		return
	}
	c.JSON(200, gin.H{"success": true, "order": order})
}

// resolvedOrder mirrors the Order document with item product refs replaced
// by the full product documents.
type resolvedOrderItem struct {
	Product  Product `json:"product"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func resolveOrders(ctx context.Context, orders []Order) ([]gin.H, error) {
	idSet := map[primitive.ObjectID]bool{}
	for _, o := range orders {
		for _, it := range o.Items {
			idSet[it.Product] = true
		}
	}
	byID := map[primitive.ObjectID]Product{}
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
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
			byID[p.ID] = p
		}
	}

	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		items := make([]resolvedOrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, resolvedOrderItem{
				Product:  byID[it.Product],
				Size:     it.Size,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}
		out = append(out, gin.H{
			"id":                o.ID,
			"user":              o.User,
			"items":             items,
			"address":           o.Address,
			"subtotal":          o.Subtotal,
			"couponCode":        o.CouponCode,
			"discountAmount":    o.DiscountAmount,
			"paymentMethod":     o.PaymentMethod,
			"deliveryOption":    o.DeliveryOption,
			"shippingFee":       o.ShippingFee,
			"totalAmount":       o.TotalAmount,
			"status":            o.Status,
			"razorpayOrderId":   o.RazorpayOrderID,
			"razorpayPaymentId": o.RazorpayPaymentID,
			"createdAt":         o.CreatedAt,
		})
	}
	return out, nil
}

func findOrders(c *gin.Context, filter bson.M) {
	ctx := context.Background()
	cur, err := db.Collection("orders").Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	var orders []Order
	if err := cur.All(ctx, &orders); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	resolved, err := resolveOrders(ctx, orders)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	c.JSON(200, gin.H{"success": true, "orders": resolved})
}

func listOrders(c *gin.Context) {
	findOrders(c, bson.M{})
}

func listUserOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}
	findOrders(c, bson.M{"user": userID})
}

func getOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid orderId"})
		return
	}
	var order Order
	err = db.Collection("orders").FindOne(context.Background(), bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false})
		return
	}
	c.JSON(200, gin.H{"success": true, "order": order})
}

// setOrderStatus moves an order through the status machine, rejecting
// transitions the table does not allow.
func setOrderStatus(c *gin.Context, orderID primitive.ObjectID, target string) {
	ctx := context.Background()
	var order Order
	err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if !canTransition(order.Status, target) {
		c.JSON(409, gin.H{"success": false, "message": "Cannot change order from " + order.Status + " to " + target})
		return
	}
	_, err = db.Collection("orders").UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"status": target}})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	order.Status = target
	c.JSON(200, gin.H{"success": true, "order": order})
}

func cancelOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid orderId"})
		return
	}
	setOrderStatus(c, orderID, OrderCancelled)
}

func updateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid orderId"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(400, gin.H{"success": false, "message": "status is required"})
		return
	}
	if !knownStatus(req.Status) {
		c.JSON(400, gin.H{"success": false, "message": "Unknown status " + req.Status})
		return
	}
	setOrderStatus(c, orderID, req.Status)
}
