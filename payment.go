// payment.go

package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// expectedSignature is Razorpay's checkout signature:
// hex(HMAC-SHA256(secret, order_id + "|" + payment_id)).
func expectedSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureValid(orderID, paymentID, signature, secret string) bool {
	expected := expectedSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// createPaymentOrder opens a provider-side order. The client sends rupees;
// Razorpay wants paise.
func createPaymentOrder(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "amount is required"})
		return
	}

	body, err := rzp.Order.Create(map[string]interface{}{
		"amount":   int64(math.Round(req.Amount * 100)),
		"currency": "INR",
		"receipt":  uuid.NewString(),
	}, nil)
	if err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to create payment order"})
		return
	}
	c.JSON(200, gin.H{"success": true, "order_id": body["id"], "amount": body["amount"]})
}

// verifyPayment checks the checkout signature and, only on a match, records a
// Paid order carrying the provider ids. A bad signature changes nothing: no
// order, cart untouched.
func verifyPayment(c *gin.Context) {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
		orderPayload
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}

	if !signatureValid(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, rzpSecret) {
		c.JSON(200, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	order, msg := req.toOrder()
	if msg != "" {
		c.JSON(400, gin.H{"success": false, "message": msg})
		return
	}
	order.Status = OrderPaid
	order.RazorpayOrderID = req.RazorpayOrderID
	order.RazorpayPaymentID = req.RazorpayPaymentID

	if err := finalizeCheckout(context.Background(), order); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to create order"})
		return
	}
	c.JSON(200, gin.H{"success": true, "order": order})
}
