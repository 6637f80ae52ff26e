// coupon.go

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errCouponNotFound = errors.New("Invalid coupon")

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validateCoupon checks a coupon against a cart total. Checks run in a fixed
// order and the first failure wins. A nil coupon means the code did not match
// anything in the catalog.
func validateCoupon(cp *Coupon, cartTotal float64, now time.Time) error {
	if cp == nil {
		return errCouponNotFound
	}
	if !cp.IsActive {
		return errors.New("This coupon is no longer active")
	}
	if cp.ExpiryDate.Before(now) {
		return errors.New("This coupon has expired")
	}
	if cartTotal < cp.MinPurchase {
		return fmt.Errorf("Minimum purchase of ₹%g required", cp.MinPurchase)
	}
	return nil
}

// snapshot copies the coupon into the shape stored on a cart. The cart keeps
// this copy even if the coupon catalog changes afterwards.
func (cp *Coupon) snapshot() *AppliedCoupon {
	return &AppliedCoupon{
		Code:          cp.Code,
		Description:   cp.Description,
		DiscountType:  cp.DiscountType,
		DiscountValue: cp.DiscountValue,
		MinPurchase:   cp.MinPurchase,
		MaxDiscount:   cp.MaxDiscount,
		ExpiryDate:    cp.ExpiryDate,
		IsActive:      cp.IsActive,
	}
}

// couponDiscount computes the discount an applied coupon grants on a cart
// total. Percent discounts are capped by MaxDiscount when set; flat discounts
// never exceed the total itself.
func couponDiscount(ac *AppliedCoupon, cartTotal float64) float64 {
	if ac == nil {
		return 0
	}
	switch ac.DiscountType {
	case "percent":
		d := cartTotal * ac.DiscountValue / 100
		if ac.MaxDiscount > 0 && d > ac.MaxDiscount {
			d = ac.MaxDiscount
		}
		return d
	case "flat":
		if ac.DiscountValue > cartTotal {
			return cartTotal
		}
		return ac.DiscountValue
	}
	return 0
}

// findCoupon looks a code up case-insensitively. Returns (nil, nil) when the
// code matches nothing.
func findCoupon(ctx context.Context, code string) (*Coupon, error) {
	var cp Coupon
	err := db.Collection("coupons").FindOne(ctx, bson.M{"code": normalizeCouponCode(code)}).Decode(&cp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// ----- Admin coupon catalog -----

func createCoupon(c *gin.Context) {
	var cp Coupon
	if err := c.ShouldBindJSON(&cp); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	cp.Code = normalizeCouponCode(cp.Code)
	if cp.Code == "" || cp.DiscountValue <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "code and discountValue are required"})
		return
	}
	if cp.DiscountType != "flat" {
		cp.DiscountType = "percent"
	}
	cp.CreatedAt = time.Now()

	existing := db.Collection("coupons").FindOne(context.Background(), bson.M{"code": cp.Code})
	if existing.Err() == nil {
		c.JSON(409, gin.H{"success": false, "message": "Coupon code already exists"})
		return
	}

	res, err := db.Collection("coupons").InsertOne(context.Background(), cp)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	cp.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "message": "Coupon created", "coupon": cp})
}

func listCoupons(c *gin.Context) {
	cur, err := db.Collection("coupons").Find(context.Background(), bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	coupons := []Coupon{}
	if err := cur.All(context.Background(), &coupons); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "coupons": coupons})
}

func updateCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	delete(fields, "_id")
	if code, ok := fields["code"].(string); ok {
		fields["code"] = normalizeCouponCode(code)
	}

	var cp Coupon
	err = db.Collection("coupons").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cp)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Coupon not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Coupon updated", "coupon": cp})
}

func deleteCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}
	res, err := db.Collection("coupons").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Coupon not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Coupon deleted"})
}
