// address.go

package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createAddress(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId"`
		Mobile    string `json:"mobile"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Address1  string `json:"address1"`
		Address2  string `json:"address2"`
		City      string `json:"city"`
		Country   string `json:"country"`
		Zip       string `json:"zip"`
		Phone     string `json:"phone"`
		IsDefault bool   `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	if req.UserID == "" || req.Mobile == "" || req.FirstName == "" ||
		req.Address1 == "" || req.City == "" || req.Zip == "" || req.Phone == "" {
		c.JSON(400, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	ctx := context.Background()
	if req.IsDefault {
		// a user has at most one default address
		db.Collection("addresses").UpdateMany(ctx,
			bson.M{"userId": userID},
			bson.M{"$set": bson.M{"isDefault": false}})
	}

	country := req.Country
	if country == "" {
		country = "India"
	}
	addr := Address{
		UserID:    userID,
		Mobile:    req.Mobile,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		Country:   country,
		Zip:       req.Zip,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
		CreatedAt: time.Now(),
	}
	res, err := db.Collection("addresses").InsertOne(ctx, addr)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	addr.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "message": "Address added successfully", "address": addr})
}

func listAddresses(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid userId"})
		return
	}
	cur, err := db.Collection("addresses").Find(context.Background(),
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	addresses := []Address{}
	if err := cur.All(context.Background(), &addresses); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "addresses": addresses})
}

func updateAddress(c *gin.Context) {
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
	delete(fields, "userId")

	ctx := context.Background()
	var current Address
	err = db.Collection("addresses").FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}

	if isDefault, ok := fields["isDefault"].(bool); ok && isDefault {
		db.Collection("addresses").UpdateMany(ctx,
			bson.M{"userId": current.UserID, "_id": bson.M{"$ne": id}},
			bson.M{"$set": bson.M{"isDefault": false}})
	}

	var addr Address
	err = db.Collection("addresses").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&addr)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Address updated", "address": addr})
}

func deleteAddress(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}
	res, err := db.Collection("addresses").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Address not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Address deleted"})
}
