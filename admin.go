// admin.go

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listPanelUsers returns every panel account except admins themselves.
func listPanelUsers(c *gin.Context) {
	cur, err := db.Collection("users").Find(context.Background(), bson.M{"role": bson.M{"$ne": "admin"}})
	if err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	users := []User{}
	if err := cur.All(context.Background(), &users); err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	c.JSON(200, users)
}

// setUserBlocked flips the blocked flag on a panel or mobile user.
func setUserBlocked(collection string, blocked bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"message": "invalid id"})
			return
		}
		res, err := db.Collection(collection).UpdateOne(context.Background(),
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"blocked": blocked}})
		if err != nil {
			c.JSON(500, gin.H{"message": "Server error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(404, gin.H{"message": "User not found"})
			return
		}
		msg := "User unblocked"
		if blocked {
			msg = "User blocked"
		}
		c.JSON(200, gin.H{"success": true, "message": msg})
	}
}

func listMobileUsers(c *gin.Context) {
	cur, err := db.Collection("mobile_users").Find(context.Background(), bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	users := []MobileUser{}
	if err := cur.All(context.Background(), &users); err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	c.JSON(200, users)
}

func getMobileUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"message": "invalid id"})
		return
	}
	var user MobileUser
	err = db.Collection("mobile_users").FindOne(context.Background(), bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	c.JSON(200, user)
}

// dashboardStats aggregates the numbers the admin landing page shows.
// Revenue only counts Delivered orders.
func dashboardStats(c *gin.Context) {
	ctx := context.Background()

	totalUsers, err := db.Collection("mobile_users").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	totalOrders, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Something went wrong"})
		return
	}

	cur, err := db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": OrderDelivered}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	var agg []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &agg); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	totalRevenue := 0.0
	if len(agg) > 0 {
		totalRevenue = agg[0].Total
	}

	c.JSON(200, gin.H{
		"success":      true,
		"totalUsers":   totalUsers,
		"totalOrders":  totalOrders,
		"totalRevenue": totalRevenue,
	})
}
