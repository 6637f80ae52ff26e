// auth.go

package main

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type JWTClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func signToken(userID, role string) string {
	claims := JWTClaims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString(jwtSecret)
	return s
}

func authMiddleware(c *gin.Context) {
	tokenStr := c.GetHeader("Authorization")
	if !strings.HasPrefix(tokenStr, "Bearer ") {
		c.AbortWithStatusJSON(401, gin.H{"message": "missing token"})
		return
	}
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(401, gin.H{"message": "invalid token"})
		return
	}
	claims := token.Claims.(*JWTClaims)
	c.Set("userId", claims.UserID)
	c.Set("role", claims.Role)
	c.Next()
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.AbortWithStatusJSON(403, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

var allowedRoles = map[string]bool{"user": true, "vendor": true, "admin": true}

func signup(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid input"})
		return
	}
	if req.Email == "" && req.Phone == "" {
		c.JSON(400, gin.H{"message": "Email or phone required"})
		return
	}
	if req.Email != "" {
		err := db.Collection("users").FindOne(context.Background(), bson.M{"email": req.Email}).Err()
		if err == nil {
			c.JSON(400, gin.H{"message": "User already exists"})
			return
		}
	}
	role := "user"
	if allowedRoles[req.Role] {
		role = req.Role
	}
	user := User{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if req.Password != "" {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}
	res, err := db.Collection("users").InsertOne(context.Background(), user)
	if err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(201, gin.H{
		"message": "User created successfully",
		"user":    user,
		"token":   signToken(user.ID.Hex(), user.Role),
	})
}

// adminLogin is email + password and admin-only. Shoppers go through OTP.
func adminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid input"})
		return
	}
	var user User
	err := db.Collection("users").FindOne(context.Background(), bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(401, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"message": "Server error"})
		return
	}
	if user.Role != "admin" {
		c.JSON(403, gin.H{"message": "Only admin can login with email/password"})
		return
	}
	if user.Blocked {
		c.JSON(403, gin.H{"message": "Your account has been blocked. Contact support."})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(401, gin.H{"message": "Invalid credentials"})
		return
	}
	user.Password = ""
	c.JSON(200, gin.H{
		"message": "Admin login successful",
		"user":    user,
		"token":   signToken(user.ID.Hex(), user.Role),
	})
}
