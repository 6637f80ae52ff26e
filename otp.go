// otp.go

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OTPStore holds temporary single-use login codes keyed by identity.
// TakeOnce removes the code, so each issued code can be checked exactly once.
type OTPStore interface {
	Put(key, code string, ttl time.Duration)
	TakeOnce(key string) (string, bool)
}

type otpEntry struct {
	code    string
	expires time.Time
}

type memOTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: make(map[string]otpEntry)}
}

func (s *memOTPStore) Put(key, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key] = otpEntry{code: code, expires: time.Now().Add(ttl)}
}

func (s *memOTPStore) TakeOnce(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[key]
	if !ok {
		return "", false
	}
	delete(s.codes, key)
	if time.Now().After(e.expires) {
		return "", false
	}
	return e.code, true
}

const otpTTL = 5 * time.Minute

func newOTPCode() string {
	// OTP_DEV_CODE fixes the code for local frontends without an SMS gateway
	if dev := os.Getenv("OTP_DEV_CODE"); dev != "" {
		return dev
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("%06d", n.Int64())
}

func sendOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" {
		c.JSON(400, gin.H{"success": false, "message": "Mobile number is required"})
		return
	}

	var user MobileUser
	err := db.Collection("mobile_users").FindOne(context.Background(), bson.M{"mobile": req.Mobile}).Decode(&user)
	if err == nil && user.Blocked {
		c.JSON(403, gin.H{"success": false, "message": "Your account has been blocked. Contact support."})
		return
	}

	code := newOTPCode()
	otpCodes.Put(req.Mobile, code, otpTTL)
	// TODO: deliver via SMS gateway instead of the server log
	log.Printf("OTP for %s: %s", req.Mobile, code)

	c.JSON(200, gin.H{"success": true, "message": "OTP sent successfully"})
}

func verifyOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
		OTP    string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" || req.OTP == "" {
		c.JSON(400, gin.H{"success": false, "message": "Mobile and OTP are required"})
		return
	}

	code, ok := otpCodes.TakeOnce(req.Mobile)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "OTP not requested or expired"})
		return
	}
	if code != req.OTP {
		c.JSON(400, gin.H{"success": false, "message": "Invalid OTP"})
		return
	}

	ctx := context.Background()
	var user MobileUser
	err := db.Collection("mobile_users").FindOne(ctx, bson.M{"mobile": req.Mobile}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// first successful verification registers the user
		user = MobileUser{Mobile: req.Mobile, CreatedAt: time.Now()}
		res, insErr := db.Collection("mobile_users").InsertOne(ctx, user)
		if insErr != nil {
			c.JSON(500, gin.H{"success": false, "message": "Server error"})
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)
	} else if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if user.Blocked {
		c.JSON(403, gin.H{"success": false, "message": "Your account has been blocked. Contact support."})
		return
	}

	now := time.Now()
	db.Collection("mobile_users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"lastLoginAt": now}})
	user.LastLoginAt = now

	c.JSON(200, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   signToken(user.ID.Hex(), "user"),
	})
}

// normalizeProfile cleans the name and email a first-time user submits after
// OTP verification. Emails are matched lowercase everywhere else.
func normalizeProfile(name, email string) (string, string) {
	return strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
}

// saveMobileProfile completes registration for users who verified an OTP but
// have no name/email on file yet.
func saveMobileProfile(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" || req.Name == "" || req.Email == "" {
		c.JSON(400, gin.H{"success": false, "message": "Mobile, name and email are required"})
		return
	}

	name, email := normalizeProfile(req.Name, req.Email)
	var user MobileUser
	err := db.Collection("mobile_users").FindOneAndUpdate(
		context.Background(),
		bson.M{"mobile": req.Mobile},
		bson.M{"$set": bson.M{"name": name, "email": email, "lastLoginAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"step":    "registered",
		"user":    user,
		"token":   signToken(user.ID.Hex(), "user"),
	})
}

// deleteMobileUser removes an account by mobile number.
func deleteMobileUser(c *gin.Context) {
	mobile := c.Param("mobile")
	err := db.Collection("mobile_users").FindOneAndDelete(
		context.Background(), bson.M{"mobile": mobile}).Err()
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "User deleted successfully"})
}
