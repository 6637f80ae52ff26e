// catalog.go

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

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// ----- Products -----

func createProduct(c *gin.Context) {
	var p Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	if p.Title == "" || p.SKU == "" || p.Price <= 0 {
		c.JSON(400, gin.H{"success": false, "message": "title, sku and price are required"})
		return
	}
	if p.DiscountPrice <= 0 {
		p.DiscountPrice = p.Price
	}
	if p.Status == "" {
		p.Status = "Active"
	}
	p.CreatedAt = time.Now()

	if db.Collection("products").FindOne(context.Background(), bson.M{"sku": p.SKU}).Err() == nil {
		c.JSON(409, gin.H{"success": false, "message": "SKU already exists"})
		return
	}

	res, err := db.Collection("products").InsertOne(context.Background(), p)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "message": "Product created", "product": p})
}

func listProducts(c *gin.Context) {
	filter := bson.M{}
	if v := c.Query("status"); v != "" {
		filter["status"] = v
	}
	if v := c.Query("category"); v != "" {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["category"] = id
		}
	}
	if v := c.Query("section"); v != "" {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["section"] = id
		}
	}
	cur, err := db.Collection("products").Find(context.Background(), filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	products := []Product{}
	if err := cur.All(context.Background(), &products); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "products": products})
}

func getProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var p Product
	err := db.Collection("products").FindOne(context.Background(), bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "product": p})
}

func updateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	delete(fields, "_id")

	var p Product
	err := db.Collection("products").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Product updated", "product": p})
}

func deleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	res, err := db.Collection("products").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Product deleted"})
}

// ----- Categories -----

func createCategory(c *gin.Context) {
	var cat Category
	if err := c.ShouldBindJSON(&cat); err != nil || cat.Name == "" {
		c.JSON(400, gin.H{"success": false, "message": "name is required"})
		return
	}
	cat.CreatedAt = time.Now()
	res, err := db.Collection("categories").InsertOne(context.Background(), cat)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "category": cat})
}

func listCategories(c *gin.Context) {
	cur, err := db.Collection("categories").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	categories := []Category{}
	if err := cur.All(context.Background(), &categories); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "categories": categories})
}

func updateCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	delete(fields, "_id")

	var cat Category
	err := db.Collection("categories").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "category": cat})
}

func deleteCategory(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	res, err := db.Collection("categories").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Category not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Category deleted"})
}

// ----- Sections -----

func createSection(c *gin.Context) {
	var s Section
	if err := c.ShouldBindJSON(&s); err != nil || s.Name == "" {
		c.JSON(400, gin.H{"success": false, "message": "name is required"})
		return
	}
	s.CreatedAt = time.Now()
	res, err := db.Collection("sections").InsertOne(context.Background(), s)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "section": s})
}

func listSections(c *gin.Context) {
	cur, err := db.Collection("sections").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	sections := []Section{}
	if err := cur.All(context.Background(), &sections); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "sections": sections})
}

func deleteSection(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	res, err := db.Collection("sections").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Section not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Section deleted"})
}

// ----- Category banners -----

// applyUpdate overwrites only the fields the request actually sent; an
// update that changes just the category keeps the existing image and vice
// versa.
func (b *CategoryBanner) applyUpdate(category primitive.ObjectID, image string) {
	if category != primitive.NilObjectID {
		b.Category = category
	}
	if image != "" {
		b.Image = image
	}
}

func createCategoryBanner(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid categoryId"})
		return
	}
	var req struct {
		Image  string `json:"image"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(400, gin.H{"success": false, "message": "Image is required"})
		return
	}
	if req.Status != "Inactive" {
		req.Status = "Active"
	}
	banner := CategoryBanner{
		Category:  categoryID,
		Image:     req.Image,
		Status:    req.Status,
		CreatedAt: time.Now(),
	}
	res, err := db.Collection("category_banners").InsertOne(context.Background(), banner)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	banner.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "message": "Category Banner Created", "banner": banner})
}

func listCategoryBanners(c *gin.Context) {
	cur, err := db.Collection("category_banners").Find(context.Background(), bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	banners := []CategoryBanner{}
	if err := cur.All(context.Background(), &banners); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "banners": banners})
}

// listCategoryBannersByCategory only serves Active banners; Inactive ones
// stay visible to the admin listing above.
func listCategoryBannersByCategory(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid categoryId"})
		return
	}
	cur, err := db.Collection("category_banners").Find(context.Background(),
		bson.M{"category": categoryID, "status": "Active"})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	banners := []CategoryBanner{}
	if err := cur.All(context.Background(), &banners); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "banners": banners})
}

func updateCategoryBanner(c *gin.Context) {
	bannerID, err := primitive.ObjectIDFromHex(c.Param("bannerId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid bannerId"})
		return
	}
	var req struct {
		Category string `json:"category"`
		Image    string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid input"})
		return
	}
	categoryID := primitive.NilObjectID
	if req.Category != "" {
		categoryID, err = primitive.ObjectIDFromHex(req.Category)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "invalid category"})
			return
		}
	}

	ctx := context.Background()
	var banner CategoryBanner
	err = db.Collection("category_banners").FindOne(ctx, bson.M{"_id": bannerID}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		c.JSON(404, gin.H{"success": false, "message": "Banner not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	banner.applyUpdate(categoryID, req.Image)

	_, err = db.Collection("category_banners").UpdateOne(ctx,
		bson.M{"_id": bannerID},
		bson.M{"$set": bson.M{"category": banner.Category, "image": banner.Image}})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Banner updated successfully", "banner": banner})
}

func deleteCategoryBanner(c *gin.Context) {
	bannerID, err := primitive.ObjectIDFromHex(c.Param("bannerId"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid bannerId"})
		return
	}
	res, err := db.Collection("category_banners").DeleteOne(context.Background(), bson.M{"_id": bannerID})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Banner not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Category banner deleted successfully"})
}

// ----- Banner slider -----

func createBanner(c *gin.Context) {
	var b BannerSlider
	if err := c.ShouldBindJSON(&b); err != nil || b.Image == "" {
		c.JSON(400, gin.H{"success": false, "message": "image is required"})
		return
	}
	b.CreatedAt = time.Now()
	res, err := db.Collection("banners").InsertOne(context.Background(), b)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(200, gin.H{"success": true, "banner": b})
}

func listBanners(c *gin.Context) {
	cur, err := db.Collection("banners").Find(context.Background(), bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	banners := []BannerSlider{}
	if err := cur.All(context.Background(), &banners); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	c.JSON(200, gin.H{"success": true, "banners": banners})
}

func deleteBanner(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	res, err := db.Collection("banners").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Server error"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(404, gin.H{"success": false, "message": "Banner not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Banner deleted"})
}
