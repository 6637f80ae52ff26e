package main

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryBannerApplyUpdate(t *testing.T) {
	original := primitive.NewObjectID()
	replacement := primitive.NewObjectID()

	t.Run("both fields", func(t *testing.T) {
		b := CategoryBanner{Category: original, Image: "/img/old.jpg"}
		b.applyUpdate(replacement, "/img/new.jpg")
		if b.Category != replacement || b.Image != "/img/new.jpg" {
			t.Errorf("update not applied: %+v", b)
		}
	})

	t.Run("image only keeps category", func(t *testing.T) {
		b := CategoryBanner{Category: original, Image: "/img/old.jpg"}
		b.applyUpdate(primitive.NilObjectID, "/img/new.jpg")
		if b.Category != original {
			t.Error("category overwritten although the request did not send one")
		}
		if b.Image != "/img/new.jpg" {
			t.Errorf("image = %q, want /img/new.jpg", b.Image)
		}
	})

	t.Run("category only keeps image", func(t *testing.T) {
		b := CategoryBanner{Category: original, Image: "/img/old.jpg"}
		b.applyUpdate(replacement, "")
		if b.Image != "/img/old.jpg" {
			t.Error("image overwritten although the request did not send one")
		}
		if b.Category != replacement {
			t.Error("category not updated")
		}
	})
}
