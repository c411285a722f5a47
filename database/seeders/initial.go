package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/pkg/database"
)

func init() {
	Register("admin", SeedAdmin)
	Register("catalog", SeedCatalog)
	Register("demo-user", SeedDemoUser)
	Register("demo-comment", SeedDemoComment)
}

// SeedAdmin creates the default back-office account (admin/admin).
// Change the password before exposing the instance.
func SeedAdmin(ctx context.Context, store *database.Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.Admins.UpdateOne(ctx,
		bson.M{"username": "admin"},
		bson.M{"$setOnInsert": models.Admin{
			Username:     "admin",
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedCatalog inserts the starter products. Existing slugs are left
// untouched so restocks and price edits survive redeploys.
func SeedCatalog(ctx context.Context, store *database.Store) error {
	now := time.Now()

	products := []models.Product{
		{
			Name:         "Face Serum",
			Slug:         "face-serum",
			MRP:          599,
			SellingPrice: 399,
			Description:  "Vitamin C brightening serum, 30ml.",
			Visible:      true,
			Category:     "skincare",
			Stock:        120,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Name:         "Moisturiser",
			Slug:         "moisturiser",
			MRP:          499,
			SellingPrice: 349,
			Description:  "Daily hydrating moisturiser for all skin types.",
			Visible:      true,
			Category:     "skincare",
			Stock:        85,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Name:         "Lipstick",
			Slug:         "lipstick",
			MRP:          299,
			SellingPrice: 199,
			Description:  "Matte finish lipstick, crimson.",
			Visible:      true,
			Category:     "makeup",
			Stock:        200,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for _, p := range products {
		_, err := store.Products.UpdateOne(ctx,
			bson.M{"slug": p.Slug},
			bson.M{"$setOnInsert": p},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedDemoUser creates a customer for manual testing (9876543210/user123).
func SeedDemoUser(ctx context.Context, store *database.Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.Users.UpdateOne(ctx,
		bson.M{"phone": "9876543210"},
		bson.M{"$setOnInsert": models.User{
			Phone:        "9876543210",
			Name:         "Aditi",
			PasswordHash: string(hash),
			Address: models.Address{
				Line1:   "14 MG Road",
				City:    "Bengaluru",
				State:   "Karnataka",
				Pincode: "560001",
				Country: "IN",
			},
			CreatedAt: time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedDemoComment attaches one visible comment from the demo user to the
// face serum, so the public comments endpoint has data out of the box.
func SeedDemoComment(ctx context.Context, store *database.Store) error {
	var product models.Product
	if err := store.Products.FindOne(ctx, bson.M{"slug": "face-serum"}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	var user models.User
	if err := store.Users.FindOne(ctx, bson.M{"phone": "9876543210"}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	now := time.Now()
	_, err := store.Comments.UpdateOne(ctx,
		bson.M{"productId": product.ID, "userId": user.ID},
		bson.M{"$setOnInsert": models.Comment{
			ProductID: product.ID,
			UserID:    user.ID,
			Text:      "Noticeably brighter skin after two weeks.",
			Rating:    5,
			Visible:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}
