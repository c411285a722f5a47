package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/apperr"
)

func TestUpsertCommentTwiceKeepsOne(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	comments := newFakeCommentStore()
	svc := services.NewCommentService(comments, products)
	userID := primitive.NewObjectID()

	first, err := svc.Upsert(context.Background(), p.ID, userID, "nice serum", 4)
	require.NoError(t, err)

	second, err := svc.Upsert(context.Background(), p.ID, userID, "changed my mind", 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "overwrite, not append")
	assert.Equal(t, "changed my mind", second.Text)
	assert.Equal(t, 2, second.Rating)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	list, total, err := svc.List(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1, "exactly one stored comment per (product,user)")
	assert.Equal(t, "changed my mind", list[0].Text)
}

func TestUpsertCommentUnknownProduct(t *testing.T) {
	svc := services.NewCommentService(newFakeCommentStore(), newFakeProductStore())

	_, err := svc.Upsert(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "hello", 0)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound), "got %v", err)
}

func TestUpsertCommentValidation(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	svc := services.NewCommentService(newFakeCommentStore(), products)
	userID := primitive.NewObjectID()

	_, err := svc.Upsert(context.Background(), p.ID, userID, "", 0)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "empty text, got %v", err)

	_, err = svc.Upsert(context.Background(), p.ID, userID, "ok", 6)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "rating 6, got %v", err)
}

func TestListCommentsAscendingAndDistinctUsers(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	svc := services.NewCommentService(newFakeCommentStore(), products)

	_, err := svc.Upsert(context.Background(), p.ID, primitive.NewObjectID(), "first", 0)
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), p.ID, primitive.NewObjectID(), "second", 0)
	require.NoError(t, err)

	list, _, err := svc.List(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text, "oldest first")
}

func TestRepostedCommentMovesToEnd(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	svc := services.NewCommentService(newFakeCommentStore(), products)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	_, err := svc.Upsert(context.Background(), p.ID, alice, "first", 0)
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), p.ID, bob, "second", 0)
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), p.ID, alice, "revised", 0)
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text, "untouched comment keeps its slot")
	assert.Equal(t, "revised", list[1].Text, "refreshed comment sorts last")
}

func TestListCommentsPaginates(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	svc := services.NewCommentService(newFakeCommentStore(), products)

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.Upsert(context.Background(), p.ID, primitive.NewObjectID(), text, 0)
		require.NoError(t, err)
	}

	list, total, err := svc.List(context.Background(), p.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Text)

	list, total, err = svc.List(context.Background(), p.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, "three", list[0].Text)
}

func TestModerateHidesComment(t *testing.T) {
	products := newFakeProductStore()
	p := products.seed(models.Product{Name: "Serum", Slug: "serum", Visible: true})
	comments := newFakeCommentStore()
	svc := services.NewCommentService(comments, products)

	c, err := svc.Upsert(context.Background(), p.ID, primitive.NewObjectID(), "spam spam", 0)
	require.NoError(t, err)

	hide := false
	_, err = svc.Moderate(context.Background(), c.ID, services.CommentPatch{Visible: &hide})
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list, "hidden comments leave the public listing")
}

func TestModerateUnknownComment(t *testing.T) {
	svc := services.NewCommentService(newFakeCommentStore(), newFakeProductStore())

	hide := false
	_, err := svc.Moderate(context.Background(), primitive.NewObjectID(), services.CommentPatch{Visible: &hide})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound), "got %v", err)
}
