//go:build unit

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
)

func TestCollectionPartitionsFeatured(t *testing.T) {
	gw := &mockGateway{rowsToReturn: []data.Row{
		{"id": int64(1), "title": "a", "featured": true, "tags": []string{"go"}},
		{"id": int64(2), "title": "b", "featured": false, "tags": []string{"web"}},
		{"id": int64(3), "title": "c", "featured": true, "tags": []string{"go"}},
	}}
	pub := NewPublishingService(gw, newTestLogger())

	view := pub.Collection(context.Background(), content.BlogPosts, CollectionOpts{PublishedOnly: true})
	if len(view.Featured) != 2 || len(view.Regular) != 1 {
		t.Errorf("partition = %d featured / %d regular", len(view.Featured), len(view.Regular))
	}
	if len(view.Items) != 3 {
		t.Errorf("items = %d", len(view.Items))
	}
}

func TestCollectionAggregatesTags(t *testing.T) {
	gw := &mockGateway{rowsToReturn: []data.Row{
		{"id": int64(1), "tags": []string{"Go", "web"}, "category": "devlog"},
		{"id": int64(2), "tags": []string{"go", "sql"}, "category": ""},
	}}
	pub := NewPublishingService(gw, newTestLogger())

	view := pub.Collection(context.Background(), content.BlogPosts, CollectionOpts{})
	want := []string{"Go", "devlog", "sql", "web"}
	if !reflect.DeepEqual(view.Tags, want) {
		t.Errorf("tags = %v, want %v", view.Tags, want)
	}
}

func TestCollectionDegradesToEmpty(t *testing.T) {
	gw := &mockGateway{errToReturn: errors.New("connection refused")}
	pub := NewPublishingService(gw, newTestLogger())

	view := pub.Collection(context.Background(), content.Projects, CollectionOpts{PublishedOnly: true})
	if len(view.Items) != 0 || len(view.Featured) != 0 || len(view.Tags) != 0 {
		t.Errorf("expected empty view, got %+v", view)
	}
}

func TestDetailNotFound(t *testing.T) {
	gw := &mockGateway{}
	pub := NewPublishingService(gw, newTestLogger())

	_, err := pub.Detail(context.Background(), content.BlogPosts, "missing-slug")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDetailHidesUnpublished(t *testing.T) {
	gw := &mockGateway{rowToReturn: data.Row{"id": int64(1), "slug": "draft", "published": false}}
	pub := NewPublishingService(gw, newTestLogger())

	if _, err := pub.Detail(context.Background(), content.BlogPosts, "draft"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unpublished row", err)
	}
}

func TestDetailStoreErrorBecomesNotFound(t *testing.T) {
	gw := &mockGateway{rowToReturn: data.Row{}, errToReturn: errors.New("timeout")}
	pub := NewPublishingService(gw, newTestLogger())

	if _, err := pub.Detail(context.Background(), content.BlogPosts, "any"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound on store failure", err)
	}
}

func TestHomeDegradesFailingSection(t *testing.T) {
	gw := &mockGateway{errToReturn: errors.New("connection refused")}
	pub := NewPublishingService(gw, newTestLogger())

	view := pub.Home(context.Background())
	if view.Skills != nil || view.FeaturedPosts != nil {
		t.Errorf("expected empty sections, got %+v", view)
	}
}

func TestDashboardListsAllTables(t *testing.T) {
	gw := &mockGateway{rowsToReturn: []data.Row{{"id": int64(1), "title": "x"}}}
	pub := NewPublishingService(gw, newTestLogger())

	summaries := pub.Dashboard(context.Background())
	if len(summaries) != len(content.All) {
		t.Fatalf("summaries = %d, want %d", len(summaries), len(content.All))
	}
	for _, s := range summaries {
		if s.Count != 1 {
			t.Errorf("table %s count = %d", s.Schema.Table, s.Count)
		}
	}
}
