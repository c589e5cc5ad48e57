package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
)

// CollectionOpts narrows a collection view.
type CollectionOpts struct {
	// PublishedOnly hides unpublished rows; admin listings leave it false.
	PublishedOnly bool
	// FeaturedOnly keeps only featured rows.
	FeaturedOnly bool
}

// CollectionView is the view model for a listing page.
type CollectionView struct {
	Items []data.Row
	// Featured and Regular partition Items for routes that pin featured
	// rows above the rest.
	Featured []data.Row
	Regular  []data.Row
	// Tags is the deduplicated, sorted set of tags and categories across
	// all fetched rows.
	Tags []string
}

// HomeView aggregates everything the home page shows.
type HomeView struct {
	Hero             data.Row
	Skills           []data.Row
	Timeline         []data.Row
	FeaturedPosts    []data.Row
	FeaturedProjects []data.Row
	FeaturedClips    []data.Row
}

// ResumeView aggregates the resume page sections.
type ResumeView struct {
	Experiences     []data.Row
	Educations      []data.Row
	SkillCategories []data.Row
	Projects        []data.Row
	Certifications  []data.Row
}

// TableSummary is one dashboard section: a table, its row count, and its
// rows with edit/delete controls.
type TableSummary struct {
	Schema *content.Schema
	Count  int64
	Items  []data.Row
}

// PublishingService projects gateway rows into page view models. Fetch
// failures never propagate: collections degrade to empty, detail lookups
// to not-found.
type PublishingService struct {
	gw  ContentGateway
	log logger.Logger
}

// NewPublishingService creates a PublishingService.
func NewPublishingService(gw ContentGateway, log logger.Logger) *PublishingService {
	return &PublishingService{gw: gw, log: log}
}

// Collection builds the view model for a listing page. Rows come back in
// the table's default order (creation time descending, or explicit
// sort_order for configuration tables).
func (p *PublishingService) Collection(ctx context.Context, sc *content.Schema, opts CollectionOpts) *CollectionView {
	rows, err := p.gw.SelectAll(ctx, sc, data.Query{
		PublishedOnly: opts.PublishedOnly,
		FeaturedOnly:  opts.FeaturedOnly,
	})
	if err != nil {
		p.log.With(map[string]interface{}{"table": sc.Table}).Error(err, "collection fetch failed, degrading to empty")
		return &CollectionView{}
	}

	view := &CollectionView{Items: rows, Tags: aggregateTags(sc, rows)}
	if sc.HasFeatured {
		for _, row := range rows {
			if row.Featured() {
				view.Featured = append(view.Featured, row)
			} else {
				view.Regular = append(view.Regular, row)
			}
		}
	} else {
		view.Regular = rows
	}
	return view
}

// Detail fetches one row by slug. Any gateway failure, not-found included,
// surfaces as ErrNotFound; the caller renders the 404 page.
func (p *PublishingService) Detail(ctx context.Context, sc *content.Schema, slug string) (data.Row, error) {
	row, err := p.gw.SelectOne(ctx, sc, "slug", slug)
	if err != nil {
		if err != data.ErrNotFound {
			p.log.With(map[string]interface{}{"table": sc.Table, "slug": slug}).Error(err, "detail fetch failed")
		}
		return nil, ErrNotFound
	}
	if sc.HasPublished && !row.Published() {
		return nil, ErrNotFound
	}
	return row, nil
}

// Get fetches one row by id without a publish check, for the admin editor.
func (p *PublishingService) Get(ctx context.Context, sc *content.Schema, id int64) (data.Row, error) {
	row, err := p.gw.SelectOne(ctx, sc, "id", id)
	if err != nil {
		if err != data.ErrNotFound {
			p.log.With(map[string]interface{}{"table": sc.Table, "id": id}).Error(err, "fetch by id failed")
		}
		return nil, ErrNotFound
	}
	return row, nil
}

// Home fetches the home page sections in parallel. The reads are
// independent, so a failing one degrades to its empty value while the rest
// render normally.
func (p *PublishingService) Home(ctx context.Context) *HomeView {
	view := &HomeView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows := p.fetch(ctx, content.Heroes, data.Query{})
		if len(rows) > 0 {
			view.Hero = rows[0]
		}
		return nil
	})
	g.Go(func() error {
		view.Skills = p.fetch(ctx, content.Skills, data.Query{})
		return nil
	})
	g.Go(func() error {
		view.Timeline = p.fetch(ctx, content.TimelineEvents, data.Query{})
		return nil
	})
	g.Go(func() error {
		view.FeaturedPosts = p.fetch(ctx, content.BlogPosts, data.Query{PublishedOnly: true, FeaturedOnly: true})
		return nil
	})
	g.Go(func() error {
		view.FeaturedProjects = p.fetch(ctx, content.Projects, data.Query{PublishedOnly: true, FeaturedOnly: true})
		return nil
	})
	g.Go(func() error {
		view.FeaturedClips = p.fetch(ctx, content.GameplayItems, data.Query{PublishedOnly: true, FeaturedOnly: true})
		return nil
	})

	// The goroutines swallow their own errors, so Wait only synchronizes.
	_ = g.Wait()
	return view
}

// Resume fetches the resume sections in parallel, each in sort order.
func (p *PublishingService) Resume(ctx context.Context) *ResumeView {
	view := &ResumeView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { view.Experiences = p.fetch(ctx, content.ResumeExperiences, data.Query{}); return nil })
	g.Go(func() error { view.Educations = p.fetch(ctx, content.ResumeEducations, data.Query{}); return nil })
	g.Go(func() error { view.SkillCategories = p.fetch(ctx, content.ResumeSkillCategories, data.Query{}); return nil })
	g.Go(func() error { view.Projects = p.fetch(ctx, content.ResumeProjects, data.Query{}); return nil })
	g.Go(func() error { view.Certifications = p.fetch(ctx, content.ResumeCertifications, data.Query{}); return nil })

	_ = g.Wait()
	return view
}

// Dashboard summarizes every editable table for the admin area, unfiltered.
func (p *PublishingService) Dashboard(ctx context.Context) []TableSummary {
	summaries := make([]TableSummary, 0, len(content.All))
	for _, sc := range content.All {
		count, err := p.gw.Count(ctx, sc)
		if err != nil {
			p.log.With(map[string]interface{}{"table": sc.Table}).Error(err, "count failed, degrading to zero")
		}
		summaries = append(summaries, TableSummary{
			Schema: sc,
			Count:  count,
			Items:  p.fetch(ctx, sc, data.Query{}),
		})
	}
	return summaries
}

// PublishedSlugs lists the slugs of all published rows of a table, for the
// sitemap.
func (p *PublishingService) PublishedSlugs(ctx context.Context, sc *content.Schema) []data.Row {
	return p.fetch(ctx, sc, data.Query{PublishedOnly: true})
}

func (p *PublishingService) fetch(ctx context.Context, sc *content.Schema, q data.Query) []data.Row {
	rows, err := p.gw.SelectAll(ctx, sc, q)
	if err != nil {
		p.log.With(map[string]interface{}{"table": sc.Table}).Error(err, fmt.Sprintf("fetch failed, treating %s as empty", sc.Table))
		return nil
	}
	return rows
}

// aggregateTags collects the deduplicated tag/category set across rows.
// Matching is case-insensitive on a trimmed key; the first spelling seen
// wins. The result is sorted for stable filter affordances.
func aggregateTags(sc *content.Schema, rows []data.Row) []string {
	seen := map[string]string{}
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; !ok {
			seen[key] = tag
		}
	}
	hasCategory := sc.Field("category") != nil
	for _, row := range rows {
		for _, t := range row.Tags() {
			add(t)
		}
		if hasCategory {
			add(row.Str("category"))
		}
	}
	tags := make([]string, 0, len(seen))
	for _, t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
