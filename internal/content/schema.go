// Package content declares the field schemas for every editable table and
// the normalization rules that turn raw form submissions into typed values.
package content

// Kind describes how a form field is parsed and stored.
type Kind int

const (
	// KindText is a single-line string passed through unchanged.
	KindText Kind = iota
	// KindTextarea is a multi-line string passed through unchanged.
	KindTextarea
	// KindMarkdown is a multi-line string sanitized before persistence.
	KindMarkdown
	// KindBool is a checkbox: "on" or present -> true, absent -> false.
	KindBool
	// KindList is a comma-separated list of short strings.
	KindList
	// KindLines is a newline-separated list of short strings.
	KindLines
	// KindInt is an integer field.
	KindInt
	// KindURL is a single-line string expected to hold a URL.
	KindURL
)

// Field describes one editable column of a table.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
}

// Schema describes one editable table: its columns and how its rows surface
// on the public site.
type Schema struct {
	// Table is the database table name and the identifier used in admin URLs.
	Table string
	// Title is the human name shown in the admin area.
	Title string
	// Fields are the editable columns, in form display order.
	Fields []Field
	// HasSlug marks tables whose rows carry a unique URL slug.
	HasSlug bool
	// HasPublished marks tables with a published flag gating public display.
	HasPublished bool
	// HasFeatured marks tables whose rows can be pinned as featured.
	HasFeatured bool
	// Ordered marks site-configuration tables sequenced by a sort_order
	// column assigned at creation time.
	Ordered bool
	// CollectionPath is the public listing route for this table, empty when
	// rows only appear on composite pages (home, resume).
	CollectionPath string
	// DetailPrefix is the public detail route prefix, empty when rows have
	// no individual page.
	DetailPrefix string
	// ExtraRoutes are additional public routes that surface rows of this
	// table and must be invalidated on writes.
	ExtraRoutes []string
	// BodyField names the free-text markdown column of content variants.
	BodyField string
	// RedirectToDetail sends the editor to the item's public detail page
	// after a save instead of back to the dashboard.
	RedirectToDetail bool
}

// Input returns the form widget name for this field, used by the admin
// editor template.
func (f Field) Input() string {
	switch f.Kind {
	case KindTextarea, KindMarkdown, KindLines:
		return "textarea"
	case KindBool:
		return "checkbox"
	case KindInt:
		return "number"
	case KindURL:
		return "url"
	default:
		return "text"
	}
}

// Field returns the schema field with the given name, or nil.
func (s *Schema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// InvalidationRoutes returns every public route that can surface a row of
// this table. When slug is non-empty the row's detail route is included.
func (s *Schema) InvalidationRoutes(slug string) []string {
	routes := []string{"/"}
	if s.CollectionPath != "" {
		routes = append(routes, s.CollectionPath)
	}
	routes = append(routes, s.ExtraRoutes...)
	if s.DetailPrefix != "" && slug != "" {
		routes = append(routes, s.DetailPrefix+slug)
	}
	return routes
}

// Content variant tables. All five share the title/slug/tags/published/
// featured lifecycle and differ only in their variant-specific columns.
var (
	BlogPosts = &Schema{
		Table: "blog_posts",
		Title: "Blog Posts",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "excerpt", Label: "Excerpt", Kind: KindTextarea, Required: true},
			{Name: "content", Label: "Content", Kind: KindMarkdown, Required: true},
			{Name: "category", Label: "Category", Kind: KindText},
			{Name: "read_time", Label: "Read Time", Kind: KindText},
			{Name: "cover_url", Label: "Cover Image URL", Kind: KindURL},
			{Name: "tags", Label: "Tags", Kind: KindList},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "featured", Label: "Featured", Kind: KindBool},
		},
		HasSlug:          true,
		HasPublished:     true,
		HasFeatured:      true,
		CollectionPath:   "/blog",
		DetailPrefix:     "/blog/",
		BodyField:        "content",
		RedirectToDetail: true,
	}

	Projects = &Schema{
		Table: "projects",
		Title: "Projects",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "description", Label: "Description", Kind: KindMarkdown, Required: true},
			{Name: "repo_url", Label: "Repository URL", Kind: KindURL},
			{Name: "demo_url", Label: "Live Demo URL", Kind: KindURL},
			{Name: "image_url", Label: "Image URL", Kind: KindURL},
			{Name: "technologies", Label: "Technologies", Kind: KindList, Required: true},
			{Name: "tags", Label: "Tags", Kind: KindList},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "featured", Label: "Featured", Kind: KindBool},
		},
		HasSlug:        true,
		HasPublished:   true,
		HasFeatured:    true,
		CollectionPath: "/projects",
		DetailPrefix:   "/projects/",
		BodyField:      "description",
	}

	CodeItems = &Schema{
		Table: "code_items",
		Title: "Code Showcase",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "description", Label: "Description", Kind: KindTextarea, Required: true},
			{Name: "language", Label: "Language", Kind: KindText, Required: true},
			{Name: "snippet", Label: "Snippet", Kind: KindMarkdown},
			{Name: "repo_url", Label: "Repository URL", Kind: KindURL},
			{Name: "tags", Label: "Tags", Kind: KindList},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "featured", Label: "Featured", Kind: KindBool},
		},
		HasSlug:        true,
		HasPublished:   true,
		HasFeatured:    true,
		CollectionPath: "/code",
		DetailPrefix:   "/code/",
		BodyField:      "description",
	}

	ResearchNotes = &Schema{
		Table: "research_notes",
		Title: "Research Notes",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "summary", Label: "Summary", Kind: KindMarkdown, Required: true},
			{Name: "authors", Label: "Authors", Kind: KindList},
			{Name: "publication", Label: "Publication", Kind: KindText},
			{Name: "published_on", Label: "Publication Date", Kind: KindText},
			{Name: "external_url", Label: "External URL", Kind: KindURL},
			{Name: "document_url", Label: "Document URL", Kind: KindURL},
			{Name: "tags", Label: "Keywords", Kind: KindList},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "featured", Label: "Featured", Kind: KindBool},
		},
		HasSlug:        true,
		HasPublished:   true,
		HasFeatured:    true,
		CollectionPath: "/research",
		DetailPrefix:   "/research/",
		BodyField:      "summary",
	}

	GameplayItems = &Schema{
		Table: "gameplay_items",
		Title: "Gameplay Clips",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "game", Label: "Game", Kind: KindText, Required: true},
			{Name: "platform", Label: "Platform", Kind: KindText},
			{Name: "video_url", Label: "Video URL", Kind: KindURL, Required: true},
			{Name: "achievement", Label: "Achievement", Kind: KindText},
			{Name: "description", Label: "Description", Kind: KindMarkdown},
			{Name: "tags", Label: "Tags", Kind: KindList},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "featured", Label: "Featured", Kind: KindBool},
		},
		HasSlug:        true,
		HasPublished:   true,
		HasFeatured:    true,
		CollectionPath: "/gameplay",
		DetailPrefix:   "/gameplay/",
		BodyField:      "description",
	}
)

// Site-configuration tables. These carry no slug or publish flag; siblings
// are sequenced by sort_order.
var (
	Heroes = &Schema{
		Table: "heroes",
		Title: "Homepage Hero",
		Fields: []Field{
			{Name: "title", Label: "Headline", Kind: KindText, Required: true},
			{Name: "subtitle", Label: "Subtitle", Kind: KindText},
			{Name: "intro", Label: "Intro", Kind: KindMarkdown},
			{Name: "avatar_url", Label: "Avatar URL", Kind: KindURL},
		},
		Ordered: true,
	}

	Skills = &Schema{
		Table: "skills",
		Title: "Skills",
		Fields: []Field{
			{Name: "title", Label: "Skill", Kind: KindText, Required: true},
			{Name: "level", Label: "Level", Kind: KindText},
			{Name: "icon_url", Label: "Icon URL", Kind: KindURL},
		},
		Ordered: true,
	}

	TimelineEvents = &Schema{
		Table: "timeline_events",
		Title: "Timeline",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
			{Name: "happened_on", Label: "Date", Kind: KindText, Required: true},
		},
		Ordered: true,
	}

	ResumeExperiences = &Schema{
		Table: "resume_experiences",
		Title: "Resume: Experience",
		Fields: []Field{
			{Name: "title", Label: "Role", Kind: KindText, Required: true},
			{Name: "company", Label: "Company", Kind: KindText, Required: true},
			{Name: "location", Label: "Location", Kind: KindText},
			{Name: "start_date", Label: "Start", Kind: KindText, Required: true},
			{Name: "end_date", Label: "End", Kind: KindText},
			{Name: "highlights", Label: "Highlights", Kind: KindLines},
		},
		Ordered:     true,
		ExtraRoutes: []string{"/resume"},
	}

	ResumeEducations = &Schema{
		Table: "resume_educations",
		Title: "Resume: Education",
		Fields: []Field{
			{Name: "title", Label: "Degree", Kind: KindText, Required: true},
			{Name: "school", Label: "School", Kind: KindText, Required: true},
			{Name: "start_date", Label: "Start", Kind: KindText},
			{Name: "end_date", Label: "End", Kind: KindText},
			{Name: "highlights", Label: "Highlights", Kind: KindLines},
		},
		Ordered:     true,
		ExtraRoutes: []string{"/resume"},
	}

	ResumeSkillCategories = &Schema{
		Table: "resume_skill_categories",
		Title: "Resume: Skill Categories",
		Fields: []Field{
			{Name: "title", Label: "Category", Kind: KindText, Required: true},
			{Name: "items", Label: "Items", Kind: KindList, Required: true},
		},
		Ordered:     true,
		ExtraRoutes: []string{"/resume"},
	}

	ResumeProjects = &Schema{
		Table: "resume_projects",
		Title: "Resume: Projects",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
			{Name: "link_url", Label: "Link", Kind: KindURL},
			{Name: "technologies", Label: "Technologies", Kind: KindList},
		},
		Ordered:     true,
		ExtraRoutes: []string{"/resume"},
	}

	ResumeCertifications = &Schema{
		Table: "resume_certifications",
		Title: "Resume: Certifications",
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "issuer", Label: "Issuer", Kind: KindText, Required: true},
			{Name: "issued_on", Label: "Issued", Kind: KindText},
			{Name: "credential_url", Label: "Credential URL", Kind: KindURL},
		},
		Ordered:     true,
		ExtraRoutes: []string{"/resume"},
	}

	GalleryItems = &Schema{
		Table: "gallery_items",
		Title: "Gallery",
		Fields: []Field{
			{Name: "title", Label: "Name", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
			{Name: "url", Label: "Asset URL", Kind: KindURL, Required: true},
			{Name: "uploader", Label: "Uploader", Kind: KindText},
		},
		CollectionPath: "/gallery",
	}
)

// ContentVariants are the five publishable kinds, in site display order.
var ContentVariants = []*Schema{BlogPosts, Projects, CodeItems, ResearchNotes, GameplayItems}

// SiteConfig are the configuration tables edited through the same machinery.
var SiteConfig = []*Schema{
	Heroes, Skills, TimelineEvents,
	ResumeExperiences, ResumeEducations, ResumeSkillCategories,
	ResumeProjects, ResumeCertifications,
}

// All lists every editable table known to the admin area.
var All = func() []*Schema {
	s := append([]*Schema{}, ContentVariants...)
	s = append(s, SiteConfig...)
	return append(s, GalleryItems)
}()

// ByTable looks up a schema by its table name. The second return value is
// false for unknown tables.
func ByTable(table string) (*Schema, bool) {
	for _, s := range All {
		if s.Table == table {
			return s, true
		}
	}
	return nil, false
}
