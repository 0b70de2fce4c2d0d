package entity

// PlaceholderCoverURL 未渲染封面时使用的占位图
const PlaceholderCoverURL = "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=400&h=600&fit=crop&auto=format"

// 设计默认值
const (
	DefaultBookTitle    = "The Art of Creative Writing"
	DefaultBookSubtitle = "A Complete Guide to Mastering the Craft"
	DefaultAuthorName   = "Your Name"
)

// BookDesign 封面设计
type BookDesign struct {
	Title                 string  `json:"title" validate:"required,max=300"`
	Subtitle              string  `json:"subtitle" validate:"max=300"`
	Author                string  `json:"author" validate:"required,max=200"`
	SelectedTemplate      int     `json:"selectedTemplate" validate:"min=0"`
	GeneratedCoverURL     *string `json:"generatedCoverUrl,omitempty" validate:"omitempty,max=2048"`
	DesignRecommendations string  `json:"designRecommendations" validate:"max=2000"`
}

// DefaultBookDesign 返回默认设计，标题/副标题优先取草稿
func DefaultBookDesign(draft *BookDraft) *BookDesign {
	d := &BookDesign{
		Title:    DefaultBookTitle,
		Subtitle: DefaultBookSubtitle,
		Author:   DefaultAuthorName,
	}
	if draft != nil && draft.Title != "" {
		d.Title = draft.Title
	}
	return d
}

// CoverDesign 生成的封面设计描述
type CoverDesign struct {
	ImagePrompt string `json:"imagePrompt" validate:"required"`
	ColorScheme string `json:"colorScheme"`
	Style       string `json:"style"`
	Typography  string `json:"typography"`
}

// DesignTemplate 封面模板
type DesignTemplate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Preview     string `json:"preview"`
	Description string `json:"description"`
}

// DesignTemplates 内置封面模板
func DesignTemplates() []DesignTemplate {
	return []DesignTemplate{
		{ID: 0, Name: "Modern Minimalist", Preview: "https://images.unsplash.com/photo-1481627834876-b7833e8f5570", Description: "Clean, professional design with bold typography"},
		{ID: 1, Name: "Creative Abstract", Preview: "https://images.unsplash.com/photo-1516321318423-f06f85e504b3", Description: "Artistic background with modern layout"},
		{ID: 2, Name: "Classic Literature", Preview: "https://images.unsplash.com/photo-1471913743851-c4df8b6ee133", Description: "Traditional book design with elegant serif fonts"},
		{ID: 3, Name: "Tech & Innovation", Preview: "https://images.unsplash.com/photo-1487058792275-0ad4aaf24ca7", Description: "Modern tech-inspired design with gradients"},
	}
}

// CoverURL 按优先级返回封面：生成封面 > 所选模板 > 占位图
func (d *BookDesign) CoverURL() string {
	if d == nil {
		return PlaceholderCoverURL
	}
	if d.GeneratedCoverURL != nil && *d.GeneratedCoverURL != "" {
		return *d.GeneratedCoverURL
	}
	templates := DesignTemplates()
	if d.SelectedTemplate >= 0 && d.SelectedTemplate < len(templates) {
		return templates[d.SelectedTemplate].Preview
	}
	return PlaceholderCoverURL
}
