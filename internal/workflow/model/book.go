package model

// BookContentInput 整书生成输入
type BookContentInput struct {
	Idea     string
	Audience string
	Genre    string
	Language string
}

// GeneratedChapter 模型返回的章节
type GeneratedChapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// BookContent 模型返回的整书结构
type BookContent struct {
	Outline  []string           `json:"outline" validate:"required"`
	Chapters []GeneratedChapter `json:"chapters" validate:"required"`
}

// CoverDesignInput 封面设计生成输入
type CoverDesignInput struct {
	Title                 string
	Idea                  string
	Genre                 string
	DesignRecommendations string
}
