package entity

// 内置展示数据。未持久化对应文档时统一从这里取默认值。

const unsplash = "https://images.unsplash.com/"

// SampleChapters 未生成书稿时章节编辑器展示的示例章节
func SampleChapters() []Chapter {
	chapters := []Chapter{
		{
			Title: "Introduction to the Topic",
			Content: "Welcome to this comprehensive guide. In this book, we will explore the fundamental concepts " +
				"and practical applications that will help you master this subject. Whether you are a beginner " +
				"or have some experience, this book is designed to provide valuable insights and actionable " +
				"strategies that you can implement immediately.\n\nThroughout the following chapters, we will build " +
				"a solid foundation before moving on to more advanced techniques. Each chapter includes practical " +
				"examples and exercises to reinforce your learning.",
			Status:         ChapterStatusCompleted,
			StatusExplicit: true,
		},
		{
			Title:   "Chapter 1: Getting Started",
			Content: "Getting started is often the hardest part. In this chapter we set up everything you need and take the first practical steps.",
		},
		{
			Title:          "Chapter 2: Core Concepts",
			Content:        "This chapter explores the fundamental building blocks of effective writing...",
			Status:         ChapterStatusDraft,
			StatusExplicit: true,
		},
		{Title: "Chapter 3: Advanced Techniques"},
	}
	for i := range chapters {
		chapters[i].Refresh()
	}
	return chapters
}

// DefaultCategories 上架可选分类
func DefaultCategories() []Category {
	return []Category{
		{Value: "education", Label: "Education", Subcategories: []string{"Writing & Literature", "Business", "Technology", "Health & Wellness"}},
		{Value: "fiction", Label: "Fiction", Subcategories: []string{"Romance", "Mystery", "Science Fiction", "Fantasy"}},
		{Value: "non-fiction", Label: "Non-Fiction", Subcategories: []string{"Biography", "History", "Self-Help", "Science"}},
		{Value: "business", Label: "Business", Subcategories: []string{"Entrepreneurship", "Marketing", "Finance", "Leadership"}},
	}
}

// BrowseCategories 市场浏览页分类筛选项
func BrowseCategories() []Category {
	return []Category{
		{Value: "all", Label: "All Categories"},
		{Value: "education", Label: "Education"},
		{Value: "technology", Label: "Technology"},
		{Value: "business", Label: "Business"},
		{Value: "arts", Label: "Arts"},
		{Value: "health", Label: "Health"},
	}
}

// MarketplaceFixtures 市场内置书籍
func MarketplaceFixtures() []Listing {
	return []Listing{
		{ID: 1, Title: "The Art of Creative Writing", Author: "Sarah Johnson", Price: 19.99, Rating: 4.8, ReviewCount: 124,
			Category: "Education", Subcategory: "Writing & Literature", CoverURL: unsplash + "photo-1481627834876-b7833e8f5570",
			Description: "Master the craft of creative writing with this comprehensive guide.",
			Tags:        []string{"writing", "creativity", "education"}, Bestseller: true},
		{ID: 2, Title: "Modern Web Development", Author: "Alex Chen", Price: 29.99, Rating: 4.6, ReviewCount: 89,
			Category: "Technology", Subcategory: "Programming", CoverURL: unsplash + "photo-1516321318423-f06f85e504b3",
			Description: "Learn modern web development with React, Node.js, and more.",
			Tags:        []string{"programming", "web development", "react"}},
		{ID: 3, Title: "Photography Fundamentals", Author: "Mike Roberts", Price: 24.99, Rating: 4.7, ReviewCount: 156,
			Category: "Arts", Subcategory: "Photography", CoverURL: unsplash + "photo-1471913743851-c4df8b6ee133",
			Description: "Master the basics of photography with practical tips and techniques.",
			Tags:        []string{"photography", "art", "fundamentals"}},
		{ID: 4, Title: "Digital Marketing Mastery", Author: "Emma Davis", Price: 34.99, Rating: 4.9, ReviewCount: 203,
			Category: "Business", Subcategory: "Marketing", CoverURL: unsplash + "photo-1460925895917-afdab827c52f",
			Description: "Complete guide to digital marketing strategies and tactics.",
			Tags:        []string{"marketing", "business", "digital"}, Bestseller: true},
		{ID: 5, Title: "Mindfulness & Meditation", Author: "Dr. Lisa Park", Price: 16.99, Rating: 4.5, ReviewCount: 78,
			Category: "Health", Subcategory: "Mental Health", CoverURL: unsplash + "photo-1506905925346-21bda4d32df4",
			Description: "Find peace and clarity through mindfulness practices.",
			Tags:        []string{"mindfulness", "meditation", "wellness"}},
		{ID: 6, Title: "Startup Success Stories", Author: "James Wilson", Price: 22.99, Rating: 4.4, ReviewCount: 67,
			Category: "Business", Subcategory: "Entrepreneurship", CoverURL: unsplash + "photo-1553877522-43269d4ea984",
			Description: "Learn from successful entrepreneurs and their journeys.",
			Tags:        []string{"entrepreneurship", "startup", "business"}},
	}
}

// DetailFixture 详情页扩展信息，按书籍 id 索引
func DetailFixture(id int64) (BookDetail, bool) {
	if id != 1 {
		return BookDetail{}, false
	}
	var base Listing
	for _, l := range MarketplaceFixtures() {
		if l.ID == id {
			base = l
		}
	}
	base.Tags = append(base.Tags, "guide")
	base.Description = "Unlock your creative potential with this comprehensive guide to creative writing. " +
		"Whether you're a beginner looking to start your writing journey or an experienced writer seeking to " +
		"refine your craft, this book provides practical techniques, exercises, and insights from years of " +
		"teaching and writing experience."
	return BookDetail{
		Listing:       base,
		OriginalPrice: 24.99,
		PublishDate:   "2024-01-15",
		Pages:         156,
		Language:      "English",
		Format:        "Digital PDF",
		TableOfContents: []string{
			"Introduction to Creative Writing",
			"Chapter 1: Getting Started",
			"Chapter 2: Core Concepts",
			"Chapter 3: Advanced Techniques",
			"Chapter 4: Real-World Applications",
			"Conclusion and Next Steps",
		},
		AuthorBio: "Sarah Johnson is an award-winning author and creative writing instructor with over 15 years " +
			"of experience helping writers find their voice.",
		Reviews: []Review{
			{ID: 1, Author: "Alex M.", Rating: 5, Date: "2024-01-20", Comment: "Excellent guide! The exercises really helped me improve my writing skills."},
			{ID: 2, Author: "Jennifer L.", Rating: 4, Date: "2024-01-18", Comment: "Great resource for beginners. Clear explanations and practical tips."},
			{ID: 3, Author: "Mike R.", Rating: 5, Date: "2024-01-16", Comment: "This book transformed my writing! Highly recommend to anyone serious about creative writing."},
		},
	}, true
}

// AuthorStatsFixture 作者收益概览
func AuthorStatsFixture() AuthorStats {
	return AuthorStats{TotalEarnings: 1247.50, TotalSales: 156, ThisMonth: 385.25, LastMonth: 298.75}
}

// AuthorBooksFixture 作者书籍
func AuthorBooksFixture() []AuthorBook {
	return []AuthorBook{
		{ID: 1, Title: "The Art of Creative Writing", CoverURL: unsplash + "photo-1481627834876-b7833e8f5570", Status: "published",
			Sales: 89, Earnings: 445.00, MonthlySales: 24, MonthlyEarnings: 120.00, Rating: 4.8, ReviewCount: 124},
		{ID: 2, Title: "Modern Web Development Guide", CoverURL: unsplash + "photo-1516321318423-f06f85e504b3", Status: "published",
			Sales: 45, Earnings: 675.00, MonthlySales: 12, MonthlyEarnings: 180.00, Rating: 4.6, ReviewCount: 89},
		{ID: 3, Title: "Photography Fundamentals", CoverURL: unsplash + "photo-1471913743851-c4df8b6ee133", Status: "published",
			Sales: 22, Earnings: 127.50, MonthlySales: 8, MonthlyEarnings: 85.25, Rating: 4.7, ReviewCount: 156},
	}
}

// RecentSalesFixture 最近销售
func RecentSalesFixture() []SaleRecord {
	return []SaleRecord{
		{Date: "2024-01-20", BookTitle: "The Art of Creative Writing", Amount: 19.99, Buyer: "Alex M."},
		{Date: "2024-01-20", BookTitle: "Modern Web Development Guide", Amount: 29.99, Buyer: "Jennifer L."},
		{Date: "2024-01-19", BookTitle: "The Art of Creative Writing", Amount: 19.99, Buyer: "Mike R."},
		{Date: "2024-01-19", BookTitle: "Photography Fundamentals", Amount: 24.99, Buyer: "Sarah K."},
		{Date: "2024-01-18", BookTitle: "The Art of Creative Writing", Amount: 19.99, Buyer: "Tom W."},
	}
}

// AdminStatsFixture 平台概览
func AdminStatsFixture() AdminStats {
	return AdminStats{
		TotalUsers:     1247,
		TotalBooks:     589,
		PendingReviews: 23,
		TotalRevenue:   45678.90,
		ThisMonth:      MonthlyStats{NewUsers: 89, NewBooks: 34, Revenue: 12456.78},
	}
}

// PendingBooksFixture 待审核书籍
func PendingBooksFixture() []ModeratedBook {
	return []ModeratedBook{
		{ID: 1, Title: "Advanced Machine Learning", Author: "Dr. Emily Chen", Category: "Technology", Status: ModerationPending,
			SubmittedDate: "2024-01-20", Price: 39.99, CoverURL: unsplash + "photo-1516321318423-f06f85e504b3"},
		{ID: 2, Title: "Digital Marketing Strategies", Author: "Mark Thompson", Category: "Business", Status: ModerationPending,
			SubmittedDate: "2024-01-19", Price: 24.99, CoverURL: unsplash + "photo-1460925895917-afdab827c52f"},
		{ID: 3, Title: "Creative Writing Workshop", Author: "Lisa Martinez", Category: "Education", Status: ModerationPending,
			SubmittedDate: "2024-01-18", Price: 19.99, CoverURL: unsplash + "photo-1481627834876-b7833e8f5570"},
	}
}

// ReviewedBooksFixture 已审核书籍
func ReviewedBooksFixture() []ModeratedBook {
	return []ModeratedBook{
		{ID: 4, Title: "The Art of Creative Writing", Author: "Sarah Johnson", Category: "Education", Status: ModerationApproved,
			Sales: 89, Revenue: 1780.11, ApprovedDate: "2024-01-15"},
		{ID: 5, Title: "Photography Fundamentals", Author: "Mike Roberts", Category: "Arts", Status: ModerationApproved,
			Sales: 156, Revenue: 3899.44, ApprovedDate: "2024-01-10"},
		{ID: 6, Title: "Beginner's Guide to Cooking", Author: "Chef Amanda", Category: "Lifestyle", Status: ModerationRejected,
			RejectionReason: "Content quality issues", RejectedDate: "2024-01-12"},
	}
}

// AdminUsersFixture 平台用户
func AdminUsersFixture() []AdminUser {
	return []AdminUser{
		{ID: 1, Name: "Sarah Johnson", Email: "sarah@example.com", JoinDate: "2024-01-01", BookCount: 3, Earnings: 1247.50, Status: "active"},
		{ID: 2, Name: "Mike Roberts", Email: "mike@example.com", JoinDate: "2024-01-05", BookCount: 1, Earnings: 3899.44, Status: "active"},
		{ID: 3, Name: "Emily Chen", Email: "emily@example.com", JoinDate: "2024-01-15", BookCount: 0, Earnings: 0, Status: "pending"},
	}
}
