package category

// Icons used when rendering report messages, keyed by category or
// report label.
var icons = map[string]string{
	"food":                   "🍔",
	"gas":                    "⛽",
	"food_and_travel":        "🍔/⛽",
	"dating":                 "💖",
	"long_investment":        "📈",
	"opportunity_investment": "🚀",
	"rent":                   "🏠",
	"support_parent":         "👨‍👩‍👧‍👦",
	"investment":             "💹",
	"other":                  "🌟",
	"summarized":             "📊",
	"spend":                  "💸",
	"income":                 "💰",
	"transaction":            "📝",
	"detail":                 "🔍",
	"estimate_budget":        "📌",
	"actual_spend":           "🛒",
	"sheet":                  "📋",
	"compare":                "⚖️",
	"start":                  "🚀",
	"help":                   "❓",
	"today":                  "📅",
	"week":                   "🗓️",
	"month":                  "📆",
	"freelance":              "👨‍💻",
	"salary":                 "🏢",
	"sort":                   "🗂️",
	"ai":                     "🤖",
	"total":                  "💲",
}

// Vietnamese display names for report rendering.
var names = map[string]string{
	"food":                   "Ăn uống",
	"gas":                    "Xăng / Đi lại",
	"food_and_travel":        "Ăn uống & Đi lại",
	"dating":                 "Hẹn hò/Giải trí",
	"long_investment":        "Đầu tư dài hạn",
	"opportunity_investment": "Đầu tư cơ hội",
	"rent":                   "Thuê nhà",
	"support_parent":         "Hỗ trợ ba mẹ",
	"investment":             "Đầu tư",
	"other":                  "Khác",
	"summarized":             "Tổng kết",
	"spend":                  "Chi tiêu",
	"income":                 "Thu nhập",
	"transaction":            "Giao dịch",
	"detail":                 "Chi tiết",
	"estimate_budget":        "Ngân sách dự kiến (% thu nhập)",
	"actual_spend":           "Chi tiêu thực tế",
	"sheet":                  "Bảng tính",
	"compare":                "So sánh",
	"salary":                 "Lương",
	"freelance":              "Làm thêm",
	"total":                  "Tổng cộng",
}

// Icon returns the emoji for a category or report label.
func Icon(key string) string {
	if icon, ok := icons[key]; ok {
		return icon
	}
	return "📝"
}

// Name returns the Vietnamese display name for a category or report label.
func Name(key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return key
}
