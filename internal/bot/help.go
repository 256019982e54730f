package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/parser"
)

const logExpenseUsage = `❌ Định dạng không đúng!

📖 Cách nhập hợp lệ:

🅰️ Case A: Mặc định (không ngày/giờ)
➡️ ` + "`1000 t`" + ` → dd:mm hh:mm:ss 1000 VND

🅱️ Case B: Có ngày (mặc định 00:00:00)
📅 ` + "`02/09 5000 c`" + ` → 02/09 00:00:00 5000 VND

🅾️ Case C: Có ngày + giờ
⏰ ` + "`02/09 08h30s10 10000 s`" + ` → 02/09 08:30:10 10000 VND`

const deleteExpenseUsage = `❌ Định dạng xóa không đúng!

🗑️ Cách xóa giao dịch:

🅰️ Case A: Chỉ nhập giờ (mặc định hôm nay)
⏰ ` + "`del 08h30`" + ` → Xóa hôm nay lúc 08:30:00

🅱️ Case B: Ngày + Giờ
📅 ` + "`del 14/10 00h11`" + ` → Xóa giao dịch ngày 14/10 lúc 00:11:00

🅾️ Case C: Ngày + Giờ + Giây (chính xác tuyệt đối)
⏱️ ` + "`del 08h30s45`" + ` → Hôm nay lúc 08:30:45
⏱️ ` + "`del 14/10 10h30s45`" + ` → Ngày 14/10 lúc 10:30:45`

func helpMessage() string {
	var b strings.Builder
	b.WriteString("📖 Hướng dẫn sử dụng CashPilot\n\n")
	b.WriteString("⚡ Danh sách shortcut:\n")
	b.WriteString(shortcutList())
	b.WriteString("\n⏰ Ví dụ nhập nhanh:\n")
	b.WriteString("• `5 c` → 5000 VND cafe\n")
	b.WriteString("• `15 t` → 15000 VND ăn trưa\n")
	b.WriteString("• `02/09 5 c` → 02/09 5000 VND cafe\n")
	b.WriteString("• `02/09 08:30 15 t` → 02/09 08:30 15000 VND ăn trưa\n\n")
	b.WriteString("📊 Lệnh thống kê:\n")
	b.WriteString("• /today → Chi tiêu hôm nay (/t) 📅\n")
	b.WriteString("• /week → Chi tiêu tuần này (/w) 🗓️\n")
	b.WriteString("• /month → Chi tiêu tháng này (/m) 📆\n\n")
	b.WriteString("• /gas → Xăng xe (/g) ⛽\n")
	b.WriteString("• /food → Ăn uống (/f) 🍜\n")
	b.WriteString("• /dating → Hẹn hò/giải trí (/d) 🎉\n")
	b.WriteString("• /other → Khác (/o) 🛒\n")
	b.WriteString("• /investment → Đầu tư (/i) 📈\n")
	b.WriteString("• /ai → Phân tích chi tiêu (/a) 🤖\n\n")
	b.WriteString("💰 Thu nhập:\n")
	b.WriteString("• /salary [số tiền] → Ghi nhận lương (/sl) 🏢\n")
	b.WriteString("• /freelance [số tiền] → Ghi nhận freelance (/fl) 💻\n")
	b.WriteString("• /income → Tổng thu nhập (/inc) 💰\n\n")
	b.WriteString("📦 Tài sản:\n")
	b.WriteString("• /assets → Tổng tài sản 💼\n")
	b.WriteString("• /profit → Lợi nhuận 💹\n")
	b.WriteString("• /price → Giá hiện tại 💱\n\n")
	b.WriteString("🗑️ Xóa:\n")
	b.WriteString("• del dd/mm hh:mm\n\n")
	b.WriteString("🤖 Bot tự động sắp xếp theo thời gian!")
	return b.String()
}

func shortcutList() string {
	table := parser.Shortcuts()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "• `%s` → %s\n", k, table[k])
	}
	return b.String()
}

func categoriesMessage() string {
	var b strings.Builder
	b.WriteString("🗂 Danh mục:\n\n")
	for _, rule := range category.Rules() {
		key := string(rule.Category)
		fmt.Fprintf(&b, "%s %s\n", category.Icon(key), category.Name(key))
	}
	key := string(category.Other)
	fmt.Fprintf(&b, "%s %s\n", category.Icon(key), category.Name(key))
	return b.String()
}

// keywordsMessage renders the classifier keyword sets as a code block,
// three keywords per line.
func keywordsMessage() string {
	var lines []string
	lines = append(lines, "🏷️ Từ khóa phân loại\n")

	for _, rule := range category.Rules() {
		key := string(rule.Category)
		lines = append(lines, fmt.Sprintf("%s %s", category.Icon(key), category.Name(key)))
		lines = append(lines, strings.Repeat("-", 35))
		for i := 0; i < len(rule.Keywords); i += 3 {
			end := i + 3
			if end > len(rule.Keywords) {
				end = len(rule.Keywords)
			}
			lines = append(lines, "   "+strings.Join(rule.Keywords[i:end], " • "))
		}
		lines = append(lines, "")
	}

	return "```\n" + strings.Join(lines, "\n") + "\n```"
}
