// Package analyze turns a rendered month report into a narrative
// review written by a generative model, in Vietnamese, formatted for
// Telegram HTML.
package analyze

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const systemPrompt = "Bạn là một trợ lý tài chính cá nhân thông minh, phản hồi hoàn toàn bằng tiếng Việt. " +
	"Phân tích dữ liệu chi tiêu hàng tháng (bao gồm thu nhập, ngân sách và chi tiêu thực tế) để đưa ra phân tích và khuyến nghị.\n\n" +
	"⚙️ Quy ước dữ liệu:\n" +
	"- Mỗi dòng chi tiêu có dạng: <Tên hạng mục>: <Chi tiêu thực tế> VND (<Chênh lệch>)\n" +
	"- Giá trị trong ngoặc thể hiện CHÊNH LỆCH giữa chi tiêu thực tế và ngân sách:\n" +
	"    • Dấu (+) nghĩa là chi tiêu ÍT HƠN ngân sách (TIẾT KIỆM)\n" +
	"    • Dấu (-) nghĩa là chi tiêu NHIỀU HƠN ngân sách (VƯỢT CHI)\n" +
	"- Ví dụ: (+1,000,000) = tiết kiệm 1 triệu. (-500,000) = vượt ngân sách 500 nghìn.\n\n" +
	"⚙️ Phân tích yêu cầu:\n" +
	"1️⃣ Xác định các hạng mục chi vượt ngân sách (dấu -) và hạng mục tiết kiệm (dấu +), nêu rõ số tiền chênh lệch.\n" +
	"2️⃣ So sánh tổng chi tiêu và thu nhập để xác định thặng dư hoặc thâm hụt.\n" +
	"3️⃣ Phát hiện 2–3 xu hướng nổi bật trong chi tiêu.\n" +
	"4️⃣ Đưa ra 2–3 khuyến nghị cụ thể giúp cải thiện cân bằng tài chính.\n\n" +
	"📋 Định dạng đầu ra (HTML-friendly cho Telegram):\n" +
	"🧾 <b>Tóm tắt:</b> Một đoạn ngắn mô tả tình hình tài chính tháng.\n" +
	"📊 <b>Phân tích chi tiêu vượt ngân sách:</b> Liệt kê rõ từng mục vượt và tiết kiệm.\n" +
	"📈 <b>Xu hướng chi tiêu:</b> 2–3 xu hướng nổi bật.\n" +
	"💡 <b>Khuyến nghị:</b> 2–3 gợi ý cụ thể.\n\n" +
	"💬 <b>Yêu cầu:</b>\n" +
	"- Giọng văn thân thiện, chuyên nghiệp, có cảm xúc.\n" +
	"- Sử dụng emoji phù hợp (🧾📊📈💡💰✨...) để tăng tính dễ đọc.\n"

// Analyzer reviews month reports with a generative model.
type Analyzer struct {
	model string
	log   zerolog.Logger
}

// New builds an analyzer for the given model name.
func New(model string, log zerolog.Logger) *Analyzer {
	return &Analyzer{model: model, log: log}
}

// MonthInsights sends the rendered month report to the model and
// returns its review as Telegram-ready HTML.
func (a *Analyzer) MonthInsights(ctx context.Context, report string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: systemPrompt},
				{Text: report},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate month insights: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	a.log.Info().Str("model", a.model).Int("chars", len(text)).Msg("month insights generated")
	return MarkdownToHTML(text), nil
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
)

// MarkdownToHTML converts the bold and italic markers models tend to
// emit into the HTML tags Telegram accepts.
func MarkdownToHTML(text string) string {
	text = boldRe.ReplaceAllString(text, "<b>$1</b>")
	text = italicRe.ReplaceAllString(text, "<i>$1</i>")
	return text
}
