// Package bot routes chat messages to the expense engine. The
// transport is deliberately out of scope: anything that can deliver a
// text and carry a reply back (Telegram shim, REPL, test harness) can
// drive the Router.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/parser"
	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// Summaries answers the reporting commands.
type Summaries interface {
	Today(ctx context.Context) (string, error)
	Week(ctx context.Context, offset int) (string, error)
	Month(ctx context.Context, offset int) (string, error)
	CategoryMonth(ctx context.Context, cat category.Category, offset int) (string, error)
	Income(ctx context.Context, offset int) (string, error)
	SetSalary(ctx context.Context, offset int, amount int64) (string, error)
	SetFreelance(ctx context.Context, offset int, amount int64) (string, error)
	SortMonth(ctx context.Context, offset int) (string, error)
	SyncConfig(ctx context.Context) (string, error)
}

// Assets answers the asset commands and mirrors investment purchases.
type Assets interface {
	AssetsReport(ctx context.Context) (string, error)
	ProfitReport(ctx context.Context) (string, error)
	PriceReport(ctx context.Context) string
	Migrate(ctx context.Context) (string, error)
	RecordPurchase(ctx context.Context, d domain.Draft) error
}

// Insights reviews a rendered month report with a model.
type Insights interface {
	MonthInsights(ctx context.Context, report string) (string, error)
}

// Writer accepts expense rows for batched writing.
type Writer interface {
	Submit(ctx context.Context, sheet string, row []any) error
}

// DataSource reads partition rows for the delete scan.
type DataSource interface {
	Rows(ctx context.Context, sheet string) ([][]string, error)
	Invalidate(sheet string)
}

// RowDeleter removes a row from a partition.
type RowDeleter interface {
	DeleteRow(ctx context.Context, name string, row int) error
}

// Router turns incoming messages into engine calls and reply text.
type Router struct {
	parser    *parser.Parser
	summaries Summaries
	assets    Assets
	insights  Insights
	writer    Writer
	data      DataSource
	store     RowDeleter
	log       zerolog.Logger
}

// New wires a router. insights may be nil when no model is configured.
func New(p *parser.Parser, summaries Summaries, assets Assets, insights Insights, writer Writer, data DataSource, store RowDeleter, log zerolog.Logger) *Router {
	return &Router{
		parser:    p,
		summaries: summaries,
		assets:    assets,
		insights:  insights,
		writer:    writer,
		data:      data,
		store:     store,
		log:       log,
	}
}

var printer = message.NewPrinter(language.English)

// Handle processes one chat message and returns the reply text.
// Commands start with "/"; "del ..." deletes; everything else is an
// expense entry.
func (r *Router) Handle(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return helpMessage()
	case strings.HasPrefix(text, "/"):
		return r.Command(ctx, strings.TrimPrefix(text, "/"))
	case strings.HasPrefix(strings.ToLower(text), "del "):
		return r.deleteExpense(ctx, text)
	default:
		return r.logExpense(ctx, text)
	}
}

// Command dispatches a bare command line like "month -1" or "salary 80000".
func (r *Router) Command(ctx context.Context, cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return helpMessage()
	}
	name, args := strings.ToLower(parts[0]), parts[1:]

	switch name {
	case "start", "st", "help", "h":
		return helpMessage()
	case "today", "t":
		return r.reply(r.summaries.Today(ctx))
	case "week", "w":
		return r.reply(r.summaries.Week(ctx, offsetArg(args)))
	case "month", "m":
		return r.reply(r.summaries.Month(ctx, offsetArg(args)))
	case "gas", "g":
		return r.reply(r.summaries.CategoryMonth(ctx, category.Gas, offsetArg(args)))
	case "food", "f":
		return r.reply(r.summaries.CategoryMonth(ctx, category.Food, offsetArg(args)))
	case "dating", "d":
		return r.reply(r.summaries.CategoryMonth(ctx, category.Dating, offsetArg(args)))
	case "other", "o":
		return r.reply(r.summaries.CategoryMonth(ctx, category.Other, offsetArg(args)))
	case "investment", "i":
		return r.reply(r.summaries.CategoryMonth(ctx, category.Investment, offsetArg(args)))
	case "income", "inc":
		return r.reply(r.summaries.Income(ctx, offsetArg(args)))
	case "salary", "sl":
		return r.setIncome(ctx, args, "salary", r.summaries.SetSalary)
	case "freelance", "fl":
		return r.setIncome(ctx, args, "freelance", r.summaries.SetFreelance)
	case "sort", "s":
		return r.reply(r.summaries.SortMonth(ctx, offsetArg(args)))
	case "ai", "a":
		return r.aiAnalyze(ctx, offsetArg(args))
	case "assets":
		return r.reply(r.assets.AssetsReport(ctx))
	case "profit":
		return r.reply(r.assets.ProfitReport(ctx))
	case "price":
		return r.assets.PriceReport(ctx)
	case "migrate_assets":
		return r.reply(r.assets.Migrate(ctx))
	case "sync_config":
		return r.reply(r.summaries.SyncConfig(ctx))
	case "categories":
		return categoriesMessage()
	case "keywords":
		return keywordsMessage()
	}
	return fmt.Sprintf("❓ Lệnh không hợp lệ: /%s\n\nGõ /help để xem hướng dẫn.", name)
}

func (r *Router) reply(text string, err error) string {
	if err != nil {
		r.log.Error().Err(err).Msg("command failed")
		return fmt.Sprintf("❌ Không thể lấy dữ liệu. Vui lòng thử lại!\n\nLỗi: %v", err)
	}
	return text
}

func (r *Router) setIncome(ctx context.Context, args []string, name string, set func(context.Context, int, int64) (string, error)) string {
	var offset int
	var amount int64
	var err error
	switch len(args) {
	case 1:
		amount, err = strconv.ParseInt(args[0], 10, 64)
	case 2:
		offset, _ = strconv.Atoi(args[0])
		amount, err = strconv.ParseInt(args[1], 10, 64)
	default:
		err = errors.New("missing amount")
	}
	if err != nil {
		return fmt.Sprintf("❌ Cách dùng: /%s [số tiền]", name)
	}
	return r.reply(set(ctx, offset, amount))
}

func (r *Router) aiAnalyze(ctx context.Context, offset int) string {
	if r.insights == nil {
		return "❌ Phân tích AI chưa được cấu hình."
	}
	report, err := r.summaries.Month(ctx, offset)
	if err != nil {
		return r.reply("", err)
	}
	return r.reply(r.insights.MonthInsights(ctx, report))
}

// logExpense parses an entry, queues the write, and mirrors investment
// purchases into the asset tab.
func (r *Router) logExpense(ctx context.Context, text string) string {
	draft, err := r.parser.ParseEntry(text)
	if err != nil {
		if errors.Is(err, parser.ErrFormat) {
			return logExpenseUsage
		}
		return "❌ Lỗi định dạng số tiền!\n\n📝 Các định dạng hỗ trợ:\n• 1000 ăn trưa\n• 02/09 5000 cafe\n• 02/09 08:30 15000 breakfast"
	}

	if err := r.writer.Submit(ctx, draft.Month, []any{draft.Date, draft.Time, draft.Amount, draft.Note}); err != nil {
		r.log.Error().Err(err).Str("sheet", draft.Month).Msg("expense write failed")
		return fmt.Sprintf("❌ Có lỗi xảy ra. Vui lòng thử lại!\n\nLỗi: %v", err)
	}

	if err := r.assets.RecordPurchase(ctx, draft); err != nil {
		r.log.Error().Err(err).Msg("asset mirror failed")
	}

	reply := fmt.Sprintf("✅ Đã ghi nhận:\n💰 %s VND\n📝 %s\n📅 %s %s\n📄 Sheet: %s",
		printer.Sprintf("%d", draft.Amount), draft.Note, draft.Date, draft.Time, draft.Month)
	if draft.NeedsNote {
		reply += "\n\n💡 Mẹo: thêm ghi chú để phân loại chính xác hơn."
	}
	return reply
}

// deleteExpense finds the row with the exact normalized date and time
// and removes it.
func (r *Router) deleteExpense(ctx context.Context, text string) string {
	req, err := r.parser.ParseDelete(text)
	if err != nil {
		return deleteExpenseUsage
	}

	values, err := r.data.Rows(ctx, req.Month)
	if err != nil {
		r.log.Error().Err(err).Str("sheet", req.Month).Msg("delete scan failed")
		return fmt.Sprintf("❌ Không thể truy cập Google Sheets. Vui lòng thử lại!\n\nLỗi: %v", err)
	}
	if len(values) < 2 {
		return "❌ Không có dữ liệu trong sheet này."
	}

	// Rows start at 2: row 1 is the header.
	for i, row := range values[1:] {
		if len(row) < 2 {
			continue
		}
		rowDate := textnorm.NormalizeDate(strings.TrimSpace(row[0]))
		rowTime := textnorm.NormalizeTime(strings.TrimSpace(row[1]))
		if rowDate != req.Date || rowTime != req.Time {
			continue
		}

		if err := r.store.DeleteRow(ctx, req.Month, i+2); err != nil {
			r.log.Error().Err(err).Str("sheet", req.Month).Int("row", i+2).Msg("delete failed")
			return fmt.Sprintf("❌ Có lỗi xảy ra khi xóa giao dịch. Vui lòng thử lại!\n\nLỗi: %v", err)
		}
		r.data.Invalidate(req.Month)
		return fmt.Sprintf("✅ Đã xóa giao dịch: %s %s", req.Date, req.Time)
	}

	return fmt.Sprintf("❌ Không tìm thấy giao dịch: %s %s", req.Date, req.Time)
}

func offsetArg(args []string) int {
	if len(args) == 0 {
		return 0
	}
	offset, err := strconv.Atoi(args[0])
	if err != nil {
		return 0
	}
	return offset
}
