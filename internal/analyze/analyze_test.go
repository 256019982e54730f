package analyze

import "testing"

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**Tóm tắt:** chi tiêu ổn định", "<b>Tóm tắt:</b> chi tiêu ổn định"},
		{"*lưu ý* nhỏ", "<i>lưu ý</i> nhỏ"},
		{"**đậm** và *nghiêng*", "<b>đậm</b> và <i>nghiêng</i>"},
		{"không có định dạng", "không có định dạng"},
	}
	for _, tt := range tests {
		if got := MarkdownToHTML(tt.in); got != tt.want {
			t.Errorf("MarkdownToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
